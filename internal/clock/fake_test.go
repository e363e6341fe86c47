package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFake_NowStandsStill(t *testing.T) {
	c := Fake(epoch)
	assert.Equal(t, epoch, c.Now())
	assert.Equal(t, epoch, c.Now())

	c.Advance(time.Minute)
	assert.Equal(t, epoch.Add(time.Minute), c.Now())
}

func TestFake_AfterFunc_FiresOnDeadline(t *testing.T) {
	c := Fake(epoch)
	fired := 0
	c.AfterFunc(10*time.Second, func() { fired++ })

	c.Advance(9 * time.Second)
	assert.Equal(t, 0, fired)

	c.Advance(time.Second)
	assert.Equal(t, 1, fired)

	// one-shot
	c.Advance(time.Hour)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, c.Pending())
}

func TestFake_AfterFunc_NonPositiveRunsImmediately(t *testing.T) {
	c := Fake(epoch)
	fired := false
	timer := c.AfterFunc(0, func() { fired = true })

	assert.True(t, fired)
	assert.False(t, timer.Stop())
}

func TestFake_Stop(t *testing.T) {
	c := Fake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(time.Minute)
	assert.False(t, fired)
}

func TestFake_Reset(t *testing.T) {
	c := Fake(epoch)
	fired := 0
	timer := c.AfterFunc(10*time.Second, func() { fired++ })

	c.Advance(8 * time.Second)
	assert.True(t, timer.Reset(10*time.Second))

	c.Advance(8 * time.Second)
	assert.Equal(t, 0, fired, "reset must push the deadline forward")

	c.Advance(2 * time.Second)
	assert.Equal(t, 1, fired)

	// a fired timer can be re-armed
	assert.False(t, timer.Reset(time.Second))
	c.Advance(time.Second)
	assert.Equal(t, 2, fired)
}

func TestFake_FiresInDeadlineOrder(t *testing.T) {
	c := Fake(epoch)
	var order []int
	c.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	c.AfterFunc(1*time.Second, func() { order = append(order, 1) })
	c.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	c.Advance(5 * time.Second)
	require.Len(t, order, 3)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestFake_CallbackMayUseClock(t *testing.T) {
	c := Fake(epoch)
	var rearmed Timer
	fired := 0
	c.AfterFunc(time.Second, func() {
		fired++
		rearmed = c.AfterFunc(time.Second, func() { fired++ })
	})

	assert.NotPanics(t, func() { c.Advance(time.Second) })
	require.NotNil(t, rearmed)
	assert.Equal(t, 1, fired)

	c.Advance(time.Second)
	assert.Equal(t, 2, fired)
}

func TestReal_AfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real().AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("real timer did not fire")
	}
}
