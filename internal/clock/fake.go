// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a deterministic [Clock]. Time stands still until Advance is
// called; pending AfterFunc callbacks fire synchronously inside Advance in
// deadline order.
//
// FakeClock is safe for concurrent use. Callbacks run without the clock's
// lock held, so they may call Now, AfterFunc and Timer methods freely.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	timers  []*fakeTimer
}

type fakeTimer struct {
	clock    *FakeClock
	deadline time.Time
	callback func()
	pending  bool
	// queued is set while the timer sits in clock.timers.
	queued bool
}

// Fake returns a FakeClock set to initial.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc schedules f to run once the clock has been advanced by d.
// A non-positive d runs f synchronously before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{clock: c, callback: f}
	if d <= 0 {
		f()
		return t
	}

	c.mu.Lock()
	t.deadline = c.current.Add(d)
	t.pending = true
	t.queued = true
	c.timers = append(c.timers, t)
	c.mu.Unlock()

	return t
}

// Advance moves the clock forward by d and fires every pending timer whose
// deadline is not after the new time.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	now := c.current

	var due []*fakeTimer
	remaining := c.timers[:0]
	for _, t := range c.timers {
		switch {
		case !t.pending:
			t.queued = false
		case !t.deadline.After(now):
			t.pending = false
			t.queued = false
			due = append(due, t)
		default:
			remaining = append(remaining, t)
		}
	}
	c.timers = remaining
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, t := range due {
		t.callback()
	}
}

// Pending returns the number of timers that have not fired or been stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if t.pending {
			n++
		}
	}
	return n
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	wasPending := t.pending
	t.pending = false
	return wasPending
}

func (t *fakeTimer) Reset(d time.Duration) bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	wasPending := t.pending
	t.deadline = t.clock.current.Add(d)
	t.pending = true
	if !t.queued {
		t.queued = true
		t.clock.timers = append(t.clock.timers, t)
	}
	return wasPending
}
