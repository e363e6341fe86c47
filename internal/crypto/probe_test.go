package crypto

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/zk-vault/internal/clock"
	"github.com/stretchr/testify/assert"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestProbe_Supported(t *testing.T) {
	r := Probe(ProbeOptions{})
	assert.True(t, r.Supported)
	assert.Empty(t, r.Issues)
	assert.Empty(t, r.Warnings)
}

func TestProbe_BrokenRandom(t *testing.T) {
	r := Probe(ProbeOptions{Random: failingReader{}})
	assert.False(t, r.Supported)
	assert.Len(t, r.Issues, 1)
	assert.Contains(t, r.Issues[0], "secure random source")
}

func TestProbe_ZeroRandom(t *testing.T) {
	r := Probe(ProbeOptions{Random: bytes.NewReader(make([]byte, 64))})
	assert.False(t, r.Supported)
}

func TestProbe_TimingWarning(t *testing.T) {
	r := Probe(ProbeOptions{Clock: clock.Fake(time.Unix(0, 0))})
	assert.True(t, r.Supported, "warnings are not fatal")
	assert.Equal(t, []string{"high-resolution monotonic timing unavailable"}, r.Warnings)
}

func TestProbe_OriginWarnings(t *testing.T) {
	tests := []struct {
		origin string
		warn   bool
	}{
		{"", false},
		{"https://vault.example.com", false},
		{"http://localhost:8080", false},
		{"http://127.0.0.1", false},
		{"http://[::1]:3000", false},
		{"http://vault.example.com", true},
		{"http://10.0.0.5", true},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			r := Probe(ProbeOptions{Origin: tt.origin})
			assert.True(t, r.Supported)
			if tt.warn {
				assert.Contains(t, r.Warnings, "insecure transport on non-loopback host")
			} else {
				assert.Empty(t, r.Warnings)
			}
		})
	}
}
