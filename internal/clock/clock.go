// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package clock abstracts the wall clock and one-shot timers so that
// time-driven behaviour (session auto-lock, key cache expiry) can be driven
// deterministically in tests.
//
// Production code uses [Real]; tests use [Fake] and move time forward with
// [FakeClock.Advance].
package clock

import "time"

// Clock is the subset of the time package used by the vault.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc waits for d to elapse and then calls f. The returned Timer
	// can cancel or re-arm the pending call.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable scheduled call created by [Clock.AfterFunc].
type Timer interface {
	// Stop prevents the call from firing. It reports whether the call was
	// still pending.
	Stop() bool

	// Reset re-arms the timer to fire d after the current time. It reports
	// whether the timer was pending before the reset.
	Reset(d time.Duration) bool
}
