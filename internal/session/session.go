// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session holds the single unlocked vault session of the process.
//
// A [Manager] is either Locked (initial state) or Unlocked. Unlock moves it
// to Unlocked and arms an auto-lock timer; Lock, the timer firing, or a
// newer Unlock (which replaces rather than stacks) end the session. The
// master secret is overwritten before it is released.
package session

import (
	"sync"
	"time"

	"github.com/MKhiriev/zk-vault/internal/clock"
	"github.com/MKhiriev/zk-vault/internal/crypto"
	"github.com/MKhiriev/zk-vault/internal/logger"
)

// DefaultTimeout is how long a session stays unlocked without Extend.
const DefaultTimeout = time.Hour

// Lock reasons passed to OnLock hooks and written to the log.
const (
	ReasonExplicit   = "explicit"
	ReasonTimeout    = "timeout"
	ReasonSuperseded = "superseded"
)

type unlocked struct {
	masterSecret []byte
	userID       string
	expiresAt    time.Time
	timer        clock.Timer
	generation   uint64
}

// Manager owns the process-wide unlocked session. It is safe for concurrent
// use; concurrent Unlock calls resolve last-writer-wins.
type Manager struct {
	mu         sync.Mutex
	clock      clock.Clock
	timeout    time.Duration
	onLock     []func(reason string)
	logger     *logger.Logger
	current    *unlocked
	generation uint64
}

// Option customises a Manager.
type Option func(*Manager)

// WithClock injects the clock driving the auto-lock timer.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithOnLock registers a hook run every time a session ends, whatever the
// reason. Hooks run with the manager's lock held and must not call back
// into the Manager.
func WithOnLock(hook func(reason string)) Option {
	return func(m *Manager) {
		if hook != nil {
			m.onLock = append(m.onLock, hook)
		}
	}
}

// NewManager returns a Manager in the Locked state.
func NewManager(log *logger.Logger, opts ...Option) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	m := &Manager{
		clock:   clock.Real(),
		timeout: DefaultTimeout,
		logger:  log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Unlock validates masterSecret, destroys any previous session and stores
// the new one, arming the auto-lock timer.
func (m *Manager) Unlock(masterSecret, userID string) error {
	const op = "unlock"

	secret := []byte(masterSecret)
	if err := crypto.ValidateMasterSecret(op, secret); err != nil {
		crypto.Wipe(secret)
		return err
	}
	if userID == "" {
		crypto.Wipe(secret)
		return crypto.NewValidationError(op, "user id must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.lockLocked(ReasonSuperseded)
	}

	m.generation++
	gen := m.generation
	s := &unlocked{
		masterSecret: secret,
		userID:       userID,
		expiresAt:    m.clock.Now().Add(m.timeout),
		generation:   gen,
	}
	s.timer = m.clock.AfterFunc(m.timeout, func() { m.expire(gen) })
	m.current = s

	m.logger.Info().
		Str("user_id", userID).
		Dur("timeout", m.timeout).
		Msg("vault unlocked")
	return nil
}

// Current returns a copy of the active session's credentials. The caller
// owns the copy and should wipe it. An ErrSession error means the vault is
// not unlocked for crypto purposes.
func (m *Manager) Current() (crypto.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.activeLocked() {
		return crypto.Credentials{}, crypto.NewSessionError("current session", "vault is locked")
	}

	secret := make([]byte, len(m.current.masterSecret))
	copy(secret, m.current.masterSecret)
	return crypto.Credentials{MasterSecret: secret, UserID: m.current.userID}, nil
}

// Lock ends the active session, wiping the master secret and cancelling the
// timer. Calling Lock on a locked Manager does nothing.
func (m *Manager) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.lockLocked(ReasonExplicit)
	}
}

// Extend restarts the auto-lock countdown. It reports false when no session
// is active.
func (m *Manager) Extend() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.activeLocked() {
		return false
	}
	m.current.timer.Reset(m.timeout)
	m.current.expiresAt = m.clock.Now().Add(m.timeout)
	return true
}

// IsUnlocked reports whether a session is active.
func (m *Manager) IsUnlocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.activeLocked()
}

// ExpiresAt returns the auto-lock deadline of the active session.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.activeLocked() {
		return time.Time{}, false
	}
	return m.current.expiresAt, true
}

// UserID returns the identity of the active session.
func (m *Manager) UserID() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.activeLocked() {
		return "", false
	}
	return m.current.userID, true
}

// expire is the auto-lock timer callback. It ignores timers belonging to a
// session that has since been replaced.
func (m *Manager) expire(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && m.current.generation == gen {
		m.lockLocked(ReasonTimeout)
	}
}

// activeLocked reports whether a live session exists, locking an expired
// one whose timer has not run yet. m.mu must be held.
func (m *Manager) activeLocked() bool {
	if m.current == nil {
		return false
	}
	if !m.clock.Now().Before(m.current.expiresAt) {
		m.lockLocked(ReasonTimeout)
		return false
	}
	return true
}

// lockLocked tears down the active session. m.mu must be held.
func (m *Manager) lockLocked(reason string) {
	s := m.current
	m.current = nil

	s.timer.Stop()
	crypto.Wipe(s.masterSecret)
	s.masterSecret = nil

	for _, hook := range m.onLock {
		hook(reason)
	}

	m.logger.Info().
		Str("user_id", s.userID).
		Str("reason", reason).
		Msg("vault locked")
}
