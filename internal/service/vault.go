// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/MKhiriev/zk-vault/internal/clock"
	"github.com/MKhiriev/zk-vault/internal/config"
	"github.com/MKhiriev/zk-vault/internal/crypto"
	"github.com/MKhiriev/zk-vault/internal/identity"
	"github.com/MKhiriev/zk-vault/internal/logger"
	"github.com/MKhiriev/zk-vault/internal/session"
	"github.com/MKhiriev/zk-vault/internal/store"
	"github.com/MKhiriev/zk-vault/models"
)

// VaultService wires the session manager, key deriver and cipher engine to
// the payload store. It is the only surface the CLI talks to.
type VaultService struct {
	sessions *session.Manager
	keys     *crypto.KeyDeriver
	engine   *crypto.Engine
	payloads store.PayloadRepository
	verifier TokenVerifier
	ids      IDGenerator
	clock    clock.Clock
	logger   *logger.Logger
}

type options struct {
	clock    clock.Clock
	random   io.Reader
	ids      IDGenerator
	verifier TokenVerifier
}

// Option customises a VaultService.
type Option func(*options)

// WithClock drives session expiry, key cache TTL and record timestamps.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithRandom replaces the IV source of the cipher engine.
func WithRandom(r io.Reader) Option {
	return func(o *options) { o.random = r }
}

// WithIDGenerator sets the source of record ids used by Seal.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) { o.ids = g }
}

// WithVerifier overrides the identity verifier built from configuration.
func WithVerifier(v TokenVerifier) Option {
	return func(o *options) { o.verifier = v }
}

// NewVaultService builds the whole crypto stack from cfg. Locking the
// session, for any reason, also empties the derived key cache.
func NewVaultService(cfg config.StructuredConfig, payloads store.PayloadRepository, log *logger.Logger, opts ...Option) *VaultService {
	o := options{
		clock: clock.Real(),
		ids:   NewUUIDGenerator(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.verifier == nil && cfg.Identity.SignKey != "" {
		o.verifier = identity.NewVerifier(cfg.Identity.SignKey, cfg.Identity.Issuer)
	}

	cache := crypto.NewKeyCache(cfg.Vault.KeyCacheTTL, o.clock)
	keys := crypto.NewKeyDeriver(cache, log, crypto.WithIterations(cfg.Vault.KDFIterations))

	sessions := session.NewManager(log,
		session.WithClock(o.clock),
		session.WithTimeout(cfg.Vault.SessionTimeout),
		session.WithOnLock(func(string) { keys.ClearCache() }),
	)

	var engineOpts []crypto.EngineOption
	if o.random != nil {
		engineOpts = append(engineOpts, crypto.WithRandom(o.random))
	}

	return &VaultService{
		sessions: sessions,
		keys:     keys,
		engine:   crypto.NewEngine(keys, sessions, log, engineOpts...),
		payloads: payloads,
		verifier: o.verifier,
		ids:      o.ids,
		clock:    o.clock,
		logger:   log,
	}
}

// Unlock opens a session for userID.
func (s *VaultService) Unlock(masterSecret, userID string) error {
	return s.sessions.Unlock(masterSecret, userID)
}

// UnlockWithToken resolves the userId from an identity token, then unlocks.
// A rejected token is a session error: the user has to sign in again.
func (s *VaultService) UnlockWithToken(masterSecret, token string) error {
	if s.verifier == nil {
		return fmt.Errorf("%w: %w", crypto.NewSessionError("unlock", "identity verification unavailable"), identity.ErrNotConfigured)
	}

	userID, err := s.verifier.UserID(token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("identity token rejected")
		return fmt.Errorf("%w: %w", crypto.NewSessionError("unlock", "identity token rejected"), err)
	}

	return s.sessions.Unlock(masterSecret, userID)
}

func (s *VaultService) Lock() {
	s.sessions.Lock()
}

func (s *VaultService) Extend() bool {
	return s.sessions.Extend()
}

func (s *VaultService) IsUnlocked() bool {
	return s.sessions.IsUnlocked()
}

// ExpiresAt reports when the current session auto-locks.
func (s *VaultService) ExpiresAt() (time.Time, bool) {
	return s.sessions.ExpiresAt()
}

// Seal encrypts plaintext for the session's user and stores it under a new
// id, which is returned.
func (s *VaultService) Seal(ctx context.Context, label, plaintext string) (string, error) {
	payload, err := s.engine.Encrypt(ctx, plaintext, "")
	if err != nil {
		return "", err
	}

	record := models.StoredPayload{
		ID:        s.ids.Generate(),
		Label:     label,
		Payload:   payload,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err = s.payloads.Save(ctx, record); err != nil {
		return "", fmt.Errorf("error saving payload: %w", err)
	}

	s.logger.Info().
		Str("id", record.ID).
		Str("user_id", payload.UserID).
		Msg("payload sealed")

	return record.ID, nil
}

// Open loads and decrypts a payload owned by the session's user.
func (s *VaultService) Open(ctx context.Context, id string) (string, error) {
	userID, err := s.currentUser("open")
	if err != nil {
		return "", err
	}

	record, err := s.payloads.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("error loading payload: %w", err)
	}
	if record.Payload.UserID != userID {
		return "", ErrNotOwner
	}

	return s.engine.DecryptPayload(ctx, record.Payload)
}

// List returns the records owned by the session's user. Ciphertext is
// returned as stored; nothing is decrypted.
func (s *VaultService) List(ctx context.Context) ([]models.StoredPayload, error) {
	userID, err := s.currentUser("list")
	if err != nil {
		return nil, err
	}

	records, err := s.payloads.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing payloads: %w", err)
	}
	return records, nil
}

// Delete removes a record owned by the session's user.
func (s *VaultService) Delete(ctx context.Context, id string) error {
	userID, err := s.currentUser("delete")
	if err != nil {
		return err
	}

	record, err := s.payloads.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("error loading payload: %w", err)
	}
	if record.Payload.UserID != userID {
		return ErrNotOwner
	}

	if err = s.payloads.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting payload: %w", err)
	}
	return nil
}

func (s *VaultService) currentUser(op string) (string, error) {
	userID, ok := s.sessions.UserID()
	if !ok {
		return "", crypto.NewSessionError(op, "vault is locked")
	}
	return userID, nil
}
