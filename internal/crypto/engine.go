// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"crypto/rand"
	"io"
	"unicode/utf8"

	"github.com/MKhiriev/zk-vault/internal/logger"
	"github.com/MKhiriev/zk-vault/models"
)

// MaxPlaintextLength bounds the plaintext accepted by Encrypt, in characters.
const MaxPlaintextLength = 10_000

// Engine encrypts and decrypts credential strings under the key derived
// from the active session. Payloads are small and processed whole.
type Engine struct {
	keys    KeyProvider
	session SessionSource
	random  io.Reader
	logger  *logger.Logger
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithRandom replaces the IV source. Intended for tests and probes; the
// default is crypto/rand.Reader.
func WithRandom(r io.Reader) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.random = r
		}
	}
}

// NewEngine constructs an Engine.
func NewEngine(keys KeyProvider, session SessionSource, log *logger.Logger, opts ...EngineOption) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	e := &Engine{
		keys:    keys,
		session: session,
		random:  rand.Reader,
		logger:  log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encrypt seals plaintext under the key of userID, or of the session's own
// identity when userID is empty. A userID that differs from the session's
// identity is accepted; the payload records whichever identity was used.
//
// Errors: ErrValidation for empty, oversized or non-UTF-8 plaintext;
// ErrSession when the vault is locked; ErrCryptoOperation when key
// derivation, the random source or the cipher fails.
func (e *Engine) Encrypt(ctx context.Context, plaintext string, userID string) (models.EncryptedPayload, error) {
	const op = "encrypt"

	if plaintext == "" {
		return models.EncryptedPayload{}, validationError(op, "plaintext must not be empty")
	}
	if !utf8.ValidString(plaintext) {
		return models.EncryptedPayload{}, validationError(op, "plaintext is not valid UTF-8")
	}
	if utf8.RuneCountInString(plaintext) > MaxPlaintextLength {
		return models.EncryptedPayload{}, validationError(op, "plaintext exceeds 10000 characters")
	}

	key, identity, err := e.resolveKey(ctx, op, userID)
	if err != nil {
		return models.EncryptedPayload{}, err
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(e.random, iv); err != nil {
		e.logger.Error().Err(err).Str("func", "Engine.Encrypt").Msg("random source failed")
		return models.EncryptedPayload{}, cryptoError(op, "generate iv", err)
	}

	ciphertext := key.seal(iv, []byte(plaintext))

	e.logger.Debug().
		Str("user_id", identity).
		Int("ciphertext_len", len(ciphertext)).
		Msg("sealed payload")

	return models.EncryptedPayload{
		Ciphertext:    ciphertext,
		IV:            iv,
		UserID:        identity,
		Algorithm:     Algorithm,
		SchemaVersion: SchemaVersion,
	}, nil
}

// Decrypt opens ciphertext sealed with iv under the key of userID (or of
// the session identity when userID is empty).
//
// Errors: ErrValidation for empty or malformed inputs; ErrSession when the
// vault is locked; ErrIntegrity when authentication fails (wrong key or
// tampered data); ErrCryptoOperation when derivation fails or the result is
// not valid text.
func (e *Engine) Decrypt(ctx context.Context, ciphertext, iv models.ByteArray, userID string) (string, error) {
	const op = "decrypt"

	if len(ciphertext) == 0 {
		return "", validationError(op, "ciphertext must not be empty")
	}
	if len(iv) == 0 {
		return "", validationError(op, "iv must not be empty")
	}
	if len(iv) != IVSize {
		return "", validationError(op, "iv must be 16 bytes")
	}

	key, identity, err := e.resolveKey(ctx, op, userID)
	if err != nil {
		return "", err
	}

	plain, err := key.open(iv, ciphertext)
	if err != nil {
		e.logger.Warn().
			Str("func", "Engine.Decrypt").
			Str("user_id", identity).
			Msg("payload failed authentication")
		return "", integrityError(op)
	}
	defer Wipe(plain)

	if !utf8.Valid(plain) {
		return "", cryptoError(op, "decryption did not yield valid text", nil)
	}
	return string(plain), nil
}

// DecryptPayload checks the payload's algorithm tag and schema version and
// decrypts it under the identity recorded in the payload.
func (e *Engine) DecryptPayload(ctx context.Context, payload models.EncryptedPayload) (string, error) {
	const op = "decrypt payload"

	if payload.Algorithm != Algorithm {
		return "", validationError(op, "unsupported algorithm "+payload.Algorithm)
	}
	if payload.SchemaVersion != SchemaVersion {
		return "", validationError(op, "unsupported schema version")
	}
	return e.Decrypt(ctx, payload.Ciphertext, payload.IV, payload.UserID)
}

// resolveKey reads the active session and derives the key for userID, or
// for the session identity when userID is empty.
func (e *Engine) resolveKey(ctx context.Context, op, userID string) (*Key, string, error) {
	creds, err := e.session.Current()
	if err != nil {
		return nil, "", err
	}
	defer creds.Wipe()

	identity := userID
	if identity == "" {
		identity = creds.UserID
	} else if identity != creds.UserID {
		e.logger.Debug().
			Str("op", op).
			Str("session_user_id", creds.UserID).
			Str("user_id", identity).
			Msg("user id override differs from session identity")
	}

	key, err := e.keys.DeriveKey(ctx, creds.MasterSecret, identity, true)
	if err != nil {
		return nil, "", err
	}
	return key, identity, nil
}
