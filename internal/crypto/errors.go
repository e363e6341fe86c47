// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package and by the session
// manager matches exactly one of them via [errors.Is].
var (
	// ErrValidation marks malformed caller input: empty or oversized
	// plaintext, malformed byte sequences, out-of-range master secret.
	ErrValidation = errors.New("validation error")

	// ErrSession marks the absence of an unlocked session.
	ErrSession = errors.New("session error")

	// ErrCryptoOperation marks a failure of an underlying primitive
	// (derivation, cipher construction, random source, text decoding).
	ErrCryptoOperation = errors.New("crypto operation error")

	// ErrIntegrity marks an authentication-tag mismatch on decryption:
	// wrong key or tampered/corrupted data.
	ErrIntegrity = errors.New("integrity error")
)

// Error carries the kind of a failure together with the operation that
// produced it and a human-readable reason. It never holds sensitive values.
type Error struct {
	// Kind is one of ErrValidation, ErrSession, ErrCryptoOperation or
	// ErrIntegrity.
	Kind error
	// Op names the failing operation, e.g. "encrypt" or "derive key".
	Op string
	// Reason is a short description safe to show in logs.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the kind sentinel err belongs to, or nil when err is nil or
// was not produced by the vault core.
func KindOf(err error) error {
	for _, kind := range []error{ErrIntegrity, ErrSession, ErrValidation, ErrCryptoOperation} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

func validationError(op, reason string) error {
	return &Error{Kind: ErrValidation, Op: op, Reason: reason}
}

func sessionError(op, reason string) error {
	return &Error{Kind: ErrSession, Op: op, Reason: reason}
}

func cryptoError(op, reason string, err error) error {
	return &Error{Kind: ErrCryptoOperation, Op: op, Reason: reason, Err: err}
}

func integrityError(op string) error {
	return &Error{Kind: ErrIntegrity, Op: op, Reason: "wrong key or corrupted/tampered data"}
}

// NewValidationError builds an ErrValidation error for callers outside this
// package (the session manager shares the taxonomy).
func NewValidationError(op, reason string) error {
	return validationError(op, reason)
}

// NewSessionError builds an ErrSession error.
func NewSessionError(op, reason string) error {
	return sessionError(op, reason)
}
