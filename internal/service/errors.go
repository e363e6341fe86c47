// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"

	"github.com/MKhiriev/zk-vault/internal/crypto"
)

var (
	// ErrUnsupportedEnvironment is returned by HealthCheck when the capability
	// probe reports blocking issues.
	ErrUnsupportedEnvironment = errors.New("environment cannot support the vault")

	// ErrSelfTestFailed is returned by HealthCheck when the encrypt/decrypt
	// round trip does not reproduce its input.
	ErrSelfTestFailed = errors.New("vault self-test failed")

	// ErrNotOwner is returned when a payload belongs to a different userId
	// than the unlocked session.
	ErrNotOwner = errors.New("payload belongs to another user")
)

// User-facing texts for each error kind.
const (
	MsgSessionRequired = "please unlock/sign in again"
	MsgUndecryptable   = "this item could not be decrypted"
	MsgSecurityFailure = "security system error, please retry"
)

// UserMessage maps err to the text a user interface should show. It never
// echoes err itself, so nothing sensitive reaches the screen.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, crypto.ErrSession), errors.Is(err, ErrNotOwner):
		return MsgSessionRequired
	case errors.Is(err, crypto.ErrIntegrity):
		return MsgUndecryptable
	default:
		return MsgSecurityFailure
	}
}
