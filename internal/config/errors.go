// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is invalid.
var (
	// ErrInvalidAppConfigs indicates an unknown log level or a malformed origin.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidVaultConfigs indicates a negative duration or a KDF work
	// factor below [MinKDFIterations].
	ErrInvalidVaultConfigs = errors.New("invalid vault configuration")
	// ErrInvalidIdentityConfigs indicates an identity token without a key to
	// verify it.
	ErrInvalidIdentityConfigs = errors.New("invalid identity configuration")
	// ErrInvalidStorageConfigs indicates a postgres DSN that cannot be parsed
	// or names no host.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
)
