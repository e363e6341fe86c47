// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Defaults applied to any field left unset by every configuration source.
const (
	DefaultLogLevel       = "info"
	DefaultSessionTimeout = time.Hour
	DefaultKeyCacheTTL    = 5 * time.Minute
	DefaultKDFIterations  = 210_000
	DefaultDSN            = "vault.db"

	// MinKDFIterations is the lowest PBKDF2 work factor accepted from
	// configuration.
	MinKDFIterations = 100_000
)

// StructuredConfig is the top-level configuration container for the vault.
// It is populated by merging values from environment variables,
// command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds process-wide settings: logging and the serving origin.
	App App `envPrefix:"APP_"`

	// Vault holds the session and key-derivation settings.
	Vault Vault `envPrefix:"VAULT_"`

	// Identity holds the settings used to turn an identity token into a
	// userId.
	Identity Identity `envPrefix:"IDENTITY_"`

	// Storage holds the payload database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`

	// Args holds the positional arguments left after flag parsing.
	Args []string
}

// App holds process-wide settings.
type App struct {
	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// Origin is the URL the vault is served from. It only feeds the
	// capability probe's transport check; empty means no transport.
	// Env: APP_ORIGIN
	Origin string `env:"ORIGIN"`
}

// Vault holds session and key-derivation settings.
type Vault struct {
	// SessionTimeout is the auto-lock delay of an unlocked session.
	// Env: VAULT_SESSION_TIMEOUT
	SessionTimeout time.Duration `env:"SESSION_TIMEOUT"`

	// KeyCacheTTL is how long a derived key stays reusable.
	// Env: VAULT_KEY_CACHE_TTL
	KeyCacheTTL time.Duration `env:"KEY_CACHE_TTL"`

	// KDFIterations is the PBKDF2 round count.
	// Env: VAULT_KDF_ITERATIONS
	KDFIterations int `env:"KDF_ITERATIONS"`

	// UserID is the opaque identity to unlock as when no identity token is
	// supplied.
	// Env: VAULT_USER_ID
	UserID string `env:"USER_ID"`
}

// Identity holds identity-token settings.
type Identity struct {
	// Token is an HS256 identity token whose subject becomes the userId.
	// Env: IDENTITY_TOKEN
	Token string `env:"TOKEN"`

	// SignKey verifies Token.
	// Env: IDENTITY_SIGN_KEY
	SignKey string `env:"SIGN_KEY"`

	// Issuer, when set, must match the token's "iss" claim.
	// Env: IDENTITY_ISSUER
	Issuer string `env:"ISSUER"`
}

// Storage groups the configuration for the payload store.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the payload database.
type DB struct {
	// DSN is either a SQLite file path (":memory:" allowed) or a
	// postgres:// URL.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// GetStructuredConfig loads, merges, validates and completes the
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags parsed from args
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = DefaultLogLevel
	}
	if cfg.Vault.SessionTimeout == 0 {
		cfg.Vault.SessionTimeout = DefaultSessionTimeout
	}
	if cfg.Vault.KeyCacheTTL == 0 {
		cfg.Vault.KeyCacheTTL = DefaultKeyCacheTTL
	}
	if cfg.Vault.KDFIterations == 0 {
		cfg.Vault.KDFIterations = DefaultKDFIterations
	}
	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = DefaultDSN
	}
}
