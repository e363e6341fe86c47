// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"flag"
	"fmt"
	"io"
)

// ParseFlags parses the global configuration flags from args. Parsing stops
// at the first non-flag argument; the rest is returned in Args.
//
// Flags:
//
//	-log-level zerolog level name
//	-origin origin the vault is served from
//	-session-timeout auto-lock delay (e.g., "1h", "15m")
//	-key-cache-ttl derived key reuse window (e.g., "5m")
//	-kdf-iterations PBKDF2 round count
//	-user userId to unlock as
//	-identity-token identity token carrying the userId
//	-identity-sign-key identity token verification key
//	-identity-issuer expected identity token issuer
//	-d database DSN
//	-c/-config json file path with configs
func ParseFlags(args []string) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}

	fs := flag.NewFlagSet("vault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "Log level")
	fs.StringVar(&cfg.App.Origin, "origin", "", "Origin the vault is served from")
	fs.DurationVar(&cfg.Vault.SessionTimeout, "session-timeout", 0, "Session auto-lock delay (e.g., 1h, 15m)")
	fs.DurationVar(&cfg.Vault.KeyCacheTTL, "key-cache-ttl", 0, "Derived key cache TTL (e.g., 5m)")
	fs.IntVar(&cfg.Vault.KDFIterations, "kdf-iterations", 0, "PBKDF2 iterations")
	fs.StringVar(&cfg.Vault.UserID, "user", "", "User id")
	fs.StringVar(&cfg.Identity.Token, "identity-token", "", "Identity token")
	fs.StringVar(&cfg.Identity.SignKey, "identity-sign-key", "", "Identity token signing key")
	fs.StringVar(&cfg.Identity.Issuer, "identity-issuer", "", "Identity token issuer")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}
	cfg.Args = fs.Args()

	return cfg, nil
}
