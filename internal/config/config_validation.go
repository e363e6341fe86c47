// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// validate checks the merged [StructuredConfig] before defaults are applied,
// so zero values mean "not configured".
func (cfg *StructuredConfig) validate() error {
	if cfg.App.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.App.LogLevel); err != nil {
			return fmt.Errorf("%w: log level %q", ErrInvalidAppConfigs, cfg.App.LogLevel)
		}
	}
	if cfg.App.Origin != "" {
		u, err := url.Parse(cfg.App.Origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: origin must be an absolute URL", ErrInvalidAppConfigs)
		}
	}

	if cfg.Vault.SessionTimeout < 0 || cfg.Vault.KeyCacheTTL < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidVaultConfigs)
	}
	if cfg.Vault.KDFIterations != 0 && cfg.Vault.KDFIterations < MinKDFIterations {
		return fmt.Errorf("%w: kdf iterations must be at least %d", ErrInvalidVaultConfigs, MinKDFIterations)
	}

	if cfg.Identity.Token != "" && cfg.Identity.SignKey == "" {
		return fmt.Errorf("%w: identity token requires a sign key", ErrInvalidIdentityConfigs)
	}

	dsn := cfg.Storage.DB.DSN
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil || u.Host == "" {
			return fmt.Errorf("%w: malformed postgres dsn", ErrInvalidStorageConfigs)
		}
	}

	return nil
}
