// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"crypto/sha256"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"

	"github.com/MKhiriev/zk-vault/internal/logger"
)

const (
	// DefaultKDFIterations is the PBKDF2-HMAC-SHA256 round count.
	DefaultKDFIterations = 210_000

	// MinMasterSecretLength and MaxMasterSecretLength bound the master
	// secret, counted in characters.
	MinMasterSecretLength = 8
	MaxMasterSecretLength = 10_000
)

// KeyDeriver turns a master secret and a user id into an AES-256-GCM key
// via PBKDF2-HMAC-SHA256 salted with [DeriveSalt]. Derived keys are kept in
// a [KeyCache] so repeated operations do not pay the derivation cost.
type KeyDeriver struct {
	iterations int
	cache      *KeyCache
	logger     *logger.Logger
}

// KeyDeriverOption customises a KeyDeriver.
type KeyDeriverOption func(*KeyDeriver)

// WithIterations overrides the PBKDF2 round count. Non-positive values are
// ignored.
func WithIterations(n int) KeyDeriverOption {
	return func(d *KeyDeriver) {
		if n > 0 {
			d.iterations = n
		}
	}
}

// NewKeyDeriver constructs a KeyDeriver backed by cache. A nil cache gets a
// fresh one with the default TTL.
func NewKeyDeriver(cache *KeyCache, log *logger.Logger, opts ...KeyDeriverOption) *KeyDeriver {
	if cache == nil {
		cache = NewKeyCache(DefaultKeyCacheTTL, nil)
	}
	d := &KeyDeriver{
		iterations: DefaultKDFIterations,
		cache:      cache,
		logger:     log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ValidateMasterSecret checks that masterSecret is valid UTF-8 and between
// MinMasterSecretLength and MaxMasterSecretLength characters long.
func ValidateMasterSecret(op string, masterSecret []byte) error {
	if !utf8.Valid(masterSecret) {
		return validationError(op, "master secret is not valid UTF-8")
	}
	n := utf8.RuneCount(masterSecret)
	if n < MinMasterSecretLength || n > MaxMasterSecretLength {
		return validationError(op, "master secret must be 8 to 10000 characters")
	}
	return nil
}

// DeriveKey implements [KeyProvider]. With useCache set, a key derived for
// the same (userID, masterSecret) less than the cache TTL ago is returned
// without re-running PBKDF2; otherwise the key is derived and stored.
func (d *KeyDeriver) DeriveKey(ctx context.Context, masterSecret []byte, userID string, useCache bool) (*Key, error) {
	const op = "derive key"

	if err := ValidateMasterSecret(op, masterSecret); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, validationError(op, "user id must not be empty")
	}

	var cacheKey string
	if useCache {
		cacheKey = CacheKey(userID, masterSecret)
		if key, ok := d.cache.Get(cacheKey); ok {
			return key, nil
		}
	}

	salt, err := DeriveSalt(userID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	material := pbkdf2.Key(masterSecret, salt[:], d.iterations, KeySize, sha256.New)
	defer Wipe(material)

	key, err := NewKey(material)
	if err != nil {
		d.log(ctx).Error().Err(err).
			Str("func", "KeyDeriver.DeriveKey").
			Str("user_id", userID).
			Msg("key derivation primitive failed")
		return nil, err
	}

	d.log(ctx).Debug().
		Str("user_id", userID).
		Int("iterations", d.iterations).
		Dur("took", time.Since(start)).
		Bool("cached", useCache).
		Msg("derived key")

	if useCache {
		d.cache.Put(cacheKey, key)
	}
	return key, nil
}

// ClearCache drops every cached key.
func (d *KeyDeriver) ClearCache() {
	d.cache.Clear()
}

func (d *KeyDeriver) log(ctx context.Context) *logger.Logger {
	if d.logger != nil {
		return d.logger
	}
	return logger.FromContext(ctx)
}
