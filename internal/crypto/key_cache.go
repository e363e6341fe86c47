// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/binary"
	"encoding/hex"
	"sync"
	"time"

	"github.com/MKhiriev/zk-vault/internal/clock"
	"github.com/zeebo/blake3"
)

// DefaultKeyCacheTTL is how long a derived key stays reusable.
const DefaultKeyCacheTTL = 5 * time.Minute

type cacheEntry struct {
	key       *Key
	createdAt time.Time
}

// KeyCache memoizes derived keys for a fixed TTL. Expired entries are
// evicted lazily by the lookup that finds them; there is no background sweep.
//
// KeyCache is safe for concurrent use.
type KeyCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   clock.Clock
	entries map[string]cacheEntry
}

// NewKeyCache returns an empty cache. A non-positive ttl selects
// DefaultKeyCacheTTL; a nil clk selects the real clock.
func NewKeyCache(ttl time.Duration, clk clock.Clock) *KeyCache {
	if ttl <= 0 {
		ttl = DefaultKeyCacheTTL
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &KeyCache{
		ttl:     ttl,
		clock:   clk,
		entries: make(map[string]cacheEntry),
	}
}

// CacheKey builds the lookup key for (userID, masterSecret). It is a fast
// digest used for lookup only and carries no security guarantee. The userID
// is length-prefixed so distinct pairs never share an input.
func CacheKey(userID string, masterSecret []byte) string {
	h := blake3.New()
	_, _ = h.Write(binary.BigEndian.AppendUint64(nil, uint64(len(userID))))
	_, _ = h.Write([]byte(userID))
	_, _ = h.Write(masterSecret)
	return hex.EncodeToString(h.Sum(nil)[:20])
}

// Get returns the cached key for cacheKey if it is younger than the TTL.
// An expired entry is removed and reported as a miss.
func (c *KeyCache) Get(cacheKey string) (*Key, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[cacheKey]
	if !ok {
		return nil, false
	}
	if c.clock.Now().Sub(entry.createdAt) >= c.ttl {
		delete(c.entries, cacheKey)
		return nil, false
	}
	return entry.key, true
}

// Put stores key under cacheKey, replacing any previous entry.
func (c *KeyCache) Put(cacheKey string, key *Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey] = cacheEntry{key: key, createdAt: c.clock.Now()}
}

// Clear drops every entry.
func (c *KeyCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
}

// Len reports the number of stored entries, expired ones included.
func (c *KeyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
