package crypto

import (
	"testing"
	"time"

	"github.com/MKhiriev/zk-vault/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T, fill byte) *Key {
	t.Helper()
	material := make([]byte, KeySize)
	for i := range material {
		material[i] = fill
	}
	key, err := NewKey(material)
	require.NoError(t, err)
	return key
}

func TestKeyCache_GetPut(t *testing.T) {
	c := NewKeyCache(time.Minute, clock.Fake(time.Unix(0, 0)))
	key := newTestKey(t, 1)

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Put("k", key)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Same(t, key, got)
}

func TestKeyCache_LazyEvictionAtTTL(t *testing.T) {
	fake := clock.Fake(time.Unix(0, 0))
	c := NewKeyCache(5*time.Minute, fake)
	c.Put("k", newTestKey(t, 1))

	fake.Advance(5*time.Minute - time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	// the entry lingers until a lookup finds it expired
	fake.Advance(time.Second)
	assert.Equal(t, 1, c.Len())

	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestKeyCache_Clear(t *testing.T) {
	c := NewKeyCache(0, nil)
	c.Put("a", newTestKey(t, 1))
	c.Put("b", newTestKey(t, 2))
	require.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestNewKeyCache_Defaults(t *testing.T) {
	c := NewKeyCache(-time.Second, nil)
	assert.Equal(t, DefaultKeyCacheTTL, c.ttl)
	assert.NotNil(t, c.clock)
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("u1", []byte("secret-one"))
	assert.Equal(t, a, CacheKey("u1", []byte("secret-one")))
	assert.NotEqual(t, a, CacheKey("u2", []byte("secret-one")))
	assert.NotEqual(t, a, CacheKey("u1", []byte("secret-two")))
	// the separator keeps (userID, secret) boundaries unambiguous
	assert.NotEqual(t, CacheKey("ab", []byte("c")), CacheKey("a", []byte("bc")))
	assert.NotContains(t, a, "secret")
}

func TestCacheKey_FieldBoundary(t *testing.T) {
	assert.NotEqual(t,
		CacheKey("a", []byte("b\x00cdefghij")),
		CacheKey("a\x00b", []byte("cdefghij")))
	assert.NotEqual(t, CacheKey("ab", []byte("c")), CacheKey("a", []byte("bc")))
	assert.Equal(t, CacheKey("u1", []byte("secret")), CacheKey("u1", []byte("secret")))
}
