// Package cache implements the content-addressed harmonization cache: a
// SHA-256 key over the input bytes and the requested instrument list, a
// bounded store that evicts the oldest insertion first, a TTL on each entry, and
// golang.org/x/sync/singleflight to collapse concurrent requests for the
// same key into a single computation.
package cache

import (
	"crypto/sha256"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// MaxEntries is the cache's capacity; inserting beyond it evicts the
// oldest entry first.
const MaxEntries = 100

// TTL is how long a cached entry remains valid after being stored.
const TTL = 30 * time.Minute

// Key is a cache key: the SHA-256 digest of the input bytes, a 0x00
// separator, and the requested instrument names joined by the same byte.
type Key [32]byte

// NewKey derives a Key from the raw input bytes and the ordered list of
// requested instrument names.
func NewKey(input []byte, instruments []string) Key {
	h := sha256.New()
	h.Write(input)
	h.Write([]byte{0x00})
	h.Write([]byte(strings.Join(instruments, string(byte(0)))))
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

type entry struct {
	value   any
	storedAt time.Time
}

// Cache is a bounded, TTL-expiring, single-flight-gated store keyed by
// Key. The zero value is not usable; construct with New.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	order   []Key // insertion order, oldest first, for eviction

	group singleflight.Group

	hits, misses uint64
}

// New constructs an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[Key]*entry, MaxEntries)}
}

// Get returns the cached value for key if present and not expired.
func (c *Cache) Get(key Key) (value any, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.entries[key]
	if !found || time.Since(e.storedAt) > TTL {
		c.misses++
		if found {
			c.evictLocked(key)
		}
		return nil, false
	}
	c.hits++
	return e.value, true
}

// Put stores value under key, evicting the oldest entry first if the
// cache is already at MaxEntries.
func (c *Cache) Put(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= MaxEntries {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = &entry{value: value, storedAt: time.Now()}
}

// evictLocked removes key from both the map and the insertion-order slice.
// Callers must hold c.mu.
func (c *Cache) evictLocked(key Key) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// GetOrCompute returns the cached value for key, computing it with fn
// exactly once even under concurrent callers sharing the same key, and
// storing the result before returning.
func (c *Cache) GetOrCompute(key Key, fn func() (any, error)) (any, error, bool) {
	if v, ok := c.Get(key); ok {
		return v, nil, true
	}

	v, err, shared := c.group.Do(string(key[:]), func() (any, error) {
		// A caller that missed above may reach Do after an earlier flight
		// has already stored its result; reuse it instead of recomputing.
		c.mu.Lock()
		e, found := c.entries[key]
		c.mu.Unlock()
		if found && time.Since(e.storedAt) <= TTL {
			return e.value, nil
		}
		v, err := fn()
		if err != nil {
			return nil, err
		}
		c.Put(key, v)
		return v, nil
	})
	if err != nil {
		return nil, err, shared
	}
	return v, nil, shared
}

// Stats reports the cache's current entry count and lifetime hit/miss
// totals.
func (c *Cache) Stats() (size int, hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries), c.hits, c.misses
}
