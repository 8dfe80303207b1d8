// Package cache keeps finished PNG data URLs keyed by markup digest and resolution.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"

	"github.com/dgraph-io/ristretto"
)

// ErrInvalidCost is returned when the cache is built without a positive budget.
var ErrInvalidCost = errors.New("cache: max cost must be positive")

// Cache is a bounded, concurrency safe store of raster data URLs.
type Cache struct {
	store *ristretto.Cache
}

// New builds a cache whose total data URL length never exceeds maxCost bytes.
func New(maxCost int64) (*Cache, error) {
	if maxCost <= 0 {
		return nil, ErrInvalidCost
	}
	counters := maxCost / 1024 * 10
	if counters < 1000 {
		counters = 1000
	}
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: counters,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{store: store}, nil
}

// Key identifies one rendering of markup at resolution.
func Key(markup string, resolution int) string {
	sum := sha256.Sum256([]byte(markup))
	return hex.EncodeToString(sum[:]) + ":" + strconv.Itoa(resolution)
}

// Get returns the cached data URL for key.
func (c *Cache) Get(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.store.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Set stores dataURL under key and waits until it is visible to Get.
// Entries larger than the budget are dropped by ristretto.
func (c *Cache) Set(key, dataURL string) bool {
	if c == nil {
		return false
	}
	ok := c.store.Set(key, dataURL, int64(len(dataURL)))
	c.store.Wait()
	return ok
}

// Close stops the cache's background goroutines.
func (c *Cache) Close() {
	if c == nil {
		return
	}
	c.store.Close()
}
