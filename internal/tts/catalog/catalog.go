// Package catalog caches provider voice listings. Voice catalogs change
// rarely, so listings are held for a TTL and concurrent fills for the same
// key are collapsed into one upstream call.
package catalog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"ttsgateway/internal/tts/inter"
)

const DefaultTTL = 5 * time.Minute

type entry struct {
	voices   []inter.VoiceInfo
	storedAt time.Time
}

type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
	group   singleflight.Group
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// WithClock replaces the time source. Test hook.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Voices returns the cached listing for key, filling it via fill on a miss
// or after expiry. Concurrent callers missing on the same key share one
// fill call.
func (c *Cache) Voices(ctx context.Context, key string, fill func(ctx context.Context) ([]inter.VoiceInfo, error)) ([]inter.VoiceInfo, error) {
	if voices, ok := c.fresh(key); ok {
		return voices, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Another caller may have filled while we queued.
		if voices, ok := c.fresh(key); ok {
			return voices, nil
		}
		voices, err := fill(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, voices)
		return voices, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]inter.VoiceInfo), nil
}

func (c *Cache) fresh(key string) ([]inter.VoiceInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.storedAt) > c.ttl {
		return nil, false
	}
	return e.voices, true
}

func (c *Cache) store(key string, voices []inter.VoiceInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{voices: voices, storedAt: c.now()}
}

// Invalidate drops the cached listing for key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
