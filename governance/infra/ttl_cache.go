package infra

import (
	"sync"
	"time"

	"request-governor/governance/domain"
	"request-governor/internal/clock"
)

// TTLCache é um cache de respostas com TTL fixo e expiração preguiçosa:
// entradas vencidas só são removidas quando alguém tenta lê-las.
type TTLCache[V any] struct {
	mu      sync.Mutex
	clock   domain.Clock
	ttl     time.Duration
	entries map[string]cacheEntry[V]
}

type cacheEntry[V any] struct {
	value    V
	storedAt time.Time
}

type TTLCacheOption func(*ttlCacheConfig)

type ttlCacheConfig struct {
	clock domain.Clock
}

func WithCacheClock(c domain.Clock) TTLCacheOption {
	return func(cfg *ttlCacheConfig) { cfg.clock = c }
}

func NewTTLCache[V any](ttl time.Duration, opts ...TTLCacheOption) *TTLCache[V] {
	cfg := ttlCacheConfig{clock: clock.NewRealClock()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &TTLCache[V]{
		clock:   cfg.clock,
		ttl:     ttl,
		entries: make(map[string]cacheEntry[V]),
	}
}

func (c *TTLCache[V]) TTL() time.Duration { return c.ttl }

// Get implementa domain.Cache.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	ent, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if now.Sub(ent.storedAt) >= c.ttl {
		delete(c.entries, key)
		return zero, false
	}
	return ent.value, true
}

// Set sobrescreve a entrada e reinicia o relógio do TTL.
func (c *TTLCache[V]) Set(key string, value V) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry[V]{value: value, storedAt: now}
}

func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry[V])
}

// Len conta entradas armazenadas, inclusive as vencidas ainda não lidas.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
