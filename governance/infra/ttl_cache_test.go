package infra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"request-governor/governance/domain"
	"request-governor/internal/clock"
)

func TestTTLCache_ReturnsValueBeforeTTL(t *testing.T) {
	vc := clock.NewVirtualClock(epoch)
	c := NewTTLCache[string](5*time.Minute, WithCacheClock(vc))

	c.Set("x", "payload")
	vc.Advance(4*time.Minute + 59*time.Second)

	v, ok := c.Get("x")
	require.True(t, ok)
	require.Equal(t, "payload", v)
}

func TestTTLCache_ExpiresAfterTTLAndEvicts(t *testing.T) {
	vc := clock.NewVirtualClock(epoch)
	c := NewTTLCache[string](5*time.Minute, WithCacheClock(vc))

	c.Set("x", "payload")
	vc.Advance(5*time.Minute + time.Second)

	_, ok := c.Get("x")
	require.False(t, ok)
	require.Equal(t, 0, c.Len(), "expired entry should be evicted on read")
}

func TestTTLCache_ExpiresExactlyAtTTL(t *testing.T) {
	vc := clock.NewVirtualClock(epoch)
	c := NewTTLCache[int](time.Minute, WithCacheClock(vc))

	c.Set("k", 1)
	vc.Advance(time.Minute)

	_, ok := c.Get("k")
	require.False(t, ok)
}

func TestTTLCache_OverwriteResetsClock(t *testing.T) {
	vc := clock.NewVirtualClock(epoch)
	c := NewTTLCache[string](5*time.Minute, WithCacheClock(vc))

	c.Set("k", "v1")
	vc.Advance(4 * time.Minute)
	c.Set("k", "v2")
	vc.Advance(4 * time.Minute)

	v, ok := c.Get("k")
	require.True(t, ok, "ttl should count from the second Set")
	require.Equal(t, "v2", v)

	vc.Advance(time.Minute + time.Second)
	_, ok = c.Get("k")
	require.False(t, ok)
}

func TestTTLCache_NoBackgroundSweep(t *testing.T) {
	vc := clock.NewVirtualClock(epoch)
	c := NewTTLCache[int](time.Second, WithCacheClock(vc))

	c.Set("a", 1)
	c.Set("b", 2)
	vc.Advance(time.Hour)

	require.Equal(t, 2, c.Len())
	_, _ = c.Get("a")
	require.Equal(t, 1, c.Len())
}

func TestTTLCache_ClearAndDelete(t *testing.T) {
	c := NewTTLCache[int](time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	_, ok := c.Get("a")
	require.False(t, ok)

	c.Clear()
	require.Equal(t, 0, c.Len())
	_, ok = c.Get("b")
	require.False(t, ok)
}

func TestTTLCache_ImplementsCache(t *testing.T) {
	var _ domain.Cache[[]byte] = NewTTLCache[[]byte](time.Minute)
}
