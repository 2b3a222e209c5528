package governance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"request-governor/governance/domain"
	"request-governor/governance/infra"
	"request-governor/internal/clock"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNew_AppliesDefaults(t *testing.T) {
	g, err := New[string](Options{})
	require.NoError(t, err)

	w, ok := g.Limiter.(*infra.WindowLog)
	require.True(t, ok)
	require.Equal(t, DefaultWindowDuration, w.Window())
	require.Equal(t, DefaultMaxEvents, w.Max())
	require.Equal(t, DefaultTTL, g.Cache.TTL())
	require.Equal(t, DefaultMaxConcurrency, g.Throttle.Max())
}

func TestNew_TokenBucketAlgorithm(t *testing.T) {
	g, err := New[string](Options{Algorithm: " Token_Bucket ", WindowDuration: time.Second, MaxEvents: 10})
	require.NoError(t, err)

	s, ok := g.Limiter.(*infra.Store)
	require.True(t, ok)
	require.Equal(t, 10, s.Burst())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g.Start(ctx)
}

func TestNew_RejectsUnknownAlgorithm(t *testing.T) {
	_, err := New[string](Options{Algorithm: "leaky"})
	require.Error(t, err)
}

func TestGovernor_EndToEnd(t *testing.T) {
	vc := clock.NewVirtualClock(epoch)
	stats := infra.NewMemoryStatsStore()
	g, err := New[map[string]string](Options{
		WindowDuration: time.Minute,
		MaxEvents:      1,
		TTL:            5 * time.Minute,
		MaxConcurrency: 1,
		Clock:          vc,
		Stats:          stats,
	})
	require.NoError(t, err)

	var loads int32
	load := func(ctx context.Context) (map[string]string, error) {
		atomic.AddInt32(&loads, 1)
		return map[string]string{"title": "Main Dashboard"}, nil
	}

	v, err := g.Fetch(context.Background(), "dashboard-data", "data-load", load)
	require.NoError(t, err)
	require.Equal(t, "Main Dashboard", v["title"])

	// dentro do TTL: servido do cache, sem tocar no limiter (que já está saturado)
	vc.Advance(4 * time.Minute)
	v, err = g.Fetch(context.Background(), "dashboard-data", "data-load", load)
	require.NoError(t, err)
	require.Equal(t, "Main Dashboard", v["title"])
	require.Equal(t, int32(1), atomic.LoadInt32(&loads))

	rl := stats.Kind(domain.EventRateLimit)
	require.Equal(t, int64(1), rl.OK)
	require.Equal(t, int64(0), rl.NotOK)
	require.Equal(t, int64(1), stats.Kind(domain.EventCache).OK)
}

func TestGovernor_RateLimitedFetchFails(t *testing.T) {
	vc := clock.NewVirtualClock(epoch)
	g, err := New[int](Options{MaxEvents: 1, Clock: vc})
	require.NoError(t, err)

	require.True(t, g.TryAcquire(context.Background(), "init"))

	_, err = g.Fetch(context.Background(), "k", "data-load", func(ctx context.Context) (int, error) { return 1, nil })
	require.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestGovernor_DoUsesThrottle(t *testing.T) {
	g, err := New[int](Options{MaxConcurrency: 1})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = Do(context.Background(), g, func(ctx context.Context) (string, error) { return "", boom })
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, g.Throttle.Active())
}

func TestGovernor_CloseClearsCache(t *testing.T) {
	g, err := New[int](Options{})
	require.NoError(t, err)

	_, err = g.Fetch(context.Background(), "k", "op", func(ctx context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)
	require.Equal(t, 1, g.Cache.Len())

	g.Close()
	require.Equal(t, 0, g.Cache.Len())
}
