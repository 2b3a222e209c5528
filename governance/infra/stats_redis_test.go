package infra

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"request-governor/governance/domain"
)

func TestRedisStatsStore_NilIsNoop(t *testing.T) {
	var s *RedisStatsStore
	require.NoError(t, s.Record(context.Background(), domain.StatsEvent{Kind: domain.EventCache}))
}

func TestRedisStatsStore_OptionsNormalise(t *testing.T) {
	s := NewRedisStatsStore(nil, WithStatsPrefix(":gov:stats:"), WithStatsBucket(" NONE "), WithStatsTTL(time.Hour))
	require.Equal(t, "gov:stats", s.Prefix())
	require.Equal(t, "none", s.bucket)
	require.Equal(t, time.Hour, s.ttl)
}

// Integração: requer um Redis real em GOVERNOR_TEST_REDIS_ADDR.
func TestRedisStatsStore_RecordAndReadTotals(t *testing.T) {
	addr := os.Getenv("GOVERNOR_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GOVERNOR_TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = rdb.Close() }()

	ctx := context.Background()
	prefix := "governor:test:" + time.Now().Format("150405.000000")
	defer func() {
		keys, _ := rdb.Keys(ctx, prefix+":*").Result()
		if len(keys) > 0 {
			_ = rdb.Del(ctx, keys...).Err()
		}
	}()

	s := NewRedisStatsStore(rdb, WithStatsPrefix(prefix), WithStatsTrackKeys(true))
	require.NoError(t, s.Record(ctx, domain.StatsEvent{Kind: domain.EventRateLimit, Key: "init", OK: true}))
	require.NoError(t, s.Record(ctx, domain.StatsEvent{Kind: domain.EventRateLimit, Key: "init", OK: false}))
	require.NoError(t, s.Record(ctx, domain.StatsEvent{Kind: domain.EventRateLimit, Key: "init", OK: false}))

	totals, err := s.Totals(ctx, domain.EventRateLimit)
	require.NoError(t, err)
	require.Equal(t, int64(1), totals["allowed"])
	require.Equal(t, int64(2), totals["denied"])

	perKey, err := rdb.HGetAll(ctx, prefix+":rate_limit:key:init").Result()
	require.NoError(t, err)
	require.Equal(t, "2", perKey["denied"])
}
