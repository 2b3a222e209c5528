package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"request-governor/governance/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore grava contadores da governança em hashes do Redis:
//
//	<prefix>:<kind>:total          allowed/denied, hit/miss, success/failure
//	<prefix>:<kind>:minute:<ts>    mesmo conteúdo por minuto (bucket "minute")
//	<prefix>:<kind>:key:<key>      por chave (trackKeys)
type RedisStatsStore struct {
	rdb redis.Cmdable

	prefix string
	// ttl aplica apenas em chaves de série temporal / por key.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackKeys bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackKeys(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackKeys = track }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "governor:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Prefix() string { return s.prefix }

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := ev.Outcome()
	base := s.prefix + ":" + string(ev.Kind)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, base+":total", field, 1)
	if ev.Duration > 0 {
		pipe.HIncrBy(ctx, base+":total", "duration_ms", ev.Duration.Milliseconds())
	}

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", base, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if s.trackKeys {
		k := strings.TrimSpace(string(ev.Key))
		if k != "" {
			keyKey := base + ":key:" + k
			pipe.HIncrBy(ctx, keyKey, field, 1)
			if s.ttl > 0 {
				pipe.Expire(ctx, keyKey, s.ttl)
			}
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Totals lê os contadores cumulativos de um tipo de evento.
func (s *RedisStatsStore) Totals(ctx context.Context, kind domain.EventKind) (map[string]int64, error) {
	raw, err := s.rdb.HGetAll(ctx, s.prefix+":"+string(kind)+":total").Result()
	if err != nil {
		return nil, fmt.Errorf("read %s totals: %w", kind, err)
	}
	out := make(map[string]int64, len(raw))
	for field, v := range raw {
		var n int64
		if _, err := fmt.Sscan(v, &n); err != nil {
			return nil, fmt.Errorf("parse %s.%s=%q: %w", kind, field, v, err)
		}
		out[field] = n
	}
	return out, nil
}
