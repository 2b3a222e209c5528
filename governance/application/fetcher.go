package application

import (
	"context"
	"time"

	"request-governor/governance/domain"

	"go.uber.org/zap"
)

// Fetcher compõe cache, rate limit e throttle para uma busca com cache:
//
//	cache hit              -> devolve o valor (não consulta limiter nem throttle)
//	cache miss + negado    -> *domain.RateLimitError
//	cache miss + admitido  -> throttle -> load -> sucesso grava no cache
//
// Não há retry. Falhas nunca vão para o cache.
type Fetcher[T any] struct {
	Cache    domain.Cache[T]
	Limits   *Service
	Throttle domain.Throttle
	Stats    domain.StatsStore
	Clock    domain.Clock
	Logger   *zap.Logger
}

func (f *Fetcher[T]) Fetch(ctx context.Context, key string, op domain.Key, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if load == nil {
		return zero, domain.ErrNilTask
	}
	log := f.logger().With(zap.String("key", key), zap.String("operation", string(op)))

	if f.Cache != nil {
		if v, ok := f.Cache.Get(key); ok {
			f.record(ctx, domain.EventCache, domain.Key(key), true, 0)
			log.Debug("cache hit")
			return v, nil
		}
		f.record(ctx, domain.EventCache, domain.Key(key), false, 0)
	}

	if err := f.Limits.Check(ctx, op); err != nil {
		return zero, err
	}

	v, err := Schedule(ctx, f.Throttle, func(ctx context.Context) (T, error) {
		start := now(f.Clock)
		v, err := load(ctx)
		f.record(ctx, domain.EventFetch, domain.Key(key), err == nil, now(f.Clock).Sub(start))
		return v, err
	})
	if err != nil {
		log.Debug("fetch failed", zap.Error(err))
		return zero, err
	}

	if f.Cache != nil {
		f.Cache.Set(key, v)
	}
	return v, nil
}

func (f *Fetcher[T]) record(ctx context.Context, kind domain.EventKind, key domain.Key, ok bool, d time.Duration) {
	if f.Stats == nil {
		return
	}
	err := f.Stats.Record(ctx, domain.StatsEvent{Kind: kind, Key: key, OK: ok, Duration: d, At: now(f.Clock)})
	if err != nil {
		f.logger().Debug("stats record failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}

func (f *Fetcher[T]) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}
