package governance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"request-governor/governance/application"
	"request-governor/governance/domain"
	"request-governor/governance/infra"

	"go.uber.org/zap"
)

const (
	AlgorithmWindow      = "window"
	AlgorithmTokenBucket = "token_bucket"
)

// Valores padrão usados pelo dashboard.
const (
	DefaultWindowDuration = 60 * time.Second
	DefaultMaxEvents      = 100
	DefaultTTL            = 5 * time.Minute
	DefaultMaxConcurrency = 5
)

type Options struct {
	WindowDuration time.Duration
	MaxEvents      int
	TTL            time.Duration
	MaxConcurrency int

	// Algorithm: "window" (padrão, log compartilhado) ou "token_bucket".
	Algorithm string
	// PartitionByOperation dá a cada operação seu próprio log de janela.
	PartitionByOperation bool
	RetryAfter           time.Duration

	Clock  domain.Clock
	Stats  domain.StatsStore
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.WindowDuration <= 0 {
		o.WindowDuration = DefaultWindowDuration
	}
	if o.MaxEvents <= 0 {
		o.MaxEvents = DefaultMaxEvents
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = DefaultMaxConcurrency
	}
	if o.RetryAfter <= 0 {
		o.RetryAfter = 1 * time.Second
	}
	o.Algorithm = strings.ToLower(strings.TrimSpace(o.Algorithm))
	if o.Algorithm == "" {
		o.Algorithm = AlgorithmWindow
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Governor reúne limiter, cache e throttle de um subsistema.
// Instâncias são independentes entre si; não há estado global.
type Governor[T any] struct {
	Limiter  domain.Limiter
	Cache    *infra.TTLCache[T]
	Throttle *infra.Queue
	Limits   *application.Service

	fetcher *application.Fetcher[T]
	logger  *zap.Logger
}

func New[T any](opts Options) (*Governor[T], error) {
	opts = opts.withDefaults()

	lim, err := newLimiter(opts)
	if err != nil {
		return nil, err
	}

	var cacheOpts []infra.TTLCacheOption
	if opts.Clock != nil {
		cacheOpts = append(cacheOpts, infra.WithCacheClock(opts.Clock))
	}
	cache := infra.NewTTLCache[T](opts.TTL, cacheOpts...)
	queue := infra.NewQueue(opts.MaxConcurrency)

	svc := application.NewService(lim)
	svc.Stats = opts.Stats
	svc.RetryAfter = opts.RetryAfter
	svc.Clock = opts.Clock
	svc.Logger = opts.Logger

	g := &Governor[T]{
		Limiter:  lim,
		Cache:    cache,
		Throttle: queue,
		Limits:   svc,
		logger:   opts.Logger,
		fetcher: &application.Fetcher[T]{
			Cache:    cache,
			Limits:   svc,
			Throttle: queue,
			Stats:    opts.Stats,
			Clock:    opts.Clock,
			Logger:   opts.Logger,
		},
	}
	return g, nil
}

func newLimiter(opts Options) (domain.Limiter, error) {
	switch opts.Algorithm {
	case AlgorithmWindow:
		var wopts []infra.WindowLogOption
		if opts.Clock != nil {
			wopts = append(wopts, infra.WithWindowClock(opts.Clock))
		}
		if opts.PartitionByOperation {
			wopts = append(wopts, infra.WithPartitionByOperation())
		}
		return infra.NewWindowLog(opts.WindowDuration, opts.MaxEvents, wopts...), nil
	case AlgorithmTokenBucket:
		var sopts []infra.StoreOption
		if opts.Clock != nil {
			sopts = append(sopts, infra.WithStoreClock(opts.Clock))
		}
		return infra.NewStore(opts.WindowDuration, opts.MaxEvents, sopts...), nil
	default:
		return nil, fmt.Errorf("unknown rate limit algorithm %q", opts.Algorithm)
	}
}

// Start inicia rotinas de manutenção (janitor do token bucket). Pare cancelando o ctx.
func (g *Governor[T]) Start(ctx context.Context) {
	if s, ok := g.Limiter.(*infra.Store); ok {
		s.StartJanitor(ctx)
	}
}

// TryAcquire consulta apenas o rate limiter.
func (g *Governor[T]) TryAcquire(ctx context.Context, op domain.Key) bool {
	return g.Limits.Decide(ctx, op).Allowed
}

// Fetch executa o pipeline completo de busca com cache.
func (g *Governor[T]) Fetch(ctx context.Context, key string, op domain.Key, load func(context.Context) (T, error)) (T, error) {
	return g.fetcher.Fetch(ctx, key, op, load)
}

// Do agenda uma task qualquer no throttle deste Governor, sem cache nem rate limit.
func Do[T, R any](ctx context.Context, g *Governor[T], task func(context.Context) (R, error)) (R, error) {
	return application.Schedule(ctx, g.Throttle, task)
}

// Close limpa o cache. Tasks em andamento não são interrompidas.
func (g *Governor[T]) Close() {
	g.Cache.Clear()
	g.logger.Debug("governor closed")
}
