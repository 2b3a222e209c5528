package application

import (
	"context"
	"time"

	"request-governor/governance/domain"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Service concentra a regra de aplicação do rate limit.
//
// Ele não sabe nada sobre HTTP, apenas retorna uma decisão e registra
// estatísticas em modo best-effort.
type Service struct {
	Limiter    domain.Limiter
	Stats      domain.StatsStore
	RetryAfter time.Duration
	Clock      domain.Clock
	Logger     *zap.Logger

	// warn amostra o log de negação para não inundar o logger em rajadas.
	warn *rate.Sometimes
}

func NewService(lim domain.Limiter) *Service {
	return &Service{
		Limiter:    lim,
		RetryAfter: 1 * time.Second,
		Logger:     zap.NewNop(),
		warn:       &rate.Sometimes{First: 3, Interval: 10 * time.Second},
	}
}

func (s *Service) Decide(ctx context.Context, op domain.Key) domain.Decision {
	if s == nil || s.Limiter == nil {
		return domain.Decision{Allowed: true, Operation: op}
	}

	if s.Limiter.TryAcquire(op) {
		s.record(ctx, op, true)
		return domain.Decision{Allowed: true, Operation: op}
	}

	retry := s.RetryAfter
	if retry <= 0 {
		retry = 1 * time.Second
	}
	if adv, ok := s.Limiter.(domain.RetryAdvisor); ok {
		if d := adv.RetryAfter(op); d > 0 {
			retry = d
		}
	}

	s.record(ctx, op, false)
	s.logDenied(op, retry)
	return domain.Decision{Allowed: false, Operation: op, RetryAfter: retry}
}

// Check é Decide em forma de erro: nil quando admitido, *domain.RateLimitError quando negado.
func (s *Service) Check(ctx context.Context, op domain.Key) error {
	dec := s.Decide(ctx, op)
	if dec.Allowed {
		return nil
	}
	return &domain.RateLimitError{Operation: op, RetryAfter: dec.RetryAfter}
}

func (s *Service) record(ctx context.Context, op domain.Key, ok bool) {
	if s.Stats == nil {
		return
	}
	err := s.Stats.Record(ctx, domain.StatsEvent{
		Kind: domain.EventRateLimit,
		Key:  op,
		OK:   ok,
		At:   now(s.Clock),
	})
	if err != nil {
		s.logger().Debug("stats record failed", zap.String("operation", string(op)), zap.Error(err))
	}
}

func (s *Service) logDenied(op domain.Key, retry time.Duration) {
	log := func() {
		s.logger().Warn("rate limit exceeded",
			zap.String("operation", string(op)),
			zap.Duration("retry_after", retry),
		)
	}
	if s.warn == nil {
		log()
		return
	}
	s.warn.Do(log)
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func now(c domain.Clock) time.Time {
	if c == nil {
		return time.Now()
	}
	return c.Now()
}
