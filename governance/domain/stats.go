package domain

import (
	"context"
	"time"
)

type EventKind string

const (
	EventRateLimit EventKind = "rate_limit"
	EventCache     EventKind = "cache"
	EventFetch     EventKind = "fetch"
)

// StatsEvent representa um evento da governança (decisão de rate limit,
// hit/miss de cache, resultado de fetch).
//
// Observação: cuidado com cardinalidade de Key ao persistir em Redis.
type StatsEvent struct {
	Kind EventKind
	Key  Key
	// OK significa allowed (rate_limit), hit (cache) ou sucesso (fetch).
	OK bool

	Duration time.Duration
	At       time.Time
}

// StatsStore é a estratégia de persistência para estatísticas.
//
// Quem registra deve tratar erro como best-effort.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}

// Outcome devolve o nome do campo usado pelos stores para o evento.
func (ev StatsEvent) Outcome() string {
	switch ev.Kind {
	case EventRateLimit:
		if ev.OK {
			return "allowed"
		}
		return "denied"
	case EventCache:
		if ev.OK {
			return "hit"
		}
		return "miss"
	default:
		if ev.OK {
			return "success"
		}
		return "failure"
	}
}
