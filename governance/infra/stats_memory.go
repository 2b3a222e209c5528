package infra

import (
	"context"
	"sync"
	"time"

	"request-governor/governance/domain"
)

// Counters agrega os eventos de um tipo (ou de uma chave).
type Counters struct {
	OK    int64
	NotOK int64
	Total time.Duration
	Timed int64
}

// AvgDuration é a média das durações registradas (0 se nenhuma).
func (c Counters) AvgDuration() time.Duration {
	if c.Timed == 0 {
		return 0
	}
	return c.Total / time.Duration(c.Timed)
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e para as métricas locais do loader.
//
// Não faz expiração.
type MemoryStatsStore struct {
	mu     sync.Mutex
	byKind map[domain.EventKind]Counters
	byKey  map[string]Counters

	trackKeys bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackKeys(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackKeys = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byKind: make(map[domain.EventKind]Counters),
		byKey:  make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byKind[ev.Kind] = bump(s.byKind[ev.Kind], ev)
	if s.trackKeys {
		k := string(ev.Kind) + ":" + string(ev.Key)
		s.byKey[k] = bump(s.byKey[k], ev)
	}
	return nil
}

func bump(c Counters, ev domain.StatsEvent) Counters {
	if ev.OK {
		c.OK++
	} else {
		c.NotOK++
	}
	if ev.Duration > 0 {
		c.Total += ev.Duration
		c.Timed++
	}
	return c
}

func (s *MemoryStatsStore) Kind(kind domain.EventKind) Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byKind[kind]
}

func (s *MemoryStatsStore) ByKind() map[domain.EventKind]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.EventKind]Counters, len(s.byKind))
	for k, v := range s.byKind {
		out[k] = v
	}
	return out
}

// ByKey é indexado por "<kind>:<key>".
func (s *MemoryStatsStore) ByKey() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byKey))
	for k, v := range s.byKey {
		out[k] = v
	}
	return out
}

// MultiStatsStore repassa cada evento para todos os stores.
// Retorna o primeiro erro, mas sempre tenta todos.
type MultiStatsStore []domain.StatsStore

func (m MultiStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	var first error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
