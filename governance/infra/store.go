package infra

import (
	"sync"
	"time"

	"request-governor/governance/domain"
	"request-governor/internal/clock"

	"golang.org/x/time/rate"
)

// Store é um limiter alternativo baseado em token-bucket (x/time/rate), com um
// bucket por operação e limpeza periódica de operações inativas.
//
// Diferente do WindowLog, cada operação tem seu próprio orçamento.
type Store struct {
	mu           sync.Mutex
	clock        domain.Clock
	entries      map[domain.Key]*storeEntry
	limit        rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type storeEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type StoreOption func(*Store)

func WithIdleTTL(d time.Duration) StoreOption {
	return func(s *Store) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) StoreOption {
	return func(s *Store) { s.cleanupEvery = d }
}

func WithStoreClock(c domain.Clock) StoreOption {
	return func(s *Store) { s.clock = c }
}

// NewStore cria buckets que reabastecem `max` tokens por `window`, com rajada `max`.
func NewStore(window time.Duration, max int, opts ...StoreOption) *Store {
	s := &Store{
		clock:        clock.NewRealClock(),
		entries:      make(map[domain.Key]*storeEntry),
		limit:        rate.Limit(float64(max) / window.Seconds()),
		burst:        max,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) RPS() float64                { return float64(s.limit) }
func (s *Store) Burst() int                  { return s.burst }
func (s *Store) CleanupEvery() time.Duration { return s.cleanupEvery }

// TryAcquire implementa domain.Limiter.
func (s *Store) TryAcquire(op domain.Key) bool {
	now := s.clock.Now()
	return s.get(op, now).AllowN(now, 1)
}

// RetryAfter implementa domain.RetryAdvisor.
func (s *Store) RetryAfter(op domain.Key) time.Duration {
	now := s.clock.Now()
	tokens := s.get(op, now).TokensAt(now)
	if tokens >= 1 || s.limit <= 0 {
		return 0
	}
	return time.Duration((1 - tokens) / float64(s.limit) * float64(time.Second))
}

func (s *Store) get(op domain.Key, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[op]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.limit, s.burst)
	s.entries[op] = &storeEntry{lim: lim, lastSeen: now}
	return lim
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) Cleanup() {
	cutoff := s.clock.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa operações inativas periodicamente.
// Pare cancelando o contexto.
func (s *Store) StartJanitor(ctx DoneContext) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// DoneContext é o mínimo necessário para aceitar context.Context sem importar context aqui.
type DoneContext interface {
	Done() <-chan struct{}
}
