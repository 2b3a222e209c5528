package infra

import (
	"sync"
	"time"

	"request-governor/governance/domain"
	"request-governor/internal/clock"
)

const sharedLog domain.Key = ""

// WindowLog limita o número de eventos numa janela deslizante.
//
// Por padrão todas as operações dividem o mesmo orçamento: uso pesado de uma
// operação consome a cota das outras dentro da janela. Com
// WithPartitionByOperation cada operação ganha um log independente.
type WindowLog struct {
	mu        sync.Mutex
	clock     domain.Clock
	window    time.Duration
	max       int
	partition bool
	// logs guarda timestamps em ordem crescente de registro.
	logs map[domain.Key][]time.Time
}

type WindowLogOption func(*WindowLog)

func WithWindowClock(c domain.Clock) WindowLogOption {
	return func(w *WindowLog) { w.clock = c }
}

func WithPartitionByOperation() WindowLogOption {
	return func(w *WindowLog) { w.partition = true }
}

func NewWindowLog(window time.Duration, max int, opts ...WindowLogOption) *WindowLog {
	w := &WindowLog{
		clock:  clock.NewRealClock(),
		window: window,
		max:    max,
		logs:   make(map[domain.Key][]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *WindowLog) Window() time.Duration { return w.window }
func (w *WindowLog) Max() int              { return w.max }

// TryAcquire implementa domain.Limiter.
func (w *WindowLog) TryAcquire(op domain.Key) bool {
	now := w.clock.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.purge(now)

	k := w.logKey(op)
	if len(w.logs[k]) >= w.max {
		return false
	}
	w.logs[k] = append(w.logs[k], now)
	return true
}

// Count devolve quantos eventos vivos contam contra o orçamento de op.
func (w *WindowLog) Count(op domain.Key) int {
	now := w.clock.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.purge(now)
	return len(w.logs[w.logKey(op)])
}

// RetryAfter implementa domain.RetryAdvisor: tempo até o evento mais antigo
// sair da janela. 0 se a próxima admissão já seria aceita.
func (w *WindowLog) RetryAfter(op domain.Key) time.Duration {
	now := w.clock.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.purge(now)
	entries := w.logs[w.logKey(op)]
	if len(entries) < w.max || len(entries) == 0 {
		return 0
	}
	// o evento só deixa de contar quando fica estritamente antes de now-window
	d := entries[0].Add(w.window).Sub(now) + time.Nanosecond
	if d < 0 {
		return 0
	}
	return d
}

func (w *WindowLog) logKey(op domain.Key) domain.Key {
	if w.partition {
		return op
	}
	return sharedLog
}

// purge remove de todos os logs as entradas com timestamp < now-window.
// Deve ser chamado com w.mu travado.
func (w *WindowLog) purge(now time.Time) {
	windowStart := now.Add(-w.window)
	for k, entries := range w.logs {
		i := 0
		for i < len(entries) && entries[i].Before(windowStart) {
			i++
		}
		if i == len(entries) {
			delete(w.logs, k)
			continue
		}
		if i > 0 {
			w.logs[k] = append(entries[:0], entries[i:]...)
		}
	}
}
