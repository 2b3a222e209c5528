package domain

import (
	"context"
	"sync"
)

// Task é uma unidade de trabalho assíncrona sem argumentos além do ctx.
type Task func(ctx context.Context) (any, error)

// Throttle limita quantas Tasks rodam ao mesmo tempo.
//
// A semântica é: Submit nunca bloqueia. A task começa agora se houver vaga,
// senão entra numa fila FIFO. O Future resolve exatamente com o resultado da task.
type Throttle interface {
	Submit(ctx context.Context, task Task) *Future
}

// Future é o resultado eventual de uma Task.
type Future struct {
	done chan struct{}
	once sync.Once
	val  any
	err  error
}

func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Complete resolve o Future. Chamadas seguintes são ignoradas.
func (f *Future) Complete(val any, err error) {
	f.once.Do(func() {
		f.val, f.err = val, err
		close(f.done)
	})
}

func (f *Future) Done() <-chan struct{} { return f.done }

// Wait espera o resultado ou o ctx encerrar.
// Se o ctx encerrar primeiro, a task não é abortada: isso é responsabilidade dela.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
