package application

import (
	"context"

	"request-governor/governance/domain"
)

// Schedule submete task ao throttle e espera o resultado tipado.
//
// O resultado é exatamente o da task. Se o ctx encerrar enquanto a task está
// na fila ela nunca roda; se encerrar durante a execução, Schedule retorna
// ctx.Err() e a task segue até observar o próprio ctx.
// Com th == nil a task roda direto.
func Schedule[T any](ctx context.Context, th domain.Throttle, task func(context.Context) (T, error)) (T, error) {
	var zero T
	if task == nil {
		return zero, domain.ErrNilTask
	}
	if th == nil {
		return task(ctx)
	}

	fut := th.Submit(ctx, func(ctx context.Context) (any, error) {
		return task(ctx)
	})
	v, err := fut.Wait(ctx)
	out, ok := v.(T)
	if !ok {
		out = zero
	}
	return out, err
}
