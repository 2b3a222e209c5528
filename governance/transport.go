package governance

import (
	"context"
	"net/http"

	"request-governor/governance/application"
	"request-governor/governance/domain"
)

type TransportOptions struct {
	Base        http.RoundTripper
	Limits      *application.Service
	Throttle    domain.Throttle
	OperationFn OperationFunc
	// OperationHeader é usado por DefaultOperationFunc quando OperationFn é nil.
	OperationHeader string
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Transport aplica rate limit e limite de concorrência a um http.RoundTripper.
//
// Negações retornam *domain.RateLimitError sem tocar na rede. A vaga do
// throttle é liberada quando os headers da resposta chegam; o corpo é lido
// fora dela. Não há cache neste nível.
func Transport(opts TransportOptions) http.RoundTripper {
	if opts.Base == nil {
		opts.Base = http.DefaultTransport
	}
	if opts.OperationFn == nil {
		opts.OperationFn = DefaultOperationFunc(opts.OperationHeader)
	}

	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		op := opts.OperationFn(r)
		if err := opts.Limits.Check(r.Context(), op); err != nil {
			return nil, err
		}

		if opts.Throttle == nil {
			return opts.Base.RoundTrip(r)
		}

		// Espera o futuro e não o ctx: uma resposta que chega depois do
		// cancelamento ainda precisa ter o corpo fechado aqui. Na fila, o
		// cancelamento já resolve o futuro com ctx.Err().
		fut := opts.Throttle.Submit(r.Context(), func(context.Context) (any, error) {
			return opts.Base.RoundTrip(r)
		})
		v, err := fut.Wait(context.Background())
		if err != nil {
			return nil, err
		}
		resp, _ := v.(*http.Response)
		if ctxErr := r.Context().Err(); ctxErr != nil && resp != nil {
			_ = resp.Body.Close()
			return nil, ctxErr
		}
		return resp, nil
	})
}

// Transport monta um http.RoundTripper que divide limiter e throttle com este Governor.
func (g *Governor[T]) Transport(base http.RoundTripper, fn OperationFunc) http.RoundTripper {
	return Transport(TransportOptions{
		Base:        base,
		Limits:      g.Limits,
		Throttle:    g.Throttle,
		OperationFn: fn,
	})
}
