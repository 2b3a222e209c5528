package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"request-governor/governance/application"
	"request-governor/governance/domain"
	"request-governor/governance/infra"
)

type RateLimitOptions struct {
	// Limits decide por chave de cliente. Nil desliga o limite.
	Limits              *application.Service
	KeyFn               KeyFunc
	KeyHeader           string
	TrustXForwardedFor  bool
	RejectStatus        int
	AddRateLimitHeaders bool
}

type rateInfo interface {
	RPS() float64
	Burst() int
}

// RateLimit rejeita com 429 (padrão) quem excede o limite da sua chave.
func RateLimit(opts RateLimitOptions) func(next http.Handler) http.Handler {
	if opts.Limits == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.KeyFn == nil {
		opts.KeyFn = ClientKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", string(key))
				if ri, ok := opts.Limits.Limiter.(rateInfo); ok {
					w.Header().Set("X-RateLimit-RPS", formatFloat(ri.RPS()))
					w.Header().Set("X-RateLimit-Burst", formatInt(ri.Burst()))
				}
			}

			dec := opts.Limits.Decide(r.Context(), key)
			if !dec.Allowed {
				w.Header().Set("Retry-After", retryAfterSeconds(dec.RetryAfter))
				http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type ConcurrencyOptions struct {
	Max          int
	RejectStatus int
	// AcquireTimeout limita só a espera na fila; zero espera até o cliente desistir.
	AcquireTimeout time.Duration
	Logger         *zap.Logger
}

// Concurrency atende no máximo Max requisições ao mesmo tempo. O excedente
// espera em ordem de chegada e é rejeitado (503) se não for admitido a tempo.
func Concurrency(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	queue := infra.NewQueue(opts.Max)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acquireCtx := r.Context()
			if opts.AcquireTimeout > 0 {
				var cancel context.CancelFunc
				acquireCtx, cancel = context.WithTimeout(acquireCtx, opts.AcquireTimeout)
				defer cancel()
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			aborted := false
			fut := queue.Submit(acquireCtx, func(context.Context) (any, error) {
				// ErrAbortHandler precisa chegar ao net/http na goroutine da
				// requisição; os demais panics viram ErrTaskPanicked na fila.
				defer func() {
					if rec := recover(); rec != nil {
						if rec == http.ErrAbortHandler {
							aborted = true
							return
						}
						panic(rec)
					}
				}()
				next.ServeHTTP(ww, r)
				return nil, nil
			})

			// Uma vez admitido, o handler roda até o fim; por isso a espera não usa ctx.
			// Os únicos erros possíveis são panic do handler ou desistência na fila.
			_, err := fut.Wait(context.Background())
			switch {
			case aborted:
				panic(http.ErrAbortHandler)
			case err == nil:
			case errors.Is(err, domain.ErrTaskPanicked):
				opts.Logger.Error("handler panicked", zap.String("path", r.URL.Path), zap.Error(err))
				// Com headers já enviados não há como trocar o status.
				if ww.Status() == 0 {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			default:
				http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
			}
		})
	}
}
