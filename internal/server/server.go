package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"request-governor/dashboard"
)

type Options struct {
	Addr   string
	Data   *dashboard.Data
	Logger *zap.Logger

	RateLimit   RateLimitOptions
	Concurrency ConcurrencyOptions
}

// Server serve o dashboard-data.json de exemplo e recebe relatórios de erro.
type Server struct {
	addr    string
	data    *dashboard.Data
	log     *zap.Logger
	router  chi.Router
	reports atomic.Int64
}

func New(opts Options) *Server {
	s := &Server{addr: opts.Addr, data: opts.Data, log: opts.Logger}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.data == nil {
		s.data = dashboard.FallbackData()
	}
	if opts.Concurrency.Logger == nil {
		opts.Concurrency.Logger = s.log
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RateLimit(opts.RateLimit))
	r.Use(Concurrency(opts.Concurrency))

	r.Get("/dashboard-data.json", s.handleData)
	r.Head("/", s.handleRoot)
	r.Get("/", s.handleRoot)
	r.Post("/api/errors", s.handleErrorReport)

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Reports conta os relatórios de erro recebidos.
func (s *Server) Reports() int64 { return s.reports.Load() }

// Run escuta até o ctx ser cancelado e então faz shutdown gracioso.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("example server listening", zap.String("addr", s.addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
