package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"request-governor/dashboard"
	"request-governor/governance/application"
	"request-governor/governance/infra"
	"request-governor/internal/config"
	"request-governor/internal/logging"
	"request-governor/internal/server"
)

func main() {
	var cfgFile string
	v := config.NewViper()

	root := &cobra.Command{
		Use:          "example-server",
		Short:        "Serve a sample dashboard-data.json and accept error reports",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.Logging)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return run(cmd.Context(), cfg.Server, log)
		},
	}
	root.Flags().StringVar(&cfgFile, "config", "", "config file (optional)")
	root.Flags().String("addr", "", "listen address (overrides server.addr)")
	root.Flags().String("data-file", "", "dashboard-data.json to serve instead of the sample")
	_ = v.BindPFlag("server.addr", root.Flags().Lookup("addr"))
	_ = v.BindPFlag("server.data_file", root.Flags().Lookup("data-file"))

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.ServerConfig, log *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	data := server.SampleData(baseURL(cfg.Addr))
	if cfg.DataFile != "" {
		d, err := server.LoadDataFile(cfg.DataFile)
		if err != nil {
			return err
		}
		if err := dashboard.Validate(d, 0); err != nil {
			return err
		}
		data = d
	}

	var limits *application.Service
	if cfg.RateEnabled {
		store := infra.NewStore(cfg.RateWindow, cfg.RateMaxEvents)
		store.StartJanitor(ctx)
		limits = application.NewService(store)
		limits.Logger = log.Named("ratelimit")
	}

	srv := server.New(server.Options{
		Addr:   cfg.Addr,
		Data:   data,
		Logger: log,
		RateLimit: server.RateLimitOptions{
			Limits:              limits,
			KeyHeader:           cfg.KeyHeader,
			TrustXForwardedFor:  cfg.TrustXFF,
			AddRateLimitHeaders: true,
		},
		Concurrency: server.ConcurrencyOptions{
			Max:            cfg.MaxConcurrency,
			AcquireTimeout: cfg.AcquireTimeout,
		},
	})
	return srv.Run(ctx)
}

// baseURL usado nos links do documento de exemplo.
func baseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
