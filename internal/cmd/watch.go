package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const reloadKey = "reload"

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep dashboard data fresh and monitor linked services until interrupted",
	Long: `Loads the dashboard data, refreshes it every refresh_interval and checks
the linked local services every status_interval. SIGHUP forces a reload
(debounced). SIGINT/SIGTERM tear everything down.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp(ctx, appCfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)

		return runWatch(ctx, a, hup)
	},
}

// runWatch bloqueia até ctx terminar. reload recebe pedidos de recarga forçada.
func runWatch(ctx context.Context, a *app, reload <-chan os.Signal) error {
	log := a.log.Named("watch")

	res := a.loader.Init(ctx)
	log.Info("dashboard initialized",
		zap.Bool("fallback", res.Fallback),
		zap.String("correlation_id", res.CorrelationID),
		zap.Duration("duration", res.Duration),
	)

	go a.monitor.Run(ctx)

	refresh := a.cfg.RefreshInterval
	if refresh <= 0 {
		refresh = 30 * time.Second
	}
	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m := a.loader.Metrics()
			log.Info("watch stopped",
				zap.Int64("requests", m.RequestCount),
				zap.Int64("errors", m.ErrorCount),
				zap.Duration("avg_response_time", m.AvgResponseTime),
			)
			return nil
		case <-ticker.C:
			a.loader.Load(ctx)
		case <-reload:
			a.debouncer.Debounce(reloadKey, func() {
				a.gov.Cache.Clear()
				a.loader.Load(ctx)
			})
		}
	}
}
