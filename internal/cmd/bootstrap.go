package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"request-governor/dashboard"
	"request-governor/governance"
	"request-governor/governance/domain"
	"request-governor/governance/infra"
	"request-governor/internal/config"
)

const opErrorReport domain.Key = "error-report"

// app reúne tudo que os subcomandos usam. Close desfaz na ordem inversa.
type app struct {
	cfg config.Config
	log *zap.Logger

	gov       *governance.Governor[*dashboard.Data]
	loader    *dashboard.Loader
	monitor   *dashboard.StatusMonitor
	reporter  *dashboard.Reporter
	debouncer *dashboard.Debouncer
	stats     *infra.MemoryStatsStore

	rdb *redis.Client
}

func newApp(ctx context.Context, cfg config.Config, log *zap.Logger) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	a := &app{cfg: cfg, log: log, stats: infra.NewMemoryStatsStore(infra.WithTrackKeys(true))}

	stores := infra.MultiStatsStore{a.stats}
	if cfg.Stats.Enabled {
		rdb, err := openRedis(ctx, cfg.Stats)
		if err != nil {
			return nil, err
		}
		a.rdb = rdb
		stores = append(stores, newRedisStats(rdb, cfg.Stats))
	}

	gov, err := governance.New[*dashboard.Data](governance.Options{
		WindowDuration:       cfg.RateLimit.Window,
		MaxEvents:            cfg.RateLimit.MaxEvents,
		TTL:                  cfg.Cache.TTL,
		MaxConcurrency:       cfg.Throttle.MaxConcurrency,
		Algorithm:            cfg.RateLimit.Algorithm,
		PartitionByOperation: cfg.RateLimit.PartitionByOperation,
		RetryAfter:           cfg.RateLimit.RetryAfter,
		Stats:                stores,
		Logger:               log.Named("governor"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.gov = gov
	gov.Start(ctx)

	a.reporter = dashboard.NewReporter(dashboard.ReporterOptions{
		Enabled: cfg.Reporting.Enabled,
		BaseURL: cfg.Reporting.BaseURL,
		Client:  &http.Client{Transport: gov.Transport(nil, governance.StaticOperation(opErrorReport))},
		Logger:  log.Named("reporter"),
	})

	a.loader, err = dashboard.NewLoader(gov, dashboard.LoaderOptions{
		URL:            cfg.DataURL,
		RequestTimeout: cfg.Request.Timeout,
		MaxInputLen:    cfg.Request.MaxInputLen,
		Reporter:       a.reporter,
		Stats:          stores,
		Logger:         log.Named("loader"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.monitor = dashboard.NewStatusMonitor(a.loader, dashboard.StatusMonitorOptions{
		Client:   &http.Client{Transport: gov.Transport(nil, governance.StaticOperation(dashboard.OpStatusCheck))},
		Interval: cfg.StatusInterval,
		Timeout:  cfg.Request.StatusTimeout,
		Logger:   log.Named("status"),
	})
	a.debouncer = dashboard.NewDebouncer(cfg.Request.DebounceDelay)
	return a, nil
}

func openRedis(ctx context.Context, cfg config.StatsConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis stats ping error: %w", err)
	}
	return rdb, nil
}

func newRedisStats(rdb redis.Cmdable, cfg config.StatsConfig) *infra.RedisStatsStore {
	return infra.NewRedisStatsStore(
		rdb,
		infra.WithStatsPrefix(cfg.Prefix),
		infra.WithStatsTTL(cfg.TTL),
		infra.WithStatsBucket(cfg.Bucket),
		infra.WithStatsTrackKeys(cfg.TrackKeys),
	)
}

func (a *app) Close() {
	if a.debouncer != nil {
		a.debouncer.Stop()
	}
	if a.gov != nil {
		a.gov.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	a.log.Info("dashboard destroyed")
}
