package config

import (
	"errors"
	"strings"
	"time"
)

// Config representa a configuração completa do binário dashboard.
//
// Camadas: defaults -> arquivo YAML opcional -> variáveis de ambiente GOVERNOR_*.
type Config struct {
	DataURL         string        `mapstructure:"data_url"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	StatusInterval  time.Duration `mapstructure:"status_interval"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Throttle  ThrottleConfig  `mapstructure:"throttle"`
	Request   RequestConfig   `mapstructure:"request"`
	Reporting ReportingConfig `mapstructure:"reporting"`
	Stats     StatsConfig     `mapstructure:"stats"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Server    ServerConfig    `mapstructure:"server"`
}

type RateLimitConfig struct {
	// Algorithm: window | token_bucket
	Algorithm            string        `mapstructure:"algorithm"`
	Window               time.Duration `mapstructure:"window"`
	MaxEvents            int           `mapstructure:"max_events"`
	PartitionByOperation bool          `mapstructure:"partition_by_operation"`
	RetryAfter           time.Duration `mapstructure:"retry_after"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type ThrottleConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

type RequestConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	StatusTimeout time.Duration `mapstructure:"status_timeout"`
	DebounceDelay time.Duration `mapstructure:"debounce_delay"`
	MaxInputLen   int           `mapstructure:"max_input_len"`
}

// ReportingConfig controla o envio remoto de relatórios de erro.
type ReportingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
}

type StatsConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Prefix        string        `mapstructure:"prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
	Bucket        string        `mapstructure:"bucket"`
	TrackKeys     bool          `mapstructure:"track_keys"`
}

type LoggingConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: json | console
	Format string `mapstructure:"format"`
}

// ServerConfig é usado apenas pelo example-server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// DataFile substitui o documento de exemplo embutido.
	DataFile string `mapstructure:"data_file"`

	// Limite por cliente (IP ou header), token bucket.
	RateEnabled    bool          `mapstructure:"rate_enabled"`
	RateWindow     time.Duration `mapstructure:"rate_window"`
	RateMaxEvents  int           `mapstructure:"rate_max_events"`
	KeyHeader      string        `mapstructure:"key_header"`
	TrustXFF       bool          `mapstructure:"trust_xff"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataURL) == "" {
		return errors.New("data_url is required")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("rate_limit.window must be > 0")
	}
	if c.RateLimit.MaxEvents <= 0 {
		return errors.New("rate_limit.max_events must be > 0")
	}
	switch strings.ToLower(c.RateLimit.Algorithm) {
	case "window", "token_bucket":
	default:
		return errors.New("rate_limit.algorithm must be window or token_bucket")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be > 0")
	}
	if c.Throttle.MaxConcurrency <= 0 {
		return errors.New("throttle.max_concurrency must be > 0")
	}
	if c.Request.Timeout <= 0 {
		return errors.New("request.timeout must be > 0")
	}
	if c.Stats.Enabled && strings.TrimSpace(c.Stats.RedisAddr) == "" {
		return errors.New("stats.redis_addr is required when stats.enabled=true")
	}
	if c.Reporting.Enabled && strings.TrimSpace(c.Reporting.BaseURL) == "" {
		return errors.New("reporting.base_url is required when reporting.enabled=true")
	}
	return nil
}
