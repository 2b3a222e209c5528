package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "GOVERNOR"

// SetDefaults registra os valores padrão do dashboard.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_url", "")
	v.SetDefault("refresh_interval", 30*time.Second)
	v.SetDefault("status_interval", 5*time.Minute)

	v.SetDefault("rate_limit.algorithm", "window")
	v.SetDefault("rate_limit.window", 60*time.Second)
	v.SetDefault("rate_limit.max_events", 100)
	v.SetDefault("rate_limit.partition_by_operation", false)
	v.SetDefault("rate_limit.retry_after", 1*time.Second)

	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("throttle.max_concurrency", 5)

	v.SetDefault("request.timeout", 10*time.Second)
	v.SetDefault("request.status_timeout", 5*time.Second)
	v.SetDefault("request.debounce_delay", 300*time.Millisecond)
	v.SetDefault("request.max_input_len", 1000)

	v.SetDefault("reporting.enabled", false)
	v.SetDefault("reporting.base_url", "")

	v.SetDefault("stats.enabled", false)
	v.SetDefault("stats.redis_addr", "")
	v.SetDefault("stats.redis_password", "")
	v.SetDefault("stats.redis_db", 0)
	v.SetDefault("stats.prefix", "governor:stats")
	v.SetDefault("stats.ttl", 24*time.Hour)
	v.SetDefault("stats.bucket", "minute")
	v.SetDefault("stats.track_keys", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("server.addr", ":8081")
	v.SetDefault("server.data_file", "")
	v.SetDefault("server.rate_enabled", true)
	v.SetDefault("server.rate_window", 60*time.Second)
	v.SetDefault("server.rate_max_events", 120)
	v.SetDefault("server.key_header", "")
	v.SetDefault("server.trust_xff", false)
	v.SetDefault("server.max_concurrency", 50)
	v.SetDefault("server.acquire_timeout", 2*time.Second)
}

// NewViper cria uma instância com defaults e binding de ambiente.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load lê o arquivo opcional (path vazio = nenhum) e faz o unmarshal em Config.
// Não valida: quem chama decide quando Validate é necessário.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = NewViper()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
