// Package config carrega a configuração do contact-api a partir do ambiente.
//
// Um arquivo .env (opcional) é lido antes com godotenv; variáveis já definidas
// no ambiente têm precedência.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR"`

	Rate        RateConfig
	Redis       RedisConfig
	Concurrency ConcurrencyConfig
	Notify      NotifyConfig
	Log         LogConfig
}

type RateConfig struct {
	Enabled     bool          `env:"RATE_ENABLED" envDefault:"true"`
	Window      time.Duration `env:"RATE_WINDOW" envDefault:"1m"`
	MaxRequests int           `env:"RATE_MAX_REQUESTS" envDefault:"5"`
	KeyHeader   string        `env:"RATE_KEY_HEADER"`
	AddHeaders  bool          `env:"ADD_RATELIMIT_HEADERS" envDefault:"false"`

	// Store: "memory" (um processo) ou "redis" (compartilhado).
	Store       string        `env:"RATE_STORE" envDefault:"memory"`
	IdleTTL     time.Duration `env:"RATE_IDLE_TTL" envDefault:"0s"`
	RedisPrefix string        `env:"RATE_REDIS_PREFIX" envDefault:"ratelimit:window"`

	// Stats: "none", "memory", "redis" ou "prometheus".
	Stats          string        `env:"RATE_STATS" envDefault:"none"`
	StatsPrefix    string        `env:"RATE_STATS_PREFIX" envDefault:"ratelimit:stats"`
	StatsTTL       time.Duration `env:"RATE_STATS_TTL" envDefault:"24h"`
	StatsBucket    string        `env:"RATE_STATS_BUCKET" envDefault:"minute"`
	StatsTrackKeys bool          `env:"RATE_STATS_TRACK_KEYS" envDefault:"false"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type ConcurrencyConfig struct {
	Max     int           `env:"CONCURRENCY_MAX" envDefault:"100"`
	Timeout time.Duration `env:"CONCURRENCY_TIMEOUT" envDefault:"0s"`
}

type NotifyConfig struct {
	// Kind: "log" (envio simulado) ou "redis" (stream).
	Kind         string        `env:"NOTIFIER" envDefault:"log"`
	Delay        time.Duration `env:"NOTIFY_DELAY" envDefault:"500ms"`
	Stream       string        `env:"NOTIFY_STREAM" envDefault:"contact:submissions"`
	StreamMaxLen int64         `env:"NOTIFY_STREAM_MAXLEN" envDefault:"10000"`
	// RPS <= 0 desliga o throttle de saída.
	RPS   float64 `env:"NOTIFY_RPS" envDefault:"0"`
	Burst int     `env:"NOTIFY_BURST" envDefault:"1"`
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"text"`
	Output     string `env:"LOG_OUTPUT" envDefault:"stdout"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
}

// Load lê os arquivos .env informados (os inexistentes são ignorados), faz o
// parse do ambiente e valida o resultado.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv.Load não sobrescreve variáveis já definidas
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Rate.Store = strings.ToLower(strings.TrimSpace(c.Rate.Store))
	c.Rate.Stats = strings.ToLower(strings.TrimSpace(c.Rate.Stats))
	c.Notify.Kind = strings.ToLower(strings.TrimSpace(c.Notify.Kind))
}

// NeedsRedis diz se algum componente configurado usa Redis.
func (c Config) NeedsRedis() bool {
	return c.Rate.Store == "redis" || c.Rate.Stats == "redis" || c.Notify.Kind == "redis"
}

func (c Config) Validate() error {
	var errs []error

	if c.Rate.Window <= 0 {
		errs = append(errs, errors.New("RATE_WINDOW must be > 0"))
	}
	if c.Rate.MaxRequests < 1 {
		errs = append(errs, errors.New("RATE_MAX_REQUESTS must be >= 1"))
	}
	switch c.Rate.Store {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("RATE_STORE must be memory or redis, got %q", c.Rate.Store))
	}
	switch c.Rate.Stats {
	case "none", "memory", "redis", "prometheus":
	default:
		errs = append(errs, fmt.Errorf("RATE_STATS must be none, memory, redis or prometheus, got %q", c.Rate.Stats))
	}
	if c.Rate.Stats == "prometheus" && c.MetricsAddr == "" {
		errs = append(errs, errors.New("METRICS_ADDR is required when RATE_STATS=prometheus"))
	}
	switch c.Notify.Kind {
	case "log", "redis":
	default:
		errs = append(errs, fmt.Errorf("NOTIFIER must be log or redis, got %q", c.Notify.Kind))
	}
	if c.Notify.RPS > 0 && c.Notify.Burst < 1 {
		errs = append(errs, errors.New("NOTIFY_BURST must be >= 1 when NOTIFY_RPS is set"))
	}
	if c.Concurrency.Max < 0 {
		errs = append(errs, errors.New("CONCURRENCY_MAX must be >= 0"))
	}
	if c.NeedsRedis() && strings.TrimSpace(c.Redis.Addr) == "" {
		errs = append(errs, errors.New("REDIS_ADDR is required when a redis store, stats or notifier is enabled"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
