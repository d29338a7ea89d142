package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contact-gateway/config"
	"contact-gateway/contact"
	"contact-gateway/contact/application"
	contactdomain "contact-gateway/contact/domain"
	contactinfra "contact-gateway/contact/infra"
	"contact-gateway/logging"
	"contact-gateway/middleware/ratelimit"
	"contact-gateway/middleware/ratelimit/domain"
	"contact-gateway/middleware/ratelimit/infra"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, closer, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("logging error: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("contact-api stopped", "error", err)
		if closer != nil {
			_ = closer.Close()
		}
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rdb *redis.Client
	if cfg.NeedsRedis() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancelPing()
		if err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
	}

	var store domain.WindowStore
	switch cfg.Rate.Store {
	case "redis":
		store = infra.NewRedisWindowStore(rdb, infra.WithStorePrefix(cfg.Rate.RedisPrefix))
	default:
		mem := infra.NewMemoryWindowStore(infra.WithIdleTTL(cfg.Rate.IdleTTL))
		mem.StartJanitor(ctx)
		store = mem
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	stats, err := newStats(cfg.Rate, rdb, reg)
	if err != nil {
		return err
	}

	validator, err := application.NewValidator()
	if err != nil {
		return err
	}

	handler := contact.NewHandler(validator, application.Service{
		Notifier: newNotifier(cfg.Notify, rdb, logger),
		Logger:   logger,
	}, logger)

	var limit func(http.Handler) http.Handler
	if cfg.Rate.Enabled {
		limit = ratelimit.Middleware(ratelimit.Options{
			Store:               store,
			Config:              domain.Config{Window: cfg.Rate.Window, MaxRequests: cfg.Rate.MaxRequests},
			Stats:               stats,
			KeyHeader:           cfg.Rate.KeyHeader,
			RejectHandler:       contact.RejectTooManyRequests,
			ErrorHandler:        contact.InternalError,
			AddRateLimitHeaders: cfg.Rate.AddHeaders,
			Logger:              logger,
		})
	}

	mux := http.NewServeMux()
	handler.Routes(mux, limit)

	h := ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{
		Max:            cfg.Concurrency.Max,
		RejectStatus:   http.StatusServiceUnavailable,
		AcquireTimeout: cfg.Concurrency.Timeout,
		Logger:         logger,
	})(mux)

	servers := []*http.Server{newServer(cfg.ListenAddr, h)}
	if cfg.MetricsAddr != "" {
		metrics := http.NewServeMux()
		metrics.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		servers = append(servers, newServer(cfg.MetricsAddr, metrics))
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, srv := range servers {
			_ = srv.Shutdown(shutdownCtx)
		}
	}()

	logger.Info("contact-api listening", "addr", cfg.ListenAddr, "metrics_addr", cfg.MetricsAddr)
	logger.Info("rate limit",
		"enabled", cfg.Rate.Enabled,
		"window", cfg.Rate.Window,
		"max_requests", cfg.Rate.MaxRequests,
		"store", cfg.Rate.Store,
		"stats", cfg.Rate.Stats,
		"key_header", cfg.Rate.KeyHeader,
	)
	logger.Info("notifier", "kind", cfg.Notify.Kind, "rps", cfg.Notify.RPS)
	logger.Info("concurrency", "max", cfg.Concurrency.Max, "acquire_timeout", cfg.Concurrency.Timeout)

	errc := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- fmt.Errorf("server %s: %w", srv.Addr, err)
				return
			}
			errc <- nil
		}(srv)
	}

	var firstErr error
	for range servers {
		if err := <-errc; err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	if ms, ok := stats.(*infra.MemoryStatsStore); ok {
		total := ms.Total()
		logger.Info("rate limit totals", "allowed", total.Allowed, "denied", total.Denied)
	}
	return firstErr
}

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}

func newStats(cfg config.RateConfig, rdb *redis.Client, reg prometheus.Registerer) (domain.StatsStore, error) {
	switch cfg.Stats {
	case "memory":
		return infra.NewMemoryStatsStore(infra.WithTrackKeys(cfg.StatsTrackKeys)), nil
	case "redis":
		return infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.StatsPrefix),
			infra.WithStatsTTL(cfg.StatsTTL),
			infra.WithStatsBucket(cfg.StatsBucket),
			infra.WithStatsTrackKeys(cfg.StatsTrackKeys),
		), nil
	case "prometheus":
		s, err := infra.NewPrometheusStatsStore(reg)
		if err != nil {
			return nil, fmt.Errorf("register rate limit metrics: %w", err)
		}
		return s, nil
	default:
		return nil, nil
	}
}

func newNotifier(cfg config.NotifyConfig, rdb *redis.Client, logger *slog.Logger) contactdomain.Notifier {
	var n contactdomain.Notifier
	switch cfg.Kind {
	case "redis":
		n = contactinfra.NewRedisStreamNotifier(
			rdb,
			contactinfra.WithStream(cfg.Stream),
			contactinfra.WithMaxLen(cfg.StreamMaxLen),
		)
	default:
		n = contactinfra.NewLogNotifier(cfg.Delay, logger)
	}
	if cfg.RPS > 0 {
		n = contactinfra.NewThrottledNotifier(n, cfg.RPS, cfg.Burst)
	}
	return n
}
