package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contact-gateway/contact"
	"contact-gateway/contact/application"
	contactinfra "contact-gateway/contact/infra"
	"contact-gateway/middleware/ratelimit"
	"contact-gateway/middleware/ratelimit/domain"
	"contact-gateway/middleware/ratelimit/infra"
)

func main() {
	// Exemplo: endpoint de contato embutido direto no seu webserver, sem Redis
	// nem variáveis de ambiente. 5 POSTs por minuto por IP.
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	validator, err := application.NewValidator()
	if err != nil {
		log.Fatalf("validator: %v", err)
	}

	handler := contact.NewHandler(validator, application.Service{
		Notifier: contactinfra.NewLogNotifier(500*time.Millisecond, logger),
		Logger:   logger,
	}, logger)

	mux := http.NewServeMux()
	handler.Routes(mux, ratelimit.Middleware(ratelimit.Options{
		Store:               infra.NewMemoryWindowStore(),
		Config:              domain.Config{Window: time.Minute, MaxRequests: 5},
		RejectHandler:       contact.RejectTooManyRequests,
		ErrorHandler:        contact.InternalError,
		AddRateLimitHeaders: true,
		Logger:              logger,
	}))

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("example server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
