package ratelimit

import (
	"log/slog"
	"net/http"
	"time"

	"contact-gateway/middleware/ratelimit/application"
	"contact-gateway/middleware/ratelimit/domain"
)

type Options struct {
	Store  domain.WindowStore
	Config domain.Config
	Stats  domain.StatsStore

	KeyFn     KeyFunc
	KeyHeader string

	// RejectHandler escreve a resposta quando a requisição passa do limite.
	// Padrão: texto 429.
	RejectHandler func(w http.ResponseWriter, r *http.Request, dec domain.Decision)
	// ErrorHandler escreve a resposta quando o store falha. Padrão: texto 500.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

	AddRateLimitHeaders bool
	Logger              *slog.Logger
	Now                 func() time.Time
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader)
	}
	if opts.RejectHandler == nil {
		opts.RejectHandler = func(w http.ResponseWriter, _ *http.Request, _ domain.Decision) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}
	}
	if opts.ErrorHandler == nil {
		opts.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	svc := application.Service{
		Store:  opts.Store,
		Config: opts.Config,
		Now:    opts.Now,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			dec, err := svc.Decide(r.Context(), domain.Key(key))
			if err != nil {
				opts.Logger.Error("rate limit store failed", "key", key, "error", err)
				opts.ErrorHandler(w, r, err)
				return
			}

			if opts.Stats != nil {
				err := opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:       domain.Key(key),
					Allowed:   dec.Allowed,
					Remaining: dec.Remaining,
					Method:    r.Method,
					Path:      r.URL.Path,
					At:        opts.Now(),
				})
				if err != nil {
					opts.Logger.Debug("rate limit stats not recorded", "error", err)
				}
			}

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Limit", formatInt(dec.Limit))
				w.Header().Set("X-RateLimit-Remaining", formatInt(dec.Remaining))
				w.Header().Set("X-RateLimit-Reset", formatUnix(dec.ResetAt))
			}

			if !dec.Allowed {
				w.Header().Set("Retry-After", formatSeconds(dec.RetryAfter(opts.Now())))
				opts.Logger.Warn("rate limit exceeded", "key", key, "limit", dec.Limit, "path", r.URL.Path)
				opts.RejectHandler(w, r, dec)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
