package application

import (
	"context"
	"fmt"
	"time"

	"contact-gateway/middleware/ratelimit/domain"
)

// Service concentra a regra de aplicação do rate limit por janela deslizante.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
// Store e Config são obrigatórios; Now é opcional (padrão time.Now).
type Service struct {
	Store  domain.WindowStore
	Config domain.Config
	Now    func() time.Time
}

// Decide registra uma tentativa para key e diz se ela foi admitida.
//
// Chaves nunca vistas começam com zero requisições. Tentativas rejeitadas não
// contam para a janela.
func (s Service) Decide(ctx context.Context, key domain.Key) (domain.Decision, error) {
	limit := s.Config.MaxRequests
	if s.Store == nil || limit <= 0 || s.Config.Window <= 0 {
		return domain.Decision{}, fmt.Errorf("ratelimit: invalid service config (window=%s max=%d)", s.Config.Window, limit)
	}

	now := s.now()
	windowStart := now.Add(-s.Config.Window)

	count, allowed, err := s.Store.Hit(ctx, key, windowStart, now, limit)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("ratelimit: hit %q: %w", key, err)
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return domain.Decision{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   now.Add(s.Config.Window),
	}, nil
}

func (s Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
