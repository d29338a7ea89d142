package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import (
	"context"
	"time"
)

type Key string

// Config descreve a janela deslizante: no máximo MaxRequests admitidas
// dentro de qualquer intervalo de duração Window.
type Config struct {
	Window      time.Duration
	MaxRequests int
}

// WindowStore guarda, por chave, os timestamps das requisições admitidas.
//
// Hit precisa executar leitura + filtro + append como uma única seção crítica:
// mantém apenas timestamps > windowStart e, se sobrarem menos que limit,
// registra now. Retorna a contagem resultante (incluindo now, se admitido).
// Uma tentativa rejeitada não altera o estado da chave.
//
// A implementação pode ser em memória (um processo) ou num store externo
// compartilhado (ex: Redis) quando houver mais de um processo.
type WindowStore interface {
	Hit(ctx context.Context, key Key, windowStart, now time.Time, limit int) (count int, allowed bool, err error)
}

type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt é sempre "uma janela a partir de agora" e anda a cada chamada.
	ResetAt time.Time
}

// RetryAfter é o tempo até ResetAt, nunca negativo.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if wait := d.ResetAt.Sub(now); wait > 0 {
		return wait
	}
	return 0
}
