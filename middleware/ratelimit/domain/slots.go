package domain

import (
	"context"
	"errors"
)

// ErrNoSlot indica que nenhuma vaga foi liberada dentro do prazo de aquisição.
var ErrNoSlot = errors.New("ratelimit: no concurrency slot available")

// SlotPool limita quantas requisições ficam em processamento ao mesmo tempo.
//
// Acquire bloqueia até conseguir uma vaga ou até o ctx encerrar. Ao adquirir,
// retorna um release que deve ser chamado exatamente uma vez.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
	// InUse retorna quantas vagas estão ocupadas agora.
	InUse() int
}
