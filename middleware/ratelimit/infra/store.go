package infra

import (
	"context"
	"sync"
	"time"

	"contact-gateway/middleware/ratelimit/domain"
)

// MemoryWindowStore é um sliding log em memória: guarda, por chave, os
// timestamps das requisições admitidas.
//
// Um único mutex cobre ler-filtrar-anexar, então hits concorrentes da mesma
// chave não perdem atualização. Vale só para um processo.
//
// Por padrão nenhuma chave é removida: o mapa cresce com cada identificador
// visto. WithIdleTTL + StartJanitor ativam a limpeza de chaves inativas.
type MemoryWindowStore struct {
	mu           sync.Mutex
	entries      map[string][]time.Time
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type StoreOption func(*MemoryWindowStore)

// WithIdleTTL remove, na limpeza, chaves cujo último hit é mais velho que d.
// 0 desativa (padrão).
func WithIdleTTL(d time.Duration) StoreOption {
	return func(s *MemoryWindowStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) StoreOption {
	return func(s *MemoryWindowStore) { s.cleanupEvery = d }
}

func withClock(now func() time.Time) StoreOption {
	return func(s *MemoryWindowStore) { s.now = now }
}

func NewMemoryWindowStore(opts ...StoreOption) *MemoryWindowStore {
	s := &MemoryWindowStore{
		entries:      make(map[string][]time.Time),
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hit implementa domain.WindowStore.
func (s *MemoryWindowStore) Hit(_ context.Context, key domain.Key, windowStart, now time.Time, limit int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.entries[string(key)]

	recent := make([]time.Time, 0, len(existing)+1)
	for _, ts := range existing {
		if ts.After(windowStart) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= limit {
		// rejeitada: o log da chave fica como estava
		return len(recent), false, nil
	}

	recent = append(recent, now)
	s.entries[string(key)] = recent
	return len(recent), true, nil
}

// Len retorna quantas chaves estão guardadas.
func (s *MemoryWindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Cleanup remove chaves sem hit há mais de idleTTL. Sem idleTTL, não faz nada.
func (s *MemoryWindowStore) Cleanup() {
	if s.idleTTL <= 0 {
		return
	}
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, hits := range s.entries {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa chaves inativas periodicamente.
// Pare cancelando o contexto. Sem idleTTL, não inicia nada.
func (s *MemoryWindowStore) StartJanitor(ctx context.Context) {
	if s.idleTTL <= 0 || s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
