package infra

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"contact-gateway/middleware/ratelimit/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript faz ler-filtrar-anexar atomicamente num ZSET (score = ms).
//
// KEYS[1] = chave da janela
// ARGV[1] = windowStart (ms, exclusivo)
// ARGV[2] = now (ms)
// ARGV[3] = limit
// ARGV[4] = member único do hit
// ARGV[5] = ttl da chave (ms)
var slidingWindowScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
local count = redis.call('ZCARD', KEYS[1])
if count < tonumber(ARGV[3]) then
  redis.call('ZADD', KEYS[1], ARGV[2], ARGV[4])
  redis.call('PEXPIRE', KEYS[1], ARGV[5])
  return {1, count + 1}
end
return {0, count}
`)

// RedisWindowStore guarda o sliding log num Redis compartilhado, para quando
// há mais de um processo atrás do mesmo balanceador.
//
// Diferente do MemoryWindowStore, hits expirados são apagados no próprio Hit
// e a chave some sozinha (PEXPIRE) após uma janela sem tráfego.
type RedisWindowStore struct {
	rdb    redis.Scripter
	prefix string
	ttl    time.Duration
}

type RedisStoreOption func(*RedisWindowStore)

func WithStorePrefix(prefix string) RedisStoreOption {
	return func(s *RedisWindowStore) { s.prefix = strings.Trim(prefix, ":") }
}

// WithStoreTTL define a expiração da chave; deve ser >= a janela.
func WithStoreTTL(d time.Duration) RedisStoreOption {
	return func(s *RedisWindowStore) { s.ttl = d }
}

func NewRedisWindowStore(rdb redis.Scripter, opts ...RedisStoreOption) *RedisWindowStore {
	s := &RedisWindowStore{
		rdb:    rdb,
		prefix: "ratelimit:window",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hit implementa domain.WindowStore.
func (s *RedisWindowStore) Hit(ctx context.Context, key domain.Key, windowStart, now time.Time, limit int) (int, bool, error) {
	ttl := s.ttl
	if window := now.Sub(windowStart); ttl < window {
		ttl = window
	}

	res, err := slidingWindowScript.Run(ctx, s.rdb,
		[]string{s.prefix + ":" + string(key)},
		strconv.FormatInt(windowStart.UnixMilli(), 10),
		strconv.FormatInt(now.UnixMilli(), 10),
		limit,
		uuid.NewString(),
		ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return 0, false, fmt.Errorf("redis sliding window: %w", err)
	}
	if len(res) != 2 {
		return 0, false, fmt.Errorf("redis sliding window: unexpected reply %v", res)
	}
	return int(res[1]), res[0] == 1, nil
}
