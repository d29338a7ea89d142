package infra

import (
	"context"
	"fmt"
	"time"

	"contact-gateway/contact/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStreamNotifier publica cada submissão como uma entrada de stream
// (XADD). Um worker externo consome o stream e manda o e-mail de fato.
type RedisStreamNotifier struct {
	rdb    redis.Cmdable
	stream string
	maxLen int64
}

type StreamOption func(*RedisStreamNotifier)

func WithStream(name string) StreamOption {
	return func(n *RedisStreamNotifier) { n.stream = name }
}

// WithMaxLen limita o tamanho do stream; 0 desliga o corte.
func WithMaxLen(maxLen int64) StreamOption {
	return func(n *RedisStreamNotifier) { n.maxLen = maxLen }
}

func NewRedisStreamNotifier(rdb redis.Cmdable, opts ...StreamOption) *RedisStreamNotifier {
	n := &RedisStreamNotifier{
		rdb:    rdb,
		stream: "contact:submissions",
		maxLen: 10000,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *RedisStreamNotifier) Notify(ctx context.Context, receipt domain.Receipt, sub domain.Submission) error {
	err := n.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		MaxLen: n.maxLen,
		Values: map[string]any{
			"id":          receipt.ID,
			"received_at": receipt.ReceivedAt.UTC().Format(time.RFC3339Nano),
			"name":        sub.Name,
			"email":       sub.Email,
			"subject":     sub.Subject,
			"message":     sub.Message,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", n.stream, err)
	}
	return nil
}
