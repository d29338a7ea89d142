package infra

import (
	"context"
	"log/slog"
	"time"

	"contact-gateway/contact/domain"
)

// LogNotifier simula o envio de e-mail: espera Delay (respeitando o ctx) e
// registra a submissão no log. Não guarda o corpo da mensagem.
type LogNotifier struct {
	Delay  time.Duration
	Logger *slog.Logger
}

func NewLogNotifier(delay time.Duration, logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{Delay: delay, Logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, receipt domain.Receipt, sub domain.Submission) error {
	if n.Delay > 0 {
		t := time.NewTimer(n.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}

	n.Logger.Info("contact form submission",
		"id", receipt.ID,
		"from", sub.Email,
		"name", sub.Name,
		"subject", sub.Subject,
		"message_length", len([]rune(sub.Message)),
		"received_at", receipt.ReceivedAt.UTC().Format(time.RFC3339),
	)
	return nil
}
