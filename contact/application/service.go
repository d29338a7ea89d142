package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"contact-gateway/contact/domain"

	"github.com/google/uuid"
)

// Service entrega submissões aceitas: sanitiza, carimba um Receipt e chama o
// Notifier uma única vez.
type Service struct {
	Notifier domain.Notifier
	Logger   *slog.Logger
	Now      func() time.Time
	NewID    func() string
}

func (s Service) Deliver(ctx context.Context, sub domain.Submission) (domain.Receipt, error) {
	clean := Sanitize(sub)
	receipt := domain.Receipt{ID: s.newID(), ReceivedAt: s.now()}

	if s.Notifier == nil {
		return receipt, fmt.Errorf("%w: no notifier configured", domain.ErrDelivery)
	}
	if err := s.Notifier.Notify(ctx, receipt, clean); err != nil {
		return receipt, fmt.Errorf("%w: %s: %w", domain.ErrDelivery, receipt.ID, err)
	}

	s.logger().Info("contact submission delivered", "id", receipt.ID, "from", clean.Email)
	return receipt, nil
}

func (s Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
