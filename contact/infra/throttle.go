package infra

import (
	"context"
	"fmt"

	"contact-gateway/contact/domain"

	"golang.org/x/time/rate"
)

// ThrottledNotifier limita a vazão global de envios (ex: cota do provedor de
// e-mail). Espera por um token; se o ctx acabar antes, a entrega falha sem
// nova tentativa.
type ThrottledNotifier struct {
	next domain.Notifier
	lim  *rate.Limiter
}

func NewThrottledNotifier(next domain.Notifier, perSecond float64, burst int) *ThrottledNotifier {
	return &ThrottledNotifier{
		next: next,
		lim:  rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (n *ThrottledNotifier) Notify(ctx context.Context, receipt domain.Receipt, sub domain.Submission) error {
	if err := n.lim.Wait(ctx); err != nil {
		return fmt.Errorf("notify throttle: %w", err)
	}
	return n.next.Notify(ctx, receipt, sub)
}
