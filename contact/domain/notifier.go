package domain

import (
	"context"
	"errors"
)

// ErrDelivery marca falhas ao entregar uma submissão aceita.
var ErrDelivery = errors.New("contact: delivery failed")

// Notifier entrega uma submissão já sanitizada ao destino final (e-mail, fila, log).
//
// Uma única tentativa por chamada: quem implementa não deve refazer o envio.
type Notifier interface {
	Notify(ctx context.Context, receipt Receipt, sub Submission) error
}
