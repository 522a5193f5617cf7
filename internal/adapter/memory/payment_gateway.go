package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
	"github.com/rs/xid"
)

// PaymentGateway approves every purchase unless configured
// with a decline message. It is meant for development and tests.
type PaymentGateway struct {
	declineMessage string

	mu        sync.Mutex
	purchases []port.PurchaseRequest
}

// Purchase implements port.PaymentGateway.
func (g *PaymentGateway) Purchase(ctx context.Context, req port.PurchaseRequest) (*port.PurchaseConfirmation, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	if g.declineMessage != "" {
		return nil, port.NewPurchaseDeclinedError(g.declineMessage)
	}

	g.mu.Lock()
	g.purchases = append(g.purchases, req)
	g.mu.Unlock()

	reference := "memory-" + xid.New().String()

	slog.DebugContext(ctx, "purchase approved", slog.String("reference", reference), slog.String("document", string(req.DocumentID)))

	return &port.PurchaseConfirmation{
		Reference: reference,
	}, nil
}

// Purchases returns the approved purchase requests
func (g *PaymentGateway) Purchases() []port.PurchaseRequest {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]port.PurchaseRequest{}, g.purchases...)
}

func NewPaymentGateway(declineMessage string) *PaymentGateway {
	return &PaymentGateway{
		declineMessage: declineMessage,
	}
}

var _ port.PaymentGateway = &PaymentGateway{}
