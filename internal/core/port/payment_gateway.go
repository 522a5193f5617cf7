package port

import (
	"context"
	"fmt"

	"github.com/bornholm/folio/internal/core/model"
)

type PurchaseRequest struct {
	UserID     model.UserID
	DocumentID model.DocumentID
	Price      model.Price
}

type PurchaseConfirmation struct {
	// Reference identifies the transaction on the gateway side
	Reference string
}

type PaymentGateway interface {
	// Purchase submits the purchase. A declined purchase is
	// returned as a *PurchaseDeclinedError.
	Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseConfirmation, error)
}

// PurchaseDeclinedError carries the gateway message, which
// is displayed verbatim to the viewer.
type PurchaseDeclinedError struct {
	Message string
}

func (e *PurchaseDeclinedError) Error() string {
	return fmt.Sprintf("purchase declined: %s", e.Message)
}

func NewPurchaseDeclinedError(message string) *PurchaseDeclinedError {
	return &PurchaseDeclinedError{Message: message}
}
