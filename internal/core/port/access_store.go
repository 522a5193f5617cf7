package port

import (
	"context"

	"github.com/bornholm/folio/internal/core/model"
)

// AccessStore is the purchase record store. It is the only
// authority on whether a user has full access to a document.
type AccessStore interface {
	// HasFullAccess returns true if the user has purchased the document.
	// Unknown or empty users never have full access.
	HasFullAccess(ctx context.Context, userID model.UserID, documentID model.DocumentID) (bool, error)

	// GrantAccess records a purchase. Granting an already granted access is a no-op,
	// there is no way to revoke it.
	GrantAccess(ctx context.Context, userID model.UserID, documentID model.DocumentID, reference string) error

	// QueryPurchases lists the purchases of a user
	QueryPurchases(ctx context.Context, userID model.UserID) ([]model.Purchase, error)
}
