package port

import (
	"context"
	"net/url"

	"github.com/bornholm/folio/internal/core/model"
)

type DocumentStore interface {
	// GetDocumentByID returns the document or ErrNotFound
	GetDocumentByID(ctx context.Context, id model.DocumentID) (model.Document, error)
	// FindDocumentByURL returns the first document published at the given URL or ErrNotFound
	FindDocumentByURL(ctx context.Context, u *url.URL) (model.Document, error)
	// SaveDocument creates or replaces the document
	SaveDocument(ctx context.Context, doc model.Document) error
	QueryDocuments(ctx context.Context, opts QueryDocumentsOptions) ([]model.Document, int64, error)
	// IncrementViewCount is a best-effort counter, callers should not
	// fail the viewing flow on error
	IncrementViewCount(ctx context.Context, id model.DocumentID) error
}

type QueryDocumentsOptions struct {
	Page  *int
	Limit *int
}
