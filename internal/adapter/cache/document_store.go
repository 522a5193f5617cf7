package cache

import (
	"context"
	"net/url"
	"time"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
)

type DocumentStore struct {
	backend   port.DocumentStore
	documents *documentIndex
}

// GetDocumentByID implements [port.DocumentStore].
func (s *DocumentStore) GetDocumentByID(ctx context.Context, id model.DocumentID) (model.Document, error) {
	if document, exists := s.documents.byID(id); exists {
		return document, nil
	}

	document, err := s.backend.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.documents.add(document)

	return document, nil
}

// FindDocumentByURL implements [port.DocumentStore].
func (s *DocumentStore) FindDocumentByURL(ctx context.Context, u *url.URL) (model.Document, error) {
	if document, exists := s.documents.byURL(u); exists {
		return document, nil
	}

	document, err := s.backend.FindDocumentByURL(ctx, u)
	if err != nil {
		return nil, err
	}

	s.documents.add(document)

	return document, nil
}

// SaveDocument implements [port.DocumentStore].
func (s *DocumentStore) SaveDocument(ctx context.Context, doc model.Document) error {
	defer s.documents.evict(doc)

	return s.backend.SaveDocument(ctx, doc)
}

// QueryDocuments implements [port.DocumentStore].
func (s *DocumentStore) QueryDocuments(ctx context.Context, opts port.QueryDocumentsOptions) ([]model.Document, int64, error) {
	return s.backend.QueryDocuments(ctx, opts)
}

// IncrementViewCount implements [port.DocumentStore].
func (s *DocumentStore) IncrementViewCount(ctx context.Context, id model.DocumentID) error {
	return s.backend.IncrementViewCount(ctx, id)
}

func NewDocumentStore(backend port.DocumentStore, size int, ttl time.Duration) *DocumentStore {
	return &DocumentStore{
		backend:   backend,
		documents: newDocumentIndex(size, ttl),
	}
}

var _ port.DocumentStore = &DocumentStore{}
