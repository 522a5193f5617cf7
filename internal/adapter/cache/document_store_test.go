package cache

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
)

type memoryDocumentStore struct {
	documents map[model.DocumentID]model.Document
	reads     int
}

func (s *memoryDocumentStore) GetDocumentByID(ctx context.Context, id model.DocumentID) (model.Document, error) {
	s.reads++

	doc, exists := s.documents[id]
	if !exists {
		return nil, errors.WithStack(port.ErrNotFound)
	}

	return doc, nil
}

func (s *memoryDocumentStore) FindDocumentByURL(ctx context.Context, u *url.URL) (model.Document, error) {
	s.reads++

	for _, doc := range s.documents {
		if doc.URL().String() == u.String() {
			return doc, nil
		}
	}

	return nil, errors.WithStack(port.ErrNotFound)
}

func (s *memoryDocumentStore) SaveDocument(ctx context.Context, doc model.Document) error {
	s.documents[doc.ID()] = doc
	return nil
}

func (s *memoryDocumentStore) QueryDocuments(ctx context.Context, opts port.QueryDocumentsOptions) ([]model.Document, int64, error) {
	return nil, 0, nil
}

func (s *memoryDocumentStore) IncrementViewCount(ctx context.Context, id model.DocumentID) error {
	return nil
}

func TestDocumentStoreCache(t *testing.T) {
	ctx := context.Background()
	backend := &memoryDocumentStore{documents: map[model.DocumentID]model.Document{}}
	store := NewDocumentStore(backend, 10, time.Minute)

	u, _ := url.Parse("https://example.com/doc-1.pdf")

	doc, err := model.NewDocument(u, model.WithDocumentTitle("First"))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := store.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if _, err := store.GetDocumentByID(ctx, doc.ID()); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if _, err := store.FindDocumentByURL(ctx, u); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 1, backend.reads; e != g {
		t.Errorf("backend.reads: expected '%v', got '%v'", e, g)
	}

	updated, err := model.NewDocument(u, model.WithDocumentID(doc.ID()), model.WithDocumentTitle("Second"))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := store.SaveDocument(ctx, updated); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	cached, err := store.GetDocumentByID(ctx, doc.ID())
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "Second", cached.Title(); e != g {
		t.Errorf("cached.Title(): expected '%v', got '%v'", e, g)
	}
}

func TestDocumentStoreCacheMovedDocument(t *testing.T) {
	ctx := context.Background()
	backend := &memoryDocumentStore{documents: map[model.DocumentID]model.Document{}}
	store := NewDocumentStore(backend, 10, time.Minute)

	oldURL, _ := url.Parse("https://example.com/old.pdf")
	newURL, _ := url.Parse("https://example.com/new.pdf")

	doc, err := model.NewDocument(oldURL)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := store.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if _, err := store.GetDocumentByID(ctx, doc.ID()); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	moved, err := model.NewDocument(newURL, model.WithDocumentID(doc.ID()))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := store.SaveDocument(ctx, moved); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if _, err := store.FindDocumentByURL(ctx, oldURL); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("FindDocumentByURL(oldURL): expected port.ErrNotFound, got '%v'", err)
	}
}
