package catalog

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

type memoryStore struct {
	documents map[model.DocumentID]model.Document
}

func (s *memoryStore) GetDocumentByID(ctx context.Context, id model.DocumentID) (model.Document, error) {
	doc, exists := s.documents[id]
	if !exists {
		return nil, errors.WithStack(port.ErrNotFound)
	}

	return doc, nil
}

func (s *memoryStore) FindDocumentByURL(ctx context.Context, u *url.URL) (model.Document, error) {
	for _, doc := range s.documents {
		if doc.URL().String() == u.String() {
			return doc, nil
		}
	}

	return nil, errors.WithStack(port.ErrNotFound)
}

func (s *memoryStore) SaveDocument(ctx context.Context, doc model.Document) error {
	s.documents[doc.ID()] = doc
	return nil
}

func (s *memoryStore) QueryDocuments(ctx context.Context, opts port.QueryDocumentsOptions) ([]model.Document, int64, error) {
	return nil, 0, nil
}

func (s *memoryStore) IncrementViewCount(ctx context.Context, id model.DocumentID) error {
	return nil
}

const testCatalog = `
documents:
  - id: doc-1
    url: https://cdn.example.com/books/doc-1.pdf
    title: The Book
    preview:
      pages: 30
    price:
      amount: 499
      currency: EUR
  - url: file:///poems/spring.md
    title: Spring
`

func TestImport(t *testing.T) {
	ctx := context.Background()

	catalog, err := Parse(strings.NewReader(testCatalog))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 2, len(catalog.Documents); e != g {
		t.Fatalf("len(catalog.Documents): expected '%v', got '%v'", e, g)
	}

	store := &memoryStore{documents: map[model.DocumentID]model.Document{}}

	report, err := Import(ctx, store, catalog)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 2, report.Created; e != g {
		t.Errorf("report.Created: expected '%v', got '%v'", e, g)
	}

	book, err := store.GetDocumentByID(ctx, "doc-1")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if !book.Gated() {
		t.Errorf("book.Gated(): expected true")
	}

	if e, g := 30, book.PreviewPageLimit(); e != g {
		t.Errorf("book.PreviewPageLimit(): expected '%v', got '%v'", e, g)
	}

	u, _ := url.Parse("file:///poems/spring.md")

	poem, err := store.FindDocumentByURL(ctx, u)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if poem.Gated() {
		t.Errorf("poem.Gated(): expected false")
	}

	// A second import keeps the generated identifiers
	report, err = Import(ctx, store, catalog)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 2, report.Updated; e != g {
		t.Errorf("report.Updated: expected '%v', got '%v'", e, g)
	}

	if e, g := 2, len(store.documents); e != g {
		t.Errorf("len(store.documents): expected '%v', got '%v'", e, g)
	}

	reimported, err := store.FindDocumentByURL(ctx, u)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := poem.ID(), reimported.ID(); e != g {
		t.Errorf("reimported.ID(): expected '%v', got '%v'", e, g)
	}
}

func TestParseInvalid(t *testing.T) {
	type testCase struct {
		Name    string
		Catalog string
	}

	testCases := []testCase{
		{"missing url", "documents:\n  - title: No url\n"},
		{"negative preview", "documents:\n  - url: https://example.com/a.pdf\n    preview:\n      pages: -1\n"},
		{"relative url", "documents:\n  - url: books/a.pdf\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			catalog, err := Parse(strings.NewReader(tc.Catalog))
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			store := &memoryStore{documents: map[model.DocumentID]model.Document{}}

			if _, err := Import(context.Background(), store, catalog); err == nil {
				t.Errorf("Import(): expected an error")
			}

			if e, g := 0, len(store.documents); e != g {
				t.Errorf("len(store.documents): expected '%v', got '%v'", e, g)
			}
		})
	}

	if _, err := Parse(strings.NewReader("documents:\n  - url: https://example.com/a.pdf\n    unknown: true\n")); err == nil {
		t.Errorf("Parse(): expected an error on unknown fields")
	}
}

func TestImportFile(t *testing.T) {
	ctx := context.Background()

	fs := afero.NewMemMapFs()

	if err := afero.WriteFile(fs, "/catalogs/books.yml", []byte(testCatalog), 0o644); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	store := &memoryStore{documents: map[model.DocumentID]model.Document{}}

	if err := ImportFile(ctx, fs, store, "/catalogs/books.yml"); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 2, len(store.documents); e != g {
		t.Errorf("len(store.documents): expected '%v', got '%v'", e, g)
	}

	// Importing the same file again updates the documents in place
	if err := ImportFile(ctx, fs, store, "/catalogs/books.yml"); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := 2, len(store.documents); e != g {
		t.Errorf("len(store.documents) after second import: expected '%v', got '%v'", e, g)
	}

	if err := ImportFile(ctx, fs, store, "/catalogs/missing.yml"); err == nil {
		t.Errorf("ImportFile(missing): expected an error, got nil")
	}
}
