package model

import (
	"net/url"
	"testing"

	"github.com/pkg/errors"
)

func TestNewDocument(t *testing.T) {
	u, err := url.Parse("https://cdn.example.org/books/collected-poems.pdf")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	doc, err := NewDocument(u, WithDocumentTitle("Collected poems"), WithDocumentPreview(30), WithDocumentPrice(1200, "EUR"))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "collected-poems.pdf", doc.FileName(); e != g {
		t.Errorf("FileName(): expected '%v', got '%v'", e, g)
	}

	if e, g := CategoryPDF, doc.Category(); e != g {
		t.Errorf("Category(): expected '%v', got '%v'", e, g)
	}

	if !doc.Gated() {
		t.Errorf("document should be gated")
	}

	if e, g := 30, doc.PreviewPageLimit(); e != g {
		t.Errorf("PreviewPageLimit(): expected '%v', got '%v'", e, g)
	}

	if doc.ID() == "" {
		t.Errorf("document id should have been generated")
	}
}

func TestNewDocumentInvalidPreviewLimit(t *testing.T) {
	u, _ := url.Parse("https://cdn.example.org/books/a.pdf")

	_, err := NewDocument(u, WithDocumentPreview(-1))
	if !errors.Is(err, ErrInvalidPreviewLimit) {
		t.Errorf("expected ErrInvalidPreviewLimit, got %+v", err)
	}
}
