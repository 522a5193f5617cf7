package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/url"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Documents []Entry `yaml:"documents"`
}

type Entry struct {
	ID       string       `yaml:"id,omitempty"`
	URL      string       `yaml:"url"`
	Title    string       `yaml:"title,omitempty"`
	FileName string       `yaml:"fileName,omitempty"`
	Preview  *Preview     `yaml:"preview,omitempty"`
	Price    *model.Price `yaml:"price,omitempty"`
}

// Preview gates the document, zero pages meaning the configured default
type Preview struct {
	Pages int `yaml:"pages"`
}

func Parse(r io.Reader) (*Catalog, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var catalog Catalog
	if err := decoder.Decode(&catalog); err != nil {
		if errors.Is(err, io.EOF) {
			return &catalog, nil
		}

		return nil, errors.Wrap(err, "could not decode catalog")
	}

	return &catalog, nil
}

// Document validates the entry and converts it to a document
func (e Entry) Document() (model.Document, error) {
	if e.URL == "" {
		return nil, errors.New("document url is required")
	}

	u, err := url.Parse(e.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse document url '%s'", e.URL)
	}

	if u.Scheme == "" {
		return nil, errors.Errorf("document url '%s' has no scheme", e.URL)
	}

	funcs := []model.DocumentOptionFunc{
		model.WithDocumentTitle(e.Title),
		model.WithDocumentFileName(e.FileName),
	}

	if e.ID != "" {
		funcs = append(funcs, model.WithDocumentID(model.DocumentID(e.ID)))
	}

	if e.Preview != nil {
		if e.Preview.Pages < 0 {
			return nil, errors.Wrapf(model.ErrInvalidPreviewLimit, "document '%s' has a negative preview page limit", e.URL)
		}

		funcs = append(funcs, model.WithDocumentPreview(e.Preview.Pages))
	}

	if e.Price != nil {
		funcs = append(funcs, model.WithDocumentPrice(e.Price.Amount, e.Price.Currency))
	}

	doc, err := model.NewDocument(u, funcs...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return doc, nil
}

type ImportReport struct {
	Created int
	Updated int
}

// Import saves the catalog documents. Entries without an id update the
// document already published at the same url, if any.
func Import(ctx context.Context, store port.DocumentStore, catalog *Catalog) (*ImportReport, error) {
	documents := make([]model.Document, 0, len(catalog.Documents))
	for idx, entry := range catalog.Documents {
		doc, err := entry.Document()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid catalog entry #%d", idx)
		}

		documents = append(documents, doc)
	}

	report := &ImportReport{}

	for idx, doc := range documents {
		entry := catalog.Documents[idx]

		existing, err := findExisting(ctx, store, entry, doc)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		if existing != nil {
			if entry.ID == "" {
				rebuilt, err := rebuild(doc, existing.ID())
				if err != nil {
					return nil, errors.WithStack(err)
				}

				doc = rebuilt
			}

			report.Updated++
		} else {
			report.Created++
		}

		if err := store.SaveDocument(ctx, doc); err != nil {
			return nil, errors.Wrapf(err, "could not save document '%s'", doc.URL())
		}

		slog.DebugContext(ctx, "document imported", slog.String("id", string(doc.ID())), slog.String("url", doc.URL().String()))
	}

	return report, nil
}

func findExisting(ctx context.Context, store port.DocumentStore, entry Entry, doc model.Document) (model.Document, error) {
	var (
		existing model.Document
		err      error
	)

	if entry.ID != "" {
		existing, err = store.GetDocumentByID(ctx, doc.ID())
	} else {
		existing, err = store.FindDocumentByURL(ctx, doc.URL())
	}

	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return nil, nil
		}

		return nil, errors.WithStack(err)
	}

	return existing, nil
}

func rebuild(doc model.Document, id model.DocumentID) (model.Document, error) {
	funcs := []model.DocumentOptionFunc{
		model.WithDocumentID(id),
		model.WithDocumentTitle(doc.Title()),
		model.WithDocumentFileName(doc.FileName()),
		model.WithDocumentPrice(doc.Price().Amount, doc.Price().Currency),
	}

	if doc.Gated() {
		funcs = append(funcs, model.WithDocumentPreview(doc.PreviewPageLimit()))
	}

	rebuilt, err := model.NewDocument(doc.URL(), funcs...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return rebuilt, nil
}
