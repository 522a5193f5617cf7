package gorm

import (
	"net/url"
	"time"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/pkg/errors"
)

type Document struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	URL              string `gorm:"not null;index"`
	Title            string
	FileName         string
	Gated            bool
	PreviewPageLimit int
	PriceAmount      int64
	PriceCurrency    string

	ViewCount int64 `gorm:"not null;default:0"`
}

type wrappedDocument struct {
	d *Document
}

// ID implements model.Document.
func (w *wrappedDocument) ID() model.DocumentID {
	return model.DocumentID(w.d.ID)
}

// URL implements model.Document.
func (w *wrappedDocument) URL() *url.URL {
	url, err := url.Parse(w.d.URL)
	if err != nil {
		panic(errors.WithStack(err))
	}

	return url
}

// Title implements model.Document.
func (w *wrappedDocument) Title() string {
	return w.d.Title
}

// FileName implements model.Document.
func (w *wrappedDocument) FileName() string {
	return w.d.FileName
}

// Extension implements model.Document.
func (w *wrappedDocument) Extension() string {
	return model.ExtensionOf(w.URL(), w.d.FileName)
}

// Category implements model.Document.
func (w *wrappedDocument) Category() model.Category {
	return model.Classify(w.Extension())
}

// Gated implements model.Document.
func (w *wrappedDocument) Gated() bool {
	return w.d.Gated
}

// PreviewPageLimit implements model.Document.
func (w *wrappedDocument) PreviewPageLimit() int {
	return w.d.PreviewPageLimit
}

// Price implements model.Document.
func (w *wrappedDocument) Price() model.Price {
	return model.Price{
		Amount:   w.d.PriceAmount,
		Currency: w.d.PriceCurrency,
	}
}

var _ model.Document = &wrappedDocument{}

func fromDocument(d model.Document) *Document {
	price := d.Price()

	return &Document{
		ID:               string(d.ID()),
		URL:              d.URL().String(),
		Title:            d.Title(),
		FileName:         d.FileName(),
		Gated:            d.Gated(),
		PreviewPageLimit: d.PreviewPageLimit(),
		PriceAmount:      price.Amount,
		PriceCurrency:    price.Currency,
	}
}
