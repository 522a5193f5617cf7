package model

import (
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/xid"
)

var ErrInvalidPreviewLimit = errors.New("invalid preview page limit")

type DocumentID string

func NewDocumentID() DocumentID {
	return DocumentID(xid.New().String())
}

// Price is informational, the payment gateway owns the actual amount.
type Price struct {
	Amount   int64  `json:"amount" yaml:"amount"`
	Currency string `json:"currency" yaml:"currency"`
}

func (p Price) Free() bool {
	return p.Amount <= 0
}

type Document interface {
	WithID[DocumentID]
	WithPrice

	URL() *url.URL
	Title() string
	FileName() string
	Extension() string
	Category() Category

	// Gated returns true when unpurchased viewers are restricted
	// to a preview of the document
	Gated() bool
	// PreviewPageLimit returns the number of freely viewable pages,
	// or zero to use the configured default
	PreviewPageLimit() int
}

type BaseDocument struct {
	id               DocumentID
	url              *url.URL
	title            string
	fileName         string
	gated            bool
	previewPageLimit int
	price            Price
}

// ID implements Document.
func (d *BaseDocument) ID() DocumentID {
	return d.id
}

// URL implements Document.
func (d *BaseDocument) URL() *url.URL {
	return d.url
}

// Title implements Document.
func (d *BaseDocument) Title() string {
	return d.title
}

// FileName implements Document.
func (d *BaseDocument) FileName() string {
	return d.fileName
}

// Extension implements Document.
func (d *BaseDocument) Extension() string {
	return ExtensionOf(d.url, d.fileName)
}

// Category implements Document.
func (d *BaseDocument) Category() Category {
	return Classify(d.Extension())
}

// Gated implements Document.
func (d *BaseDocument) Gated() bool {
	return d.gated
}

// PreviewPageLimit implements Document.
func (d *BaseDocument) PreviewPageLimit() int {
	return d.previewPageLimit
}

// Price implements Document.
func (d *BaseDocument) Price() Price {
	return d.price
}

var _ Document = &BaseDocument{}

type DocumentOptions struct {
	ID               DocumentID
	Title            string
	FileName         string
	Gated            bool
	PreviewPageLimit int
	Price            Price
}

type DocumentOptionFunc func(opts *DocumentOptions)

func WithDocumentID(id DocumentID) DocumentOptionFunc {
	return func(opts *DocumentOptions) {
		opts.ID = id
	}
}

func WithDocumentTitle(title string) DocumentOptionFunc {
	return func(opts *DocumentOptions) {
		opts.Title = title
	}
}

func WithDocumentFileName(fileName string) DocumentOptionFunc {
	return func(opts *DocumentOptions) {
		opts.FileName = fileName
	}
}

// WithDocumentPreview marks the document as gated, restricting
// unpurchased viewers to the given number of pages (zero meaning the
// configured default).
func WithDocumentPreview(previewPageLimit int) DocumentOptionFunc {
	return func(opts *DocumentOptions) {
		opts.Gated = true
		opts.PreviewPageLimit = previewPageLimit
	}
}

func WithDocumentPrice(amount int64, currency string) DocumentOptionFunc {
	return func(opts *DocumentOptions) {
		opts.Price = Price{Amount: amount, Currency: currency}
	}
}

func NewDocument(u *url.URL, funcs ...DocumentOptionFunc) (*BaseDocument, error) {
	if u == nil {
		return nil, errors.New("document url is required")
	}

	opts := &DocumentOptions{
		ID: NewDocumentID(),
	}
	for _, fn := range funcs {
		fn(opts)
	}

	if opts.PreviewPageLimit < 0 {
		return nil, errors.Wrapf(ErrInvalidPreviewLimit, "preview page limit must be positive, got %d", opts.PreviewPageLimit)
	}

	fileName := opts.FileName
	if fileName == "" {
		fileName = FileNameOf(u)
	}

	return &BaseDocument{
		id:               opts.ID,
		url:              u,
		title:            opts.Title,
		fileName:         fileName,
		gated:            opts.Gated,
		previewPageLimit: opts.PreviewPageLimit,
		price:            opts.Price,
	}, nil
}

// FileNameOf returns the last element of the URL path, or "document" if empty.
func FileNameOf(u *url.URL) string {
	if u == nil {
		return "document"
	}

	name := u.Path
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			name = name[i+1:]
			break
		}
	}

	if name == "" {
		return "document"
	}

	return name
}
