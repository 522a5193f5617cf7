package port

import (
	"context"
	"io"
)

// DocumentRenderer converts a document which cannot be rendered natively
// (office documents) to a paginated PDF.
type DocumentRenderer interface {
	SupportedExtensions() []string
	Render(ctx context.Context, filename string, r io.Reader) (io.ReadCloser, error)
}
