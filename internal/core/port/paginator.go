package port

import (
	"context"
	"io"
)

// Paginator reads paginated documents (PDF)
type Paginator interface {
	PageCount(ctx context.Context, r io.ReadSeeker) (int, error)
	// ExtractPage writes a standalone document containing only the given 1-indexed page
	ExtractPage(ctx context.Context, r io.ReadSeeker, page int, w io.Writer) error
}
