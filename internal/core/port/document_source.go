package port

import (
	"context"
	"io"
	"net/url"
)

// DocumentSource opens the byte stream located at a document URL.
// The content type is never taken from the source: it is inferred from
// the URL extension.
type DocumentSource interface {
	Open(ctx context.Context, u *url.URL) (io.ReadCloser, error)
	SupportedSchemes() []string
}
