package viewer

import "time"

const (
	DefaultPreviewPageLimit = 30
	DefaultLoadTimeout      = 2 * time.Minute
	DefaultMaxDocumentSize  = 100 << 20
)

type SessionOptions struct {
	ID SessionID
	// PreviewLimit is used when the document does not define its own limit
	PreviewLimit    int
	LoadTimeout     time.Duration
	MaxDocumentSize int64
}

type SessionOptionFunc func(opts *SessionOptions)

func NewSessionOptions(funcs ...SessionOptionFunc) *SessionOptions {
	opts := &SessionOptions{
		PreviewLimit:    DefaultPreviewPageLimit,
		LoadTimeout:     DefaultLoadTimeout,
		MaxDocumentSize: DefaultMaxDocumentSize,
	}

	for _, fn := range funcs {
		fn(opts)
	}

	if opts.PreviewLimit < 1 {
		opts.PreviewLimit = DefaultPreviewPageLimit
	}

	return opts
}

func WithSessionID(id SessionID) SessionOptionFunc {
	return func(opts *SessionOptions) {
		opts.ID = id
	}
}

func WithPreviewLimit(limit int) SessionOptionFunc {
	return func(opts *SessionOptions) {
		opts.PreviewLimit = limit
	}
}

func WithLoadTimeout(timeout time.Duration) SessionOptionFunc {
	return func(opts *SessionOptions) {
		opts.LoadTimeout = timeout
	}
}

// WithMaxDocumentSize limits the size of loaded documents, zero disables the limit
func WithMaxDocumentSize(size int64) SessionOptionFunc {
	return func(opts *SessionOptions) {
		opts.MaxDocumentSize = size
	}
}
