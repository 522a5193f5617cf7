package source

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"slices"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
)

// RoutedSource dispatches each document URL to the first source
// supporting its scheme.
type RoutedSource struct {
	sources []port.DocumentSource
}

// Open implements port.DocumentSource.
func (s *RoutedSource) Open(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	if u == nil {
		return nil, errors.New("document url is missing")
	}

	for _, source := range s.sources {
		if !slices.Contains(source.SupportedSchemes(), u.Scheme) {
			continue
		}

		slog.DebugContext(ctx, "opening document", slog.String("scheme", u.Scheme), slog.String("path", u.Path))

		reader, err := source.Open(ctx, u)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return reader, nil
	}

	return nil, errors.Wrapf(port.ErrNotSupported, "no source available for scheme '%s'", u.Scheme)
}

// SupportedSchemes implements port.DocumentSource.
func (s *RoutedSource) SupportedSchemes() []string {
	schemes := make([]string, 0)
	for _, source := range s.sources {
		for _, scheme := range source.SupportedSchemes() {
			if !slices.Contains(schemes, scheme) {
				schemes = append(schemes, scheme)
			}
		}
	}

	return schemes
}

func NewRoutedSource(sources ...port.DocumentSource) *RoutedSource {
	return &RoutedSource{
		sources: sources,
	}
}

var _ port.DocumentSource = &RoutedSource{}
