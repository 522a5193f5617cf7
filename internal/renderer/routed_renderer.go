package renderer

import (
	"context"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
)

type RoutedRenderer struct {
	supportedExtensions []string
	renderers           []port.DocumentRenderer
}

// Render implements port.DocumentRenderer.
func (r *RoutedRenderer) Render(ctx context.Context, filename string, reader io.Reader) (io.ReadCloser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, renderer := range r.renderers {
		if !slices.Contains(renderer.SupportedExtensions(), ext) {
			continue
		}

		readCloser, err := renderer.Render(ctx, filename, reader)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return readCloser, nil
	}

	return nil, errors.Wrapf(port.ErrNotSupported, "no renderer for extension '%s'", ext)
}

// SupportedExtensions implements port.DocumentRenderer.
func (r *RoutedRenderer) SupportedExtensions() []string {
	return r.supportedExtensions
}

func NewRoutedRenderer(renderers ...port.DocumentRenderer) *RoutedRenderer {
	supportedExtensions := make([]string, 0)
	for _, r := range renderers {
		supportedExtensions = append(supportedExtensions, r.SupportedExtensions()...)
	}

	return &RoutedRenderer{
		supportedExtensions: supportedExtensions,
		renderers:           renderers,
	}
}

var _ port.DocumentRenderer = &RoutedRenderer{}
