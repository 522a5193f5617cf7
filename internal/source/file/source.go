package file

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/source"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

func init() {
	source.Register("file", FromDSN)
}

// FromDSN configures a local directory source, ie file:///var/lib/folio/documents.
// Document URLs are resolved relative to this directory.
func FromDSN(dsn *url.URL) (port.DocumentSource, error) {
	basePath := filepath.Join(dsn.Host, dsn.Path)
	if basePath == "" {
		basePath = "."
	}

	if _, err := os.Stat(basePath); err != nil {
		return nil, errors.WithStack(err)
	}

	fs := afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), basePath))

	return New(fs), nil
}

type Source struct {
	fs afero.Fs
}

// Open implements port.DocumentSource.
func (s *Source) Open(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	name := filepath.Join("/", u.Host, u.Path)

	file, err := s.fs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(port.ErrNotFound, "document '%s' not found", name)
		}

		return nil, errors.WithStack(err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.WithStack(err)
	}

	if stat.IsDir() {
		file.Close()
		return nil, errors.Wrapf(port.ErrNotFound, "'%s' is a directory", name)
	}

	return file, nil
}

// SupportedSchemes implements port.DocumentSource.
func (s *Source) SupportedSchemes() []string {
	return []string{"file"}
}

func New(fs afero.Fs) *Source {
	return &Source{
		fs: fs,
	}
}

var _ port.DocumentSource = &Source{}
