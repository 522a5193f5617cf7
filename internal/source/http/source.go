package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/source"
	"github.com/pkg/errors"
)

func init() {
	source.Register("http", FromDSN)
	source.Register("https", FromDSN)
}

const paramTimeout = "timeout"

// FromDSN configures an HTTP source, ie http://?timeout=30s
func FromDSN(dsn *url.URL) (port.DocumentSource, error) {
	timeout := 30 * time.Second

	if raw := dsn.Query().Get(paramTimeout); raw != "" {
		t, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse '%s' parameter", paramTimeout)
		}

		timeout = t
	}

	return New(&http.Client{Timeout: timeout}), nil
}

type Source struct {
	client *http.Client
}

// Open implements port.DocumentSource.
func (s *Source) Open(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	switch {
	case res.StatusCode == http.StatusNotFound:
		res.Body.Close()
		return nil, errors.Wrapf(port.ErrNotFound, "document '%s' not found", u.String())
	case res.StatusCode < 200 || res.StatusCode >= 300:
		res.Body.Close()
		return nil, errors.Errorf("unexpected status code %d while fetching '%s'", res.StatusCode, u.String())
	}

	return res.Body, nil
}

// SupportedSchemes implements port.DocumentSource.
func (s *Source) SupportedSchemes() []string {
	return []string{"http", "https"}
}

func New(client *http.Client) *Source {
	return &Source{
		client: client,
	}
}

var _ port.DocumentSource = &Source{}
