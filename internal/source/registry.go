package source

import (
	"net/url"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
)

var ErrSchemeNotRegistered = errors.New("scheme not registered")

var factories = make(map[string]Factory, 0)

// Factory creates a document source from its configuration DSN
type Factory func(dsn *url.URL) (port.DocumentSource, error)

func Register(scheme string, factory Factory) {
	factories[scheme] = factory
}

func New(dsn string) (port.DocumentSource, error) {
	url, err := url.Parse(dsn)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	factory, exists := factories[url.Scheme]
	if !exists {
		return nil, errors.Wrapf(ErrSchemeNotRegistered, "no source associated with scheme '%s'", url.Scheme)
	}

	source, err := factory(url)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return source, nil
}
