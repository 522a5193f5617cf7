package setup

import (
	"context"

	"github.com/bornholm/folio/internal/config"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/source"
	"github.com/pkg/errors"

	_ "github.com/bornholm/folio/internal/source/file"
	_ "github.com/bornholm/folio/internal/source/http"
	_ "github.com/bornholm/folio/internal/source/minio"
)

var getDocumentSourceFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.DocumentSource, error) {
	sources := make([]port.DocumentSource, 0, len(conf.Storage.Sources))
	for _, dsn := range conf.Storage.Sources {
		s, err := source.New(dsn)
		if err != nil {
			return nil, errors.Wrapf(err, "could not create document source from dsn '%s'", dsn)
		}

		sources = append(sources, s)
	}

	return source.NewRoutedSource(sources...), nil
})

func NewDocumentSourceFromConfig(ctx context.Context, conf *config.Config) (port.DocumentSource, error) {
	return getDocumentSourceFromConfig(ctx, conf)
}
