package setup

import (
	"context"
	"strings"

	"github.com/bornholm/folio/internal/config"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/renderer"
	"github.com/pkg/errors"
)

const disabledRenderer = "none"

var DocumentRenderer = NewRegistry[port.DocumentRenderer]()

// getDocumentRendererFromConfig returns nil when local rendering is disabled
var getDocumentRendererFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.DocumentRenderer, error) {
	renderers := make([]port.DocumentRenderer, 0, len(conf.Viewer.LocalRenderers))

	for _, dsn := range conf.Viewer.LocalRenderers {
		dsn = strings.TrimSpace(dsn)
		if dsn == "" || dsn == disabledRenderer {
			continue
		}

		r, err := DocumentRenderer.From(dsn)
		if err != nil {
			return nil, errors.Wrapf(err, "could not retrieve document renderer for uri '%s'", dsn)
		}

		renderers = append(renderers, r)
	}

	if len(renderers) == 0 {
		return nil, nil
	}

	var documentRenderer port.DocumentRenderer = renderer.NewRoutedRenderer(renderers...)

	if conf.Viewer.RenderInterval > 0 {
		documentRenderer = renderer.NewRateLimitedRenderer(documentRenderer, conf.Viewer.RenderInterval, conf.Viewer.RenderMaxBurst)
	}

	return documentRenderer, nil
})
