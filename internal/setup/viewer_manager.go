package setup

import (
	"context"

	"github.com/bornholm/folio/internal/config"
	"github.com/bornholm/folio/internal/core/service"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

var getViewerManagerFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*service.ViewerManager, error) {
	documents, err := getDocumentStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create document store from config")
	}

	access, err := getAccessStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create access store from config")
	}

	source, err := getDocumentSourceFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create document source from config")
	}

	paginator, err := getPaginatorFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create paginator from config")
	}

	gateway, err := getPaymentGatewayFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create payment gateway from config")
	}

	documentRenderer, err := getDocumentRendererFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create document renderer from config")
	}

	maxDocumentSize, err := humanize.ParseBytes(conf.Viewer.MaxDocumentSize)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse max document size '%s'", conf.Viewer.MaxDocumentSize)
	}

	funcs := []service.ViewerManagerOptionFunc{
		service.WithViewerManagerPreviewLimit(conf.Viewer.PreviewPageLimit),
		service.WithViewerManagerSessions(conf.Viewer.MaxSessions, conf.Viewer.SessionTTL),
		service.WithViewerManagerLoadTimeout(conf.Viewer.LoadTimeout),
		service.WithViewerManagerMaxDocumentSize(int64(maxDocumentSize)),
		service.WithViewerManagerExternalViewers(conf.Viewer.OfficeViewerURL, conf.Viewer.DocumentViewerURL),
	}

	if documentRenderer != nil {
		funcs = append(funcs, service.WithViewerManagerRenderer(documentRenderer))
	}

	return service.NewViewerManager(documents, access, source, paginator, gateway, funcs...), nil
})
