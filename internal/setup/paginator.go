package setup

import (
	"context"

	"github.com/bornholm/folio/internal/adapter/pdfcpu"
	"github.com/bornholm/folio/internal/config"
	"github.com/bornholm/folio/internal/core/port"
)

var getPaginatorFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.Paginator, error) {
	return pdfcpu.NewPaginator(), nil
})

func NewPaginatorFromConfig(ctx context.Context, conf *config.Config) (port.Paginator, error) {
	return getPaginatorFromConfig(ctx, conf)
}
