package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bornholm/folio/internal/build"
	"github.com/bornholm/folio/internal/catalog"
	"github.com/bornholm/folio/internal/config"
	"github.com/bornholm/folio/internal/setup"
	"github.com/bornholm/go-x/slogx"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	// Renderers
	_ "github.com/bornholm/folio/internal/adapter/libreoffice"
	_ "github.com/bornholm/folio/internal/adapter/pandoc"

	// Payment gateways
	_ "github.com/bornholm/folio/internal/adapter/memory"
	_ "github.com/bornholm/folio/internal/adapter/webhook"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conf, err := config.Parse()
	if err != nil {
		slog.ErrorContext(ctx, "could not parse config", slog.Any("error", errors.WithStack(err)))
		os.Exit(1)
	}

	logger := slog.New(slogx.ContextHandler{
		Handler: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     slog.Level(conf.Logger.Level),
			AddSource: true,
		}),
	})

	slog.SetDefault(logger)

	slog.InfoContext(ctx, "folio server", slog.String("version", build.LongVersion))
	slog.DebugContext(ctx, "using configuration", slog.Any("config", conf))

	server, err := setup.NewHTTPServerFromConfig(ctx, conf)
	if err != nil {
		slog.ErrorContext(ctx, "could not setup http server", slog.Any("error", errors.WithStack(err)))
		os.Exit(1)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	if conf.Catalog.Directory != "" {
		store, err := setup.NewDocumentStoreFromConfig(ctx, conf)
		if err != nil {
			slog.ErrorContext(ctx, "could not setup document store", slog.Any("error", errors.WithStack(err)))
			os.Exit(1)
		}

		group.Go(func() error {
			err := catalog.Watch(groupCtx, afero.NewOsFs(), store, conf.Catalog.Directory, conf.Catalog.Interval)
			if err != nil && !errors.Is(err, context.Canceled) {
				return errors.WithStack(err)
			}

			return nil
		})
	}

	group.Go(func() error {
		slog.InfoContext(groupCtx, "starting server", slog.Any("address", conf.HTTP.Address))

		return server.Run(groupCtx)
	})

	if err := group.Wait(); err != nil {
		slog.Error("could not run server", slog.Any("error", errors.WithStack(err)))
		os.Exit(1)
	}
}
