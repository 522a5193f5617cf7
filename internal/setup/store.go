package setup

import (
	"context"

	"github.com/bornholm/folio/internal/adapter/cache"
	gormAdapter "github.com/bornholm/folio/internal/adapter/gorm"
	"github.com/bornholm/folio/internal/config"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
)

var getGormStoreFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*gormAdapter.Store, error) {
	db, err := getGormDatabaseFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create gorm database from config")
	}

	return gormAdapter.NewStore(db), nil
})

var getDocumentStoreFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.DocumentStore, error) {
	store, err := getGormStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if !conf.Storage.Cache.Enabled {
		return store, nil
	}

	return cache.NewDocumentStore(store, conf.Storage.Cache.Size, conf.Storage.Cache.TTL), nil
})

var getAccessStoreFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.AccessStore, error) {
	store, err := getGormStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if !conf.Storage.Cache.Enabled {
		return store, nil
	}

	return cache.NewAccessStore(store, conf.Storage.Cache.Size, conf.Storage.Cache.TTL), nil
})

func NewDocumentStoreFromConfig(ctx context.Context, conf *config.Config) (port.DocumentStore, error) {
	return getDocumentStoreFromConfig(ctx, conf)
}

func NewAccessStoreFromConfig(ctx context.Context, conf *config.Config) (port.AccessStore, error) {
	return getAccessStoreFromConfig(ctx, conf)
}
