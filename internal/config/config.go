package config

import (
	"time"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/caarlos0/env/v11"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

type Config struct {
	Logger  Logger  `envPrefix:"LOGGER_"`
	HTTP    HTTP    `envPrefix:"HTTP_"`
	Storage Storage `envPrefix:"STORAGE_"`
	Viewer  Viewer  `envPrefix:"VIEWER_"`
	Payment Payment `envPrefix:"PAYMENT_"`
	Catalog Catalog `envPrefix:"CATALOG_"`
}

type Logger struct {
	Level int `env:"LEVEL" envDefault:"0"`
}

// Catalog configures the directory of catalog files the server
// imports and keeps watching. An empty directory disables it.
type Catalog struct {
	Directory string        `env:"DIRECTORY,expand"`
	Interval  time.Duration `env:"INTERVAL" envDefault:"30s"`
}

type Payment struct {
	URI string `env:"URI,expand" envDefault:"memory://"`
}

func Parse() (*Config, error) {
	conf, err := env.ParseAsWithOptions[Config](env.Options{
		Prefix: "FOLIO_",
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := Validate(&conf); err != nil {
		return nil, errors.WithStack(err)
	}

	return &conf, nil
}

func Validate(conf *Config) error {
	if conf.Viewer.PreviewPageLimit < 1 {
		return errors.Wrapf(model.ErrInvalidPreviewLimit, "preview page limit must be at least 1, got %d", conf.Viewer.PreviewPageLimit)
	}

	if _, err := humanize.ParseBytes(conf.Viewer.MaxDocumentSize); err != nil {
		return errors.Wrapf(err, "could not parse max document size '%s'", conf.Viewer.MaxDocumentSize)
	}

	if conf.Catalog.Directory != "" && conf.Catalog.Interval <= 0 {
		return errors.Errorf("catalog watch interval must be positive, got %s", conf.Catalog.Interval)
	}

	return nil
}
