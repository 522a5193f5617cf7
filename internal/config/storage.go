package config

import "time"

type Storage struct {
	Database Database `envPrefix:"DATABASE_"`
	Cache    Cache    `envPrefix:"CACHE_"`
	// Sources are the DSN of the enabled document sources
	Sources []string `env:"SOURCES,expand" envSeparator:"," envDefault:"http://,https://"`
}

type Database struct {
	DSN string `env:"DSN" envDefault:"data.sqlite"`
}

type Cache struct {
	Enabled bool          `env:"ENABLED" envDefault:"true"`
	Size    int           `env:"SIZE" envDefault:"1000"`
	TTL     time.Duration `env:"TTL" envDefault:"5m"`
}
