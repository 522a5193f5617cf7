package common

import (
	"github.com/bornholm/folio/internal/config"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

const (
	paramConfig   = "config"
	paramDatabase = "database"
)

var (
	flagConfig = &cli.StringFlag{
		Name:    paramConfig,
		Aliases: []string{"c"},
		EnvVars: []string{"FOLIO_CLI_CONFIG"},
		Usage:   "YAML file providing the command flags values",
	}
	flagDatabase = altsrc.NewStringFlag(&cli.StringFlag{
		Name:    paramDatabase,
		Aliases: []string{"d"},
		Usage:   "Database DSN, overriding FOLIO_STORAGE_DATABASE_DSN",
	})
)

// WithCommonFlags adds the configuration flags to the command flags
func WithCommonFlags(flags ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		flagConfig,
		flagDatabase,
	}, flags...)
}

// LoadFlags fills the command flags from the configuration file, if any
func LoadFlags(flags []cli.Flag) cli.BeforeFunc {
	return altsrc.InitInputSourceWithContext(flags, NewResolverSourceFromFlagFunc(paramConfig))
}

// GetConfig parses the server configuration from the environment
// and applies the command overrides.
func GetConfig(ctx *cli.Context) (*config.Config, error) {
	conf, err := config.Parse()
	if err != nil {
		return nil, errors.Wrap(err, "could not parse config")
	}

	if dsn := ctx.String(paramDatabase); dsn != "" {
		conf.Storage.Database.DSN = dsn
	}

	return conf, nil
}
