package catalog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/bornholm/folio/internal/catalog"
	"github.com/bornholm/folio/internal/command/common"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/setup"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

const (
	flagDirectory = "directory"
	flagInterval  = "interval"
	flagInput     = "input"
	flagPage      = "page"
	flagLimit     = "limit"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Manage the published documents",
		Subcommands: []*cli.Command{
			importCommand(),
			listCommand(),
			watchCommand(),
		},
	}
}

func importCommand() *cli.Command {
	flags := common.WithCommonFlags(
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:     flagInput,
			Aliases:  []string{"i", "f"},
			Usage:    "Path to the YAML catalog file (use '-' for stdin)",
			Required: true,
		}),
	)

	return &cli.Command{
		Name:   "import",
		Usage:  "Import or update documents from a catalog file",
		Flags:  flags,
		Before: common.LoadFlags(flags),
		Action: func(cCtx *cli.Context) error {
			ctx := cCtx.Context

			conf, err := common.GetConfig(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			var input io.Reader = os.Stdin

			if path := cCtx.String(flagInput); path != "-" {
				file, err := os.Open(path)
				if err != nil {
					return errors.Wrapf(err, "could not open catalog '%s'", path)
				}

				defer file.Close()

				input = file
			}

			cat, err := catalog.Parse(input)
			if err != nil {
				return errors.WithStack(err)
			}

			store, err := setup.NewDocumentStoreFromConfig(ctx, conf)
			if err != nil {
				return errors.Wrap(err, "could not create document store")
			}

			report, err := catalog.Import(ctx, store, cat)
			if err != nil {
				return errors.WithStack(err)
			}

			slog.InfoContext(ctx, "catalog imported", slog.Int("created", report.Created), slog.Int("updated", report.Updated))

			return nil
		},
	}
}

func listCommand() *cli.Command {
	flags := common.WithCommonFlags(
		&cli.IntFlag{
			Name:  flagPage,
			Value: 0,
			Usage: "Page of results",
		},
		&cli.IntFlag{
			Name:  flagLimit,
			Value: 50,
			Usage: "Number of documents per page",
		},
	)

	return &cli.Command{
		Name:   "list",
		Usage:  "List the published documents",
		Flags:  flags,
		Before: common.LoadFlags(flags),
		Action: func(cCtx *cli.Context) error {
			ctx := cCtx.Context

			conf, err := common.GetConfig(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			store, err := setup.NewDocumentStoreFromConfig(ctx, conf)
			if err != nil {
				return errors.Wrap(err, "could not create document store")
			}

			page := cCtx.Int(flagPage)
			limit := cCtx.Int(flagLimit)

			documents, total, err := store.QueryDocuments(ctx, port.QueryDocumentsOptions{
				Page:  &page,
				Limit: &limit,
			})
			if err != nil {
				return errors.WithStack(err)
			}

			w := tabwriter.NewWriter(cCtx.App.Writer, 0, 4, 2, ' ', 0)

			fmt.Fprintln(w, "ID\tCATEGORY\tPREVIEW\tPRICE\tURL")

			for _, doc := range documents {
				preview := "-"
				switch {
				case doc.Gated() && doc.PreviewPageLimit() == 0:
					preview = "default"
				case doc.Gated():
					preview = fmt.Sprintf("%d pages", doc.PreviewPageLimit())
				}

				price := "-"
				if !doc.Price().Free() {
					price = fmt.Sprintf("%s %s", humanize.CommafWithDigits(float64(doc.Price().Amount)/100, 2), doc.Price().Currency)
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", doc.ID(), doc.Category(), preview, price, doc.URL())
			}

			if err := w.Flush(); err != nil {
				return errors.WithStack(err)
			}

			fmt.Fprintf(cCtx.App.Writer, "\n%d/%d documents\n", len(documents), total)

			return nil
		},
	}
}

func watchCommand() *cli.Command {
	flags := common.WithCommonFlags(
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    flagDirectory,
			Aliases: []string{"dir"},
			Value:   ".",
			Usage:   "Directory of the YAML catalog files",
		}),
		altsrc.NewDurationFlag(&cli.DurationFlag{
			Name:  flagInterval,
			Value: 30 * time.Second,
			Usage: "Polling interval of the catalog files",
		}),
	)

	return &cli.Command{
		Name:   "watch",
		Usage:  "Import the catalog files of a directory each time they change",
		Flags:  flags,
		Before: common.LoadFlags(flags),
		Action: func(cCtx *cli.Context) error {
			ctx, cancel := signal.NotifyContext(cCtx.Context, os.Interrupt)
			defer cancel()

			conf, err := common.GetConfig(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			store, err := setup.NewDocumentStoreFromConfig(ctx, conf)
			if err != nil {
				return errors.Wrap(err, "could not create document store")
			}

			if err := catalog.Watch(ctx, afero.NewOsFs(), store, cCtx.String(flagDirectory), cCtx.Duration(flagInterval)); err != nil {
				return errors.WithStack(err)
			}

			return nil
		},
	}
}
