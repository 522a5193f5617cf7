package document

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bornholm/folio/internal/command/common"
	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/setup"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "document",
		Usage: "Inspect the published documents",
		Subcommands: []*cli.Command{
			inspectCommand(),
		},
	}
}

func inspectCommand() *cli.Command {
	flags := common.WithCommonFlags()

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Fetch a document from its source and print how it will be displayed",
		ArgsUsage: "<document-id>",
		Flags:     flags,
		Before:    common.LoadFlags(flags),
		Action: func(cCtx *cli.Context) error {
			ctx := cCtx.Context

			documentID := model.DocumentID(cCtx.Args().First())
			if documentID == "" {
				return errors.New("a document id is required")
			}

			conf, err := common.GetConfig(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			documents, err := setup.NewDocumentStoreFromConfig(ctx, conf)
			if err != nil {
				return errors.Wrap(err, "could not create document store")
			}

			doc, err := documents.GetDocumentByID(ctx, documentID)
			if err != nil {
				return errors.Wrapf(err, "could not retrieve document '%s'", documentID)
			}

			source, err := setup.NewDocumentSourceFromConfig(ctx, conf)
			if err != nil {
				return errors.Wrap(err, "could not create document source")
			}

			reader, err := source.Open(ctx, doc.URL())
			if err != nil {
				return errors.Wrapf(err, "could not open document '%s'", doc.URL())
			}

			defer reader.Close()

			data, err := io.ReadAll(reader)
			if err != nil {
				return errors.WithStack(err)
			}

			out := cCtx.App.Writer

			fmt.Fprintf(out, "id:        %s\n", doc.ID())
			fmt.Fprintf(out, "url:       %s\n", doc.URL())
			fmt.Fprintf(out, "category:  %s\n", doc.Category())
			fmt.Fprintf(out, "mime type: %s\n", mimetype.Detect(data).String())
			fmt.Fprintf(out, "size:      %s\n", humanize.IBytes(uint64(len(data))))

			if doc.Category() != model.CategoryPDF {
				return nil
			}

			paginator, err := setup.NewPaginatorFromConfig(ctx, conf)
			if err != nil {
				return errors.Wrap(err, "could not create paginator")
			}

			pageCount, err := paginator.PageCount(ctx, bytes.NewReader(data))
			if err != nil {
				return errors.Wrap(err, "could not count document pages")
			}

			fmt.Fprintf(out, "pages:     %d\n", pageCount)

			if doc.Gated() {
				limit := doc.PreviewPageLimit()
				if limit == 0 {
					limit = conf.Viewer.PreviewPageLimit
				}

				fmt.Fprintf(out, "preview:   %d/%d pages\n", min(limit, pageCount), pageCount)
			}

			return nil
		},
	}
}
