package access

import (
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/bornholm/folio/internal/command/common"
	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/http/middleware/authn"
	"github.com/bornholm/folio/internal/setup"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

const (
	flagUser      = "user"
	flagDocument  = "document"
	flagReference = "reference"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "access",
		Usage: "Manage the readers purchases",
		Subcommands: []*cli.Command{
			grantCommand(),
			listCommand(),
		},
	}
}

var flagUserName = altsrc.NewStringFlag(&cli.StringFlag{
	Name:     flagUser,
	Aliases:  []string{"u"},
	Usage:    "Reader username, as declared in FOLIO_HTTP_AUTH_USERS",
	Required: true,
})

func userID(username string) model.UserID {
	return model.NewUser(authn.ProviderBasic, username, username).ID()
}

func grantCommand() *cli.Command {
	flags := common.WithCommonFlags(
		flagUserName,
		&cli.StringFlag{
			Name:     flagDocument,
			Usage:    "Document identifier",
			Required: true,
		},
		&cli.StringFlag{
			Name:  flagReference,
			Usage: "Purchase reference, generated if empty",
		},
	)

	return &cli.Command{
		Name:   "grant",
		Usage:  "Grant a reader the full access to a document without payment",
		Flags:  flags,
		Before: common.LoadFlags(flags),
		Action: func(cCtx *cli.Context) error {
			ctx := cCtx.Context

			conf, err := common.GetConfig(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			documents, err := setup.NewDocumentStoreFromConfig(ctx, conf)
			if err != nil {
				return errors.Wrap(err, "could not create document store")
			}

			documentID := model.DocumentID(cCtx.String(flagDocument))

			if _, err := documents.GetDocumentByID(ctx, documentID); err != nil {
				return errors.Wrapf(err, "could not retrieve document '%s'", documentID)
			}

			access, err := setup.NewAccessStoreFromConfig(ctx, conf)
			if err != nil {
				return errors.Wrap(err, "could not create access store")
			}

			reference := cCtx.String(flagReference)
			if reference == "" {
				reference = "manual-" + xid.New().String()
			}

			userID := userID(cCtx.String(flagUser))

			if err := access.GrantAccess(ctx, userID, documentID, reference); err != nil {
				return errors.WithStack(err)
			}

			slog.InfoContext(ctx, "access granted", slog.String("user", string(userID)), slog.String("document", string(documentID)), slog.String("reference", reference))

			return nil
		},
	}
}

func listCommand() *cli.Command {
	flags := common.WithCommonFlags(flagUserName)

	return &cli.Command{
		Name:   "list",
		Usage:  "List the purchases of a reader",
		Flags:  flags,
		Before: common.LoadFlags(flags),
		Action: func(cCtx *cli.Context) error {
			ctx := cCtx.Context

			conf, err := common.GetConfig(cCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			access, err := setup.NewAccessStoreFromConfig(ctx, conf)
			if err != nil {
				return errors.Wrap(err, "could not create access store")
			}

			purchases, err := access.QueryPurchases(ctx, userID(cCtx.String(flagUser)))
			if err != nil {
				return errors.WithStack(err)
			}

			w := tabwriter.NewWriter(cCtx.App.Writer, 0, 4, 2, ' ', 0)

			fmt.Fprintln(w, "DOCUMENT\tREFERENCE\tGRANTED AT")

			for _, p := range purchases {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.DocumentID(), p.Reference(), p.GrantedAt().Format(time.RFC3339))
			}

			if err := w.Flush(); err != nil {
				return errors.WithStack(err)
			}

			return nil
		},
	}
}
