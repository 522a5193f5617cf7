package catalog

import (
	"context"
	"io/fs"
	"log/slog"
	"regexp"
	"time"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
	"github.com/progrium/watcher"
	"github.com/spf13/afero"
)

var catalogFileRegExp = regexp.MustCompile(`\.ya?ml$`)

// Watch imports the catalog files of the directory, then imports them again
// each time they are created or modified, until the context is canceled.
func Watch(ctx context.Context, afs afero.Fs, store port.DocumentStore, directory string, interval time.Duration) error {
	importFile := func(path string) {
		if err := ImportFile(ctx, afs, store, path); err != nil {
			slog.ErrorContext(ctx, "could not import catalog", slog.String("path", path), slog.Any("error", errors.WithStack(err)))
		}
	}

	err := afero.Walk(afs, directory, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return errors.WithStack(err)
		}

		if info.IsDir() || !catalogFileRegExp.MatchString(path) {
			return nil
		}

		importFile(path)

		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "could not list catalogs of directory '%s'", directory)
	}

	w := watcher.New()
	w.SetFileSystem(afs)
	w.FilterOps(watcher.Create, watcher.Write, watcher.Rename, watcher.Move)
	w.AddFilterHook(watcher.RegexFilterHook(catalogFileRegExp, false))

	if err := w.AddRecursive(directory); err != nil {
		return errors.Wrapf(err, "could not watch directory '%s'", directory)
	}

	go func() {
		defer func() {
			// The watcher may be blocked on a pending event, keep draining
			// until it stops
			go func() {
				for range w.Event {
				}
			}()
			go func() {
				for range w.Error {
				}
			}()

			w.Close()
		}()

		for {
			select {
			case event, ok := <-w.Event:
				if !ok {
					return
				}

				if event.IsDir() {
					continue
				}

				slog.DebugContext(ctx, "catalog changed", slog.String("op", event.Op.String()), slog.String("path", event.Path))

				importFile(event.Path)

			case err, ok := <-w.Error:
				if !ok {
					return
				}

				slog.ErrorContext(ctx, "error while watching catalogs", slog.Any("error", errors.WithStack(err)))

			case <-ctx.Done():
				return
			}
		}
	}()

	slog.InfoContext(ctx, "watching catalogs", slog.String("directory", directory), slog.Duration("interval", interval))

	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	if err := w.Start(interval); err != nil {
		return errors.Wrap(err, "could not watch catalogs")
	}

	return nil
}

// ImportFile parses and imports a catalog file
func ImportFile(ctx context.Context, afs afero.Fs, store port.DocumentStore, path string) error {
	file, err := afs.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}

	defer file.Close()

	catalog, err := Parse(file)
	if err != nil {
		return errors.WithStack(err)
	}

	report, err := Import(ctx, store, catalog)
	if err != nil {
		return errors.WithStack(err)
	}

	slog.InfoContext(ctx, "catalog imported", slog.String("path", path), slog.Int("created", report.Created), slog.Int("updated", report.Updated))

	return nil
}
