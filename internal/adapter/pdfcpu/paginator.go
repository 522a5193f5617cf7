package pdfcpu

import (
	"context"
	"io"
	"strconv"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
)

func init() {
	api.DisableConfigDir()
}

type Paginator struct{}

// PageCount implements port.Paginator.
func (p *Paginator) PageCount(ctx context.Context, r io.ReadSeeker) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.WithStack(err)
	}

	count, err := api.PageCount(r, newConfiguration())
	if err != nil {
		return 0, errors.Wrap(err, "could not read pdf page count")
	}

	return count, nil
}

// ExtractPage implements port.Paginator.
func (p *Paginator) ExtractPage(ctx context.Context, r io.ReadSeeker, page int, w io.Writer) error {
	count, err := p.PageCount(ctx, r)
	if err != nil {
		return errors.WithStack(err)
	}

	if page < 1 || page > count {
		return errors.Errorf("page %d is out of range [1, %d]", page, count)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return errors.WithStack(err)
	}

	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	if err := api.Trim(r, w, []string{strconv.Itoa(page)}, newConfiguration()); err != nil {
		return errors.Wrapf(err, "could not extract page %d", page)
	}

	return nil
}

func NewPaginator() *Paginator {
	return &Paginator{}
}

var _ port.Paginator = &Paginator{}

// pdfcpu operations mutate their configuration, each call gets its own.
func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
