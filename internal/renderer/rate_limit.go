package renderer

import (
	"context"
	"io"
	"time"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// RateLimitedRenderer bounds the rate of local conversions,
// which are expensive
type RateLimitedRenderer struct {
	limiter  *rate.Limiter
	renderer port.DocumentRenderer
}

// Render implements [port.DocumentRenderer].
func (r *RateLimitedRenderer) Render(ctx context.Context, filename string, reader io.Reader) (io.ReadCloser, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return r.renderer.Render(ctx, filename, reader)
}

// SupportedExtensions implements [port.DocumentRenderer].
func (r *RateLimitedRenderer) SupportedExtensions() []string {
	return r.renderer.SupportedExtensions()
}

func NewRateLimitedRenderer(renderer port.DocumentRenderer, interval time.Duration, maxBurst int) *RateLimitedRenderer {
	return &RateLimitedRenderer{
		limiter:  rate.NewLimiter(rate.Every(interval), maxBurst),
		renderer: renderer,
	}
}

var _ port.DocumentRenderer = &RateLimitedRenderer{}
