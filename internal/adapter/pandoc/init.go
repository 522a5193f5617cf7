package pandoc

import (
	"net/url"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/setup"
)

func init() {
	setup.DocumentRenderer.Register("pandoc", func(u *url.URL) (port.DocumentRenderer, error) {
		query := u.Query()
		return NewRenderer(query.Get("bin"), query.Get("engine")), nil
	})
}
