package libreoffice

import (
	"net/url"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/setup"
)

func init() {
	setup.DocumentRenderer.Register("libreoffice", func(u *url.URL) (port.DocumentRenderer, error) {
		return NewRenderer(u.Query().Get("bin")), nil
	})
}
