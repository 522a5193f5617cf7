package memory

import (
	"net/url"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/setup"
)

func init() {
	setup.PaymentGateway.Register("memory", func(u *url.URL) (port.PaymentGateway, error) {
		return NewPaymentGateway(u.Query().Get("decline")), nil
	})
}
