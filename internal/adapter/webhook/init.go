package webhook

import (
	"net/url"
	"strings"
	"time"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/setup"
	"github.com/pkg/errors"
)

const (
	paramSecret  = "secret"
	paramTimeout = "timeout"
)

func init() {
	setup.PaymentGateway.Register("webhook+http", FromDSN)
	setup.PaymentGateway.Register("webhook+https", FromDSN)
}

// FromDSN configures a webhook gateway, ie webhook+https://payments.example.com/purchases?secret=s3cr3t
func FromDSN(dsn *url.URL) (port.PaymentGateway, error) {
	endpoint := *dsn
	endpoint.Scheme = strings.TrimPrefix(dsn.Scheme, "webhook+")

	query := endpoint.Query()

	secret := query.Get(paramSecret)
	query.Del(paramSecret)

	timeout := 10 * time.Second
	if raw := query.Get(paramTimeout); raw != "" {
		t, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse '%s' parameter", paramTimeout)
		}

		timeout = t
	}
	query.Del(paramTimeout)

	endpoint.RawQuery = query.Encode()

	return NewPaymentGateway(&endpoint, secret, timeout), nil
}
