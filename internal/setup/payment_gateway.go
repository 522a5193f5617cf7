package setup

import (
	"context"

	"github.com/bornholm/folio/internal/config"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
)

var PaymentGateway = NewRegistry[port.PaymentGateway]()

var getPaymentGatewayFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (port.PaymentGateway, error) {
	gateway, err := PaymentGateway.From(conf.Payment.URI)
	if err != nil {
		return nil, errors.Wrapf(err, "could not retrieve payment gateway for uri '%s'", conf.Payment.URI)
	}

	return gateway, nil
})
