package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
)

const defaultDeclineMessage = "The payment was declined."

type purchaseRequest struct {
	UserID     string `json:"userId"`
	DocumentID string `json:"documentId"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
}

type purchaseResponse struct {
	Confirmed bool   `json:"confirmed"`
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

// PaymentGateway delegates purchases to an external payment service
type PaymentGateway struct {
	endpoint *url.URL
	secret   string
	client   *http.Client
}

// Purchase implements port.PaymentGateway.
func (g *PaymentGateway) Purchase(ctx context.Context, req port.PurchaseRequest) (*port.PurchaseConfirmation, error) {
	body, err := json.Marshal(purchaseRequest{
		UserID:     string(req.UserID),
		DocumentID: string(req.DocumentID),
		Amount:     req.Price.Amount,
		Currency:   req.Price.Currency,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if g.secret != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.secret)
	}

	res, err := g.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "could not reach payment service")
	}

	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, errors.Errorf("unexpected payment service status code %d", res.StatusCode)
	}

	var purchase purchaseResponse
	if err := json.NewDecoder(res.Body).Decode(&purchase); err != nil {
		return nil, errors.Wrap(err, "could not decode payment service response")
	}

	if !purchase.Confirmed {
		message := purchase.Message
		if message == "" {
			message = defaultDeclineMessage
		}

		return nil, port.NewPurchaseDeclinedError(message)
	}

	return &port.PurchaseConfirmation{
		Reference: purchase.Reference,
	}, nil
}

func NewPaymentGateway(endpoint *url.URL, secret string, timeout time.Duration) *PaymentGateway {
	return &PaymentGateway{
		endpoint: endpoint,
		secret:   secret,
		client:   &http.Client{Timeout: timeout},
	}
}

var _ port.PaymentGateway = &PaymentGateway{}
