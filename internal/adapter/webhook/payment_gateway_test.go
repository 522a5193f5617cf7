package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
)

func TestPaymentGateway(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if e, g := "Bearer s3cr3t", r.Header.Get("Authorization"); e != g {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		var req purchaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		res := purchaseResponse{Confirmed: true, Reference: "tx-" + req.DocumentID}
		if req.Amount > 1000 {
			res = purchaseResponse{Confirmed: false, Message: "Card limit exceeded"}
		}

		json.NewEncoder(w).Encode(res)
	}))
	defer server.Close()

	dsn, err := url.Parse(strings.Replace(server.URL, "http://", "webhook+http://", 1) + "/purchases?secret=s3cr3t&timeout=5s")
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	gateway, err := FromDSN(dsn)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	ctx := context.Background()

	confirmation, err := gateway.Purchase(ctx, port.PurchaseRequest{
		UserID:     "basic-auth:alice",
		DocumentID: "doc-1",
		Price:      model.Price{Amount: 499, Currency: "EUR"},
	})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "tx-doc-1", confirmation.Reference; e != g {
		t.Errorf("confirmation.Reference: expected '%v', got '%v'", e, g)
	}

	_, err = gateway.Purchase(ctx, port.PurchaseRequest{
		UserID:     "basic-auth:alice",
		DocumentID: "doc-2",
		Price:      model.Price{Amount: 5000, Currency: "EUR"},
	})

	var declined *port.PurchaseDeclinedError
	if !errors.As(err, &declined) {
		t.Fatalf("gateway.Purchase(): expected a declined purchase, got '%v'", err)
	}

	if e, g := "Card limit exceeded", declined.Message; e != g {
		t.Errorf("declined.Message: expected '%v', got '%v'", e, g)
	}
}
