package component

import (
	"testing"

	"github.com/bornholm/folio/internal/core/model"
)

func TestFormatPrice(t *testing.T) {
	testCases := []struct {
		Price    model.Price
		Expected string
	}{
		{model.Price{}, "Free"},
		{model.Price{Amount: 500, Currency: "eur"}, "5.00 EUR"},
		{model.Price{Amount: 1250, Currency: "USD"}, "12.50 USD"},
		{model.Price{Amount: 123456, Currency: "USD"}, "1,234.56 USD"},
	}

	for _, tc := range testCases {
		if e, g := tc.Expected, FormatPrice(tc.Price); e != g {
			t.Errorf("FormatPrice(%v): expected '%v', got '%v'", tc.Price, e, g)
		}
	}
}
