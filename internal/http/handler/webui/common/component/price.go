package component

import (
	"fmt"
	"strings"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/dustin/go-humanize"
)

// FormatPrice formats an amount expressed in the currency minor unit
func FormatPrice(price model.Price) string {
	if price.Free() {
		return "Free"
	}

	amount := humanize.CommafWithDigits(float64(price.Amount)/100, 2)
	if !strings.Contains(amount, ".") {
		amount += ".00"
	} else if idx := strings.Index(amount, "."); len(amount)-idx == 2 {
		amount += "0"
	}

	return fmt.Sprintf("%s %s", amount, strings.ToUpper(price.Currency))
}
