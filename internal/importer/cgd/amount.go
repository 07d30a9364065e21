package cgd

import (
	"strings"

	"github.com/shopspring/decimal"
)

var amountNoise = strings.NewReplacer("EUR", "", "€", "", " ", "", "\u00a0", "", ".", "")

// parseEuropeanAmount parses amounts such as "1.234,56", "-588,74",
// "1 234,56 EUR" or the trailing-sign form "588,74-".
func parseEuropeanAmount(s string) (decimal.Decimal, error) {
	clean := amountNoise.Replace(strings.TrimSpace(s))
	clean = strings.ReplaceAll(clean, ",", ".")

	if rest, ok := strings.CutSuffix(clean, "-"); ok {
		clean = "-" + rest
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	return d.Round(2), nil
}
