package parser

import (
	"strconv"
	"strings"

	"recnorm/services/processing/internal/models"
)

// PriceSymbols is the fixed currency symbol set recognized in price cells.
var PriceSymbols = []string{"₹", "$", "€", "£"}

// ParsePrice splits a price such as "₹15,999" into its integer value and the
// first currency symbol found. Every non-digit is dropped from the value, so
// "₹1,299.50" reads as 129950; listings in the source data carry whole units.
func ParsePrice(raw any) models.ParsedPrice {
	text, ok := rawText(raw)
	if !ok {
		return models.ParsedPrice{Currency: models.CurrencyUnknown, Reason: models.ReasonAbsent}
	}

	out := models.ParsedPrice{Currency: firstSymbol(text)}

	digits := digitsOnly(text)
	if digits == "" {
		out.Reason = models.ReasonNoDigits
		return out
	}

	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		out.Reason = models.ReasonOutOfRange
		return out
	}
	out.Value = &value
	return out
}

func firstSymbol(text string) string {
	best, bestAt := models.CurrencyUnknown, -1
	for _, sym := range PriceSymbols {
		if i := strings.Index(text, sym); i >= 0 && (bestAt < 0 || i < bestAt) {
			best, bestAt = sym, i
		}
	}
	return best
}
