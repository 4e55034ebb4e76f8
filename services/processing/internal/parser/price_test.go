package parser

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recnorm/services/processing/internal/models"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		value    int64
		null     bool
		currency string
		reason   models.Reason
	}{
		{name: "rupee with thousands", raw: "₹15,999", value: 15999, currency: "₹"},
		{name: "dollar", raw: "$299", value: 299, currency: "$"},
		{name: "euro", raw: "€150", value: 150, currency: "€"},
		{name: "pound with spaces", raw: "  £ 1 200 ", value: 1200, currency: "£"},
		{name: "no symbol", raw: "4,500", value: 4500, currency: models.CurrencyUnknown},
		{name: "first symbol in text wins", raw: "€10 ($12)", value: 1012, currency: "€"},
		{name: "decimals are folded into digits", raw: "₹1,299.50", value: 129950, currency: "₹"},
		{name: "numeric cell", raw: float64(799), value: 799, currency: models.CurrencyUnknown},
		{name: "empty", raw: "", null: true, currency: models.CurrencyUnknown, reason: models.ReasonAbsent},
		{name: "blank", raw: "   ", null: true, currency: models.CurrencyUnknown, reason: models.ReasonAbsent},
		{name: "nil", raw: nil, null: true, currency: models.CurrencyUnknown, reason: models.ReasonAbsent},
		{name: "NaN", raw: math.NaN(), null: true, currency: models.CurrencyUnknown, reason: models.ReasonAbsent},
		{name: "symbol only", raw: "₹", null: true, currency: "₹", reason: models.ReasonNoDigits},
		{name: "text", raw: "call for price", null: true, currency: models.CurrencyUnknown, reason: models.ReasonNoDigits},
		{name: "overflow", raw: "$99999999999999999999999", null: true, currency: "$", reason: models.ReasonOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.raw)
			assert.Equal(t, tt.currency, got.Currency)
			assert.Equal(t, tt.reason, got.Reason)
			if tt.null {
				assert.Nil(t, got.Value)
				return
			}
			require.NotNil(t, got.Value)
			assert.Equal(t, tt.value, *got.Value)
		})
	}
}

func TestParseNumber(t *testing.T) {
	v, reason := ParseNumber("2,255", true)
	assert.Equal(t, models.ReasonNone, reason)
	assert.Equal(t, 2255.0, v)

	_, reason = ParseNumber("2,255", false)
	assert.Equal(t, models.ReasonUnparseable, reason)

	v, reason = ParseNumber(" 4.2 ", false)
	assert.Equal(t, models.ReasonNone, reason)
	assert.Equal(t, 4.2, v)

	v, reason = ParseNumber(int64(7), false)
	assert.Equal(t, models.ReasonNone, reason)
	assert.Equal(t, 7.0, v)

	_, reason = ParseNumber("Get", false)
	assert.Equal(t, models.ReasonUnparseable, reason)

	_, reason = ParseNumber(nil, false)
	assert.Equal(t, models.ReasonAbsent, reason)

	_, reason = ParseNumber("inf", false)
	assert.Equal(t, models.ReasonOutOfRange, reason)
}
