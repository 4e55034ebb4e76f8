package parser

import (
	"math"
	"strconv"
	"strings"

	"recnorm/services/processing/internal/models"
)

// ParseNumber coerces a cell to float64. Thousands separators are removed
// when stripCommas is set ("2,255" -> 2255). Non-numeric text yields
// ReasonUnparseable.
func ParseNumber(raw any, stripCommas bool) (float64, models.Reason) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) {
			return 0, models.ReasonAbsent
		}
		if math.IsInf(v, 0) {
			return 0, models.ReasonOutOfRange
		}
		return v, models.ReasonNone
	case int:
		return float64(v), models.ReasonNone
	case int64:
		return float64(v), models.ReasonNone
	case bool:
		return 0, models.ReasonUnparseable
	}

	text, ok := rawText(raw)
	if !ok {
		return 0, models.ReasonAbsent
	}
	if stripCommas {
		text = strings.ReplaceAll(text, ",", "")
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, models.ReasonUnparseable
	}
	if math.IsNaN(f) {
		return 0, models.ReasonAbsent
	}
	if math.IsInf(f, 0) {
		return 0, models.ReasonOutOfRange
	}
	return f, models.ReasonNone
}
