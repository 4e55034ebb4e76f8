// Package quality scores how complete a normalized row is.
package quality

import (
	"math"

	"recnorm/services/processing/internal/models"
)

// PresentFields filters candidates down to the columns the batch actually
// has, keeping candidate order.
func PresentFields(t *models.Table, candidates []string) []string {
	var out []string
	for _, c := range candidates {
		if t.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// CompletenessScore is the share of fields holding a non-null value, as a
// whole percentage. Only fields present in the schema should be passed; an
// empty field list scores 0.
func CompletenessScore(r models.Record, fields []string) int64 {
	if len(fields) == 0 {
		return 0
	}
	filled := 0
	for _, f := range fields {
		if HasValue(r[f]) {
			filled++
		}
	}
	score := math.RoundToEven(float64(filled) / float64(len(fields)) * 100)
	return int64(math.Max(0, math.Min(100, score)))
}

// HasValue reports whether v is non-null. Empty strings count as values.
func HasValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case float64:
		return !math.IsNaN(t)
	default:
		return true
	}
}

// HasText reports whether v is non-null and not the empty string.
// Whitespace-only text counts as present.
func HasText(v any) bool {
	if !HasValue(v) {
		return false
	}
	s, ok := v.(string)
	return !ok || s != ""
}
