// Package parser turns encoded cell values (currency-prefixed prices, salary
// ranges, datetimes with offsets) into typed values. Every parser is total:
// it never panics or returns an error, and reports why a value is null via
// models.Reason.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// rawText renders a raw cell as trimmed text. ok is false for nil, NaN and
// blank cells.
func rawText(raw any) (string, bool) {
	var s string
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		s = v
	case float64:
		if math.IsNaN(v) {
			return "", false
		}
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		if math.IsNaN(float64(v)) {
			return "", false
		}
		s = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
