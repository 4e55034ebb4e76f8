package parser

import (
	"regexp"
	"strconv"
	"strings"

	"recnorm/services/processing/internal/models"
)

var dollarRangePattern = regexp.MustCompile(`\$(\d+(?:,\d{3})*(?:\.\d+)?)\s*([Kk])?\s*-\s*\$(\d+(?:,\d{3})*(?:\.\d+)?)\s*([Kk])?`)

// ParseSalaryDollarRange is the stricter contract used for free-text job
// board posts: only an explicit "$min - $max" range counts, amounts are
// always USD and the period is always yearly.
func ParseSalaryDollarRange(raw any) models.ParsedSalary {
	out := models.ParsedSalary{
		Currency: models.DefaultSalaryCurrency,
		Period:   models.PeriodYearly,
	}

	text, ok := rawText(raw)
	if !ok {
		out.Period = models.PeriodUnknown
		out.Reason = models.ReasonAbsent
		return out
	}

	matches := dollarRangePattern.FindStringSubmatch(text)
	if len(matches) < 5 {
		out.Reason = models.ReasonNoDigits
		return out
	}

	lo, okLo := dollarAmount(matches[1], matches[2])
	hi, okHi := dollarAmount(matches[3], matches[4])
	if !okLo || !okHi {
		out.Reason = models.ReasonUnparseable
		return out
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	avg := (lo + hi) / 2
	out.Min, out.Max, out.Avg = &lo, &hi, &avg
	return out
}

func dollarAmount(num, marker string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if marker != "" {
		f *= 1000
	}
	return f, true
}
