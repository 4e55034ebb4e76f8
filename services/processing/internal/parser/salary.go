package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"recnorm/services/processing/internal/models"
)

var (
	yearlyPattern = regexp.MustCompile(`(?i)(year|annual|annum|\byrs?\b)`)
	hourlyPattern = regexp.MustCompile(`(?i)(hour|hrs?\b)`)

	salaryNoisePattern = regexp.MustCompile(`(?i)(usd|eur|gbp|inr|idr|\brp\.?|per|year(ly)?|annual|annum|yrs?\b|hour(ly)?s?|hrs?\b|month(ly)?|/|\$|€|£|₹)`)

	thousandsMarker    = regexp.MustCompile(`(\d)\s?[kK]\b`)
	thousandsToken     = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	salaryTokenPattern = regexp.MustCompile(`\d+(?:[.,]\d+)*`)
)

var salaryCurrencies = []struct {
	code    string
	pattern *regexp.Regexp
}{
	{"USD", regexp.MustCompile(`(?i)\busd\b|\$`)},
	{"EUR", regexp.MustCompile(`(?i)\beur\b|€`)},
	{"GBP", regexp.MustCompile(`(?i)\bgbp\b|£`)},
	{"INR", regexp.MustCompile(`(?i)\binr\b|₹`)},
	{"IDR", regexp.MustCompile(`(?i)\bidr\b|\brp\.?`)},
}

// ParseSalary splits salary text such as "$50k - $80k per year" into min,
// max and average amounts, the currency and the pay period.
//
// A k marker directly after a number scales every extracted amount by 1000,
// and in that mode a comma reads as a decimal point ("50,5k" is 50500).
// Without a marker commas are thousands separators. With two or more amounts
// min and max are taken by value, not by position.
func ParseSalary(raw any) models.ParsedSalary {
	text, ok := rawText(raw)
	if !ok {
		return models.ParsedSalary{
			Currency: models.DefaultSalaryCurrency,
			Period:   models.PeriodUnknown,
			Reason:   models.ReasonAbsent,
		}
	}

	out := models.ParsedSalary{
		Currency: salaryCurrency(text),
		Period:   salaryPeriod(text),
	}

	cleaned := strings.TrimSpace(salaryNoisePattern.ReplaceAllString(text, " "))

	amounts, reason := salaryAmounts(cleaned)
	if reason != models.ReasonNone {
		out.Reason = reason
		return out
	}

	lo, hi := amounts[0], amounts[0]
	for _, a := range amounts[1:] {
		lo = math.Min(lo, a)
		hi = math.Max(hi, a)
	}
	avg := (lo + hi) / 2
	out.Min, out.Max, out.Avg = &lo, &hi, &avg
	return out
}

func salaryAmounts(cleaned string) ([]float64, models.Reason) {
	var amounts []float64

	if thousandsMarker.MatchString(cleaned) {
		cleaned = thousandsMarker.ReplaceAllString(cleaned, "$1")
		for _, tok := range thousandsToken.FindAllString(cleaned, -1) {
			f, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", "."), 64)
			if err != nil {
				return nil, models.ReasonUnparseable
			}
			amounts = append(amounts, math.Round(f*1000*100)/100)
		}
	} else {
		for _, tok := range salaryTokenPattern.FindAllString(cleaned, -1) {
			tok = strings.ReplaceAll(tok, ",", "")
			if strings.Count(tok, ".") > 1 {
				tok = strings.ReplaceAll(tok, ".", "")
			}
			f, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, models.ReasonUnparseable
			}
			amounts = append(amounts, f)
		}
	}

	if len(amounts) == 0 {
		return nil, models.ReasonNoDigits
	}
	for _, a := range amounts {
		if math.IsInf(a, 0) {
			return nil, models.ReasonOutOfRange
		}
	}
	return amounts, models.ReasonNone
}

func salaryPeriod(text string) models.SalaryPeriod {
	switch {
	case yearlyPattern.MatchString(text):
		return models.PeriodYearly
	case hourlyPattern.MatchString(text):
		return models.PeriodHourly
	default:
		return models.PeriodUnknown
	}
}

func salaryCurrency(text string) string {
	for _, c := range salaryCurrencies {
		if c.pattern.MatchString(text) {
			return c.code
		}
	}
	return models.DefaultSalaryCurrency
}
