// Package categorizer maps numeric values to ordinal labels, either with
// fixed thresholds (ratings, savings) or with quantiles computed once over a
// batch (prices).
package categorizer

import (
	"math"
	"sort"
)

const (
	RatingExcellent = "Excellent"
	RatingVeryGood  = "Very Good"
	RatingGood      = "Good"
	RatingFair      = "Fair"
	RatingPoor      = "Poor"
	RatingNone      = "No Rating"

	PriceBudget   = "Budget"
	PriceMidRange = "Mid-Range"
	PricePremium  = "Premium"
	PriceLuxury   = "Luxury"
	PriceUnknown  = "unknown"

	SavingsNone     = "No Discount"
	SavingsLow      = "Low"
	SavingsMedium   = "Medium"
	SavingsHigh     = "High"
	SavingsVeryHigh = "Very High"
)

// CategorizeRating labels a 0-5 rating. A nil rating is "No Rating".
func CategorizeRating(rating *float64) string {
	if rating == nil || math.IsNaN(*rating) {
		return RatingNone
	}
	switch r := *rating; {
	case r >= 4.5:
		return RatingExcellent
	case r >= 4.0:
		return RatingVeryGood
	case r >= 3.5:
		return RatingGood
	case r >= 3.0:
		return RatingFair
	default:
		return RatingPoor
	}
}

// Quantiles holds the 25th, 50th and 75th percentile of a batch.
type Quantiles struct {
	Q25, Q50, Q75 float64
}

// ComputeQuantiles interpolates linearly between the closest ranks, so the
// thresholds need not be values that occur in the batch. ok is false when
// values is empty.
func ComputeQuantiles(values []float64) (q Quantiles, ok bool) {
	if len(values) == 0 {
		return Quantiles{}, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Quantiles{
		Q25: quantile(sorted, 0.25),
		Q50: quantile(sorted, 0.50),
		Q75: quantile(sorted, 0.75),
	}, true
}

func quantile(sorted []float64, q float64) float64 {
	pos := float64(len(sorted)-1) * q
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// CategorizePrice bands a price against precomputed batch quantiles.
func CategorizePrice(price *float64, q Quantiles) string {
	if price == nil || math.IsNaN(*price) {
		return PriceUnknown
	}
	switch p := *price; {
	case p <= q.Q25:
		return PriceBudget
	case p <= q.Q50:
		return PriceMidRange
	case p <= q.Q75:
		return PricePremium
	default:
		return PriceLuxury
	}
}

// SavingsLevel bands a discount percentage. Bands are closed on the right:
// exactly 10% is "Low", anything at or below 0 is "No Discount". ok is false
// for a nil percentage.
func SavingsLevel(percent *float64) (label string, ok bool) {
	if percent == nil || math.IsNaN(*percent) {
		return "", false
	}
	switch p := *percent; {
	case p <= 0:
		return SavingsNone, true
	case p <= 10:
		return SavingsLow, true
	case p <= 25:
		return SavingsMedium, true
	case p <= 50:
		return SavingsHigh, true
	default:
		return SavingsVeryHigh, true
	}
}
