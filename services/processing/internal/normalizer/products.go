package normalizer

import (
	"math"

	"recnorm/services/processing/internal/categorizer"
	"recnorm/services/processing/internal/models"
	"recnorm/services/processing/internal/parser"
	"recnorm/services/processing/internal/quality"
)

// ProductCompletenessFields are scored for completeness in product batches.
var ProductCompletenessFields = []string{
	models.ColName,
	models.ColDiscountPriceValue,
	models.ColRatings,
	models.ColImage,
}

func (n *Normalizer) productPipeline() Pipeline {
	return Pipeline{
		dropSyntheticStage(),
		parsePriceStage(n.strategies.Price, models.ColDiscountPrice, models.ColDiscountPriceValue, models.ColDiscountPriceCurrency),
		parsePriceStage(n.strategies.Price, models.ColActualPrice, models.ColActualPriceValue, models.ColActualPriceCurrency),
		castRatingStage(models.ColRatings),
		castCountStage(models.ColNoOfRatings),
		discountMetricsStage(),
		normalizeCategoryStage(models.ColMainCategory),
		normalizeCategoryStage(models.ColSubCategory),
		ratingCategoryStage(models.ColRatings, models.ColRatingCategory),
		priceCategoryStage(),
		savingsLevelStage(),
		presenceFlagStage(models.ColHasDiscount, models.ColDiscountPriceValue, quality.HasValue),
		presenceFlagStage(models.ColHasRating, models.ColRatings, quality.HasValue),
		presenceFlagStage(models.ColHasImage, models.ColImage, quality.HasText),
		completenessStage(ProductCompletenessFields),
		dedupStage(),
		trimWhitespaceStage(),
		resetIndexStage(),
	}
}

// parsePriceStage replaces an encoded price column with value and currency
// columns.
func parsePriceStage(parse parser.PriceParser, src, valueCol, currencyCol string) Stage {
	return stage{
		name:     "parse_" + src,
		requires: []string{src},
		apply: func(t *models.Table, rep *Report) {
			parsed := make([]models.ParsedPrice, len(t.Rows))
			for i, r := range t.Rows {
				parsed[i] = parse(r[src])
				rep.failure(valueCol, parsed[i].Reason)
			}
			t.DropColumns(src)
			t.AddColumn(valueCol)
			t.AddColumn(currencyCol)
			for i, r := range t.Rows {
				r[valueCol] = optional(parsed[i].Value)
				r[currencyCol] = parsed[i].Currency
			}
		},
	}
}

// castRatingStage coerces a rating column to float64 and nulls anything
// outside [0, 5].
func castRatingStage(column string) Stage {
	return stage{
		name:     "cast_" + column,
		requires: []string{column},
		apply: func(t *models.Table, rep *Report) {
			for _, r := range t.Rows {
				v, reason := parser.ParseNumber(r[column], false)
				if reason == models.ReasonNone && (v < 0 || v > 5) {
					reason = models.ReasonOutOfRange
				}
				rep.failure(column, reason)
				if reason != models.ReasonNone {
					r[column] = nil
					continue
				}
				r[column] = v
			}
		},
	}
}

// castCountStage coerces a count column, accepting thousands separators.
// Whole numbers are stored as int64.
func castCountStage(column string) Stage {
	return stage{
		name:     "cast_" + column,
		requires: []string{column},
		apply: func(t *models.Table, rep *Report) {
			for _, r := range t.Rows {
				v, reason := parser.ParseNumber(r[column], true)
				rep.failure(column, reason)
				switch {
				case reason != models.ReasonNone:
					r[column] = nil
				case v == math.Trunc(v) && math.Abs(v) < 1<<62:
					r[column] = int64(v)
				default:
					r[column] = v
				}
			}
		},
	}
}

// discountMetricsStage derives the discount amount and percentage. A
// discount price above the actual price is inconsistent source data: both
// metrics are clamped to zero.
func discountMetricsStage() Stage {
	return stage{
		name:     "discount_metrics",
		requires: []string{models.ColDiscountPriceValue, models.ColActualPriceValue},
		apply: func(t *models.Table, _ *Report) {
			t.AddColumn(models.ColDiscountAmount)
			t.AddColumn(models.ColDiscountPercent)
			for _, r := range t.Rows {
				amount, percent := discountMetrics(floatOf(r[models.ColActualPriceValue]), floatOf(r[models.ColDiscountPriceValue]))
				r[models.ColDiscountAmount] = optional(amount)
				r[models.ColDiscountPercent] = optional(percent)
			}
		},
	}
}

func discountMetrics(actual, discount *float64) (amount, percent *float64) {
	if actual == nil || discount == nil {
		return nil, nil
	}
	a := *actual - *discount
	if a < 0 {
		zero, zeroPct := 0.0, 0.0
		return &zero, &zeroPct
	}
	if *actual == 0 {
		return &a, nil
	}
	p := round2(a / *actual * 100)
	return &a, &p
}

func ratingCategoryStage(src, dst string) Stage {
	return stage{
		name:     dst,
		requires: []string{src},
		apply: func(t *models.Table, _ *Report) {
			t.AddColumn(dst)
			for _, r := range t.Rows {
				r[dst] = categorizer.CategorizeRating(floatOf(r[src]))
			}
		},
	}
}

// priceCategoryStage bands discount prices by the batch's own quartiles,
// computed once before any row is labeled.
func priceCategoryStage() Stage {
	const name = models.ColPriceCategory
	return stage{
		name:     name,
		requires: []string{models.ColDiscountPriceValue},
		apply: func(t *models.Table, rep *Report) {
			var prices []float64
			for _, r := range t.Rows {
				if p := floatOf(r[models.ColDiscountPriceValue]); p != nil {
					prices = append(prices, *p)
				}
			}
			q, ok := categorizer.ComputeQuantiles(prices)
			if !ok {
				rep.skip(name, "no non-null "+models.ColDiscountPriceValue)
				return
			}
			t.AddColumn(name)
			for _, r := range t.Rows {
				r[name] = categorizer.CategorizePrice(floatOf(r[models.ColDiscountPriceValue]), q)
			}
		},
	}
}

func savingsLevelStage() Stage {
	return stage{
		name:     models.ColSavingsLevel,
		requires: []string{models.ColDiscountPercent},
		apply: func(t *models.Table, _ *Report) {
			t.AddColumn(models.ColSavingsLevel)
			for _, r := range t.Rows {
				if label, ok := categorizer.SavingsLevel(floatOf(r[models.ColDiscountPercent])); ok {
					r[models.ColSavingsLevel] = label
				} else {
					r[models.ColSavingsLevel] = nil
				}
			}
		},
	}
}

func presenceFlagStage(flag, src string, present func(any) bool) Stage {
	return stage{
		name:     flag,
		requires: []string{src},
		apply: func(t *models.Table, _ *Report) {
			t.AddColumn(flag)
			for _, r := range t.Rows {
				r[flag] = present(r[src])
			}
		},
	}
}

func completenessStage(candidates []string) Stage {
	return stage{
		name: models.ColCompletenessScore,
		missing: func(t *models.Table) []string {
			if len(quality.PresentFields(t, candidates)) == 0 {
				return candidates
			}
			return nil
		},
		apply: func(t *models.Table, _ *Report) {
			fields := quality.PresentFields(t, candidates)
			t.AddColumn(models.ColCompletenessScore)
			for _, r := range t.Rows {
				r[models.ColCompletenessScore] = quality.CompletenessScore(r, fields)
			}
		},
	}
}
