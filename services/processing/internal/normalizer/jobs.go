package normalizer

import (
	"recnorm/services/processing/internal/models"
	"recnorm/services/processing/internal/parser"
	"recnorm/services/processing/internal/quality"
)

// JobCompletenessFields are scored for completeness in job posting batches.
var JobCompletenessFields = []string{
	models.ColJobTitle,
	models.ColCompany,
	models.ColSalaryAvg,
	models.ColCompanyRating,
	models.ColDate,
}

func (n *Normalizer) jobPipeline() Pipeline {
	return Pipeline{
		dropSyntheticStage(),
		splitDateTimeStage(n.strategies.DateTime),
		parseSalaryStage(n.strategies.Salary),
		castRatingStage(models.ColCompanyRating),
		ratingCategoryStage(models.ColCompanyRating, models.ColCompanyRatingCategory),
		presenceFlagStage(models.ColHasSalary, models.ColSalaryAvg, quality.HasValue),
		completenessStage(JobCompletenessFields),
		trimWhitespaceStage(),
		dedupStage(),
		fillUnknownStage(models.ColTimezone, models.ColUTCOffset),
		resetIndexStage(),
	}
}

// splitDateTimeStage replaces the first date/time-named column with date,
// time, timezone and utc_offset columns.
func splitDateTimeStage(parse parser.DateTimeParser) Stage {
	return stage{
		name: "split_datetime",
		missing: func(t *models.Table) []string {
			if _, ok := firstColumnContaining(t, "date", "time"); !ok {
				return []string{"*date*|*time*"}
			}
			return nil
		},
		apply: func(t *models.Table, rep *Report) {
			src, _ := firstColumnContaining(t, "date", "time")
			parsed := make([]models.ParsedDateTime, len(t.Rows))
			for i, r := range t.Rows {
				parsed[i] = parse(r[src])
				rep.failure(models.ColDate, parsed[i].Reason)
			}
			t.DropColumns(src)
			for _, c := range []string{models.ColDate, models.ColTime, models.ColTimezone, models.ColUTCOffset} {
				t.AddColumn(c)
			}
			for i, r := range t.Rows {
				p := parsed[i]
				r[models.ColDate] = optional(p.Date)
				r[models.ColTime] = optional(p.Time)
				r[models.ColTimezone] = p.Timezone
				if p.Offset != "" {
					r[models.ColUTCOffset] = p.Offset
				} else {
					r[models.ColUTCOffset] = nil
				}
			}
		},
	}
}

// parseSalaryStage replaces the first salary-named column ("salary" or the
// Indonesian "gaji") with min/max/avg/currency/period columns.
func parseSalaryStage(parse parser.SalaryParser) Stage {
	return stage{
		name: "parse_salary",
		missing: func(t *models.Table) []string {
			if _, ok := firstColumnContaining(t, "salary", "gaji"); !ok {
				return []string{"*salary*|*gaji*"}
			}
			return nil
		},
		apply: func(t *models.Table, rep *Report) {
			src, _ := firstColumnContaining(t, "salary", "gaji")
			parsed := make([]models.ParsedSalary, len(t.Rows))
			for i, r := range t.Rows {
				parsed[i] = parse(r[src])
				rep.failure(models.ColSalaryAvg, parsed[i].Reason)
			}
			t.DropColumns(src)
			for _, c := range []string{models.ColSalaryMin, models.ColSalaryMax, models.ColSalaryAvg, models.ColSalaryCurrency, models.ColSalaryPeriod} {
				t.AddColumn(c)
			}
			for i, r := range t.Rows {
				p := parsed[i]
				r[models.ColSalaryMin] = optional(p.Min)
				r[models.ColSalaryMax] = optional(p.Max)
				r[models.ColSalaryAvg] = optional(p.Avg)
				r[models.ColSalaryCurrency] = p.Currency
				r[models.ColSalaryPeriod] = string(p.Period)
			}
		},
	}
}
