// Package sink loads normalized batches into analytics stores. Each domain
// has a fixed column layout; batch columns outside it are not loaded and
// layout columns the batch lacks are loaded as NULL.
package sink

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"recnorm/services/processing/internal/errors"
	"recnorm/services/processing/internal/models"
)

// Batch identifies the run a table belongs to.
type Batch struct {
	RunID    uuid.UUID
	Dataset  string
	Domain   models.Domain
	LoadedAt time.Time
}

type Sink interface {
	Name() string
	Load(ctx context.Context, b Batch, t *models.Table) (int, error)
}

type kind int

const (
	kindString kind = iota
	kindFloat
	kindInt
	kindBool
	kindDate
	kindClock
)

type column struct {
	name string
	kind kind
}

// metaColumns lead every row.
var metaColumns = []string{"run_id", "dataset", "row_index", "loaded_at"}

var productColumns = []column{
	{models.ColName, kindString},
	{models.ColMainCategory, kindString},
	{models.ColSubCategory, kindString},
	{models.ColImage, kindString},
	{models.ColRatings, kindFloat},
	{models.ColNoOfRatings, kindInt},
	{models.ColDiscountPriceValue, kindInt},
	{models.ColDiscountPriceCurrency, kindString},
	{models.ColActualPriceValue, kindInt},
	{models.ColActualPriceCurrency, kindString},
	{models.ColDiscountAmount, kindFloat},
	{models.ColDiscountPercent, kindFloat},
	{models.ColRatingCategory, kindString},
	{models.ColPriceCategory, kindString},
	{models.ColSavingsLevel, kindString},
	{models.ColHasDiscount, kindBool},
	{models.ColHasRating, kindBool},
	{models.ColHasImage, kindBool},
	{models.ColCompletenessScore, kindInt},
}

var jobColumns = []column{
	{models.ColJobTitle, kindString},
	{models.ColCompany, kindString},
	{models.ColCompanyRating, kindFloat},
	{models.ColCompanyRatingCategory, kindString},
	{models.ColDate, kindDate},
	{models.ColTime, kindClock},
	{models.ColTimezone, kindString},
	{models.ColUTCOffset, kindString},
	{models.ColSalaryMin, kindFloat},
	{models.ColSalaryMax, kindFloat},
	{models.ColSalaryAvg, kindFloat},
	{models.ColSalaryCurrency, kindString},
	{models.ColSalaryPeriod, kindString},
	{models.ColHasSalary, kindBool},
	{models.ColCompletenessScore, kindInt},
}

// TableName is the destination table of a domain.
func TableName(d models.Domain) string {
	if d == models.DomainJobPostings {
		return "job_postings"
	}
	return "products"
}

func layout(d models.Domain) ([]column, error) {
	switch d {
	case models.DomainProducts:
		return productColumns, nil
	case models.DomainJobPostings:
		return jobColumns, nil
	default:
		return nil, errors.InvalidInput("no sink layout for domain "+string(d), nil)
	}
}

func columnNames(cols []column) []string {
	names := append([]string(nil), metaColumns...)
	for _, c := range cols {
		names = append(names, c.name)
	}
	return names
}

// rows flattens t into positional rows: meta columns first, then the layout.
func rows(b Batch, cols []column, t *models.Table) [][]any {
	out := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]any, 0, len(metaColumns)+len(cols))
		row = append(row, b.RunID, b.Dataset, uint32(i), b.LoadedAt)
		for _, c := range cols {
			row = append(row, convert(r[c.name], c.kind))
		}
		out[i] = row
	}
	return out
}

// convert returns a typed pointer, or an untyped nil for missing and
// mismatched cells.
func convert(v any, k kind) any {
	if v == nil {
		return nil
	}
	switch k {
	case kindString:
		if s, ok := v.(string); ok {
			return &s
		}
	case kindFloat:
		switch x := v.(type) {
		case float64:
			if math.IsNaN(x) {
				return nil
			}
			return &x
		case int64:
			f := float64(x)
			return &f
		}
	case kindInt:
		switch x := v.(type) {
		case int64:
			return &x
		case float64:
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil
			}
			n := int64(math.Round(x))
			return &n
		}
	case kindBool:
		if b, ok := v.(bool); ok {
			return &b
		}
	case kindDate:
		if d, ok := v.(time.Time); ok {
			return &d
		}
	case kindClock:
		if c, ok := v.(models.TimeOfDay); ok {
			s := c.String()
			return &s
		}
	}
	return nil
}
