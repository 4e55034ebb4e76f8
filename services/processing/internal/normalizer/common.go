package normalizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"recnorm/services/processing/internal/models"
)

// isSyntheticColumn matches index columns written by dataframe exports:
// blank headers and "Unnamed: N".
func isSyntheticColumn(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	return n == "" || strings.Contains(n, "unnamed")
}

func dropSyntheticStage() Stage {
	return stage{
		name: "drop_synthetic_columns",
		apply: func(t *models.Table, rep *Report) {
			var drop []string
			for _, c := range t.Columns {
				if isSyntheticColumn(c) {
					drop = append(drop, c)
				}
			}
			if len(drop) == 0 {
				return
			}
			t.DropColumns(drop...)
			rep.DroppedColumns = append(rep.DroppedColumns, drop...)
		},
	}
}

// resetIndexStage compacts the row slice into a fresh, densely indexed one.
func resetIndexStage() Stage {
	return stage{
		name: "reset_index",
		apply: func(t *models.Table, _ *Report) {
			rows := make([]models.Record, 0, len(t.Rows))
			for _, r := range t.Rows {
				if r != nil {
					rows = append(rows, r)
				}
			}
			t.Rows = rows
		},
	}
}

// firstColumnContaining returns the first column whose lowercased name
// contains any of the fragments.
func firstColumnContaining(t *models.Table, fragments ...string) (string, bool) {
	for _, c := range t.Columns {
		lc := strings.ToLower(c)
		for _, f := range fragments {
			if strings.Contains(lc, f) {
				return c, true
			}
		}
	}
	return "", false
}

// textOf renders a cell as text for category-style normalization.
func textOf(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case float64:
		if math.IsNaN(t) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return fmt.Sprint(t), true
	}
}

// floatOf reads a numeric cell. Non-numeric cells read as nil.
func floatOf(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return nil
		}
		f = t
	case int64:
		f = float64(t)
	case int:
		f = float64(t)
	default:
		return nil
	}
	return &f
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
