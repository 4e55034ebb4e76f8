package normalizer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"recnorm/services/processing/internal/models"
)

const UnknownLabel = "Unknown"

// NormalizeCategory trims and title-cases a category value. Empty values and
// the literal "nan" become "Unknown". Applying it twice gives the same
// result as applying it once.
func NormalizeCategory(v any) string {
	return normalizeCategory(cases.Title(language.Und), v)
}

func normalizeCategory(caser cases.Caser, v any) string {
	s, ok := textOf(v)
	if !ok {
		return UnknownLabel
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return UnknownLabel
	}
	return caser.String(s)
}

func normalizeCategoryStage(column string) Stage {
	return stage{
		name:     "normalize_" + column,
		requires: []string{column},
		apply: func(t *models.Table, _ *Report) {
			caser := cases.Title(language.Und)
			for _, r := range t.Rows {
				r[column] = normalizeCategory(caser, r[column])
			}
		},
	}
}

func trimWhitespaceStage() Stage {
	return stage{
		name: "trim_whitespace",
		apply: func(t *models.Table, _ *Report) {
			for _, r := range t.Rows {
				for k, v := range r {
					if s, ok := v.(string); ok {
						r[k] = strings.TrimSpace(s)
					}
				}
			}
		},
	}
}

// fillUnknownStage replaces nil cells of textual columns with "Unknown". A
// column is textual when every non-nil cell is a string and at least one
// cell is set.
func fillUnknownStage(except ...string) Stage {
	skip := make(map[string]struct{}, len(except))
	for _, c := range except {
		skip[c] = struct{}{}
	}
	return stage{
		name: "fill_unknown_text",
		apply: func(t *models.Table, _ *Report) {
			for _, col := range t.Columns {
				if _, ok := skip[col]; ok || !isTextColumn(t, col) {
					continue
				}
				for _, r := range t.Rows {
					if r[col] == nil {
						r[col] = UnknownLabel
					}
				}
			}
		},
	}
}

func isTextColumn(t *models.Table, col string) bool {
	seen := false
	for _, r := range t.Rows {
		switch r[col].(type) {
		case nil:
		case string:
			seen = true
		default:
			return false
		}
	}
	return seen
}
