package normalizer

import (
	"strings"

	apperrors "recnorm/services/processing/internal/errors"
	"recnorm/services/processing/internal/models"
)

// SkippedStage records a stage that did not run. Type is SCHEMA_ABSENT when
// the batch lacked a column the stage depends on.
type SkippedStage struct {
	Stage  string              `json:"stage"`
	Type   apperrors.ErrorType `json:"type,omitempty"`
	Reason string              `json:"reason"`
}

// Report summarizes one pipeline run. ParseFailures counts, per output
// column, the cells that held a value which could not be parsed; cells that
// were simply empty are not counted.
type Report struct {
	Domain            models.Domain  `json:"domain"`
	InputRows         int            `json:"input_rows"`
	OutputRows        int            `json:"output_rows"`
	OutputColumns     int            `json:"output_columns"`
	DuplicatesRemoved int            `json:"duplicates_removed"`
	DroppedColumns    []string       `json:"dropped_columns,omitempty"`
	Applied           []string       `json:"applied"`
	Skipped           []SkippedStage `json:"skipped,omitempty"`
	ParseFailures     map[string]int `json:"parse_failures,omitempty"`
}

func newReport(domain models.Domain, rows int) *Report {
	return &Report{Domain: domain, InputRows: rows, ParseFailures: map[string]int{}}
}

func (r *Report) skip(stage, reason string) {
	r.Skipped = append(r.Skipped, SkippedStage{Stage: stage, Reason: reason})
}

func (r *Report) skipMissing(stage string, missing []string) {
	cause := apperrors.SchemaAbsent("missing column(s): "+strings.Join(missing, ", "), nil)
	r.Skipped = append(r.Skipped, SkippedStage{Stage: stage, Type: cause.Type, Reason: cause.Message})
}

func (r *Report) wasSkipped(stage string) bool {
	for _, s := range r.Skipped {
		if s.Stage == stage {
			return true
		}
	}
	return false
}

func (r *Report) failure(column string, reason models.Reason) {
	if reason.Failed() {
		r.ParseFailures[column]++
	}
}

// Failures returns the parse failure count for column.
func (r *Report) Failures(column string) int {
	return r.ParseFailures[column]
}
