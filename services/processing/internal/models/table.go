package models

import (
	"time"
)

// Record is one raw or transformed row keyed by column name. Values are nil,
// string, float64, int64, bool, time.Time or TimeOfDay.
type Record map[string]any

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is a batch of records with an ordered column set. A column listed in
// Columns but missing from a row reads as nil.
type Table struct {
	Columns []string
	Rows    []Record
}

func NewTable(columns []string, rows []Record) *Table {
	return &Table{Columns: columns, Rows: rows}
}

// Clone deep-copies the column list and every row so the copy can be mutated
// freely.
func (t *Table) Clone() *Table {
	if t == nil {
		return &Table{}
	}
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	rows := make([]Record, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Clone()
	}
	return &Table{Columns: cols, Rows: rows}
}

func (t *Table) Len() int { return len(t.Rows) }

func (t *Table) Has(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// HasAll reports whether every named column is present.
func (t *Table) HasAll(columns ...string) bool {
	for _, c := range columns {
		if !t.Has(c) {
			return false
		}
	}
	return true
}

// AddColumn appends column to the schema if it is not already there.
func (t *Table) AddColumn(column string) {
	if !t.Has(column) {
		t.Columns = append(t.Columns, column)
	}
}

// DropColumns removes the named columns from the schema and from every row.
func (t *Table) DropColumns(columns ...string) {
	drop := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		drop[c] = struct{}{}
	}
	kept := t.Columns[:0:0]
	for _, c := range t.Columns {
		if _, ok := drop[c]; !ok {
			kept = append(kept, c)
		}
	}
	t.Columns = kept
	for _, r := range t.Rows {
		for c := range drop {
			delete(r, c)
		}
	}
}

// Values returns column's cells in row order.
func (t *Table) Values(column string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[column]
	}
	return out
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}
}

func (t TimeOfDay) String() string {
	return time.Date(0, 1, 1, t.Hour, t.Minute, t.Second, t.Nanosecond, time.UTC).Format("15:04:05.999999999")
}
