package models

import "time"

// Reason explains why a parsed field is null. The zero value means the field
// parsed successfully.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonAbsent      Reason = "absent"
	ReasonNoDigits    Reason = "no_digits"
	ReasonOutOfRange  Reason = "out_of_range"
	ReasonUnparseable Reason = "unparseable"
)

// Failed reports whether the reason is a parse failure as opposed to a value
// that was simply not there.
func (r Reason) Failed() bool {
	return r != ReasonNone && r != ReasonAbsent
}

const (
	CurrencyUnknown       = "unknown"
	DefaultSalaryCurrency = "USD"
	DefaultTimezone       = "Asia/Jakarta"
)

type SalaryPeriod string

const (
	PeriodHourly  SalaryPeriod = "hourly"
	PeriodYearly  SalaryPeriod = "yearly"
	PeriodUnknown SalaryPeriod = "unknown"
)

type ParsedPrice struct {
	Value    *int64
	Currency string
	Reason   Reason
}

type ParsedSalary struct {
	Min      *float64
	Max      *float64
	Avg      *float64
	Currency string
	Period   SalaryPeriod
	Reason   Reason
}

// ParsedDateTime splits an encoded datetime. Timezone is always the fixed
// label the parser was configured with; Offset carries the suffix that was
// found in the text, if any.
type ParsedDateTime struct {
	Date     *time.Time
	Time     *TimeOfDay
	Timezone string
	Offset   string
	Reason   Reason
}
