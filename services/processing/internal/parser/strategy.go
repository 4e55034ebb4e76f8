package parser

import (
	"fmt"
	"strings"

	"recnorm/services/processing/internal/models"
)

type (
	PriceParser    func(raw any) models.ParsedPrice
	SalaryParser   func(raw any) models.ParsedSalary
	DateTimeParser func(raw any) models.ParsedDateTime
)

const (
	SalaryStrategyCanonical   = "canonical"
	SalaryStrategyDollarRange = "dollar-range"
)

// Strategies bundles the field parsers a pipeline run uses. Callers pick a
// contract per field instead of relying on whichever parser happens to be
// registered.
type Strategies struct {
	Price    PriceParser
	Salary   SalaryParser
	DateTime DateTimeParser
}

func DefaultStrategies() Strategies {
	return Strategies{
		Price:    ParsePrice,
		Salary:   ParseSalary,
		DateTime: ParseDateTime,
	}
}

// NewStrategies resolves a salary contract by name and binds the datetime
// parser to timezone.
func NewStrategies(salaryStrategy, timezone string) (Strategies, error) {
	s := DefaultStrategies()
	s.DateTime = NewDateTimeParser(timezone)

	switch strings.ToLower(strings.TrimSpace(salaryStrategy)) {
	case "", SalaryStrategyCanonical:
		s.Salary = ParseSalary
	case SalaryStrategyDollarRange:
		s.Salary = ParseSalaryDollarRange
	default:
		return Strategies{}, fmt.Errorf("unknown salary strategy %q", salaryStrategy)
	}
	return s, nil
}
