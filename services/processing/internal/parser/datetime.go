package parser

import (
	"regexp"
	"time"

	"recnorm/services/processing/internal/models"
)

var offsetSuffix = regexp.MustCompile(`\s*([+-])(\d{2})[:.]?(\d{2})$`)

var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"02 Jan 2006 15:04:05",
	"02 Jan 2006 15:04",
	"02 Jan 2006",
	"2 January 2006 15:04",
	"2 January 2006",
	"Jan 2, 2006 15:04",
	"Jan 2, 2006",
	"January 2, 2006 15:04",
	"January 2, 2006",
	time.RFC3339,
}

// NewDateTimeParser returns a parser that splits "2024-12-23 17:00+07:00"
// style values into date, time of day and the given fixed timezone label.
// The trailing offset is stripped before parsing and reported in Offset; it
// never replaces the label.
func NewDateTimeParser(timezone string) DateTimeParser {
	if timezone == "" {
		timezone = models.DefaultTimezone
	}
	return func(raw any) models.ParsedDateTime {
		return parseDateTime(raw, timezone)
	}
}

// ParseDateTime parses with the default timezone label.
func ParseDateTime(raw any) models.ParsedDateTime {
	return parseDateTime(raw, models.DefaultTimezone)
}

func parseDateTime(raw any, timezone string) models.ParsedDateTime {
	out := models.ParsedDateTime{Timezone: timezone}

	text, ok := rawText(raw)
	if !ok {
		out.Reason = models.ReasonAbsent
		return out
	}

	t, parsed := time.Time{}, false
	if m := offsetSuffix.FindStringSubmatch(text); m != nil {
		if t, parsed = parseLayouts(text[:len(text)-len(m[0])]); parsed {
			out.Offset = m[1] + m[2] + ":" + m[3]
		}
	}
	if !parsed {
		t, parsed = parseLayouts(text)
	}
	if !parsed {
		out.Reason = models.ReasonUnparseable
		return out
	}

	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	clock := models.TimeOfDayOf(t)
	out.Date, out.Time = &date, &clock
	return out
}

func parseLayouts(text string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
