package shared

import (
	"strings"
	"time"
	_ "time/tzdata"
)

// LocalZoneName is the business calendar zone. Storage is always UTC.
const LocalZoneName = "Asia/Kolkata"

// DayMonthYearLayout is the layout of user-facing date query parameters
const DayMonthYearLayout = "02-01-2006"

// LocalDateLayout is the layout used when a local calendar date is stored
const LocalDateLayout = "2006-01-02"

// LocalZone is the loaded business calendar location
var LocalZone = loadLocalZone()

func loadLocalZone() *time.Location {
	loc, err := time.LoadLocation(LocalZoneName)
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

// LocalDate returns the business calendar date of t
func LocalDate(t time.Time) string {
	return t.In(LocalZone).Format(LocalDateLayout)
}

// LocalDayBounds returns the UTC instants bounding the local calendar day containing t
func LocalDayBounds(t time.Time) (time.Time, time.Time) {
	l := t.In(LocalZone)
	start := time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, LocalZone)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// ParseDayMonthYear parses a DD-MM-YYYY query parameter as the start of that local day in UTC
func ParseDayMonthYear(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayMonthYearLayout, strings.TrimSpace(s), LocalZone)
	if err != nil {
		return time.Time{}, Newf(ErrInvalidInput, "invalid date %q, expected DD-MM-YYYY", s)
	}
	return t.UTC(), nil
}

// DayRange turns a pair of DD-MM-YYYY bounds into an inclusive local-day range.
// Empty strings leave the corresponding end open.
func DayRange(from, to string) (DateRange, error) {
	var r DateRange
	if from != "" {
		t, err := ParseDayMonthYear(from)
		if err != nil {
			return r, err
		}
		r.From = t
	}
	if to != "" {
		t, err := ParseDayMonthYear(to)
		if err != nil {
			return r, err
		}
		r.To = t.AddDate(0, 0, 1)
	}
	return r, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 body timestamp and normalizes it to UTC.
// Values without an offset are read in the business zone.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, LocalZone); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, Newf(ErrInvalidInput, "invalid timestamp %q", s)
}
