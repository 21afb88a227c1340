package aggregation

import (
	"fmt"
	"strings"
	"time"
)

// Period is the symbolic time-window selector stored on a widget.
type Period string

const (
	PeriodToday       Period = "DA"
	PeriodLast24Hours Period = "24h"
	PeriodWeek        Period = "WE"
	PeriodLast7Days   Period = "7D"
	PeriodMonth       Period = "MO"
	PeriodLast30Days  Period = "30"
	PeriodYear        Period = "YR"
	PeriodLast365Days Period = "36"
	PeriodAllTime     Period = "AT"
)

// legacyLast24Hours is how older widget rows store the 24-hour period.
const legacyLast24Hours = "24"

var periodLabels = map[Period]string{
	PeriodToday:       "Daily",
	PeriodLast24Hours: "24 Hours",
	PeriodWeek:        "Weekly",
	PeriodLast7Days:   "7 Days",
	PeriodMonth:       "Monthly",
	PeriodLast30Days:  "30 Days",
	PeriodYear:        "Year",
	PeriodLast365Days: "365 Days",
	PeriodAllTime:     "All Time",
}

// Periods returns every supported period code in display order.
func Periods() []Period {
	return []Period{
		PeriodToday, PeriodLast24Hours, PeriodWeek, PeriodLast7Days, PeriodMonth,
		PeriodLast30Days, PeriodYear, PeriodLast365Days, PeriodAllTime,
	}
}

// ParsePeriod validates a stored period code.
func ParsePeriod(s string) (Period, error) {
	code := strings.TrimSpace(s)
	if code == legacyLast24Hours {
		return PeriodLast24Hours, nil
	}
	p := Period(code)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPeriod, s)
	}
	return p, nil
}

// Valid reports whether p is in the enumeration.
func (p Period) Valid() bool {
	_, ok := periodLabels[p]
	return ok
}

// Label is the human-readable name of p.
func (p Period) Label() string {
	return periodLabels[p]
}

// YearToDate selects how the YR period finds its start.
type YearToDate string

const (
	// YearToDateLegacy subtracts the day of the month, exactly like MO. This is
	// what deployed dashboards have always shown.
	YearToDateLegacy YearToDate = "legacy"

	// YearToDateCalendar subtracts the day of the year.
	YearToDateCalendar YearToDate = "calendar"
)

// Options tunes the calendar.
type Options struct {
	YearToDate YearToDate

	// ExtendedPeriods enables bucketing for 7D, MO, 30, YR and 36 at Step.
	// When false those periods fail with ErrBucketingNotSupported.
	ExtendedPeriods bool

	// Step is the bucket width of the extended periods. Zero means one day.
	Step time.Duration
}

// DefaultOptions returns legacy YR arithmetic with daily extended buckets.
func DefaultOptions() Options {
	return Options{
		YearToDate:      YearToDateLegacy,
		ExtendedPeriods: true,
		Step:            24 * time.Hour,
	}
}

// Calendar resolves periods into windows and bucket series. All calendar
// arithmetic happens in the location of the "now" it is given.
type Calendar struct {
	opts Options
}

// NewCalendar creates a calendar. Unset options fall back to DefaultOptions.
func NewCalendar(opts Options) *Calendar {
	if opts.YearToDate == "" {
		opts.YearToDate = YearToDateLegacy
	}
	if opts.Step <= 0 {
		opts.Step = 24 * time.Hour
	}
	return &Calendar{opts: opts}
}

var defaultCalendar = NewCalendar(DefaultOptions())

// Resolve maps p to its window using the default calendar.
func Resolve(p Period, now time.Time) (Window, error) {
	return defaultCalendar.Resolve(p, now)
}

// Resolve maps p to its window ending at now.
//
// MO starts at midnight now.Day() days before today, which lands on the last
// day of the previous month rather than the first of this one. Existing
// dashboards depend on it.
func (c *Calendar) Resolve(p Period, now time.Time) (Window, error) {
	today := midnight(now)

	var start time.Time
	switch p {
	case PeriodToday:
		start = today
	case PeriodLast24Hours:
		start = now.Add(-24 * time.Hour)
	case PeriodWeek:
		start = addDays(today, -int(now.Weekday()))
	case PeriodLast7Days:
		start = addDays(today, -7)
	case PeriodMonth:
		start = addDays(today, -now.Day())
	case PeriodLast30Days:
		start = addDays(today, -30)
	case PeriodYear:
		if c.opts.YearToDate == YearToDateCalendar {
			start = addDays(today, -now.YearDay())
		} else {
			start = addDays(today, -now.Day())
		}
	case PeriodLast365Days:
		start = addDays(today, -365)
	case PeriodAllTime:
		return Window{End: now}, nil
	default:
		return Window{}, fmt.Errorf("%w: %q", ErrUnsupportedPeriod, string(p))
	}

	return Window{Start: &start, End: now}, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func addDays(t time.Time, days int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+days, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
