package shared

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod indicates a year/month pair outside the supported range.
var ErrInvalidPeriod = errors.New("invalid pay period")

// Period identifies a calendar-month pay period by its first day.
type Period struct {
	start time.Time
}

// PeriodOf builds a Period from a year and month.
func PeriodOf(year, month int) (Period, error) {
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return Period{}, ErrInvalidPeriod
	}
	return Period{start: time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)}, nil
}

// PeriodFromDate normalises any date to the period containing it.
func PeriodFromDate(t time.Time) Period {
	return Period{start: time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)}
}

// Start returns the first day of the period.
func (p Period) Start() time.Time { return p.start }

// End returns the last day of the period.
func (p Period) End() time.Time {
	return p.start.AddDate(0, 1, -1)
}

// Year returns the calendar year of the period.
func (p Period) Year() int { return p.start.Year() }

// Month returns the calendar month of the period.
func (p Period) Month() int { return int(p.start.Month()) }

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool { return p.start.IsZero() }

// String renders the period as YYYY-MM, the canonical key used in locks and logs.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.start.Year(), int(p.start.Month()))
}
