package availability

import (
	"fmt"
	"time"
)

const (
	dayKeyLayout    = "2006-01-02"
	yearMonthLayout = "2006-01"

	minYear = 1
	maxYear = 9999
)

// DayKey is a calendar date in canonical YYYY-MM-DD form
type DayKey string

// DayKeyOf returns the DayKey of t's calendar date in t's own location
func DayKeyOf(t time.Time) DayKey {
	return DayKey(t.Format(dayKeyLayout))
}

// ParseDayKey validates s and returns it as a DayKey
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse(dayKeyLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: malformed day %q", ErrInvalidRange, s)
	}
	if t.Year() < minYear || t.Year() > maxYear {
		return "", fmt.Errorf("%w: year out of bounds in %q", ErrInvalidRange, s)
	}
	return DayKey(t.Format(dayKeyLayout)), nil
}

// Time returns the day at midnight UTC
func (d DayKey) Time() time.Time {
	t, _ := time.Parse(dayKeyLayout, string(d))
	return t
}

// YearMonth identifies a displayed month. Only year and month are significant.
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses "YYYY-MM"
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(yearMonthLayout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: malformed month %q", ErrInvalidRange, s)
	}
	ym := MonthOf(t)
	if err := ym.Validate(); err != nil {
		return YearMonth{}, err
	}
	return ym, nil
}

// Validate rejects months outside years 1..9999 or with an invalid month number
func (ym YearMonth) Validate() error {
	if ym.Month < time.January || ym.Month > time.December {
		return fmt.Errorf("%w: month %d", ErrInvalidRange, ym.Month)
	}
	if ym.Year < minYear || ym.Year > maxYear {
		return fmt.Errorf("%w: year %d", ErrInvalidRange, ym.Year)
	}
	return nil
}

// AddMonths returns the month n months later (or earlier for negative n)
func (ym YearMonth) AddMonths(n int) (YearMonth, error) {
	next := MonthOf(ym.FirstDay().AddDate(0, n, 0))
	if err := next.Validate(); err != nil {
		return YearMonth{}, err
	}
	return next, nil
}

// FirstDay returns the 1st of the month at midnight UTC
func (ym YearMonth) FirstDay() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns the last day of the month at midnight UTC
func (ym YearMonth) LastDay() time.Time {
	return ym.FirstDay().AddDate(0, 1, -1)
}

// Contains reports whether day falls inside the month
func (ym YearMonth) Contains(day DayKey) bool {
	return MonthOf(day.Time()) == ym
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}
