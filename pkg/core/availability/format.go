package availability

import (
	"fmt"
	"time"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var frenchWeekdays = [...]string{
	"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi",
}

// NoUpdate is shown when a trainer has no recorded availability write
const NoUpdate = "—"

// MonthLabel returns the month heading, e.g. "septembre 2025"
func MonthLabel(ym YearMonth) string {
	return fmt.Sprintf("%s %d", frenchMonths[ym.Month-1], ym.Year)
}

// WeekdayShort returns the three letter column heading for d, e.g. "lun"
func WeekdayShort(d time.Weekday) string {
	return frenchWeekdays[d][:3]
}

// FormatLastUpdated renders t in loc, e.g. "mercredi 10 septembre 2025 à 16:42".
// The zero time renders as NoUpdate.
func FormatLastUpdated(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return NoUpdate
	}
	if loc != nil {
		t = t.In(loc)
	}
	return fmt.Sprintf("%s %d %s %d à %02d:%02d",
		frenchWeekdays[t.Weekday()], t.Day(), frenchMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}
