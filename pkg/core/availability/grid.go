package availability

import "time"

// CalendarCell is one day of a month grid. Padding cells carry their real date
// with InCurrentMonth set to false.
type CalendarCell struct {
	Date           time.Time
	InCurrentMonth bool
}

// Key returns the DayKey of the cell's date
func (c CalendarCell) Key() DayKey {
	return DayKeyOf(c.Date)
}

// GridBuilder lays out months as whole weeks starting on FirstWeekday
type GridBuilder struct {
	FirstWeekday time.Weekday
}

// DefaultGrid starts weeks on Monday
var DefaultGrid = GridBuilder{FirstWeekday: time.Monday}

// BuildMonthGrid returns the Monday-first grid for the month containing ref
func BuildMonthGrid(ref time.Time) [][]CalendarCell {
	return DefaultGrid.Build(MonthOf(ref))
}

// Build returns the weeks covering ym, padded with days of the adjacent months so that
// every row holds exactly 7 cells. The result has between 4 and 6 rows.
func (g GridBuilder) Build(ym YearMonth) [][]CalendarCell {
	first := ym.FirstDay()
	last := ym.LastDay()

	leading := (int(first.Weekday()) - int(g.FirstWeekday) + 7) % 7
	lastWeekday := (int(g.FirstWeekday) + 6) % 7
	trailing := (lastWeekday - int(last.Weekday()) + 7) % 7

	start := first.AddDate(0, 0, -leading)
	totalDays := leading + last.Day() + trailing

	weeks := make([][]CalendarCell, 0, totalDays/7)
	for w := 0; w < totalDays/7; w++ {
		week := make([]CalendarCell, 7)
		for d := 0; d < 7; d++ {
			date := start.AddDate(0, 0, w*7+d)
			week[d] = CalendarCell{
				Date:           date,
				InCurrentMonth: date.Month() == ym.Month && date.Year() == ym.Year,
			}
		}
		weeks = append(weeks, week)
	}

	return weeks
}

// Range returns the first and last dates shown by the grid for ym
func (g GridBuilder) Range(ym YearMonth) (DayKey, DayKey) {
	weeks := g.Build(ym)
	lastWeek := weeks[len(weeks)-1]
	return weeks[0][0].Key(), lastWeek[6].Key()
}

// Weekdays returns the column order of the grid
func (g GridBuilder) Weekdays() []time.Weekday {
	days := make([]time.Weekday, 7)
	for i := range days {
		days[i] = time.Weekday((int(g.FirstWeekday) + i) % 7)
	}
	return days
}
