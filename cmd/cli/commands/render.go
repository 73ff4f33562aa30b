package commands

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jakechorley/trainer-directory/pkg/core/availability"
	"github.com/jakechorley/trainer-directory/pkg/core/listing"
	"github.com/jakechorley/trainer-directory/pkg/core/proximity"
	"github.com/jakechorley/trainer-directory/pkg/core/services"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorBlue   = "\033[34m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
	colorYellow = "\033[33m"
)

func stateColor(s availability.State) string {
	switch s {
	case availability.Available:
		return colorGreen
	case availability.Unavailable:
		return colorRed
	case availability.Assigned:
		return colorBlue
	default:
		return ""
	}
}

// stateMarker is the one letter shown next to a day number
func stateMarker(s availability.State) string {
	switch s {
	case availability.Available:
		return "D"
	case availability.Unavailable:
		return "I"
	case availability.Assigned:
		return "M"
	default:
		return " "
	}
}

// renderCalendar prints the month grid of view. Padding days are dimmed and never colored.
func renderCalendar(w io.Writer, view *services.CalendarView, cycle *availability.Cycle, loc *time.Location) {
	fmt.Fprintf(w, "\n%s%s%s - %s\n", colorBold, view.Trainer.FullName(), colorReset, availability.MonthLabel(view.Month))

	if len(view.Grid) > 0 {
		for _, cell := range view.Grid[0] {
			fmt.Fprintf(w, " %-4s", availability.WeekdayShort(cell.Date.Weekday()))
		}
		fmt.Fprintln(w)
	}

	for _, week := range view.Grid {
		for _, cell := range week {
			if !cell.InCurrentMonth {
				fmt.Fprintf(w, " %s%2d  %s", colorDim, cell.Date.Day(), colorReset)
				continue
			}
			state := view.StateOf(cell.Key())
			fmt.Fprintf(w, " %s%2d%s %s", stateColor(state), cell.Date.Day(), stateMarker(state), colorReset)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\n%sD%s %s  %sI%s %s  %sM%s %s\n",
		colorGreen, colorReset, cycle.Label(availability.Available),
		colorRed, colorReset, cycle.Label(availability.Unavailable),
		colorBlue, colorReset, cycle.Label(availability.Assigned))

	switch {
	case view.LoadErr != nil:
		fmt.Fprintf(w, "%s⚠️  Availability could not be loaded: %v%s\n", colorYellow, view.LoadErr, colorReset)
	case view.Loading:
		fmt.Fprintf(w, "%sLoading…%s\n", colorDim, colorReset)
	}

	fmt.Fprintf(w, "Dernière mise à jour : %s\n\n", availability.FormatLastUpdated(view.LatestUpdatedAt, loc))
}

// renderTrainers prints the listing as a table, with a distance column when ranking is active
func renderTrainers(w io.Writer, result *services.TrainerListing, sort listing.SortState) {
	if result.LocationNotFound {
		fmt.Fprintf(w, "\n%s⚠️  Place not found%s", colorYellow, colorReset)
		if result.Place != "" {
			fmt.Fprintf(w, ", keeping distances to %s", result.Place)
		}
		fmt.Fprintln(w)
	}

	showDistance := len(result.Distances) > 0

	headers := []string{"Nom", "Ville", "CP", "Statut", "Tarif"}
	if showDistance {
		headers = append(headers, "Distance")
	}
	headers = append(headers, "ID")

	rows := make([][]string, len(result.Trainers))
	for i, t := range result.Trainers {
		row := []string{t.FullName(), t.City, t.PostalCode, string(t.Status), formatRate(t.Rate)}
		if showDistance {
			row = append(row, formatDistance(result.Distances, t.ID))
		}
		rows[i] = append(row, t.ID)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	fmt.Fprintf(w, "\nFound %d trainers", len(result.Trainers))
	if sort.Key != "" {
		fmt.Fprintf(w, " sorted by %s (%s)", sort.Key, sort.Dir)
	}
	if result.Place != "" && !result.LocationNotFound {
		fmt.Fprintf(w, " near %s", result.Place)
	}
	fmt.Fprint(w, ":\n\n")

	writeRow(w, headers, widths)
	total := len(widths) - 1
	for _, width := range widths {
		total += width + 1
	}
	fmt.Fprintln(w, strings.Repeat("-", total))
	for _, row := range rows {
		writeRow(w, row, widths)
	}
	fmt.Fprintln(w)
}

func writeRow(w io.Writer, cells []string, widths []int) {
	for i, cell := range cells {
		pad := widths[i] - utf8.RuneCountInString(cell)
		fmt.Fprintf(w, "%s%s  ", cell, strings.Repeat(" ", pad))
	}
	fmt.Fprintln(w)
}

func formatDistance(distances proximity.Result, trainerID string) string {
	km, ok := distances.Km(trainerID)
	if !ok {
		return "—"
	}
	return fmt.Sprintf("%.2f km", km)
}

func formatRate(rate *float64) string {
	if rate == nil {
		return "—"
	}
	return fmt.Sprintf("%.0f €", *rate)
}
