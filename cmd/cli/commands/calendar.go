package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/trainer-directory/pkg/core/availability"
	"github.com/jakechorley/trainer-directory/pkg/core/model"
	"github.com/jakechorley/trainer-directory/pkg/core/services"
)

// CalendarCmd creates the calendar command
func CalendarCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar <trainer_id> [YYYY-MM]",
		Short: "Show a trainer's availability for a month (defaults to the current month)",
		Long: `Show a trainer's availability for a month.

With --edit the calendar stays open: type a day number to cycle its availability
(empty -> dispo -> indispo -> mission -> empty), n/p to change month, t for today,
r to reload and q to leave.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			trainerID := args[0]
			month := availability.MonthOf(app.now())
			if len(args) > 1 {
				parsed, err := availability.ParseYearMonth(args[1])
				if err != nil {
					return err
				}
				month = parsed
			}

			edit, _ := cmd.Flags().GetBool("edit")

			app.Logger.Debug("calendar command",
				zap.String("trainer_id", trainerID),
				zap.String("month", month.String()),
				zap.Bool("edit", edit))

			if !edit {
				view, err := services.ShowCalendar(app.Ctx, app.Database, app.Cycle, app.Logger, trainerID, month)
				if err != nil {
					return err
				}
				renderCalendar(os.Stdout, view, app.Cycle, app.Location)
				return nil
			}

			cal, trainer, err := services.OpenCalendar(app.Ctx, app.Database, app.Cycle, app.Logger, trainerID, month)
			if err != nil {
				return err
			}
			return editCalendar(app.Ctx, cal, trainer, app.Cycle, app.Location, os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().Bool("edit", false, "Keep the calendar open for navigation and editing")

	return cmd
}

// editCalendar runs the calendar prompt until q or end of input
func editCalendar(ctx context.Context, cal *availability.Calendar, trainer *model.Trainer, cycle *availability.Cycle, loc *time.Location, in io.Reader, out io.Writer) error {
	show := func() {
		renderCalendar(out, &services.CalendarView{Trainer: *trainer, View: cal.View()}, cycle, loc)
	}
	show()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "[jour|n|p|t|r|q] > ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		var err error
		switch input {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		case "n":
			err = cal.Next(ctx)
		case "p":
			err = cal.Previous(ctx)
		case "t":
			err = cal.Today(ctx)
		case "r":
			err = cal.Refresh(ctx)
		default:
			var day availability.DayKey
			day, err = parseDayInput(input, cal.View().Month)
			if err == nil {
				var res *availability.ClickResult
				res, err = cal.Click(ctx, day)
				if err == nil {
					fmt.Fprintf(out, "✓ %s: %s -> %s\n", res.Day, labelOrEmpty(cycle, res.Previous), labelOrEmpty(cycle, res.State))
				}
			}
		}

		if err != nil {
			fmt.Fprintf(out, "❌ Error: %v\n", err)
			// A failed load still moved the calendar, so redraw it
			if !errors.Is(err, availability.ErrStoreUnavailable) {
				continue
			}
		}
		show()
	}

	return scanner.Err()
}

// parseDayInput accepts a day number of month or a full YYYY-MM-DD date
func parseDayInput(input string, month availability.YearMonth) (availability.DayKey, error) {
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > month.LastDay().Day() {
			return "", fmt.Errorf("%w: %s has no day %d", availability.ErrInvalidRange, availability.MonthLabel(month), n)
		}
		return availability.DayKey(fmt.Sprintf("%s-%02d", month, n)), nil
	}
	return availability.ParseDayKey(input)
}

func labelOrEmpty(cycle *availability.Cycle, s availability.State) string {
	if s == availability.Empty {
		return "vide"
	}
	return cycle.Label(s)
}
