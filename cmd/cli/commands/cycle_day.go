package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jakechorley/trainer-directory/pkg/core/availability"
	"github.com/jakechorley/trainer-directory/pkg/core/services"
)

// CycleDayCmd creates the cycleDay command
func CycleDayCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cycleDay <trainer_id> <YYYY-MM-DD>",
		Short: "Advance a trainer's availability on a day to its next state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, view, err := services.CycleDay(app.Ctx, app.Database, app.Cycle, app.Logger, args[0], availability.DayKey(args[1]), nil)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s: %s -> %s\n", res.Day, labelOrEmpty(app.Cycle, res.Previous), labelOrEmpty(app.Cycle, res.State))
			renderCalendar(os.Stdout, view, app.Cycle, app.Location)

			return nil
		},
	}
}
