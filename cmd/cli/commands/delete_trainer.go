package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/trainer-directory/pkg/core/services"
)

// DeleteTrainerCmd creates the deleteTrainer command
func DeleteTrainerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteTrainer <trainer_id>",
		Short: "Delete a trainer and all their availability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteTrainer(app.Ctx, app.Database, app.Ranker, app.Logger, args[0]); err != nil {
				return err
			}
			fmt.Printf("\n✓ Deleted trainer %s\n\n", args[0])
			return nil
		},
	}
}
