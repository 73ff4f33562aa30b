package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/trainer-directory/pkg/core/services"
)

// SyncTrainersCmd creates the syncTrainers command
func SyncTrainersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "syncTrainers",
		Short: "Copy the trainer directory from the trainer sheet into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.SheetsClient == nil {
				return errors.New("no trainer sheet configured (set trainerSheetID in the config)")
			}

			prune, _ := cmd.Flags().GetBool("prune")

			result, err := services.SyncTrainers(app.Ctx, app.SheetsClient, app.Database, app.Logger,
				app.Cfg.TrainerSheetID, app.Cfg.TrainerSheetTab, prune)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Synced %d trainers\n", result.Upserted)

			if len(result.Removed) > 0 {
				fmt.Printf("\nRemoved %d trainers missing from the sheet:\n", len(result.Removed))
				for _, id := range result.Removed {
					fmt.Printf("  - %s\n", id)
				}
			}

			if len(result.Skipped) > 0 {
				fmt.Printf("\n⚠️  Skipped %d invalid rows:\n", len(result.Skipped))
				for _, rowErr := range result.Skipped {
					fmt.Printf("  ✗ %s\n", rowErr.Error())
				}
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("prune", false, "Delete trainers that are no longer in the sheet")

	return cmd
}
