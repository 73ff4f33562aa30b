package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/trainer-directory/pkg/core/listing"
	"github.com/jakechorley/trainer-directory/pkg/core/model"
	"github.com/jakechorley/trainer-directory/pkg/core/services"
)

// ListTrainersCmd creates the listTrainers command
func ListTrainersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listTrainers",
		Short: "List trainers, optionally filtered, sorted and ranked by distance to a place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			sortFlag, _ := flags.GetString("sort")
			dirFlag, _ := flags.GetString("dir")
			place, _ := flags.GetString("place")
			statuses, _ := flags.GetStringSlice("status")

			key, err := listing.ParseKey(sortFlag)
			if err != nil {
				return err
			}
			dir, err := listing.ParseDirection(dirFlag)
			if err != nil {
				return err
			}

			filter := listing.Filter{}
			filter.FirstName, _ = flags.GetString("first-name")
			filter.LastName, _ = flags.GetString("last-name")
			filter.City, _ = flags.GetString("city")
			filter.Skill, _ = flags.GetString("skill")
			filter.Equipment, _ = flags.GetString("equipment")
			for _, s := range statuses {
				status := model.Status(s)
				if !status.IsValid() {
					return fmt.Errorf("unknown status %q, expected one of %v", s, model.Statuses)
				}
				filter.Statuses = append(filter.Statuses, status)
			}

			params := services.ListTrainersParams{
				Filter: filter,
				Sort:   listing.SortState{Key: key, Dir: dir},
				Place:  place,
			}

			return runListing(app, params)
		},
	}

	cmd.Flags().String("sort", "", fmt.Sprintf("Sort key, one of %v", listing.Keys))
	cmd.Flags().String("dir", "asc", "Sort direction (asc or desc)")
	cmd.Flags().String("place", "", "Rank trainers by distance to this place")
	cmd.Flags().String("first-name", "", "Filter on first name")
	cmd.Flags().String("last-name", "", "Filter on last name")
	cmd.Flags().String("city", "", "Filter on city")
	cmd.Flags().String("skill", "", "Filter on skill")
	cmd.Flags().String("equipment", "", "Filter on equipment")
	cmd.Flags().StringSlice("status", nil, "Only show these statuses (repeatable)")

	return cmd
}

// SortByCmd creates the sortBy command, which re-sorts the previous listing like a column header click
func SortByCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sortBy <key>",
		Short: "Sort the previous listing by key, toggling the direction when already sorted by it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := listing.ParseKey(args[0])
			if err != nil {
				return err
			}
			if key == "" {
				return fmt.Errorf("sort key is required, one of %v", listing.Keys)
			}

			params := app.LastListing
			params.Sort = params.Sort.Toggle(key)

			return runListing(app, params)
		},
	}
}

func runListing(app *AppContext, params services.ListTrainersParams) error {
	app.Logger.Debug("listTrainers command",
		zap.String("sort", string(params.Sort.Key)),
		zap.String("dir", string(params.Sort.Dir)),
		zap.String("place", params.Place))

	result, err := services.ListTrainers(app.Ctx, app.Database, app.Ranker, app.Sorter, app.Logger, params)
	if err != nil {
		return err
	}

	// A place that was not found leaves the previous place active
	if result.LocationNotFound {
		params.Place = result.Place
	}
	app.LastListing = params

	renderTrainers(os.Stdout, result, params.Sort)
	return nil
}
