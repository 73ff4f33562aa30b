package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/trainer-directory/pkg/core/listing"
	"github.com/jakechorley/trainer-directory/pkg/core/model"
	"github.com/jakechorley/trainer-directory/pkg/core/proximity"
	"github.com/jakechorley/trainer-directory/pkg/db"
)

// ListTrainersStore defines the database operations needed by ListTrainers
type ListTrainersStore interface {
	GetTrainers(ctx context.Context) ([]db.Trainer, error)
}

// ListTrainersParams selects, ranks and orders the directory
type ListTrainersParams struct {
	Filter listing.Filter
	Sort   listing.SortState

	// Place activates proximity ranking when not empty
	Place string
}

// TrainerListing is the filtered and sorted directory
type TrainerListing struct {
	Trainers  []model.Trainer
	Distances proximity.Result

	// Place is the place distances were computed for, empty when ranking is inactive
	Place string

	// LocationNotFound is set when Place could not be resolved; Distances are then measured
	// from the previously resolved place, if any
	LocationNotFound bool
}

// ListTrainers loads the directory, applies the filter, computes distances to params.Place
// and sorts the result. The ranker keeps its resolved place between calls, so listing again
// with the same place recomputes distances without geocoding.
func ListTrainers(ctx context.Context, store ListTrainersStore, ranker *proximity.Ranker, sorter *listing.Sorter, logger *zap.Logger, params ListTrainersParams) (*TrainerListing, error) {
	rows, err := store.GetTrainers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trainers: %w", err)
	}
	trainers := db.TrainersToModel(rows)

	logger.Debug("Loaded trainers", zap.Int("count", len(trainers)))

	result := &TrainerListing{}
	place := strings.TrimSpace(params.Place)

	switch _, active := ranker.Current(); {
	case place == "":
		ranker.Clear()
	case active && place == ranker.Query():
		result.Distances = ranker.Recompute(trainers)
	default:
		distances, err := ranker.Rank(ctx, trainers, place)
		switch {
		case errors.Is(err, proximity.ErrLocationNotFound):
			logger.Info("Place not found, keeping previous ranking", zap.String("place", place))
			result.LocationNotFound = true
			result.Distances = ranker.Recompute(trainers)
		case err != nil:
			return nil, fmt.Errorf("failed to rank trainers by distance: %w", err)
		default:
			result.Distances = distances
		}
	}
	if _, active := ranker.Current(); active {
		result.Place = ranker.Query()
	}

	filtered := params.Filter.Apply(trainers)
	result.Trainers = sorter.Sort(filtered, params.Sort, result.Distances)

	logger.Debug("Listed trainers",
		zap.Int("matched", len(result.Trainers)),
		zap.String("sort", string(params.Sort.Key)),
		zap.String("dir", string(params.Sort.Dir)),
		zap.String("place", result.Place))

	return result, nil
}
