package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/trainer-directory/pkg/core/proximity"
	"github.com/jakechorley/trainer-directory/pkg/db"
)

// DeleteTrainer removes a trainer and their availability. When ranking is active the
// ranker's distances are recomputed for the remaining trainers without geocoding again.
func DeleteTrainer(ctx context.Context, store db.TrainerStore, ranker *proximity.Ranker, logger *zap.Logger, trainerID string) error {
	row, err := store.GetTrainer(ctx, trainerID)
	if err != nil {
		return fmt.Errorf("failed to fetch trainer: %w", err)
	}
	if row == nil {
		return fmt.Errorf("%w: %s", ErrTrainerNotFound, trainerID)
	}

	if err := store.DeleteTrainer(ctx, trainerID); err != nil {
		return fmt.Errorf("failed to delete trainer: %w", err)
	}

	logger.Info("Deleted trainer", zap.String("trainer_id", trainerID), zap.String("name", row.ToModel().FullName()))

	if ranker == nil {
		return nil
	}
	if _, active := ranker.Current(); !active {
		return nil
	}

	remaining, err := store.GetTrainers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch remaining trainers: %w", err)
	}
	ranker.Recompute(db.TrainersToModel(remaining))

	return nil
}
