package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/trainer-directory/pkg/clients/sheetsclient"
	"github.com/jakechorley/trainer-directory/pkg/core/model"
	"github.com/jakechorley/trainer-directory/pkg/db"
)

// TrainerSource reads the trainer directory from its source of truth
type TrainerSource interface {
	ListTrainers(ctx context.Context, spreadsheetID, tab string) ([]model.Trainer, []sheetsclient.RowError, error)
}

// SyncTrainersResult summarises a sync
type SyncTrainersResult struct {
	Upserted int
	Removed  []string
	Skipped  []sheetsclient.RowError
}

// SyncTrainers copies the sheet directory into the database. When prune is set, trainers
// missing from the sheet are deleted together with their availability.
func SyncTrainers(ctx context.Context, source TrainerSource, store db.TrainerStore, logger *zap.Logger, sheetID, tab string, prune bool) (*SyncTrainersResult, error) {
	logger.Debug("Fetching trainers from sheet", zap.String("sheet_id", sheetID), zap.String("tab", tab))

	trainers, skipped, err := source.ListTrainers(ctx, sheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trainers from sheet: %w", err)
	}

	for _, rowErr := range skipped {
		logger.Warn("Skipping invalid trainer row", zap.Int("row", rowErr.Row), zap.Error(rowErr.Err))
	}

	rows := make([]db.Trainer, len(trainers))
	for i, t := range trainers {
		rows[i] = db.TrainerFromModel(t)
	}

	if err := store.UpsertTrainers(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to save trainers: %w", err)
	}

	result := &SyncTrainersResult{Upserted: len(rows), Skipped: skipped}

	if prune {
		existing, err := store.GetTrainers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch existing trainers: %w", err)
		}

		inSheet := make(map[string]bool, len(trainers))
		for _, t := range trainers {
			inSheet[t.ID] = true
		}

		for _, t := range existing {
			if inSheet[t.ID] {
				continue
			}
			if err := store.DeleteTrainer(ctx, t.ID); err != nil {
				return nil, fmt.Errorf("failed to remove trainer %s: %w", t.ID, err)
			}
			logger.Info("Removed trainer missing from sheet", zap.String("trainer_id", t.ID))
			result.Removed = append(result.Removed, t.ID)
		}
	}

	logger.Info("Synced trainers",
		zap.Int("upserted", result.Upserted),
		zap.Int("removed", len(result.Removed)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}
