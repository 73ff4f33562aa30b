package sheetsclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jakechorley/trainer-directory/pkg/core/model"
)

// trainerNamespace seeds IDs for sheet rows that have no "Unique ID" column value,
// so the same trainer keeps the same ID across syncs
var trainerNamespace = uuid.MustParse("6f1c2d4e-8a37-4b5e-9c1f-2e7d5a9b3c60")

// RowError describes a sheet row that could not be turned into a trainer
type RowError struct {
	Row int // 1-based spreadsheet row number
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// ListTrainers reads the trainer directory from tab of the spreadsheet.
// Rows that fail validation are skipped and reported in the returned RowErrors.
func (c *Client) ListTrainers(ctx context.Context, spreadsheetID, tab string) ([]model.Trainer, []RowError, error) {
	values, err := c.GetValues(ctx, spreadsheetID, tab)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trainer data: %w", err)
	}

	if len(values) == 0 {
		return nil, nil, fmt.Errorf("spreadsheet is empty")
	}

	trainers, rowErrs := parseTrainers(values)
	return trainers, rowErrs, nil
}

// parseTrainers converts raw spreadsheet data into trainers. The first row holds the
// column names; every later row is matched to them by position.
func parseTrainers(raw [][]interface{}) ([]model.Trainer, []RowError) {
	if len(raw) == 0 {
		return nil, nil
	}

	header := make([]string, len(raw[0]))
	for i, cell := range raw[0] {
		header[i] = strings.TrimSpace(fmt.Sprint(cell))
	}

	var rowErrs []RowError
	seen := make(map[string]int)
	trainers := make([]model.Trainer, 0, len(raw)-1)

	for i := 1; i < len(raw); i++ {
		rowNumber := i + 1
		record := make(map[string]any, len(header))
		blank := true
		for col, name := range header {
			if name == "" || col >= len(raw[i]) {
				continue
			}
			value := raw[i][col]
			if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
				continue
			}
			record[name] = value
			blank = false
		}
		if blank {
			continue
		}

		trainer, err := model.NormalizeTrainer(record)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNumber, Err: err})
			continue
		}
		if trainer.FirstName == "" && trainer.LastName == "" {
			rowErrs = append(rowErrs, RowError{Row: rowNumber, Err: fmt.Errorf("trainer has no name")})
			continue
		}

		if trainer.ID == "" {
			trainer.ID = derivedID(trainer)
		}
		if prev, dup := seen[trainer.ID]; dup {
			rowErrs = append(rowErrs, RowError{Row: rowNumber, Err: fmt.Errorf("duplicate trainer id %s (first seen on row %d)", trainer.ID, prev)})
			continue
		}
		seen[trainer.ID] = rowNumber

		trainers = append(trainers, trainer)
	}

	return trainers, rowErrs
}

func derivedID(t model.Trainer) string {
	key := strings.ToLower(strings.Join([]string{t.FirstName, t.LastName, t.Email}, "|"))
	return uuid.NewSHA1(trainerNamespace, []byte(key)).String()
}
