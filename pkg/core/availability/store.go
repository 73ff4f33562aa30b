package availability

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/trainer-directory/pkg/db"
)

// Record is the stored availability of one day. State is never Empty.
type Record struct {
	Day       DayKey
	State     State
	UpdatedAt time.Time
}

// Store loads and saves per-day availability for a trainer
type Store interface {
	// LoadMonth returns the records of the month keyed by day. Days without a record are absent.
	LoadMonth(ctx context.Context, trainerID string, month YearMonth) (map[DayKey]Record, error)

	// UpsertDay persists state for day and returns the stored record.
	// Upserting Empty deletes the record and returns nil.
	UpsertDay(ctx context.Context, trainerID string, day DayKey, state State, at time.Time) (*Record, error)

	// LatestUpdate returns the most recent write time for the trainer, zero if none
	LatestUpdate(ctx context.Context, trainerID string) (time.Time, error)
}

// PersistentStore implements Store on top of an AvailabilityDatabase.
// Rows are normalized here: labels are mapped to states and malformed rows are dropped.
type PersistentStore struct {
	database db.AvailabilityDatabase
	cycle    *Cycle
	logger   *zap.Logger
}

// NewStore creates a Store backed by database, persisting states with cycle's labels
func NewStore(database db.AvailabilityDatabase, cycle *Cycle, logger *zap.Logger) *PersistentStore {
	return &PersistentStore{
		database: database,
		cycle:    cycle,
		logger:   logger,
	}
}

func (s *PersistentStore) LoadMonth(ctx context.Context, trainerID string, month YearMonth) (map[DayKey]Record, error) {
	if err := month.Validate(); err != nil {
		return nil, err
	}

	from := DayKeyOf(month.FirstDay())
	to := DayKeyOf(month.LastDay())

	rows, err := s.database.GetAvailability(ctx, trainerID, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load %s for trainer %s: %v", ErrStoreUnavailable, month, trainerID, err)
	}

	records := make(map[DayKey]Record, len(rows))
	for _, row := range rows {
		day, err := ParseDayKey(row.Day)
		if err != nil || !month.Contains(day) {
			s.logger.Warn("Skipping availability row with invalid day",
				zap.String("trainer_id", trainerID),
				zap.String("day", row.Day))
			continue
		}

		state, err := s.cycle.Parse(row.State)
		if err != nil {
			s.logger.Warn("Skipping availability row with unknown state",
				zap.String("trainer_id", trainerID),
				zap.String("day", row.Day),
				zap.String("state", row.State))
			continue
		}

		// Keep the latest write if the backend returns duplicates
		if existing, ok := records[day]; ok && existing.UpdatedAt.After(row.UpdatedAt) {
			continue
		}
		records[day] = Record{Day: day, State: state, UpdatedAt: row.UpdatedAt}
	}

	s.logger.Debug("Loaded availability month",
		zap.String("trainer_id", trainerID),
		zap.String("month", month.String()),
		zap.Int("records", len(records)))

	return records, nil
}

func (s *PersistentStore) UpsertDay(ctx context.Context, trainerID string, day DayKey, state State, at time.Time) (*Record, error) {
	if _, err := ParseDayKey(string(day)); err != nil {
		return nil, err
	}

	if state == Empty {
		if err := s.database.DeleteAvailability(ctx, trainerID, string(day), at); err != nil {
			return nil, fmt.Errorf("%w: failed to clear %s for trainer %s: %v", ErrStoreUnavailable, day, trainerID, err)
		}
		return nil, nil
	}

	label := s.cycle.Label(state)
	if label == "" {
		return nil, fmt.Errorf("cannot persist unknown state %s", state)
	}

	saved, err := s.database.UpsertAvailability(ctx, db.AvailabilityRecord{
		TrainerID: trainerID,
		Day:       string(day),
		State:     label,
		UpdatedAt: at,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to save %s for trainer %s: %v", ErrStoreUnavailable, day, trainerID, err)
	}

	record := &Record{Day: day, State: state, UpdatedAt: at}
	if saved != nil && !saved.UpdatedAt.IsZero() {
		record.UpdatedAt = saved.UpdatedAt
	}
	return record, nil
}

func (s *PersistentStore) LatestUpdate(ctx context.Context, trainerID string) (time.Time, error) {
	latest, err := s.database.GetAvailabilityUpdatedAt(ctx, trainerID)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: failed to read last update for trainer %s: %v", ErrStoreUnavailable, trainerID, err)
	}
	if latest == nil {
		return time.Time{}, nil
	}
	return *latest, nil
}
