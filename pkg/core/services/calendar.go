package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/trainer-directory/pkg/core/availability"
	"github.com/jakechorley/trainer-directory/pkg/core/model"
	"github.com/jakechorley/trainer-directory/pkg/db"
)

// CalendarStore defines the database operations needed to show and edit a trainer's calendar
type CalendarStore interface {
	db.AvailabilityDatabase
	GetTrainer(ctx context.Context, id string) (*db.Trainer, error)
}

// CalendarView is a trainer's month of availability
type CalendarView struct {
	Trainer model.Trainer
	availability.View
}

// OpenCalendar looks up the trainer and returns a calendar loaded on month.
// A failed month load is reported through the calendar's view, not as an error.
func OpenCalendar(ctx context.Context, database CalendarStore, cycle *availability.Cycle, logger *zap.Logger, trainerID string, month availability.YearMonth, opts ...availability.Option) (*availability.Calendar, *model.Trainer, error) {
	trainer, err := findTrainer(ctx, database, trainerID)
	if err != nil {
		return nil, nil, err
	}

	store := availability.NewStore(database, cycle, logger)
	cal := availability.NewCalendar(store, cycle, logger, opts...)

	if err := cal.Open(ctx, trainerID, month); err != nil && !errors.Is(err, availability.ErrStoreUnavailable) {
		return nil, nil, fmt.Errorf("failed to open calendar: %w", err)
	}

	return cal, trainer, nil
}

// ShowCalendar returns the availability of trainerID for month
func ShowCalendar(ctx context.Context, database CalendarStore, cycle *availability.Cycle, logger *zap.Logger, trainerID string, month availability.YearMonth) (*CalendarView, error) {
	logger.Debug("Showing calendar", zap.String("trainer_id", trainerID), zap.String("month", month.String()))

	cal, trainer, err := OpenCalendar(ctx, database, cycle, logger, trainerID, month)
	if err != nil {
		return nil, err
	}

	view := cal.View()
	if view.LoadErr != nil {
		return nil, fmt.Errorf("failed to load availability: %w", view.LoadErr)
	}

	return &CalendarView{Trainer: *trainer, View: view}, nil
}

// CycleDay advances the availability of trainerID on day to its next state and returns
// the change and the updated month
func CycleDay(ctx context.Context, database CalendarStore, cycle *availability.Cycle, logger *zap.Logger, trainerID string, day availability.DayKey, now func() time.Time) (*availability.ClickResult, *CalendarView, error) {
	parsed, err := availability.ParseDayKey(string(day))
	if err != nil {
		return nil, nil, err
	}
	month := availability.MonthOf(parsed.Time())

	var opts []availability.Option
	if now != nil {
		opts = append(opts, availability.WithClock(now))
	}

	cal, trainer, err := OpenCalendar(ctx, database, cycle, logger, trainerID, month, opts...)
	if err != nil {
		return nil, nil, err
	}
	if loadErr := cal.View().LoadErr; loadErr != nil {
		return nil, nil, fmt.Errorf("failed to load availability: %w", loadErr)
	}

	res, err := cal.Click(ctx, parsed)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update availability: %w", err)
	}

	logger.Info("Cycled availability",
		zap.String("trainer_id", trainerID),
		zap.String("day", string(parsed)),
		zap.String("from", cycle.Label(res.Previous)),
		zap.String("to", cycle.Label(res.State)))

	return res, &CalendarView{Trainer: *trainer, View: cal.View()}, nil
}

func findTrainer(ctx context.Context, database CalendarStore, trainerID string) (*model.Trainer, error) {
	row, err := database.GetTrainer(ctx, trainerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch trainer: %v", availability.ErrStoreUnavailable, err)
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s", ErrTrainerNotFound, trainerID)
	}
	trainer := row.ToModel()
	return &trainer, nil
}
