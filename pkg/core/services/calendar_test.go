package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/trainer-directory/pkg/core/availability"
	"github.com/jakechorley/trainer-directory/pkg/db"
)

var september2025 = availability.YearMonth{Year: 2025, Month: time.September}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestShowCalendar(t *testing.T) {
	database := newMockDatabase(sampleTrainers()...)
	at := time.Date(2025, time.September, 10, 14, 42, 0, 0, time.UTC)
	_, err := database.UpsertAvailability(context.Background(), db.AvailabilityRecord{
		TrainerID: "b", Day: "2025-09-12", State: "mission", UpdatedAt: at,
	})
	require.NoError(t, err)

	view, err := ShowCalendar(context.Background(), database, availability.DefaultCycle(), zap.NewNop(), "b", september2025)
	require.NoError(t, err)

	assert.Equal(t, "Bruno", view.Trainer.FirstName)
	assert.Equal(t, september2025, view.Month)
	assert.Equal(t, availability.Assigned, view.StateOf("2025-09-12"))
	assert.Equal(t, at, view.LatestUpdatedAt)
}

func TestShowCalendar_UnknownTrainer(t *testing.T) {
	database := newMockDatabase(sampleTrainers()...)

	_, err := ShowCalendar(context.Background(), database, availability.DefaultCycle(), zap.NewNop(), "zzz", september2025)
	assert.ErrorIs(t, err, ErrTrainerNotFound)
}

func TestShowCalendar_StoreUnavailable(t *testing.T) {
	database := newMockDatabase(sampleTrainers()...)
	database.availabilityErr = errors.New("connection reset")

	_, err := ShowCalendar(context.Background(), database, availability.DefaultCycle(), zap.NewNop(), "b", september2025)
	assert.ErrorIs(t, err, availability.ErrStoreUnavailable)
}

func TestCycleDay_ThreeTimesAssigns(t *testing.T) {
	database := newMockDatabase(sampleTrainers()...)
	cycle := availability.DefaultCycle()
	now := time.Date(2025, time.September, 10, 14, 42, 0, 0, time.UTC)

	var res *availability.ClickResult
	var view *CalendarView
	for i := 0; i < 3; i++ {
		var err error
		res, view, err = CycleDay(context.Background(), database, cycle, zap.NewNop(), "a", "2025-09-15", fixedClock(now))
		require.NoError(t, err)
	}

	assert.Equal(t, availability.Assigned, res.State)
	assert.Equal(t, availability.Assigned, view.StateOf("2025-09-15"))
	assert.Equal(t, "mission", database.availability["a"]["2025-09-15"].State)
	assert.Equal(t, now, view.LatestUpdatedAt)

	res, _, err := CycleDay(context.Background(), database, cycle, zap.NewNop(), "a", "2025-09-15", fixedClock(now))
	require.NoError(t, err)
	assert.Equal(t, availability.Empty, res.State)
	assert.NotContains(t, database.availability["a"], "2025-09-15")
}

func TestCycleDay_Errors(t *testing.T) {
	database := newMockDatabase(sampleTrainers()...)
	cycle := availability.DefaultCycle()

	_, _, err := CycleDay(context.Background(), database, cycle, zap.NewNop(), "a", "2025-02-30", nil)
	assert.ErrorIs(t, err, availability.ErrInvalidRange)

	_, _, err = CycleDay(context.Background(), database, cycle, zap.NewNop(), "zzz", "2025-09-15", nil)
	assert.ErrorIs(t, err, ErrTrainerNotFound)

	database.availabilityErr = errors.New("timeout")
	_, _, err = CycleDay(context.Background(), database, cycle, zap.NewNop(), "a", "2025-09-15", nil)
	assert.ErrorIs(t, err, availability.ErrStoreUnavailable)
}
