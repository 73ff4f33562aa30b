package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/trainer-directory/pkg/db"
)

// mockAvailabilityDB implements db.AvailabilityDatabase for testing
type mockAvailabilityDB struct {
	rows      []db.AvailabilityRecord
	updatedAt *time.Time
	err       error

	gotFrom, gotTo string
	upserted       []db.AvailabilityRecord
	deleted        []string
}

func (m *mockAvailabilityDB) GetAvailability(ctx context.Context, trainerID, from, to string) ([]db.AvailabilityRecord, error) {
	m.gotFrom, m.gotTo = from, to
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

func (m *mockAvailabilityDB) UpsertAvailability(ctx context.Context, record db.AvailabilityRecord) (*db.AvailabilityRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.upserted = append(m.upserted, record)
	return &record, nil
}

func (m *mockAvailabilityDB) DeleteAvailability(ctx context.Context, trainerID, day string, at time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, day)
	return nil
}

func (m *mockAvailabilityDB) GetAvailabilityUpdatedAt(ctx context.Context, trainerID string) (*time.Time, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.updatedAt, nil
}

func TestLoadMonth_QueriesWholeMonth(t *testing.T) {
	database := &mockAvailabilityDB{}
	store := NewStore(database, DefaultCycle(), zap.NewNop())

	records, err := store.LoadMonth(context.Background(), "t1", YearMonth{Year: 2024, Month: time.February})
	require.NoError(t, err)

	assert.Empty(t, records)
	assert.Equal(t, "2024-02-01", database.gotFrom)
	assert.Equal(t, "2024-02-29", database.gotTo)
}

func TestLoadMonth_NormalizesRows(t *testing.T) {
	older := time.Date(2025, time.September, 1, 8, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	database := &mockAvailabilityDB{
		rows: []db.AvailabilityRecord{
			{TrainerID: "t1", Day: "2025-09-02", State: "dispo", UpdatedAt: older},
			{TrainerID: "t1", Day: "2025-09-03", State: "mission", UpdatedAt: newer},
			{TrainerID: "t1", Day: "2025-09-03", State: "indispo", UpdatedAt: older},
			{TrainerID: "t1", Day: "not-a-day", State: "dispo", UpdatedAt: older},
			{TrainerID: "t1", Day: "2025-10-01", State: "dispo", UpdatedAt: older},
			{TrainerID: "t1", Day: "2025-09-04", State: "congé", UpdatedAt: older},
		},
	}
	store := NewStore(database, DefaultCycle(), zap.NewNop())

	records, err := store.LoadMonth(context.Background(), "t1", YearMonth{Year: 2025, Month: time.September})
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, Record{Day: "2025-09-02", State: Available, UpdatedAt: older}, records["2025-09-02"])
	assert.Equal(t, Assigned, records["2025-09-03"].State)
}

func TestLoadMonth_BackendFailure(t *testing.T) {
	database := &mockAvailabilityDB{err: errors.New("connection refused")}
	store := NewStore(database, DefaultCycle(), zap.NewNop())

	_, err := store.LoadMonth(context.Background(), "t1", YearMonth{Year: 2025, Month: time.September})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLoadMonth_InvalidMonth(t *testing.T) {
	store := NewStore(&mockAvailabilityDB{}, DefaultCycle(), zap.NewNop())

	_, err := store.LoadMonth(context.Background(), "t1", YearMonth{Year: 2025, Month: 13})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestUpsertDay_PersistsLabel(t *testing.T) {
	database := &mockAvailabilityDB{}
	store := NewStore(database, DefaultCycle(), zap.NewNop())
	at := time.Date(2025, time.September, 10, 14, 42, 0, 0, time.UTC)

	rec, err := store.UpsertDay(context.Background(), "t1", "2025-09-10", Unavailable, at)
	require.NoError(t, err)

	require.Len(t, database.upserted, 1)
	assert.Equal(t, db.AvailabilityRecord{TrainerID: "t1", Day: "2025-09-10", State: "indispo", UpdatedAt: at}, database.upserted[0])
	assert.Equal(t, &Record{Day: "2025-09-10", State: Unavailable, UpdatedAt: at}, rec)
}

func TestUpsertDay_EmptyDeletesRecord(t *testing.T) {
	database := &mockAvailabilityDB{}
	store := NewStore(database, DefaultCycle(), zap.NewNop())

	rec, err := store.UpsertDay(context.Background(), "t1", "2025-09-10", Empty, time.Now())
	require.NoError(t, err)

	assert.Nil(t, rec)
	assert.Empty(t, database.upserted)
	assert.Equal(t, []string{"2025-09-10"}, database.deleted)
}

func TestUpsertDay_Errors(t *testing.T) {
	store := NewStore(&mockAvailabilityDB{err: errors.New("timeout")}, DefaultCycle(), zap.NewNop())

	_, err := store.UpsertDay(context.Background(), "t1", "2025-09-10", Available, time.Now())
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = store.UpsertDay(context.Background(), "t1", "2025-09-31", Available, time.Now())
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestLatestUpdate(t *testing.T) {
	database := &mockAvailabilityDB{}
	store := NewStore(database, DefaultCycle(), zap.NewNop())

	latest, err := store.LatestUpdate(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, latest.IsZero())

	at := time.Date(2025, time.September, 10, 14, 42, 0, 0, time.UTC)
	database.updatedAt = &at
	latest, err = store.LatestUpdate(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, at, latest)
}
