package services

import (
	"context"
	"sort"
	"time"

	"github.com/jakechorley/trainer-directory/pkg/clients/sheetsclient"
	"github.com/jakechorley/trainer-directory/pkg/core/model"
	"github.com/jakechorley/trainer-directory/pkg/db"
)

// mockDatabase implements db.Database in memory
type mockDatabase struct {
	trainers     map[string]db.Trainer
	availability map[string]map[string]db.AvailabilityRecord
	updatedAt    map[string]time.Time

	getTrainersErr    error
	availabilityErr   error
	upsertTrainersErr error

	upsertedTrainers []db.Trainer
	deletedTrainers  []string
}

func newMockDatabase(trainers ...db.Trainer) *mockDatabase {
	m := &mockDatabase{
		trainers:     map[string]db.Trainer{},
		availability: map[string]map[string]db.AvailabilityRecord{},
		updatedAt:    map[string]time.Time{},
	}
	for _, t := range trainers {
		m.trainers[t.ID] = t
	}
	return m
}

func (m *mockDatabase) GetTrainers(ctx context.Context) ([]db.Trainer, error) {
	if m.getTrainersErr != nil {
		return nil, m.getTrainersErr
	}
	out := make([]db.Trainer, 0, len(m.trainers))
	for _, t := range m.trainers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockDatabase) GetTrainer(ctx context.Context, id string) (*db.Trainer, error) {
	if m.getTrainersErr != nil {
		return nil, m.getTrainersErr
	}
	t, ok := m.trainers[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *mockDatabase) UpsertTrainers(ctx context.Context, trainers []db.Trainer) error {
	if m.upsertTrainersErr != nil {
		return m.upsertTrainersErr
	}
	for _, t := range trainers {
		m.trainers[t.ID] = t
	}
	m.upsertedTrainers = append(m.upsertedTrainers, trainers...)
	return nil
}

func (m *mockDatabase) DeleteTrainer(ctx context.Context, id string) error {
	delete(m.trainers, id)
	delete(m.availability, id)
	m.deletedTrainers = append(m.deletedTrainers, id)
	return nil
}

func (m *mockDatabase) GetAvailability(ctx context.Context, trainerID, from, to string) ([]db.AvailabilityRecord, error) {
	if m.availabilityErr != nil {
		return nil, m.availabilityErr
	}
	var out []db.AvailabilityRecord
	for day, rec := range m.availability[trainerID] {
		if day >= from && day <= to {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockDatabase) UpsertAvailability(ctx context.Context, record db.AvailabilityRecord) (*db.AvailabilityRecord, error) {
	if m.availabilityErr != nil {
		return nil, m.availabilityErr
	}
	if m.availability[record.TrainerID] == nil {
		m.availability[record.TrainerID] = map[string]db.AvailabilityRecord{}
	}
	m.availability[record.TrainerID][record.Day] = record
	m.touch(record.TrainerID, record.UpdatedAt)
	return &record, nil
}

func (m *mockDatabase) DeleteAvailability(ctx context.Context, trainerID, day string, at time.Time) error {
	if m.availabilityErr != nil {
		return m.availabilityErr
	}
	delete(m.availability[trainerID], day)
	m.touch(trainerID, at)
	return nil
}

func (m *mockDatabase) GetAvailabilityUpdatedAt(ctx context.Context, trainerID string) (*time.Time, error) {
	if m.availabilityErr != nil {
		return nil, m.availabilityErr
	}
	at, ok := m.updatedAt[trainerID]
	if !ok {
		return nil, nil
	}
	return &at, nil
}

func (m *mockDatabase) touch(trainerID string, at time.Time) {
	if at.After(m.updatedAt[trainerID]) {
		m.updatedAt[trainerID] = at
	}
}

// mockGeocoder resolves places from a fixed table
type mockGeocoder struct {
	places map[string][]model.GeoPoint
	calls  int
}

func (m *mockGeocoder) Geocode(ctx context.Context, query string) ([]model.GeoPoint, error) {
	m.calls++
	return m.places[query], nil
}

// mockTrainerSource implements TrainerSource
type mockTrainerSource struct {
	trainers []model.Trainer
	skipped  []sheetsclient.RowError
	err      error
}

func (m *mockTrainerSource) ListTrainers(ctx context.Context, spreadsheetID, tab string) ([]model.Trainer, []sheetsclient.RowError, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.trainers, m.skipped, nil
}

func floatPtr(v float64) *float64 {
	return &v
}

func sampleTrainers() []db.Trainer {
	return []db.Trainer{
		{ID: "a", FirstName: "Alice", LastName: "Bernard", City: "Rennes", Status: "Standard"},
		{ID: "b", FirstName: "Bruno", LastName: "Moreau", City: "Paris", Status: "Premium",
			Latitude: floatPtr(48.85), Longitude: floatPtr(2.35), Skills: []string{"Excel"}},
		{ID: "c", FirstName: "Chloé", LastName: "Durand", City: "Lyon", Status: "Premium",
			Latitude: floatPtr(45.75), Longitude: floatPtr(4.85), Skills: []string{"Excel", "Python"}},
	}
}

func trainerIDs(trainers []model.Trainer) []string {
	ids := make([]string, len(trainers))
	for i, t := range trainers {
		ids[i] = t.ID
	}
	return ids
}
