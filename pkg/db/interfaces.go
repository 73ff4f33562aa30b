package db

import (
	"context"
	"time"
)

// AvailabilityDatabase defines the persistence operations behind trainer availability.
// Day arguments use the YYYY-MM-DD format and ranges are inclusive on both ends.
type AvailabilityDatabase interface {
	GetAvailability(ctx context.Context, trainerID, from, to string) ([]AvailabilityRecord, error)
	UpsertAvailability(ctx context.Context, record AvailabilityRecord) (*AvailabilityRecord, error)
	DeleteAvailability(ctx context.Context, trainerID, day string, at time.Time) error

	// GetAvailabilityUpdatedAt returns the most recent write time for the trainer's
	// availability, or nil if nothing was ever written
	GetAvailabilityUpdatedAt(ctx context.Context, trainerID string) (*time.Time, error)
}

// TrainerStore defines the directory operations on trainers
type TrainerStore interface {
	GetTrainers(ctx context.Context) ([]Trainer, error)
	GetTrainer(ctx context.Context, id string) (*Trainer, error)
	UpsertTrainers(ctx context.Context, trainers []Trainer) error
	DeleteTrainer(ctx context.Context, id string) error
}

// Database defines the interface for all database operations
type Database interface {
	AvailabilityDatabase
	TrainerStore
}
