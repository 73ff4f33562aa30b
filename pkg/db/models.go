package db

import "time"

// AvailabilityRecord represents a stored availability row for one trainer and day
type AvailabilityRecord struct {
	TrainerID string
	Day       string // YYYY-MM-DD
	State     string // persisted label, never empty
	UpdatedAt time.Time
}

// Trainer represents a database trainer row
type Trainer struct {
	ID         string
	FirstName  string
	LastName   string
	City       string
	PostalCode string
	Address    string
	Email      string
	Phone      string
	Skills     []string
	Equipment  []string
	Rate       *float64
	Status     string
	Note       string
	Latitude   *float64 // nullable
	Longitude  *float64 // nullable
}
