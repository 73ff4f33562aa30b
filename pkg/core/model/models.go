package model

import "strings"

// Status is the commercial status of a trainer in the directory
type Status string

const (
	StatusPremium  Status = "Premium"
	StatusStandard Status = "Standard"
	StatusInactive Status = "Inactif"
	StatusBlack    Status = "Black"
)

// Statuses lists every known status in display order
var Statuses = []Status{StatusPremium, StatusStandard, StatusInactive, StatusBlack}

func (s Status) IsValid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// GeoPoint is a latitude/longitude pair in decimal degrees
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Trainer represents a trainer listed in the directory
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
	Status     Status
	Note       string

	// Location is nil when the trainer has no coordinates. A nil location is not the same as {0, 0}.
	Location *GeoPoint
}

// FullName returns "FirstName LastName", trimmed when either part is missing
func (t Trainer) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}
