package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jakechorley/trainer-directory/pkg/core/availability"
	"github.com/jakechorley/trainer-directory/pkg/core/listing"
	"github.com/jakechorley/trainer-directory/pkg/core/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

type trainerResponse struct {
	ID         string   `json:"id"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	City       string   `json:"city,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Skills     []string `json:"skills"`
	Equipment  []string `json:"equipment"`
	Rate       *float64 `json:"rate"`
	Status     string   `json:"status"`

	// DistanceKm is null when ranking is inactive or the trainer has no coordinates
	DistanceKm *float64 `json:"distanceKm"`
}

type listResponse struct {
	Trainers         []trainerResponse `json:"trainers"`
	Sort             string            `json:"sort,omitempty"`
	Dir              string            `json:"dir,omitempty"`
	Place            string            `json:"place,omitempty"`
	LocationNotFound bool              `json:"locationNotFound"`
}

type dayResponse struct {
	Day     string `json:"day"`
	InMonth bool   `json:"inMonth"`
	State   string `json:"state"`
}

type trainerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type calendarResponse struct {
	Trainer       trainerRef      `json:"trainer"`
	Month         string          `json:"month"`
	Title         string          `json:"title"`
	Weekdays      []string        `json:"weekdays"`
	Weeks         [][]dayResponse `json:"weeks"`
	LastUpdated   string          `json:"lastUpdated"`
	LastUpdatedAt *time.Time      `json:"lastUpdatedAt"`
}

type cycleResponse struct {
	Day       string           `json:"day"`
	Previous  string           `json:"previous"`
	State     string           `json:"state"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Calendar  calendarResponse `json:"calendar"`
}

func newListResponse(result *services.TrainerListing, sort listing.SortState) listResponse {
	resp := listResponse{
		Trainers:         make([]trainerResponse, len(result.Trainers)),
		Sort:             string(sort.Key),
		Place:            result.Place,
		LocationNotFound: result.LocationNotFound,
	}
	if sort.Key != "" {
		resp.Dir = string(sort.Dir)
	}

	for i, t := range result.Trainers {
		tr := trainerResponse{
			ID:         t.ID,
			FirstName:  t.FirstName,
			LastName:   t.LastName,
			City:       t.City,
			PostalCode: t.PostalCode,
			Email:      t.Email,
			Phone:      t.Phone,
			Skills:     nonNil(t.Skills),
			Equipment:  nonNil(t.Equipment),
			Rate:       t.Rate,
			Status:     string(t.Status),
		}
		if km, ok := result.Distances.Km(t.ID); ok {
			tr.DistanceKm = &km
		}
		resp.Trainers[i] = tr
	}

	return resp
}

func (h *handler) newCalendarResponse(view *services.CalendarView) calendarResponse {
	resp := calendarResponse{
		Trainer:     trainerRef{ID: view.Trainer.ID, Name: view.Trainer.FullName()},
		Month:       view.Month.String(),
		Title:       availability.MonthLabel(view.Month),
		LastUpdated: availability.FormatLastUpdated(view.LatestUpdatedAt, h.Location),
	}
	if !view.LatestUpdatedAt.IsZero() {
		at := view.LatestUpdatedAt
		resp.LastUpdatedAt = &at
	}

	if len(view.Grid) > 0 {
		for _, cell := range view.Grid[0] {
			resp.Weekdays = append(resp.Weekdays, availability.WeekdayShort(cell.Date.Weekday()))
		}
	}

	resp.Weeks = make([][]dayResponse, len(view.Grid))
	for i, week := range view.Grid {
		days := make([]dayResponse, len(week))
		for j, cell := range week {
			day := dayResponse{Day: string(cell.Key()), InMonth: cell.InCurrentMonth}
			if cell.InCurrentMonth {
				if state := view.StateOf(cell.Key()); state != availability.Empty {
					day.State = h.Cycle.Label(state)
				}
			}
			days[j] = day
		}
		resp.Weeks[i] = days
	}

	return resp
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
