package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jakechorley/trainer-directory/pkg/core/availability"
	"github.com/jakechorley/trainer-directory/pkg/core/listing"
	"github.com/jakechorley/trainer-directory/pkg/core/model"
	"github.com/jakechorley/trainer-directory/pkg/core/proximity"
	"github.com/jakechorley/trainer-directory/pkg/core/services"
)

func (h *handler) listTrainers(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	// Each request ranks on its own so concurrent clients never supersede each other
	ranker := proximity.NewRanker(h.Geocoder, h.Logger)

	result, err := services.ListTrainers(r.Context(), h.Store, ranker, h.Sorter, h.Logger, params)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newListResponse(result, params.Sort))
}

func (h *handler) showCalendar(w http.ResponseWriter, r *http.Request) {
	month := availability.MonthOf(h.Now().In(h.Location))
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := availability.ParseYearMonth(raw)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		month = parsed
	}

	view, err := services.ShowCalendar(r.Context(), h.Store, h.Cycle, h.Logger, chi.URLParam(r, "id"), month)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.newCalendarResponse(view))
}

func (h *handler) cycleDay(w http.ResponseWriter, r *http.Request) {
	day := availability.DayKey(chi.URLParam(r, "day"))

	res, view, err := services.CycleDay(r.Context(), h.Store, h.Cycle, h.Logger, chi.URLParam(r, "id"), day, h.Now)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cycleResponse{
		Day:       string(res.Day),
		Previous:  h.Cycle.Label(res.Previous),
		State:     h.Cycle.Label(res.State),
		UpdatedAt: res.UpdatedAt,
		Calendar:  h.newCalendarResponse(view),
	})
}

func (h *handler) deleteTrainer(w http.ResponseWriter, r *http.Request) {
	if err := services.DeleteTrainer(r.Context(), h.Store, nil, h.Logger, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseListParams(r *http.Request) (services.ListTrainersParams, error) {
	q := r.URL.Query()

	key, err := listing.ParseKey(q.Get("sort"))
	if err != nil {
		return services.ListTrainersParams{}, err
	}
	dir, err := listing.ParseDirection(q.Get("dir"))
	if err != nil {
		return services.ListTrainersParams{}, err
	}

	filter := listing.Filter{
		FirstName: q.Get("firstName"),
		LastName:  q.Get("lastName"),
		City:      q.Get("city"),
		Skill:     q.Get("skill"),
		Equipment: q.Get("equipment"),
	}
	for _, raw := range q["status"] {
		for _, part := range strings.Split(raw, ",") {
			status := model.Status(strings.TrimSpace(part))
			if status == "" {
				continue
			}
			if !status.IsValid() {
				return services.ListTrainersParams{}, fmt.Errorf("unknown status %q", status)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	return services.ListTrainersParams{
		Filter: filter,
		Sort:   listing.SortState{Key: key, Dir: dir},
		Place:  q.Get("place"),
	}, nil
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrTrainerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, availability.ErrInvalidRange):
		status = http.StatusBadRequest
	case errors.Is(err, availability.ErrDayBusy), errors.Is(err, availability.ErrNotLoaded):
		status = http.StatusConflict
	case errors.Is(err, availability.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		h.Logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	} else {
		h.Logger.Debug("Request rejected", zap.String("path", r.URL.Path), zap.Error(err))
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.Logger.Debug("Bad request", zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}
