package proximity

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/trainer-directory/pkg/core/model"
)

var (
	// ErrLocationNotFound is returned when the geocoder has no candidate for the query
	ErrLocationNotFound = errors.New("location not found")

	// ErrSuperseded is returned by a Rank call overtaken by a later Rank or Clear
	ErrSuperseded = errors.New("proximity query superseded")
)

// Geocoder resolves a free-text place into candidate points, best match first
type Geocoder interface {
	Geocode(ctx context.Context, query string) ([]model.GeoPoint, error)
}

// Distance is a trainer's distance to the reference point. Known is false when
// the trainer has no coordinates.
type Distance struct {
	Km    float64 `json:"km"`
	Known bool    `json:"known"`
}

// Result maps trainer IDs to their distance
type Result map[string]Distance

// Km returns the known distance of trainerID
func (r Result) Km(trainerID string) (float64, bool) {
	d, ok := r[trainerID]
	if !ok || !d.Known {
		return 0, false
	}
	return d.Km, true
}

// Ranker computes distances from a geocoded place to every trainer.
// The most recent query wins; earlier lookups still in flight are cancelled and
// their results ignored.
type Ranker struct {
	geocoder Geocoder
	logger   *zap.Logger

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	query      string
	origin     *model.GeoPoint
	result     Result
}

func NewRanker(geocoder Geocoder, logger *zap.Logger) *Ranker {
	return &Ranker{
		geocoder: geocoder,
		logger:   logger,
	}
}

// Rank geocodes query and returns the distance of each trainer to the first candidate.
// An empty query deactivates ranking. When the place cannot be resolved the previous
// result is kept and ErrLocationNotFound is returned.
func (r *Ranker) Rank(ctx context.Context, trainers []model.Trainer, query string) (Result, error) {
	query = strings.TrimSpace(query)

	r.mu.Lock()
	r.generation++
	generation := r.generation
	r.cancelLocked()

	if query == "" {
		r.resetLocked()
		r.mu.Unlock()
		return Result{}, nil
	}

	lookupCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	candidates, err := r.geocoder.Geocode(lookupCtx, query)

	r.mu.Lock()
	defer r.mu.Unlock()

	if generation != r.generation {
		r.logger.Debug("Discarding superseded proximity query", zap.String("query", query))
		return nil, ErrSuperseded
	}
	r.cancel = nil

	if err != nil {
		r.logger.Warn("Failed to geocode place", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("failed to geocode %q: %w", query, err)
	}
	if len(candidates) == 0 {
		r.logger.Info("No location found for place", zap.String("query", query))
		return nil, fmt.Errorf("%w: %q", ErrLocationNotFound, query)
	}

	origin := candidates[0]
	r.query = query
	r.origin = &origin
	r.result = computeDistances(trainers, origin)

	r.logger.Debug("Computed trainer distances",
		zap.String("query", query),
		zap.Float64("lat", origin.Lat),
		zap.Float64("lon", origin.Lon),
		zap.Int("trainers", len(trainers)))

	return maps.Clone(r.result), nil
}

// Recompute recalculates distances against the last resolved point without geocoding.
// It returns an empty result when ranking is inactive.
func (r *Ranker) Recompute(trainers []model.Trainer) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.origin == nil {
		return Result{}
	}
	r.result = computeDistances(trainers, *r.origin)
	return maps.Clone(r.result)
}

// Clear deactivates ranking and ignores any lookup still in flight
func (r *Ranker) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generation++
	r.cancelLocked()
	r.resetLocked()
}

// Current returns the active result and whether ranking is active
func (r *Ranker) Current() (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.origin == nil {
		return Result{}, false
	}
	return maps.Clone(r.result), true
}

// Query returns the place the active result was computed for
func (r *Ranker) Query() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.query
}

func (r *Ranker) cancelLocked() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Ranker) resetLocked() {
	r.query = ""
	r.origin = nil
	r.result = nil
}

func computeDistances(trainers []model.Trainer, origin model.GeoPoint) Result {
	result := make(Result, len(trainers))
	for _, t := range trainers {
		if t.Location == nil {
			result[t.ID] = Distance{}
			continue
		}
		result[t.ID] = Distance{Km: roundKm(DistanceKm(origin, *t.Location)), Known: true}
	}
	return result
}
