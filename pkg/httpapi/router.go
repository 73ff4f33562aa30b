package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jakechorley/trainer-directory/pkg/core/availability"
	"github.com/jakechorley/trainer-directory/pkg/core/listing"
	"github.com/jakechorley/trainer-directory/pkg/core/proximity"
	"github.com/jakechorley/trainer-directory/pkg/db"
	"github.com/jakechorley/trainer-directory/pkg/metrics"
)

// Store is the persistence needed by the API
type Store interface {
	db.Database
	Ping(ctx context.Context) error
}

// Deps holds everything the handlers need
type Deps struct {
	Store    Store
	Geocoder proximity.Geocoder
	Sorter   *listing.Sorter
	Cycle    *availability.Cycle
	Location *time.Location
	Logger   *zap.Logger

	// Now defaults to time.Now
	Now func() time.Time

	// WritesPerSecond limits availability updates across all clients, 0 disables the limit
	WritesPerSecond float64
}

type handler struct {
	Deps
}

// NewRouter wires the JSON API, health and metrics endpoints
func NewRouter(deps Deps) http.Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	h := &handler{Deps: deps}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", h.health)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.Handler().ServeHTTP(w, r)
	})

	r.Route("/trainers", func(r chi.Router) {
		r.Use(metrics.RouteLabel())
		r.Get("/", h.listTrainers)
		r.Get("/{id}/availability", h.showCalendar)
		r.With(limitWrites(deps.WritesPerSecond)).Post("/{id}/availability/{day}/cycle", h.cycleDay)
		r.With(limitWrites(deps.WritesPerSecond)).Delete("/{id}", h.deleteTrainer)
	})

	return r
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		h.Logger.Warn("Health check failed", zap.Error(err))
		http.Error(w, "unready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug("Handled request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

// limitWrites shares one token bucket between all callers of the wrapped routes
func limitWrites(perSecond float64) func(http.Handler) http.Handler {
	if perSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
