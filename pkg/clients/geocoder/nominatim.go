package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/jakechorley/trainer-directory/pkg/core/model"
	"github.com/jakechorley/trainer-directory/pkg/metrics"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "trainer-directory/1.0"
)

// Options configures a Nominatim client
type Options struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Nominatim resolves places with the OpenStreetMap Nominatim search API.
// Requests are rate limited and identical concurrent queries share one upstream call.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	group     singleflight.Group
	logger    *zap.Logger
}

// NewNominatim creates a client from opts, filling unset options with defaults
func NewNominatim(opts Options, logger *zap.Logger) *Nominatim {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &Nominatim{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		client:    &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		logger:    logger,
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns candidate points for query, best match first.
// An empty slice means the place is unknown.
func (n *Nominatim) Geocode(ctx context.Context, query string) ([]model.GeoPoint, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	// The shared lookup outlives any single caller; callers stop waiting on their own ctx
	ch := n.group.DoChan(strings.ToLower(query), func() (any, error) {
		return n.search(context.WithoutCancel(ctx), query)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]model.GeoPoint), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (n *Nominatim) search(ctx context.Context, query string) ([]model.GeoPoint, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocoding rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	endpoint := n.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		metrics.ObserveGeocode("upstream", "error")
		return nil, fmt.Errorf("failed to query geocoder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveGeocode("upstream", "error")
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		metrics.ObserveGeocode("upstream", "error")
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}

	points := make([]model.GeoPoint, 0, len(results))
	for _, r := range results {
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(r.Lat), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(r.Lon), 64)
		if errLat != nil || errLon != nil {
			n.logger.Warn("Skipping geocoder result with invalid coordinates",
				zap.String("query", query),
				zap.String("display_name", r.DisplayName))
			continue
		}
		points = append(points, model.GeoPoint{Lat: lat, Lon: lon})
	}

	outcome := "found"
	if len(points) == 0 {
		outcome = "not_found"
	}
	metrics.ObserveGeocode("upstream", outcome)

	n.logger.Debug("Geocoded place",
		zap.String("query", query),
		zap.Int("candidates", len(points)))

	return points, nil
}
