package proximity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/trainer-directory/pkg/core/model"
)

// mockGeocoder resolves queries from a fixed table and can hold lookups open
type mockGeocoder struct {
	mu      sync.Mutex
	places  map[string][]model.GeoPoint
	err     error
	calls   []string
	holds   map[string]chan struct{}
	started chan string
}

func (m *mockGeocoder) Geocode(ctx context.Context, query string) ([]model.GeoPoint, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	hold := m.holds[query]
	started := m.started
	err := m.err
	points := m.places[query]
	m.mu.Unlock()

	if started != nil {
		started <- query
	}
	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return points, nil
}

var (
	paris = model.GeoPoint{Lat: 48.85, Lon: 2.35}
	lyon  = model.GeoPoint{Lat: 45.75, Lon: 4.85}
)

func testTrainers() []model.Trainer {
	return []model.Trainer{
		{ID: "A", FirstName: "Alice"},
		{ID: "B", FirstName: "Bruno", Location: &model.GeoPoint{Lat: 48.85, Lon: 2.35}},
		{ID: "C", FirstName: "Chloé", Location: &model.GeoPoint{Lat: 45.75, Lon: 4.85}},
	}
}

func TestDistanceKm(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(paris, paris))
	assert.InDelta(t, 392.83, DistanceKm(paris, lyon), 0.01)
	assert.InDelta(t, DistanceKm(paris, lyon), DistanceKm(lyon, paris), 1e-9)
}

func TestRank_ParisLyon(t *testing.T) {
	geocoder := &mockGeocoder{places: map[string][]model.GeoPoint{
		"Paris": {paris, lyon},
	}}
	ranker := NewRanker(geocoder, zap.NewNop())

	result, err := ranker.Rank(context.Background(), testTrainers(), "  Paris ")
	require.NoError(t, err)

	assert.Equal(t, Distance{}, result["A"])
	assert.Equal(t, Distance{Km: 0, Known: true}, result["B"])
	assert.True(t, result["C"].Known)
	assert.InDelta(t, 392.83, result["C"].Km, 0.001)

	_, known := result.Km("A")
	assert.False(t, known)

	current, active := ranker.Current()
	assert.True(t, active)
	assert.Equal(t, result, current)
	assert.Equal(t, "Paris", ranker.Query())
	assert.Equal(t, []string{"Paris"}, geocoder.calls)
}

func TestRank_ZeroCoordinatesAreAValidLocation(t *testing.T) {
	geocoder := &mockGeocoder{places: map[string][]model.GeoPoint{"Null Island": {{Lat: 0, Lon: 0}}}}
	ranker := NewRanker(geocoder, zap.NewNop())

	trainers := []model.Trainer{{ID: "Z", Location: &model.GeoPoint{}}}
	result, err := ranker.Rank(context.Background(), trainers, "Null Island")
	require.NoError(t, err)

	km, known := result.Km("Z")
	assert.True(t, known)
	assert.Equal(t, 0.0, km)
}

func TestRank_EmptyQueryDeactivates(t *testing.T) {
	geocoder := &mockGeocoder{places: map[string][]model.GeoPoint{"Paris": {paris}}}
	ranker := NewRanker(geocoder, zap.NewNop())
	ctx := context.Background()

	_, err := ranker.Rank(ctx, testTrainers(), "Paris")
	require.NoError(t, err)

	result, err := ranker.Rank(ctx, testTrainers(), "   ")
	require.NoError(t, err)
	assert.Empty(t, result)

	_, active := ranker.Current()
	assert.False(t, active)
	assert.Empty(t, ranker.Recompute(testTrainers()))
	assert.Len(t, geocoder.calls, 1)
}

func TestRank_LocationNotFoundKeepsPreviousResult(t *testing.T) {
	geocoder := &mockGeocoder{places: map[string][]model.GeoPoint{"Paris": {paris}}}
	ranker := NewRanker(geocoder, zap.NewNop())
	ctx := context.Background()

	previous, err := ranker.Rank(ctx, testTrainers(), "Paris")
	require.NoError(t, err)

	_, err = ranker.Rank(ctx, testTrainers(), "Atlantis")
	assert.ErrorIs(t, err, ErrLocationNotFound)

	current, active := ranker.Current()
	assert.True(t, active)
	assert.Equal(t, previous, current)
	assert.Equal(t, "Paris", ranker.Query())
}

func TestRank_GeocoderFailureKeepsPreviousResult(t *testing.T) {
	geocoder := &mockGeocoder{places: map[string][]model.GeoPoint{"Paris": {paris}}}
	ranker := NewRanker(geocoder, zap.NewNop())
	ctx := context.Background()

	previous, err := ranker.Rank(ctx, testTrainers(), "Paris")
	require.NoError(t, err)

	geocoder.err = errors.New("503 service unavailable")
	_, err = ranker.Rank(ctx, testTrainers(), "Lyon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	current, _ := ranker.Current()
	assert.Equal(t, previous, current)
}

func TestRank_LastQueryWins(t *testing.T) {
	hold := make(chan struct{})
	geocoder := &mockGeocoder{
		places: map[string][]model.GeoPoint{
			"Paris": {paris},
			"Lyon":  {lyon},
		},
		holds:   map[string]chan struct{}{"Paris": hold},
		started: make(chan string, 4),
	}
	ranker := NewRanker(geocoder, zap.NewNop())
	ctx := context.Background()

	errCh := make(chan error, 1)
	go func() {
		_, err := ranker.Rank(ctx, testTrainers(), "Paris")
		errCh <- err
	}()
	assert.Equal(t, "Paris", <-geocoder.started)

	result, err := ranker.Rank(ctx, testTrainers(), "Lyon")
	require.NoError(t, err)

	// The Paris lookup was cancelled by the newer query
	assert.ErrorIs(t, <-errCh, ErrSuperseded)
	close(hold)

	current, _ := ranker.Current()
	assert.Equal(t, result, current)
	km, _ := current.Km("C")
	assert.Equal(t, 0.0, km)
	assert.Equal(t, "Lyon", ranker.Query())
}

func TestClear_IgnoresInFlightLookup(t *testing.T) {
	hold := make(chan struct{})
	geocoder := &mockGeocoder{
		places:  map[string][]model.GeoPoint{"Paris": {paris}},
		holds:   map[string]chan struct{}{"Paris": hold},
		started: make(chan string, 1),
	}
	ranker := NewRanker(geocoder, zap.NewNop())

	errCh := make(chan error, 1)
	go func() {
		_, err := ranker.Rank(context.Background(), testTrainers(), "Paris")
		errCh <- err
	}()
	<-geocoder.started

	ranker.Clear()
	assert.ErrorIs(t, <-errCh, ErrSuperseded)

	_, active := ranker.Current()
	assert.False(t, active)
}

func TestRecompute_UsesRetainedPoint(t *testing.T) {
	geocoder := &mockGeocoder{places: map[string][]model.GeoPoint{"Paris": {paris}}}
	ranker := NewRanker(geocoder, zap.NewNop())

	_, err := ranker.Rank(context.Background(), testTrainers(), "Paris")
	require.NoError(t, err)

	remaining := testTrainers()[1:]
	result := ranker.Recompute(remaining)

	assert.Len(t, result, 2)
	assert.NotContains(t, result, "A")
	assert.Len(t, geocoder.calls, 1)
}
