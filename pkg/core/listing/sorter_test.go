package listing

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/trainer-directory/pkg/core/model"
	"github.com/jakechorley/trainer-directory/pkg/core/proximity"
)

func newTestSorter(t *testing.T) *Sorter {
	t.Helper()
	s, err := NewSorter("fr")
	require.NoError(t, err)
	return s
}

func ids(trainers []model.Trainer) []string {
	out := make([]string, len(trainers))
	for i, t := range trainers {
		out[i] = t.ID
	}
	return out
}

func rate(v float64) *float64 {
	return &v
}

func TestSort_ByDistance(t *testing.T) {
	s := newTestSorter(t)
	trainers := []model.Trainer{{ID: "far"}, {ID: "unknown"}, {ID: "near"}}
	distances := proximity.Result{
		"far":     {Km: 12.34, Known: true},
		"unknown": {},
		"near":    {Km: 5.00, Known: true},
	}

	asc := s.Sort(trainers, SortState{Key: KeyDistance, Dir: Ascending}, distances)
	assert.Equal(t, []string{"near", "far", "unknown"}, ids(asc))

	desc := s.Sort(trainers, SortState{Key: KeyDistance, Dir: Descending}, distances)
	assert.Equal(t, []string{"far", "near", "unknown"}, ids(desc))

	// Input is left untouched
	assert.Equal(t, []string{"far", "unknown", "near"}, ids(trainers))
}

func TestSort_DistanceWithoutResultKeepsOrder(t *testing.T) {
	s := newTestSorter(t)
	trainers := []model.Trainer{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	sorted := s.Sort(trainers, SortState{Key: KeyDistance, Dir: Ascending}, nil)
	assert.Equal(t, []string{"a", "b", "c"}, ids(sorted))
}

func TestSort_TextIgnoresCaseAndAccents(t *testing.T) {
	s := newTestSorter(t)
	trainers := []model.Trainer{
		{ID: "zoe", FirstName: "Zoé"},
		{ID: "emile", FirstName: "émile"},
		{ID: "bruno", FirstName: "bruno"},
		{ID: "francois", FirstName: "François"},
	}

	sorted := s.Sort(trainers, SortState{Key: KeyFirstName, Dir: Ascending}, nil)
	assert.Equal(t, []string{"bruno", "emile", "francois", "zoe"}, ids(sorted))

	assert.Equal(t, 0, s.Compare(
		model.Trainer{FirstName: "Émile"},
		model.Trainer{FirstName: "emile"},
		KeyFirstName, nil))
}

func TestSorter_SharedAcrossGoroutines(t *testing.T) {
	s := newTestSorter(t)
	trainers := []model.Trainer{
		{ID: "zoe", LastName: "Zola"},
		{ID: "emile", LastName: "Étienne"},
		{ID: "bruno", LastName: "bernard"},
	}

	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = ids(s.Sort(trainers, SortState{Key: KeyLastName, Dir: Ascending}, nil))
			s.Compare(trainers[0], trainers[1], KeyLastName, nil)
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, []string{"bruno", "emile", "zoe"}, got)
	}
}

func TestSort_MissingValuesLastInBothDirections(t *testing.T) {
	s := newTestSorter(t)
	trainers := []model.Trainer{
		{ID: "none", City: ""},
		{ID: "lyon", City: "Lyon"},
		{ID: "blank", City: "   "},
		{ID: "annecy", City: "Annecy"},
	}

	asc := s.Sort(trainers, SortState{Key: KeyCity, Dir: Ascending}, nil)
	assert.Equal(t, []string{"annecy", "lyon", "none", "blank"}, ids(asc))

	desc := s.Sort(trainers, SortState{Key: KeyCity, Dir: Descending}, nil)
	assert.Equal(t, []string{"lyon", "annecy", "none", "blank"}, ids(desc))
}

func TestSort_IsStable(t *testing.T) {
	s := newTestSorter(t)
	trainers := []model.Trainer{
		{ID: "1", Status: model.StatusStandard},
		{ID: "2", Status: model.StatusPremium},
		{ID: "3", Status: model.StatusStandard},
		{ID: "4", Status: model.StatusPremium},
	}

	sorted := s.Sort(trainers, SortState{Key: KeyStatus, Dir: Ascending}, nil)
	assert.Equal(t, []string{"2", "4", "1", "3"}, ids(sorted))

	sorted = s.Sort(trainers, SortState{Key: KeyStatus, Dir: Descending}, nil)
	assert.Equal(t, []string{"1", "3", "2", "4"}, ids(sorted))
}

func TestSort_RateIsNumeric(t *testing.T) {
	s := newTestSorter(t)
	trainers := []model.Trainer{
		{ID: "high", Rate: rate(150)},
		{ID: "none"},
		{ID: "low", Rate: rate(90)},
	}

	sorted := s.Sort(trainers, SortState{Key: KeyRate, Dir: Ascending}, nil)
	assert.Equal(t, []string{"low", "high", "none"}, ids(sorted))
}

func TestSort_NoKeyKeepsInputOrder(t *testing.T) {
	s := newTestSorter(t)
	trainers := []model.Trainer{{ID: "b", FirstName: "B"}, {ID: "a", FirstName: "A"}}

	assert.Equal(t, []string{"b", "a"}, ids(s.Sort(trainers, SortState{}, nil)))
}

func TestCompare_MissingValues(t *testing.T) {
	s := newTestSorter(t)
	present := model.Trainer{LastName: "Martin"}
	missing := model.Trainer{}

	assert.Equal(t, 1, s.Compare(missing, present, KeyLastName, nil))
	assert.Equal(t, -1, s.Compare(present, missing, KeyLastName, nil))
	assert.Equal(t, 0, s.Compare(missing, missing, KeyLastName, nil))
}

func TestSortState_Toggle(t *testing.T) {
	var state SortState

	state = state.Toggle(KeyCity)
	assert.Equal(t, SortState{Key: KeyCity, Dir: Ascending}, state)

	state = state.Toggle(KeyCity)
	assert.Equal(t, SortState{Key: KeyCity, Dir: Descending}, state)

	state = state.Toggle(KeyCity)
	assert.Equal(t, SortState{Key: KeyCity, Dir: Ascending}, state)

	state = state.Toggle(KeyCity).Toggle(KeyRate)
	assert.Equal(t, SortState{Key: KeyRate, Dir: Ascending}, state)
}

func TestParseKeyAndDirection(t *testing.T) {
	key, err := ParseKey("postalCode")
	require.NoError(t, err)
	assert.Equal(t, KeyPostalCode, key)

	key, err = ParseKey("")
	require.NoError(t, err)
	assert.Equal(t, Key(""), key)

	_, err = ParseKey("email")
	assert.Error(t, err)

	dir, err := ParseDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, Descending, dir)

	dir, err = ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, Ascending, dir)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}

func TestNewSorter_InvalidLocale(t *testing.T) {
	_, err := NewSorter("@@")
	assert.Error(t, err)
}
