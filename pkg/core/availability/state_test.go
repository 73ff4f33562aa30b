package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_CyclesThroughAllStates(t *testing.T) {
	s := Empty
	s = Next(s)
	assert.Equal(t, Available, s)
	s = Next(s)
	assert.Equal(t, Unavailable, s)
	s = Next(s)
	assert.Equal(t, Assigned, s)
	s = Next(s)
	assert.Equal(t, Empty, s)
}

func TestNext_ReturnsToStartAfterFullCycle(t *testing.T) {
	for _, s := range []State{Empty, Available, Unavailable, Assigned} {
		got := s
		for i := 0; i < stateCount; i++ {
			got = Next(got)
		}
		assert.Equal(t, s, got)
	}
}

func TestNext_UnknownStateRestartsAtAvailable(t *testing.T) {
	assert.Equal(t, Available, Next(State(42)))
	assert.Equal(t, Available, Next(State(-1)))
}

func TestCycle_Labels(t *testing.T) {
	c := DefaultCycle()

	assert.Equal(t, "", c.Label(Empty))
	assert.Equal(t, "dispo", c.Label(Available))
	assert.Equal(t, "indispo", c.Label(Unavailable))
	assert.Equal(t, "mission", c.Label(Assigned))

	for _, s := range []State{Available, Unavailable, Assigned} {
		parsed, err := c.Parse(c.Label(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := c.Parse("vacances")
	assert.Error(t, err)
}

func TestNewCycle_CustomLabelsKeepOrder(t *testing.T) {
	c, err := NewCycle(Labels{Available: "free", Unavailable: "off", Assigned: "booked"})
	require.NoError(t, err)

	assert.Equal(t, Available, c.Next(Empty))
	assert.Equal(t, "booked", c.Label(c.Next(Unavailable)))

	s, err := c.Parse(" off ")
	require.NoError(t, err)
	assert.Equal(t, Unavailable, s)
}

func TestNewCycle_RejectsInvalidLabels(t *testing.T) {
	_, err := NewCycle(Labels{Available: "dispo", Unavailable: "", Assigned: "mission"})
	assert.Error(t, err)

	_, err = NewCycle(Labels{Available: "dispo", Unavailable: "dispo", Assigned: "mission"})
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "septembre 2025", MonthLabel(YearMonth{Year: 2025, Month: time.September}))
	assert.Equal(t, "février 2024", MonthLabel(YearMonth{Year: 2024, Month: time.February}))

	paris := time.FixedZone("CEST", 2*60*60)
	at := time.Date(2025, time.September, 10, 14, 42, 0, 0, time.UTC)
	assert.Equal(t, "mercredi 10 septembre 2025 à 16:42", FormatLastUpdated(at, paris))
	assert.Equal(t, NoUpdate, FormatLastUpdated(time.Time{}, paris))

	assert.Equal(t, "lun", WeekdayShort(time.Monday))
	assert.Equal(t, "dim", WeekdayShort(time.Sunday))
}
