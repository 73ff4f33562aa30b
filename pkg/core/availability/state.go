package availability

import (
	"fmt"
	"strings"
)

// State is the availability of a trainer on one day. Empty means no stored record.
type State int

const (
	Empty State = iota
	Available
	Unavailable
	Assigned
)

// stateCount is the length of the cycle, Empty included
const stateCount = 4

// Next returns the state following s in the cycle
// Empty -> Available -> Unavailable -> Assigned -> Empty.
// Unknown values restart the cycle at Available.
func Next(s State) State {
	if s < Empty || s >= stateCount {
		return Available
	}
	return (s + 1) % stateCount
}

func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Available:
		return "Available"
	case Unavailable:
		return "Unavailable"
	case Assigned:
		return "Assigned"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Labels are the persisted names of the three non-empty states
type Labels struct {
	Available   string `yaml:"available"`
	Unavailable string `yaml:"unavailable"`
	Assigned    string `yaml:"assigned"`
}

// DefaultLabels match the labels used by existing trainer records
var DefaultLabels = Labels{
	Available:   "dispo",
	Unavailable: "indispo",
	Assigned:    "mission",
}

// Cycle is the availability state machine together with the label set used to
// persist states. The transition order does not depend on the labels.
type Cycle struct {
	labels  Labels
	byLabel map[string]State
}

// NewCycle validates labels and returns a Cycle using them
func NewCycle(labels Labels) (*Cycle, error) {
	byLabel := make(map[string]State, stateCount-1)
	for _, entry := range []struct {
		state State
		label string
	}{
		{Available, labels.Available},
		{Unavailable, labels.Unavailable},
		{Assigned, labels.Assigned},
	} {
		label := strings.TrimSpace(entry.label)
		if label == "" {
			return nil, fmt.Errorf("label for state %s must not be empty", entry.state)
		}
		if other, exists := byLabel[label]; exists {
			return nil, fmt.Errorf("label %q used for both %s and %s", label, other, entry.state)
		}
		byLabel[label] = entry.state
	}

	return &Cycle{labels: labels, byLabel: byLabel}, nil
}

// DefaultCycle returns a Cycle using DefaultLabels
func DefaultCycle() *Cycle {
	c, err := NewCycle(DefaultLabels)
	if err != nil {
		panic(err)
	}
	return c
}

// Next returns the state following s
func (c *Cycle) Next(s State) State {
	return Next(s)
}

// Label returns the persisted label of s, or "" for Empty
func (c *Cycle) Label(s State) string {
	switch s {
	case Available:
		return strings.TrimSpace(c.labels.Available)
	case Unavailable:
		return strings.TrimSpace(c.labels.Unavailable)
	case Assigned:
		return strings.TrimSpace(c.labels.Assigned)
	default:
		return ""
	}
}

// Parse maps a persisted label back to its state
func (c *Cycle) Parse(label string) (State, error) {
	s, ok := c.byLabel[strings.TrimSpace(label)]
	if !ok {
		return Empty, fmt.Errorf("unknown availability label %q", label)
	}
	return s, nil
}
