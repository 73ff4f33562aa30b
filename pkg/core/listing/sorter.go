package listing

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jakechorley/trainer-directory/pkg/core/model"
	"github.com/jakechorley/trainer-directory/pkg/core/proximity"
)

// Key names a sortable column of the directory
type Key string

const (
	KeyFirstName  Key = "firstName"
	KeyLastName   Key = "lastName"
	KeyCity       Key = "city"
	KeyStatus     Key = "status"
	KeyPostalCode Key = "postalCode"
	KeyRate       Key = "rate"
	KeyDistance   Key = "distance"
)

// Keys lists the sortable columns in display order
var Keys = []Key{KeyFirstName, KeyLastName, KeyCity, KeyStatus, KeyPostalCode, KeyRate, KeyDistance}

// ParseKey validates s as a sort key. The empty string means unsorted.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return "", nil
	}
	for _, k := range Keys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection validates s as a direction, defaulting to Ascending
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(s)) {
	case "", Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// SortState is the active sort column and direction. A zero Key leaves the list in input order.
type SortState struct {
	Key Key
	Dir Direction
}

// Toggle selects key: the active key flips direction, another key starts ascending
func (s SortState) Toggle(key Key) SortState {
	if s.Key == key && s.Dir != Descending {
		return SortState{Key: key, Dir: Descending}
	}
	return SortState{Key: key, Dir: Ascending}
}

// value is an extracted sort value. Missing values always sort after present ones.
type value struct {
	present bool
	text    string
	number  float64
	numeric bool
}

// Sorter orders trainers by column using locale-aware, case and accent insensitive
// text comparison
type Sorter struct {
	tag language.Tag

	// A Collator is not safe for concurrent use
	collators sync.Pool
}

// NewSorter creates a Sorter collating text for locale, e.g. "fr"
func NewSorter(locale string) (*Sorter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("failed to parse locale %q: %w", locale, err)
	}
	s := &Sorter{tag: tag}
	s.collators.New = func() any {
		return collate.New(tag, collate.IgnoreCase, collate.IgnoreDiacritics)
	}
	s.collators.Put(s.collators.New())
	return s, nil
}

func (s *Sorter) acquire() *collate.Collator {
	return s.collators.Get().(*collate.Collator)
}

func (s *Sorter) release(col *collate.Collator) {
	s.collators.Put(col)
}

// Compare orders a and b ascending by key and returns -1, 0 or 1.
// A trainer missing the value sorts last; two missing values are equal.
func (s *Sorter) Compare(a, b model.Trainer, key Key, distances proximity.Result) int {
	col := s.acquire()
	defer s.release(col)
	return compare(col, extract(a, key, distances), extract(b, key, distances), Ascending)
}

// Sort returns a sorted copy of trainers. Equal elements keep their input order and
// missing values stay last in both directions.
func (s *Sorter) Sort(trainers []model.Trainer, state SortState, distances proximity.Result) []model.Trainer {
	if state.Key == "" {
		return slices.Clone(trainers)
	}

	type entry struct {
		trainer model.Trainer
		value   value
	}
	entries := make([]entry, len(trainers))
	for i, t := range trainers {
		entries[i] = entry{trainer: t, value: extract(t, state.Key, distances)}
	}

	col := s.acquire()
	defer s.release(col)
	slices.SortStableFunc(entries, func(a, b entry) int {
		return compare(col, a.value, b.value, state.Dir)
	})

	sorted := make([]model.Trainer, len(entries))
	for i, e := range entries {
		sorted[i] = e.trainer
	}
	return sorted
}

func compare(col *collate.Collator, va, vb value, dir Direction) int {
	switch {
	case !va.present && !vb.present:
		return 0
	case !va.present:
		return 1
	case !vb.present:
		return -1
	}

	var c int
	if va.numeric && vb.numeric {
		switch {
		case va.number < vb.number:
			c = -1
		case va.number > vb.number:
			c = 1
		}
	} else {
		c = col.CompareString(va.text, vb.text)
	}

	if dir == Descending {
		return -c
	}
	return c
}

func extract(t model.Trainer, key Key, distances proximity.Result) value {
	switch key {
	case KeyFirstName:
		return text(t.FirstName)
	case KeyLastName:
		return text(t.LastName)
	case KeyCity:
		return text(t.City)
	case KeyStatus:
		return text(string(t.Status))
	case KeyPostalCode:
		return text(t.PostalCode)
	case KeyRate:
		if t.Rate == nil {
			return value{}
		}
		return value{present: true, numeric: true, number: *t.Rate}
	case KeyDistance:
		km, known := distances.Km(t.ID)
		if !known {
			return value{}
		}
		return value{present: true, numeric: true, number: km}
	default:
		return value{}
	}
}

func text(s string) value {
	s = strings.TrimSpace(s)
	if s == "" {
		return value{}
	}
	return value{present: true, text: s}
}
