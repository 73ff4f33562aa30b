package listing

import (
	"slices"
	"strings"

	"github.com/jakechorley/trainer-directory/pkg/core/model"
)

// Filter narrows the directory. Text fields match case-insensitive substrings and
// empty fields match everything. An empty Statuses list accepts every status.
type Filter struct {
	FirstName string
	LastName  string
	City      string
	Skill     string
	Equipment string
	Statuses  []model.Status
}

// Matches reports whether t passes every criterion of f
func (f Filter) Matches(t model.Trainer) bool {
	return contains(t.FirstName, f.FirstName) &&
		contains(t.LastName, f.LastName) &&
		contains(t.City, f.City) &&
		contains(strings.Join(t.Skills, ", "), f.Skill) &&
		contains(strings.Join(t.Equipment, ", "), f.Equipment) &&
		(len(f.Statuses) == 0 || slices.Contains(f.Statuses, t.Status))
}

// Apply returns the trainers matching f in their input order
func (f Filter) Apply(trainers []model.Trainer) []model.Trainer {
	matched := make([]model.Trainer, 0, len(trainers))
	for _, t := range trainers {
		if f.Matches(t) {
			matched = append(matched, t)
		}
	}
	return matched
}

func contains(field, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(needle))
}
