package model

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Field aliases seen in stored trainer records. The first alias present wins.
var (
	aliasID         = []string{"id", "ID", "Unique ID"}
	aliasFirstName  = []string{"prenom", "firstName", "first_name", "First name"}
	aliasLastName   = []string{"nom", "lastName", "last_name", "Last name"}
	aliasCity       = []string{"ville", "city", "City"}
	aliasPostalCode = []string{"codePostal", "code_postal", "cp", "postalCode", "Postal code"}
	aliasAddress    = []string{"adresse", "address", "Address"}
	aliasEmail      = []string{"email", "mail", "Email"}
	aliasPhone      = []string{"telephone", "tel", "phone", "Phone"}
	aliasSkills     = []string{"competences", "skills", "Skills"}
	aliasEquipment  = []string{"materiel", "equipment", "Equipment"}
	aliasRate       = []string{"tarif", "rate", "Rate"}
	aliasStatus     = []string{"statut", "status", "Status"}
	aliasNote       = []string{"note", "notes", "Note"}
	aliasLatitude   = []string{"latitude", "lat", "Latitude"}
	aliasLongitude  = []string{"longitude", "lon", "lng", "Longitude"}
)

var listSeparators = regexp.MustCompile(`[,;\n]+`)

// NormalizeTrainer converts a loosely shaped record into a Trainer.
// Records without a status are treated as inactive.
func NormalizeTrainer(raw map[string]any) (Trainer, error) {
	t := Trainer{
		ID:         nonEmpty(lookup(raw, aliasID)),
		FirstName:  nonEmpty(lookup(raw, aliasFirstName)),
		LastName:   nonEmpty(lookup(raw, aliasLastName)),
		City:       nonEmpty(lookup(raw, aliasCity)),
		PostalCode: nonEmpty(lookup(raw, aliasPostalCode)),
		Address:    nonEmpty(lookup(raw, aliasAddress)),
		Email:      nonEmpty(lookup(raw, aliasEmail)),
		Phone:      nonEmpty(lookup(raw, aliasPhone)),
		Skills:     toList(lookup(raw, aliasSkills)),
		Equipment:  toList(lookup(raw, aliasEquipment)),
		Rate:       numberOrNil(lookup(raw, aliasRate)),
		Note:       nonEmpty(lookup(raw, aliasNote)),
	}

	status := nonEmpty(lookup(raw, aliasStatus))
	if status == "" {
		t.Status = StatusInactive
	} else {
		t.Status = Status(status)
		if !t.Status.IsValid() {
			return Trainer{}, fmt.Errorf("unknown status %q for trainer %q", status, t.FullName())
		}
	}

	lat := numberOrNil(lookup(raw, aliasLatitude))
	lon := numberOrNil(lookup(raw, aliasLongitude))
	if lat != nil && lon != nil {
		if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
			return Trainer{}, fmt.Errorf("coordinates out of range for trainer %q: %v,%v", t.FullName(), *lat, *lon)
		}
		t.Location = &GeoPoint{Lat: *lat, Lon: *lon}
	}

	return t, nil
}

func lookup(raw map[string]any, aliases []string) any {
	for _, alias := range aliases {
		if v, ok := raw[alias]; ok && v != nil {
			return v
		}
	}
	return nil
}

// nonEmpty returns the trimmed string form of v, or "" for nil/blank values
func nonEmpty(v any) string {
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

// toList accepts either a list or a separated string and returns the trimmed, non-blank items
func toList(v any) []string {
	var parts []string
	switch items := v.(type) {
	case nil:
		return nil
	case []string:
		parts = items
	case []any:
		for _, item := range items {
			parts = append(parts, nonEmpty(item))
		}
	default:
		parts = listSeparators.Split(nonEmpty(v), -1)
	}

	var result []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// numberOrNil parses numbers given either as numbers or numeric strings.
// A comma decimal separator is accepted.
func numberOrNil(v any) *float64 {
	var n float64
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	default:
		s := strings.ReplaceAll(nonEmpty(v), ",", ".")
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		n = parsed
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}
