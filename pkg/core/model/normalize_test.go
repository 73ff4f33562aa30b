package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTrainer_CanonicalFields(t *testing.T) {
	raw := map[string]any{
		"id":          "t-1",
		"prenom":      " Claire ",
		"nom":         "Martin",
		"ville":       "Lyon",
		"codePostal":  "69001",
		"email":       "claire@example.com",
		"telephone":   "0600000000",
		"competences": []any{"Excel", " Word ", ""},
		"materiel":    "Projecteur; Paperboard",
		"tarif":       "450,50",
		"statut":      "Premium",
		"latitude":    45.75,
		"longitude":   "4.85",
	}

	trainer, err := NormalizeTrainer(raw)
	require.NoError(t, err)

	assert.Equal(t, "t-1", trainer.ID)
	assert.Equal(t, "Claire", trainer.FirstName)
	assert.Equal(t, "Claire Martin", trainer.FullName())
	assert.Equal(t, "69001", trainer.PostalCode)
	assert.Equal(t, []string{"Excel", "Word"}, trainer.Skills)
	assert.Equal(t, []string{"Projecteur", "Paperboard"}, trainer.Equipment)
	require.NotNil(t, trainer.Rate)
	assert.InDelta(t, 450.5, *trainer.Rate, 1e-9)
	assert.Equal(t, StatusPremium, trainer.Status)
	require.NotNil(t, trainer.Location)
	assert.Equal(t, GeoPoint{Lat: 45.75, Lon: 4.85}, *trainer.Location)
}

func TestNormalizeTrainer_Aliases(t *testing.T) {
	raw := map[string]any{
		"prenom": "Paul",
		"cp":     "75001",
		"tel":    "0611111111",
		"mail":   "paul@example.com",
		"notes":  "<p>ok</p>",
	}

	trainer, err := NormalizeTrainer(raw)
	require.NoError(t, err)

	assert.Equal(t, "75001", trainer.PostalCode)
	assert.Equal(t, "0611111111", trainer.Phone)
	assert.Equal(t, "paul@example.com", trainer.Email)
	assert.Equal(t, "<p>ok</p>", trainer.Note)
}

func TestNormalizeTrainer_PrefersFirstAlias(t *testing.T) {
	trainer, err := NormalizeTrainer(map[string]any{"codePostal": "69001", "code_postal": "13001"})
	require.NoError(t, err)
	assert.Equal(t, "69001", trainer.PostalCode)
}

func TestNormalizeTrainer_MissingStatusIsInactive(t *testing.T) {
	trainer, err := NormalizeTrainer(map[string]any{"nom": "Durand", "statut": "  "})
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, trainer.Status)
}

func TestNormalizeTrainer_UnknownStatus(t *testing.T) {
	_, err := NormalizeTrainer(map[string]any{"nom": "Durand", "statut": "Gold"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status")
}

func TestNormalizeTrainer_LocationRequiresBothCoordinates(t *testing.T) {
	trainer, err := NormalizeTrainer(map[string]any{"latitude": 48.85, "longitude": ""})
	require.NoError(t, err)
	assert.Nil(t, trainer.Location)
}

func TestNormalizeTrainer_ZeroCoordinatesArePresent(t *testing.T) {
	trainer, err := NormalizeTrainer(map[string]any{"latitude": 0.0, "longitude": 0.0})
	require.NoError(t, err)
	require.NotNil(t, trainer.Location)
	assert.Equal(t, GeoPoint{}, *trainer.Location)
}

func TestNormalizeTrainer_CoordinatesOutOfRange(t *testing.T) {
	_, err := NormalizeTrainer(map[string]any{"latitude": 120.0, "longitude": 2.0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestNormalizeTrainer_InvalidNumbersAreDropped(t *testing.T) {
	trainer, err := NormalizeTrainer(map[string]any{"tarif": "abc", "latitude": "NaN", "longitude": "2"})
	require.NoError(t, err)
	assert.Nil(t, trainer.Rate)
	assert.Nil(t, trainer.Location)
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusBlack.IsValid())
	assert.False(t, Status("premium").IsValid())
}
