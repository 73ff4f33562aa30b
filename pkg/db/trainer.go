package db

import "github.com/jakechorley/trainer-directory/pkg/core/model"

// ToModel converts a database trainer row into the domain model
func (t Trainer) ToModel() model.Trainer {
	trainer := model.Trainer{
		ID:         t.ID,
		FirstName:  t.FirstName,
		LastName:   t.LastName,
		City:       t.City,
		PostalCode: t.PostalCode,
		Address:    t.Address,
		Email:      t.Email,
		Phone:      t.Phone,
		Skills:     t.Skills,
		Equipment:  t.Equipment,
		Rate:       t.Rate,
		Status:     model.Status(t.Status),
		Note:       t.Note,
	}
	if t.Latitude != nil && t.Longitude != nil {
		trainer.Location = &model.GeoPoint{Lat: *t.Latitude, Lon: *t.Longitude}
	}
	return trainer
}

// TrainerFromModel converts a domain trainer into a database row
func TrainerFromModel(t model.Trainer) Trainer {
	row := Trainer{
		ID:         t.ID,
		FirstName:  t.FirstName,
		LastName:   t.LastName,
		City:       t.City,
		PostalCode: t.PostalCode,
		Address:    t.Address,
		Email:      t.Email,
		Phone:      t.Phone,
		Skills:     t.Skills,
		Equipment:  t.Equipment,
		Rate:       t.Rate,
		Status:     string(t.Status),
		Note:       t.Note,
	}
	if t.Location != nil {
		lat, lon := t.Location.Lat, t.Location.Lon
		row.Latitude = &lat
		row.Longitude = &lon
	}
	return row
}

// TrainersToModel converts a list of rows
func TrainersToModel(rows []Trainer) []model.Trainer {
	trainers := make([]model.Trainer, len(rows))
	for i, row := range rows {
		trainers[i] = row.ToModel()
	}
	return trainers
}
