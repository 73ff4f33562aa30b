package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/trainer-directory/pkg/db"
)

const trainerColumns = `id, first_name, last_name, city, postal_code, address, email, phone,
	skills, equipment, rate, status, note, latitude, longitude`

// GetTrainers returns every trainer ordered by name
func (d *DB) GetTrainers(ctx context.Context) ([]db.Trainer, error) {
	defer observeDB(ctx, "db.get_trainers")()

	rows, err := d.pool.Query(ctx, `
		SELECT `+trainerColumns+`
		FROM trainers
		ORDER BY last_name, first_name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trainers: %w", err)
	}
	defer rows.Close()

	var trainers []db.Trainer
	for rows.Next() {
		t, err := scanTrainer(rows)
		if err != nil {
			return nil, err
		}
		trainers = append(trainers, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trainers: %w", err)
	}

	return trainers, nil
}

// GetTrainer returns the trainer with id, or nil if it does not exist
func (d *DB) GetTrainer(ctx context.Context, id string) (*db.Trainer, error) {
	defer observeDB(ctx, "db.get_trainer")()

	row := d.pool.QueryRow(ctx, `SELECT `+trainerColumns+` FROM trainers WHERE id = $1`, id)
	t, err := scanTrainer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpsertTrainers inserts or updates trainers in a single transaction.
// Availability and its last update time are left untouched.
func (d *DB) UpsertTrainers(ctx context.Context, trainers []db.Trainer) error {
	if len(trainers) == 0 {
		return nil
	}
	defer observeDB(ctx, "db.upsert_trainers")()

	return d.withTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, t := range trainers {
			batch.Queue(`
				INSERT INTO trainers (`+trainerColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
				ON CONFLICT (id) DO UPDATE SET
					first_name = EXCLUDED.first_name,
					last_name = EXCLUDED.last_name,
					city = EXCLUDED.city,
					postal_code = EXCLUDED.postal_code,
					address = EXCLUDED.address,
					email = EXCLUDED.email,
					phone = EXCLUDED.phone,
					skills = EXCLUDED.skills,
					equipment = EXCLUDED.equipment,
					rate = EXCLUDED.rate,
					status = EXCLUDED.status,
					note = EXCLUDED.note,
					latitude = EXCLUDED.latitude,
					longitude = EXCLUDED.longitude,
					updated_at = NOW()
			`, t.ID, t.FirstName, t.LastName, t.City, t.PostalCode, t.Address, t.Email, t.Phone,
				nonNil(t.Skills), nonNil(t.Equipment), t.Rate, t.Status, t.Note, t.Latitude, t.Longitude)
		}

		results := tx.SendBatch(ctx, batch)
		for _, t := range trainers {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to upsert trainer %s: %w", t.ID, err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to close trainer batch: %w", err)
		}
		return nil
	})
}

// DeleteTrainer removes the trainer and, by cascade, their availability
func (d *DB) DeleteTrainer(ctx context.Context, id string) error {
	defer observeDB(ctx, "db.delete_trainer")()

	if _, err := d.pool.Exec(ctx, `DELETE FROM trainers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete trainer %s: %w", id, err)
	}
	return nil
}

func scanTrainer(row pgx.Row) (*db.Trainer, error) {
	var t db.Trainer
	err := row.Scan(&t.ID, &t.FirstName, &t.LastName, &t.City, &t.PostalCode, &t.Address, &t.Email, &t.Phone,
		&t.Skills, &t.Equipment, &t.Rate, &t.Status, &t.Note, &t.Latitude, &t.Longitude)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan trainer: %w", err)
	}
	return &t, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
