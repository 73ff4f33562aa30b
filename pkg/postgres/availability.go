package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/trainer-directory/pkg/db"
)

const dayLayout = "2006-01-02"

// GetAvailability returns the trainer's availability rows between from and to, both inclusive
func (d *DB) GetAvailability(ctx context.Context, trainerID, from, to string) ([]db.AvailabilityRecord, error) {
	defer observeDB(ctx, "db.get_availability")()

	rows, err := d.pool.Query(ctx, `
		SELECT trainer_id, day, state, updated_at
		FROM availability
		WHERE trainer_id = $1 AND day BETWEEN $2::date AND $3::date
		ORDER BY day
	`, trainerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	var records []db.AvailabilityRecord
	for rows.Next() {
		rec, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating availability: %w", err)
	}

	return records, nil
}

// UpsertAvailability writes the record and advances the trainer's last update time
func (d *DB) UpsertAvailability(ctx context.Context, record db.AvailabilityRecord) (*db.AvailabilityRecord, error) {
	defer observeDB(ctx, "db.upsert_availability")()

	var saved *db.AvailabilityRecord
	err := d.withTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO availability (trainer_id, day, state, updated_at)
			VALUES ($1, $2::date, $3, $4)
			ON CONFLICT (trainer_id, day)
			DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at
			RETURNING trainer_id, day, state, updated_at
		`, record.TrainerID, record.Day, record.State, record.UpdatedAt)

		var err error
		saved, err = scanAvailability(row)
		if err != nil {
			return err
		}

		return touchAvailability(ctx, tx, record.TrainerID, record.UpdatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert availability for %s on %s: %w", record.TrainerID, record.Day, err)
	}

	return saved, nil
}

// DeleteAvailability removes the record for day. Deleting a missing record is not an error.
func (d *DB) DeleteAvailability(ctx context.Context, trainerID, day string, at time.Time) error {
	defer observeDB(ctx, "db.delete_availability")()

	err := d.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			DELETE FROM availability WHERE trainer_id = $1 AND day = $2::date
		`, trainerID, day); err != nil {
			return err
		}
		return touchAvailability(ctx, tx, trainerID, at)
	})
	if err != nil {
		return fmt.Errorf("failed to delete availability for %s on %s: %w", trainerID, day, err)
	}

	return nil
}

// GetAvailabilityUpdatedAt returns the trainer's last availability write, nil if there was none
func (d *DB) GetAvailabilityUpdatedAt(ctx context.Context, trainerID string) (*time.Time, error) {
	defer observeDB(ctx, "db.get_availability_updated_at")()

	var updatedAt *time.Time
	err := d.pool.QueryRow(ctx, `
		SELECT availability_updated_at FROM trainers WHERE id = $1
	`, trainerID).Scan(&updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query availability update time: %w", err)
	}

	return updatedAt, nil
}

// touchAvailability moves availability_updated_at forward to at, never backwards
func touchAvailability(ctx context.Context, tx pgx.Tx, trainerID string, at time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE trainers
		SET availability_updated_at = GREATEST(availability_updated_at, $2)
		WHERE id = $1
	`, trainerID, at)
	if err != nil {
		return fmt.Errorf("failed to update availability timestamp: %w", err)
	}
	return nil
}

func scanAvailability(row pgx.Row) (*db.AvailabilityRecord, error) {
	var rec db.AvailabilityRecord
	var day time.Time
	if err := row.Scan(&rec.TrainerID, &day, &rec.State, &rec.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan availability: %w", err)
	}
	rec.Day = day.Format(dayLayout)
	return &rec, nil
}
