package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quiterx/selfrealization-bot/internal/models"
)

// ---------- activity ---------------------------------------------------------

// AddSteps increments the day's steps, creating the row if absent.
func (d *DB) AddSteps(ctx context.Context, accountID int64, day string, steps int) error {
	_, err := d.ExecContext(ctx, `
        INSERT INTO activity_days (account_id, day, steps) VALUES (?,?,?)
        ON CONFLICT(account_id, day) DO UPDATE SET steps = steps + excluded.steps
    `, accountID, day, steps)
	return err
}

// MarkWorkout flags the day's workout, creating the row if absent.
func (d *DB) MarkWorkout(ctx context.Context, accountID int64, day string) error {
	_, err := d.ExecContext(ctx, `
        INSERT INTO activity_days (account_id, day, workout) VALUES (?,?,1)
        ON CONFLICT(account_id, day) DO UPDATE SET workout = 1
    `, accountID, day)
	return err
}

// GetActivity returns zero values when no row exists for the day.
func (d *DB) GetActivity(ctx context.Context, accountID int64, day string) (models.ActivitySnapshot, error) {
	var s models.ActivitySnapshot
	err := d.QueryRowContext(ctx, `
        SELECT steps, workout FROM activity_days WHERE account_id=? AND day=?`,
		accountID, day,
	).Scan(&s.Steps, &s.Workout)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ActivitySnapshot{}, nil
	}
	return s, err
}

func (d *DB) DeleteActivity(ctx context.Context, accountID int64, day string) error {
	_, err := d.ExecContext(ctx, `DELETE FROM activity_days WHERE account_id=? AND day=?`, accountID, day)
	return err
}

func (d *DB) ActivityByDay(ctx context.Context, accountID int64, fromDay string) (map[string]models.ActivitySnapshot, error) {
	rows, err := d.QueryContext(ctx, `
        SELECT day, steps, workout FROM activity_days WHERE account_id=? AND day >= ?`,
		accountID, fromDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[string]models.ActivitySnapshot)
	for rows.Next() {
		var (
			day string
			s   models.ActivitySnapshot
		)
		if err := rows.Scan(&day, &s.Steps, &s.Workout); err != nil {
			return nil, err
		}
		res[day] = s
	}
	return res, rows.Err()
}
