package storage

import (
	"context"
	"database/sql"
	"errors"
)

// ---------- weight -----------------------------------------------------------

// UpsertWeight stores value as the day's weight; the last write wins.
func (d *DB) UpsertWeight(ctx context.Context, accountID int64, day string, value float64) error {
	_, err := d.ExecContext(ctx, `
        INSERT INTO weight_days (account_id, day, value) VALUES (?,?,?)
        ON CONFLICT(account_id, day) DO UPDATE SET value = excluded.value
    `, accountID, day, value)
	return err
}

// GetWeight returns nil when nothing was recorded for the day.
func (d *DB) GetWeight(ctx context.Context, accountID int64, day string) (*float64, error) {
	var v float64
	err := d.QueryRowContext(ctx,
		`SELECT value FROM weight_days WHERE account_id=? AND day=?`, accountID, day).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (d *DB) DeleteWeight(ctx context.Context, accountID int64, day string) error {
	_, err := d.ExecContext(ctx, `DELETE FROM weight_days WHERE account_id=? AND day=?`, accountID, day)
	return err
}

func (d *DB) WeightByDay(ctx context.Context, accountID int64, fromDay string) (map[string]float64, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT day, value FROM weight_days WHERE account_id=? AND day >= ?`, accountID, fromDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[string]float64)
	for rows.Next() {
		var (
			day string
			v   float64
		)
		if err := rows.Scan(&day, &v); err != nil {
			return nil, err
		}
		res[day] = v
	}
	return res, rows.Err()
}
