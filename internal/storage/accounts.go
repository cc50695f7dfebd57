package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/quiterx/selfrealization-bot/internal/models"
)

// CreateAccount inserts a with default limits; an existing account is left untouched.
func (d *DB) CreateAccount(ctx context.Context, a *models.Account) error {
	_, err := d.ExecContext(ctx, `
        INSERT INTO accounts (id, username, first_name, last_name, calorie_limit, water_limit, created_at)
        VALUES (?,?,?,?,?,?,?)
        ON CONFLICT(id) DO NOTHING
    `, a.ID, a.Username, a.FirstName, a.LastName,
		models.DefaultCalorieLimit, models.DefaultWaterLimit, a.CreatedAt)
	return err
}

// GetAccount returns nil, nil when the account does not exist.
func (d *DB) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	var a models.Account

	err := d.QueryRowContext(ctx, `
        SELECT id, username, first_name, last_name, calorie_limit, water_limit, reminders_on, created_at
        FROM accounts WHERE id=?`, id,
	).Scan(&a.ID, &a.Username, &a.FirstName, &a.LastName,
		&a.CalorieLimit, &a.WaterLimit, &a.RemindersOn, &a.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SetLimit updates the calorie or water limit of an account.
func (d *DB) SetLimit(ctx context.Context, id int64, m models.Metric, value int) error {
	col, err := limitColumn(m)
	if err != nil {
		return err
	}
	res, err := d.ExecContext(ctx, fmt.Sprintf(`UPDATE accounts SET %s = ? WHERE id = ?`, col), value, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) SetRemindersOn(ctx context.Context, id int64, on bool) error {
	_, err := d.ExecContext(ctx, `UPDATE accounts SET reminders_on = ? WHERE id = ?`, on, id)
	return err
}

// ListReminderAccounts returns ids of accounts whose reminders were running.
func (d *DB) ListReminderAccounts(ctx context.Context) ([]int64, error) {
	rows, err := d.QueryContext(ctx, `SELECT id FROM accounts WHERE reminders_on = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		res = append(res, id)
	}
	return res, rows.Err()
}
