package storage

import (
	"context"
	"fmt"

	"github.com/quiterx/selfrealization-bot/internal/models"
)

// ---------- calorie / water events -------------------------------------------

func (d *DB) AddEvent(ctx context.Context, m models.Metric, accountID int64, day string, amount int, loggedAt int64) error {
	tbl, err := eventTable(m)
	if err != nil {
		return err
	}
	_, err = d.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (account_id, day, amount, logged_at) VALUES (?,?,?,?)`, tbl),
		accountID, day, amount, loggedAt)
	return err
}

// SumEvents returns the total amount logged for day.
func (d *DB) SumEvents(ctx context.Context, m models.Metric, accountID int64, day string) (int, error) {
	tbl, err := eventTable(m)
	if err != nil {
		return 0, err
	}
	var sum int
	err = d.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COALESCE(SUM(amount), 0) FROM %s WHERE account_id = ? AND day = ?`, tbl),
		accountID, day).Scan(&sum)
	return sum, err
}

// SumEventsSince returns the total amount logged at or after the unix time since.
func (d *DB) SumEventsSince(ctx context.Context, m models.Metric, accountID int64, since int64) (int, error) {
	tbl, err := eventTable(m)
	if err != nil {
		return 0, err
	}
	var sum int
	err = d.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COALESCE(SUM(amount), 0) FROM %s WHERE account_id = ? AND logged_at >= ?`, tbl),
		accountID, since).Scan(&sum)
	return sum, err
}

func (d *DB) DeleteEvents(ctx context.Context, m models.Metric, accountID int64, day string) error {
	tbl, err := eventTable(m)
	if err != nil {
		return err
	}
	_, err = d.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE account_id = ? AND day = ?`, tbl),
		accountID, day)
	return err
}

// SumEventsByDay returns per-day totals for days >= fromDay. Days without
// events are absent from the map.
func (d *DB) SumEventsByDay(ctx context.Context, m models.Metric, accountID int64, fromDay string) (map[string]int, error) {
	tbl, err := eventTable(m)
	if err != nil {
		return nil, err
	}
	rows, err := d.QueryContext(ctx,
		fmt.Sprintf(`SELECT day, SUM(amount) FROM %s WHERE account_id = ? AND day >= ? GROUP BY day`, tbl),
		accountID, fromDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[string]int)
	for rows.Next() {
		var (
			day string
			sum int
		)
		if err := rows.Scan(&day, &sum); err != nil {
			return nil, err
		}
		res[day] = sum
	}
	return res, rows.Err()
}
