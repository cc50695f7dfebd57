package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/quiterx/selfrealization-bot/internal/models"
)

// ---------- statistics -------------------------------------------------------

// ApplyStats merges delta into the (account, day) statistics row in a single
// upsert. A new row starts with every counter at 0.
func (d *DB) ApplyStats(ctx context.Context, delta models.StatsDelta) error {
	fields := []struct {
		col string
		val *int
	}{
		{"calories_consumed", delta.CaloriesConsumed},
		{"water_consumed", delta.WaterConsumed},
		{"steps_taken", delta.StepsTaken},
		{"workouts_completed", delta.WorkoutsCompleted},
	}

	var (
		cols    []string
		holders []string
		sets    []string
		args    = []any{delta.AccountID, delta.Day}
	)
	for _, f := range fields {
		if f.val == nil {
			continue
		}
		cols = append(cols, f.col)
		holders = append(holders, "?")
		args = append(args, *f.val)
		if delta.Overwrite {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", f.col, f.col))
		} else {
			sets = append(sets, fmt.Sprintf("%s = %s + excluded.%s", f.col, f.col, f.col))
		}
	}
	if len(cols) == 0 {
		return nil
	}

	q := fmt.Sprintf(`
        INSERT INTO statistics (account_id, day, %s) VALUES (?, ?, %s)
        ON CONFLICT(account_id, day) DO UPDATE SET %s`,
		strings.Join(cols, ", "), strings.Join(holders, ", "), strings.Join(sets, ", "))
	_, err := d.ExecContext(ctx, q, args...)
	return err
}

// StatsByDay returns statistics rows for days >= fromDay keyed by day.
func (d *DB) StatsByDay(ctx context.Context, accountID int64, fromDay string) (map[string]models.DayStats, error) {
	rows, err := d.QueryContext(ctx, `
        SELECT day, calories_consumed, water_consumed, steps_taken, workouts_completed
        FROM statistics WHERE account_id = ? AND day >= ?`, accountID, fromDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[string]models.DayStats)
	for rows.Next() {
		var s models.DayStats
		if err := rows.Scan(&s.Day, &s.CaloriesConsumed, &s.WaterConsumed, &s.StepsTaken, &s.WorkoutsCompleted); err != nil {
			return nil, err
		}
		res[s.Day] = s
	}
	return res, rows.Err()
}
