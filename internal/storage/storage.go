package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/quiterx/selfrealization-bot/internal/models"
)

//go:embed schema.sql
var ddl embed.FS

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

type DB struct{ *sql.DB }

func New(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, err
	}
	// One connection serialises every statement, so each single-statement
	// upsert below is atomic per (account, day) without extra locking.
	db.SetMaxOpenConns(1)
	if err = migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	b, err := ddl.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(string(b))
	return err
}

// ClearData deletes every tracked row of the account in one transaction.
// The account itself is kept.
func (d *DB) ClearData(ctx context.Context, accountID int64) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tables := []string{
		"calorie_events",
		"water_events",
		"activity_days",
		"weight_days",
		"notes",
		"statistics",
		"user_questions",
		"pending_inputs",
	}
	for _, tbl := range tables {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE account_id = ?", tbl),
			accountID,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// eventTable maps additive metrics to their event table.
func eventTable(m models.Metric) (string, error) {
	switch m {
	case models.MetricCalories:
		return "calorie_events", nil
	case models.MetricWater:
		return "water_events", nil
	}
	return "", fmt.Errorf("metric %q has no event table", m)
}

// limitColumn maps limit-based metrics to their accounts column.
func limitColumn(m models.Metric) (string, error) {
	switch m {
	case models.MetricCalories:
		return "calorie_limit", nil
	case models.MetricWater:
		return "water_limit", nil
	}
	return "", fmt.Errorf("metric %q has no limit", m)
}
