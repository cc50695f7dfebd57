package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quiterx/selfrealization-bot/internal/models"
)

// ---------- pending input (fsm) ----------------------------------------------

// SetPending stores the account's expected next input; PendingNone clears it.
func (d *DB) SetPending(ctx context.Context, accountID int64, p models.Pending) error {
	if p == models.PendingNone {
		_, err := d.ExecContext(ctx, `DELETE FROM pending_inputs WHERE account_id=?`, accountID)
		return err
	}
	_, err := d.ExecContext(ctx, `
        INSERT INTO pending_inputs(account_id, kind) VALUES (?,?)
        ON CONFLICT(account_id) DO UPDATE SET kind=excluded.kind`, accountID, string(p))
	return err
}

func (d *DB) GetPending(ctx context.Context, accountID int64) (models.Pending, error) {
	var st string
	err := d.QueryRowContext(ctx, `SELECT kind FROM pending_inputs WHERE account_id=?`, accountID).Scan(&st)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PendingNone, nil
	}
	return models.Pending(st), err
}
