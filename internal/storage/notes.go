package storage

import (
	"context"
	"database/sql"

	"github.com/quiterx/selfrealization-bot/internal/models"
)

// ---------- notes ------------------------------------------------------------

func (d *DB) InsertNote(ctx context.Context, n *models.Note) (int64, error) {
	res, err := d.ExecContext(ctx, `
        INSERT INTO notes (account_id, day, kind, text, created_at) VALUES (?,?,?,?,?)
    `, n.AccountID, n.Day, string(n.Kind), n.Text, n.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// NotesForDay returns the day's notes, newest first.
func (d *DB) NotesForDay(ctx context.Context, accountID int64, day string) ([]models.Note, error) {
	rows, err := d.QueryContext(ctx, `
        SELECT id, account_id, day, kind, text, created_at
        FROM notes WHERE account_id = ? AND day = ?
        ORDER BY id DESC`, accountID, day)
	if err != nil {
		return nil, err
	}
	return scanNotes(rows)
}

// NotesSince returns notes for days >= fromDay, newest day first and newest
// note first within a day.
func (d *DB) NotesSince(ctx context.Context, accountID int64, fromDay string) ([]models.Note, error) {
	rows, err := d.QueryContext(ctx, `
        SELECT id, account_id, day, kind, text, created_at
        FROM notes WHERE account_id = ? AND day >= ?
        ORDER BY day DESC, id DESC`, accountID, fromDay)
	if err != nil {
		return nil, err
	}
	return scanNotes(rows)
}

func (d *DB) DeleteNote(ctx context.Context, id int64) error {
	res, err := d.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanNotes(rows *sql.Rows) ([]models.Note, error) {
	defer rows.Close()
	var res []models.Note
	for rows.Next() {
		var (
			n    models.Note
			kind string
		)
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Day, &kind, &n.Text, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Kind = models.NoteKind(kind)
		res = append(res, n)
	}
	return res, rows.Err()
}
