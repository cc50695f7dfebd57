package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quiterx/selfrealization-bot/internal/models"
)

// ---------- reference content ------------------------------------------------

// SeedContent inserts items only when the table is empty. It reports how many
// rows were written.
func (d *DB) SeedContent(ctx context.Context, items []models.ReferenceContent) (int, error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reference_content`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO reference_content (kind, category, question, text) VALUES (?,?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(ctx, string(it.Kind), it.Category, it.Question, it.Text); err != nil {
			return 0, err
		}
	}
	return len(items), tx.Commit()
}

// RandomContent picks one random row of kind; category "" matches any.
func (d *DB) RandomContent(ctx context.Context, kind models.ContentKind, category string) (*models.ReferenceContent, error) {
	var c models.ReferenceContent
	var k string
	err := d.QueryRowContext(ctx, `
        SELECT id, kind, category, question, text FROM reference_content
        WHERE kind = ? AND (? = '' OR category = ?)
        ORDER BY RANDOM() LIMIT 1`, string(kind), category, category,
	).Scan(&c.ID, &k, &c.Category, &c.Question, &c.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Kind = models.ContentKind(k)
	return &c, nil
}

// ListContent returns every row of kind ordered by category, then id.
func (d *DB) ListContent(ctx context.Context, kind models.ContentKind) ([]models.ReferenceContent, error) {
	rows, err := d.QueryContext(ctx, `
        SELECT id, kind, category, question, text FROM reference_content
        WHERE kind = ? ORDER BY category, id`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.ReferenceContent
	for rows.Next() {
		var (
			c models.ReferenceContent
			k string
		)
		if err := rows.Scan(&c.ID, &k, &c.Category, &c.Question, &c.Text); err != nil {
			return nil, err
		}
		c.Kind = models.ContentKind(k)
		res = append(res, c)
	}
	return res, rows.Err()
}

func (d *DB) GetContent(ctx context.Context, id int64, kind models.ContentKind) (*models.ReferenceContent, error) {
	var c models.ReferenceContent
	err := d.QueryRowContext(ctx, `
        SELECT id, category, question, text FROM reference_content
        WHERE id = ? AND kind = ?`, id, string(kind),
	).Scan(&c.ID, &c.Category, &c.Question, &c.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Kind = kind
	return &c, nil
}

func (d *DB) InsertUserQuestion(ctx context.Context, accountID int64, text string, createdAt int64) error {
	_, err := d.ExecContext(ctx,
		`INSERT INTO user_questions (account_id, text, created_at) VALUES (?,?,?)`,
		accountID, text, createdAt)
	return err
}

func (d *DB) CountUserQuestions(ctx context.Context, accountID int64) (int, error) {
	var n int
	err := d.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_questions WHERE account_id = ?`, accountID).Scan(&n)
	return n, err
}
