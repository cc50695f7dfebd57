// Package notes is the append-only plans & thoughts journal.
package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quiterx/selfrealization-bot/internal/models"
	"github.com/quiterx/selfrealization-bot/internal/tracker"
)

var (
	ErrEmptyText   = errors.New("note text is empty")
	ErrInvalidKind = errors.New("unknown note kind")
)

type Store interface {
	InsertNote(ctx context.Context, n *models.Note) (int64, error)
	NotesForDay(ctx context.Context, accountID int64, day string) ([]models.Note, error)
	NotesSince(ctx context.Context, accountID int64, fromDay string) ([]models.Note, error)
}

// DayNotes groups one day's notes, newest first.
type DayNotes struct {
	Day   string        `json:"day"`
	Notes []models.Note `json:"notes"`
}

type Ledger struct {
	store Store
	cal   tracker.Calendar
}

func New(store Store, cal tracker.Calendar) *Ledger {
	return &Ledger{store: store, cal: cal}
}

// Add appends a note for today. Surrounding whitespace is trimmed.
func (l *Ledger) Add(ctx context.Context, accountID int64, kind models.NoteKind, text string) (*models.Note, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	n := &models.Note{
		AccountID: accountID,
		Day:       l.cal.Today(),
		Kind:      kind,
		Text:      text,
		CreatedAt: l.cal.Now().Unix(),
	}
	id, err := l.store.InsertNote(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	n.ID = id
	return n, nil
}

func (l *Ledger) Today(ctx context.Context, accountID int64) ([]models.Note, error) {
	list, err := l.store.NotesForDay(ctx, accountID, l.cal.Today())
	if err != nil {
		return nil, fmt.Errorf("today notes: %w", err)
	}
	return list, nil
}

// History returns the notes of the last days days grouped by date, newest
// date first. Days without notes are omitted.
func (l *Ledger) History(ctx context.Context, accountID int64, days int) ([]DayNotes, error) {
	if days <= 0 {
		return nil, tracker.ErrInvalidDays
	}
	keys := l.cal.LastDays(days)
	list, err := l.store.NotesSince(ctx, accountID, keys[len(keys)-1])
	if err != nil {
		return nil, fmt.Errorf("notes history: %w", err)
	}
	var res []DayNotes
	for _, n := range list {
		if len(res) == 0 || res[len(res)-1].Day != n.Day {
			res = append(res, DayNotes{Day: n.Day})
		}
		last := &res[len(res)-1]
		last.Notes = append(last.Notes, n)
	}
	return res, nil
}
