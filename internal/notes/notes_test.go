package notes

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiterx/selfrealization-bot/internal/models"
	"github.com/quiterx/selfrealization-bot/internal/storage"
	"github.com/quiterx/selfrealization-bot/internal/tracker"
)

func newLedger(t *testing.T) (*Ledger, *clockwork.FakeClock) {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.CreateAccount(context.Background(), &models.Account{ID: 1, CreatedAt: 1}))
	require.NoError(t, db.CreateAccount(context.Background(), &models.Account{ID: 2, CreatedAt: 1}))

	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	return New(db, tracker.Calendar{Clock: clock, Location: time.UTC}), clock
}

func TestAdd_Validation(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	_, err := l.Add(ctx, 1, models.NotePlan, "   ")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = l.Add(ctx, 1, "diary", "text")
	assert.ErrorIs(t, err, ErrInvalidKind)

	list, err := l.Today(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestToday_NewestFirst(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	first, err := l.Add(ctx, 1, models.NotePlan, " run 5k ")
	require.NoError(t, err)
	assert.Equal(t, "run 5k", first.Text)
	assert.Equal(t, "2024-03-01", first.Day)
	_, err = l.Add(ctx, 1, models.NoteThought, "felt great")
	require.NoError(t, err)
	_, err = l.Add(ctx, 2, models.NotePlan, "other account")
	require.NoError(t, err)

	list, err := l.Today(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "felt great", list[0].Text)
	assert.Equal(t, models.NoteThought, list[0].Kind)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestHistory_GroupedByDay(t *testing.T) {
	l, clock := newLedger(t)
	ctx := context.Background()

	_, err := l.Add(ctx, 1, models.NotePlan, "old")
	require.NoError(t, err)
	clock.Advance(10 * 24 * time.Hour)
	_, err = l.Add(ctx, 1, models.NotePlan, "a")
	require.NoError(t, err)
	clock.Advance(24 * time.Hour)
	_, err = l.Add(ctx, 1, models.NotePlan, "b")
	require.NoError(t, err)
	_, err = l.Add(ctx, 1, models.NoteThought, "c")
	require.NoError(t, err)

	hist, err := l.History(ctx, 1, 7)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "2024-03-12", hist[0].Day)
	require.Len(t, hist[0].Notes, 2)
	assert.Equal(t, "c", hist[0].Notes[0].Text)
	assert.Equal(t, "b", hist[0].Notes[1].Text)
	assert.Equal(t, "2024-03-11", hist[1].Day)

	_, err = l.History(ctx, 1, 0)
	assert.ErrorIs(t, err, tracker.ErrInvalidDays)
}
