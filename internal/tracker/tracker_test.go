package tracker

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiterx/selfrealization-bot/internal/models"
	"github.com/quiterx/selfrealization-bot/internal/storage"
)

type recorder struct {
	mu     sync.Mutex
	deltas []models.StatsDelta
}

func (r *recorder) Record(d models.StatsDelta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deltas = append(r.deltas, d)
}

func (r *recorder) all() []models.StatsDelta {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.StatsDelta(nil), r.deltas...)
}

type fixture struct {
	db    *storage.DB
	clock *clockwork.FakeClock
	cal   Calendar
	rec   *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	loc := time.FixedZone("MSK", 3*60*60)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 10, 12, 0, 0, 0, loc))
	require.NoError(t, db.CreateAccount(context.Background(), &models.Account{ID: 1, Username: "u", CreatedAt: clock.Now().Unix()}))

	return &fixture{
		db:    db,
		clock: clock,
		cal:   Calendar{Clock: clock, Location: loc},
		rec:   &recorder{},
	}
}

func TestCalories_AddAndToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := NewCalories(f.db, f.rec, f.cal)

	snap, err := c.Today(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.BudgetSnapshot{Limit: 2000, Left: 2000}, snap)

	require.NoError(t, c.Add(ctx, 1, 500))
	require.NoError(t, c.Add(ctx, 1, 300))

	snap, err = c.Today(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1200, snap.Left)

	deltas := f.rec.all()
	require.Len(t, deltas, 2)
	assert.Equal(t, "2024-05-10", deltas[0].Day)
	require.NotNil(t, deltas[0].CaloriesConsumed)
	assert.Equal(t, 500, *deltas[0].CaloriesConsumed)
	assert.Nil(t, deltas[0].WaterConsumed)
	assert.False(t, deltas[0].Overwrite)
}

func TestCalories_LeftNeverNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := NewCalories(f.db, f.rec, f.cal)

	require.NoError(t, c.Add(ctx, 1, 2500))
	snap, err := c.Today(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Left)
}

func TestCalories_InvalidAmount(t *testing.T) {
	f := newFixture(t)
	c := NewCalories(f.db, f.rec, f.cal)

	assert.ErrorIs(t, c.Add(context.Background(), 1, 0), ErrInvalidAmount)
	assert.ErrorIs(t, c.Add(context.Background(), 1, -10), ErrInvalidAmount)
	assert.ErrorIs(t, c.SetLimit(context.Background(), 1, 0), ErrInvalidAmount)
	assert.Empty(t, f.rec.all())
}

func TestCalories_ResetRestoresLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := NewCalories(f.db, f.rec, f.cal)

	require.NoError(t, c.Add(ctx, 1, 700))
	require.NoError(t, c.Reset(ctx, 1))

	snap, err := c.Today(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, snap.Limit, snap.Left)

	deltas := f.rec.all()
	last := deltas[len(deltas)-1]
	assert.True(t, last.Overwrite)
	require.NotNil(t, last.CaloriesConsumed)
	assert.Equal(t, 0, *last.CaloriesConsumed)
}

func TestCalories_DayRollover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := NewCalories(f.db, f.rec, f.cal)

	require.NoError(t, c.Add(ctx, 1, 900))
	f.clock.Advance(12 * time.Hour)

	snap, err := c.Today(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2000, snap.Left)
}

func TestCalories_SetLimitAffectsLeft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := NewCalories(f.db, f.rec, f.cal)

	require.NoError(t, c.Add(ctx, 1, 400))
	require.NoError(t, c.SetLimit(ctx, 1, 1800))

	snap, err := c.Today(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.BudgetSnapshot{Limit: 1800, Left: 1400}, snap)
}

func TestBudget_UnknownAccountUsesDefault(t *testing.T) {
	f := newFixture(t)
	w := NewWater(f.db, f.rec, f.cal)

	snap, err := w.Today(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultWaterLimit, snap.Limit)
}

func TestBudget_History(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := NewCalories(f.db, f.rec, f.cal)

	require.NoError(t, c.Add(ctx, 1, 100))
	f.clock.Advance(24 * time.Hour)
	require.NoError(t, c.Add(ctx, 1, 250))
	require.NoError(t, c.Add(ctx, 1, 50))

	hist, err := c.History(ctx, 1, 7)
	require.NoError(t, err)
	require.Len(t, hist, 7)

	assert.Equal(t, models.BudgetDay{Day: "2024-05-11", Limit: 2000, Consumed: 300}, hist[0])
	assert.Equal(t, models.BudgetDay{Day: "2024-05-10", Limit: 2000, Consumed: 100}, hist[1])
	for _, d := range hist[2:] {
		assert.Zero(t, d.Consumed)
	}
	assert.Equal(t, "2024-05-05", hist[6].Day)

	_, err = c.History(ctx, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidDays)
}

func TestWater_IndependentFromCalories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := NewCalories(f.db, f.rec, f.cal)
	w := NewWater(f.db, f.rec, f.cal)

	require.NoError(t, w.Add(ctx, 1, 250))

	cs, err := c.Today(ctx, 1)
	require.NoError(t, err)
	ws, err := w.Today(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2000, cs.Left)
	assert.Equal(t, 1750, ws.Left)

	deltas := f.rec.all()
	require.Len(t, deltas, 1)
	require.NotNil(t, deltas[0].WaterConsumed)
	assert.Nil(t, deltas[0].CaloriesConsumed)
}

func TestWater_ConsumedWithin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := NewWater(f.db, f.rec, f.cal)

	require.NoError(t, w.Add(ctx, 1, 300))
	f.clock.Advance(3 * time.Hour)
	require.NoError(t, w.Add(ctx, 1, 100))

	sum, err := w.ConsumedWithin(ctx, 1, 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 100, sum)
}

func TestCalories_ConcurrentAdds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := NewCalories(f.db, f.rec, f.cal)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Add(ctx, 1, 10))
		}()
	}
	wg.Wait()

	snap, err := c.Today(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1900, snap.Left)
}

func TestActivity_StepsAndWorkout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := NewActivity(f.db, f.rec, f.cal)

	require.NoError(t, a.AddSteps(ctx, 1, 3000))
	require.NoError(t, a.AddSteps(ctx, 1, 1500))
	require.NoError(t, a.MarkWorkout(ctx, 1))
	require.NoError(t, a.MarkWorkout(ctx, 1))

	snap, err := a.Today(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ActivitySnapshot{Steps: 4500, Workout: true}, snap)

	assert.ErrorIs(t, a.AddSteps(ctx, 1, 0), ErrInvalidAmount)

	deltas := f.rec.all()
	require.Len(t, deltas, 4)
	assert.True(t, deltas[3].Overwrite)
	assert.Equal(t, 1, *deltas[3].WorkoutsCompleted)
}

func TestActivity_ResetAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := NewActivity(f.db, f.rec, f.cal)

	require.NoError(t, a.AddSteps(ctx, 1, 1000))
	f.clock.Advance(24 * time.Hour)
	require.NoError(t, a.AddSteps(ctx, 1, 2000))
	require.NoError(t, a.Reset(ctx, 1))

	snap, err := a.Today(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, snap)

	hist, err := a.History(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, models.ActivityDay{Day: "2024-05-11"}, hist[0])
	assert.Equal(t, models.ActivityDay{Day: "2024-05-10", Steps: 1000}, hist[1])

	deltas := f.rec.all()
	last := deltas[len(deltas)-1]
	assert.True(t, last.Overwrite)
	assert.Equal(t, 0, *last.StepsTaken)
	assert.Equal(t, 0, *last.WorkoutsCompleted)
}

func TestWeight_LatestWinsAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := NewWeight(f.db, f.cal)

	v, err := w.Today(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, w.Add(ctx, 1, 80.5))
	require.NoError(t, w.Add(ctx, 1, 79.9))

	v, err = w.Today(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.InDelta(t, 79.9, *v, 0.001)

	assert.ErrorIs(t, w.Add(ctx, 1, 0), ErrInvalidAmount)

	f.clock.Advance(48 * time.Hour)
	hist, err := w.History(ctx, 1, DefaultWeightHistoryDays)
	require.NoError(t, err)
	require.Len(t, hist, DefaultWeightHistoryDays)
	assert.Nil(t, hist[0].Value)
	assert.Nil(t, hist[1].Value)
	require.NotNil(t, hist[2].Value)
	assert.Equal(t, "2024-05-10", hist[2].Day)

	require.NoError(t, w.Add(ctx, 1, 81))
	require.NoError(t, w.Reset(ctx, 1))
	v, err = w.Today(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, v)
}

// persistStats applies every recorded delta in order and returns the
// statistics row of today for accountID.
func (f *fixture) persistStats(t *testing.T, accountID int64) models.DayStats {
	t.Helper()
	ctx := context.Background()
	for _, d := range f.rec.all() {
		require.NoError(t, f.db.ApplyStats(ctx, d))
	}
	f.rec.mu.Lock()
	f.rec.deltas = nil
	f.rec.mu.Unlock()

	rows, err := f.db.StatsByDay(ctx, accountID, f.cal.Today())
	require.NoError(t, err)
	return rows[f.cal.Today()]
}

func (f *fixture) addAccount(t *testing.T, id int64) {
	t.Helper()
	require.NoError(t, f.db.CreateAccount(context.Background(), &models.Account{ID: id, CreatedAt: f.clock.Now().Unix()}))
}

func TestBudget_ResetTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAccount(t, 2)
	w := NewWater(f.db, f.rec, f.cal)

	for _, id := range []int64{1, 2} {
		require.NoError(t, w.Add(ctx, id, 300))
		require.NoError(t, w.Reset(ctx, id))
	}
	require.NoError(t, w.Reset(ctx, 2))

	once, err := w.Today(ctx, 1)
	require.NoError(t, err)
	twice, err := w.Today(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
	assert.Equal(t, models.BudgetSnapshot{Limit: 2000, Left: 2000}, twice)

	s1, s2 := f.persistStats(t, 1), f.persistStats(t, 2)
	assert.Equal(t, s1, s2)
	assert.Zero(t, s2.WaterConsumed)
}

func TestActivity_ResetTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAccount(t, 2)
	a := NewActivity(f.db, f.rec, f.cal)

	for _, id := range []int64{1, 2} {
		require.NoError(t, a.AddSteps(ctx, id, 5000))
		require.NoError(t, a.MarkWorkout(ctx, id))
		require.NoError(t, a.Reset(ctx, id))
	}
	require.NoError(t, a.Reset(ctx, 2))

	once, err := a.Today(ctx, 1)
	require.NoError(t, err)
	twice, err := a.Today(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
	assert.Zero(t, twice)

	s1, s2 := f.persistStats(t, 1), f.persistStats(t, 2)
	assert.Equal(t, s1, s2)
	assert.Zero(t, s2.StepsTaken)
	assert.Zero(t, s2.WorkoutsCompleted)
}

func TestWeight_ResetTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAccount(t, 2)
	w := NewWeight(f.db, f.cal)

	for _, id := range []int64{1, 2} {
		require.NoError(t, w.Add(ctx, id, 72.4))
		require.NoError(t, w.Reset(ctx, id))
	}
	require.NoError(t, w.Reset(ctx, 2))

	once, err := w.Today(ctx, 1)
	require.NoError(t, err)
	twice, err := w.Today(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, once)
	assert.Nil(t, twice)
	assert.Equal(t, f.persistStats(t, 1), f.persistStats(t, 2))
}

// History rows carry the limit in force now, not the one of their day.
func TestBudget_HistoryUsesCurrentLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := NewCalories(f.db, f.rec, f.cal)

	require.NoError(t, c.Add(ctx, 1, 100))
	f.clock.Advance(24 * time.Hour)
	require.NoError(t, c.SetLimit(ctx, 1, 1500))

	hist, err := c.History(ctx, 1, DefaultHistoryDays)
	require.NoError(t, err)
	require.Len(t, hist, DefaultHistoryDays)
	for _, d := range hist {
		assert.Equal(t, 1500, d.Limit, d.Day)
	}
	assert.Equal(t, models.BudgetDay{Day: "2024-05-10", Limit: 1500, Consumed: 100}, hist[1])
	assert.Zero(t, hist[0].Consumed)
}
