package tracker

import (
	"context"
	"fmt"

	"github.com/quiterx/selfrealization-bot/internal/models"
)

type ActivityStore interface {
	AddSteps(ctx context.Context, accountID int64, day string, steps int) error
	MarkWorkout(ctx context.Context, accountID int64, day string) error
	GetActivity(ctx context.Context, accountID int64, day string) (models.ActivitySnapshot, error)
	DeleteActivity(ctx context.Context, accountID int64, day string) error
	ActivityByDay(ctx context.Context, accountID int64, fromDay string) (map[string]models.ActivitySnapshot, error)
}

// Activity keeps one row per day with incremented steps and a workout flag.
type Activity struct {
	store ActivityStore
	stats Recorder
	cal   Calendar
}

func NewActivity(store ActivityStore, stats Recorder, cal Calendar) *Activity {
	return &Activity{store: store, stats: stats, cal: cal}
}

func (a *Activity) Today(ctx context.Context, accountID int64) (models.ActivitySnapshot, error) {
	s, err := a.store.GetActivity(ctx, accountID, a.cal.Today())
	if err != nil {
		return models.ActivitySnapshot{}, fmt.Errorf("get activity: %w", err)
	}
	return s, nil
}

func (a *Activity) AddSteps(ctx context.Context, accountID int64, steps int) error {
	if steps <= 0 {
		return ErrInvalidAmount
	}
	day := a.cal.Today()
	if err := a.store.AddSteps(ctx, accountID, day, steps); err != nil {
		return fmt.Errorf("add steps: %w", err)
	}
	a.stats.Record(models.StatsDelta{AccountID: accountID, Day: day, StepsTaken: intp(steps)})
	return nil
}

// MarkWorkout flags today's workout. Marking twice is harmless.
func (a *Activity) MarkWorkout(ctx context.Context, accountID int64) error {
	day := a.cal.Today()
	if err := a.store.MarkWorkout(ctx, accountID, day); err != nil {
		return fmt.Errorf("mark workout: %w", err)
	}
	a.stats.Record(models.StatsDelta{AccountID: accountID, Day: day, WorkoutsCompleted: intp(1), Overwrite: true})
	return nil
}

func (a *Activity) Reset(ctx context.Context, accountID int64) error {
	day := a.cal.Today()
	if err := a.store.DeleteActivity(ctx, accountID, day); err != nil {
		return fmt.Errorf("reset activity: %w", err)
	}
	a.stats.Record(models.StatsDelta{
		AccountID:         accountID,
		Day:               day,
		StepsTaken:        intp(0),
		WorkoutsCompleted: intp(0),
		Overwrite:         true,
	})
	return nil
}

// History returns exactly days rows, today first, zero-filled.
func (a *Activity) History(ctx context.Context, accountID int64, days int) ([]models.ActivityDay, error) {
	if days <= 0 {
		return nil, ErrInvalidDays
	}
	keys := a.cal.LastDays(days)
	rows, err := a.store.ActivityByDay(ctx, accountID, keys[len(keys)-1])
	if err != nil {
		return nil, fmt.Errorf("activity history: %w", err)
	}
	res := make([]models.ActivityDay, len(keys))
	for i, day := range keys {
		s := rows[day]
		res[i] = models.ActivityDay{Day: day, Steps: s.Steps, Workout: s.Workout}
	}
	return res, nil
}
