package tracker

import (
	"context"
	"fmt"
	"math"

	"github.com/quiterx/selfrealization-bot/internal/models"
)

type WeightStore interface {
	UpsertWeight(ctx context.Context, accountID int64, day string, value float64) error
	GetWeight(ctx context.Context, accountID int64, day string) (*float64, error)
	DeleteWeight(ctx context.Context, accountID int64, day string) error
	WeightByDay(ctx context.Context, accountID int64, fromDay string) (map[string]float64, error)
}

// Weight keeps the latest value per day.
type Weight struct {
	store WeightStore
	cal   Calendar
}

func NewWeight(store WeightStore, cal Calendar) *Weight {
	return &Weight{store: store, cal: cal}
}

// Today returns nil when nothing was entered today.
func (w *Weight) Today(ctx context.Context, accountID int64) (*float64, error) {
	v, err := w.store.GetWeight(ctx, accountID, w.cal.Today())
	if err != nil {
		return nil, fmt.Errorf("get weight: %w", err)
	}
	return v, nil
}

// Add stores value as today's weight, replacing an earlier entry.
func (w *Weight) Add(ctx context.Context, accountID int64, value float64) error {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return ErrInvalidAmount
	}
	if err := w.store.UpsertWeight(ctx, accountID, w.cal.Today(), value); err != nil {
		return fmt.Errorf("add weight: %w", err)
	}
	return nil
}

func (w *Weight) Reset(ctx context.Context, accountID int64) error {
	if err := w.store.DeleteWeight(ctx, accountID, w.cal.Today()); err != nil {
		return fmt.Errorf("reset weight: %w", err)
	}
	return nil
}

// History returns exactly days rows, today first; Value is nil for days
// without an entry.
func (w *Weight) History(ctx context.Context, accountID int64, days int) ([]models.WeightDay, error) {
	if days <= 0 {
		return nil, ErrInvalidDays
	}
	keys := w.cal.LastDays(days)
	values, err := w.store.WeightByDay(ctx, accountID, keys[len(keys)-1])
	if err != nil {
		return nil, fmt.Errorf("weight history: %w", err)
	}
	res := make([]models.WeightDay, len(keys))
	for i, day := range keys {
		res[i] = models.WeightDay{Day: day}
		if v, ok := values[day]; ok {
			v := v
			res[i].Value = &v
		}
	}
	return res, nil
}
