package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/quiterx/selfrealization-bot/internal/models"
)

// BudgetStore is the storage surface of the calorie and water trackers.
type BudgetStore interface {
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	SetLimit(ctx context.Context, id int64, m models.Metric, value int) error
	AddEvent(ctx context.Context, m models.Metric, accountID int64, day string, amount int, loggedAt int64) error
	SumEvents(ctx context.Context, m models.Metric, accountID int64, day string) (int, error)
	SumEventsSince(ctx context.Context, m models.Metric, accountID int64, since int64) (int, error)
	DeleteEvents(ctx context.Context, m models.Metric, accountID int64, day string) error
	SumEventsByDay(ctx context.Context, m models.Metric, accountID int64, fromDay string) (map[string]int, error)
}

// Budget tracks a metric consumed against a daily limit. Each Add inserts an
// event; the day's consumption is the sum of its events.
type Budget struct {
	metric       models.Metric
	defaultLimit int
	store        BudgetStore
	stats        Recorder
	cal          Calendar
}

func NewCalories(store BudgetStore, stats Recorder, cal Calendar) *Budget {
	return &Budget{metric: models.MetricCalories, defaultLimit: models.DefaultCalorieLimit, store: store, stats: stats, cal: cal}
}

func NewWater(store BudgetStore, stats Recorder, cal Calendar) *Budget {
	return &Budget{metric: models.MetricWater, defaultLimit: models.DefaultWaterLimit, store: store, stats: stats, cal: cal}
}

func (b *Budget) Metric() models.Metric { return b.metric }

// limit falls back to the metric default when the account is unknown.
func (b *Budget) limit(ctx context.Context, accountID int64) (int, error) {
	a, err := b.store.GetAccount(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("get %s limit: %w", b.metric, err)
	}
	if a == nil {
		return b.defaultLimit, nil
	}
	switch b.metric {
	case models.MetricWater:
		return a.WaterLimit, nil
	default:
		return a.CalorieLimit, nil
	}
}

// Today returns the limit and what is left of it, never below zero.
func (b *Budget) Today(ctx context.Context, accountID int64) (models.BudgetSnapshot, error) {
	limit, err := b.limit(ctx, accountID)
	if err != nil {
		return models.BudgetSnapshot{}, err
	}
	consumed, err := b.store.SumEvents(ctx, b.metric, accountID, b.cal.Today())
	if err != nil {
		return models.BudgetSnapshot{}, fmt.Errorf("sum %s: %w", b.metric, err)
	}
	return models.BudgetSnapshot{Limit: limit, Left: max(0, limit-consumed)}, nil
}

func (b *Budget) Add(ctx context.Context, accountID int64, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	now := b.cal.Now()
	day := b.cal.Today()
	if err := b.store.AddEvent(ctx, b.metric, accountID, day, amount, now.Unix()); err != nil {
		return fmt.Errorf("add %s: %w", b.metric, err)
	}
	b.stats.Record(b.delta(accountID, day, amount, false))
	return nil
}

// Reset deletes today's events and zeroes today's statistics counter.
func (b *Budget) Reset(ctx context.Context, accountID int64) error {
	day := b.cal.Today()
	if err := b.store.DeleteEvents(ctx, b.metric, accountID, day); err != nil {
		return fmt.Errorf("reset %s: %w", b.metric, err)
	}
	b.stats.Record(b.delta(accountID, day, 0, true))
	return nil
}

// SetLimit changes the daily limit; past days are not recalculated.
func (b *Budget) SetLimit(ctx context.Context, accountID int64, value int) error {
	if value <= 0 {
		return ErrInvalidAmount
	}
	if err := b.store.SetLimit(ctx, accountID, b.metric, value); err != nil {
		return fmt.Errorf("set %s limit: %w", b.metric, err)
	}
	return nil
}

// History returns exactly days rows, today first. Days without events have
// zero consumption. Every row carries the current limit.
func (b *Budget) History(ctx context.Context, accountID int64, days int) ([]models.BudgetDay, error) {
	if days <= 0 {
		return nil, ErrInvalidDays
	}
	limit, err := b.limit(ctx, accountID)
	if err != nil {
		return nil, err
	}
	keys := b.cal.LastDays(days)
	sums, err := b.store.SumEventsByDay(ctx, b.metric, accountID, keys[len(keys)-1])
	if err != nil {
		return nil, fmt.Errorf("%s history: %w", b.metric, err)
	}
	res := make([]models.BudgetDay, len(keys))
	for i, day := range keys {
		res[i] = models.BudgetDay{Day: day, Limit: limit, Consumed: sums[day]}
	}
	return res, nil
}

// ConsumedWithin sums what was logged during the trailing window.
func (b *Budget) ConsumedWithin(ctx context.Context, accountID int64, window time.Duration) (int, error) {
	since := b.cal.Now().Add(-window).Unix()
	sum, err := b.store.SumEventsSince(ctx, b.metric, accountID, since)
	if err != nil {
		return 0, fmt.Errorf("sum %s since: %w", b.metric, err)
	}
	return sum, nil
}

func (b *Budget) delta(accountID int64, day string, amount int, overwrite bool) models.StatsDelta {
	d := models.StatsDelta{AccountID: accountID, Day: day, Overwrite: overwrite}
	if b.metric == models.MetricWater {
		d.WaterConsumed = intp(amount)
	} else {
		d.CaloriesConsumed = intp(amount)
	}
	return d
}
