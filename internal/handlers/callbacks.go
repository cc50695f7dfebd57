package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/quiterx/selfrealization-bot/internal/content"
	"github.com/quiterx/selfrealization-bot/internal/messages"
	"github.com/quiterx/selfrealization-bot/internal/models"
)

// OnMenuAction handles inline button data: reset confirmations and FAQ
// entries. Unknown data is ignored.
func (c *Controller) OnMenuAction(ctx context.Context, accountID int64, data string) {
	unlock := c.lock(accountID)
	defer unlock()

	c.log.Info("callback", "account", accountID, "data", data)
	if !isCallback(data) {
		return
	}
	if err := c.ensureAccount(ctx, accountID); err != nil {
		c.fail(ctx, accountID, "create account", err)
		return
	}
	if err := c.Store.SetPending(ctx, accountID, models.PendingNone); err != nil {
		c.fail(ctx, accountID, "clear pending", err)
		return
	}

	switch {
	case data == cbCancelLegacy:
		c.send(ctx, accountID, messages.ActionCancelled, MenuCalories)

	case strings.HasPrefix(data, cbCancelPrefix):
		m := models.Metric(strings.TrimPrefix(data, cbCancelPrefix))
		c.send(ctx, accountID, messages.ActionCancelled, metricMenu(m))

	case strings.HasPrefix(data, cbResetPrefix):
		m := models.Metric(strings.TrimPrefix(data, cbResetPrefix))
		if err := c.reset(ctx, accountID, m); err != nil {
			c.fail(ctx, accountID, "reset", err)
			return
		}
		c.send(ctx, accountID, messages.ResetDone(m), metricMenu(m))

	case strings.HasPrefix(data, cbFAQPrefix):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, cbFAQPrefix), 10, 64)
		if err != nil {
			c.log.Warn("bad faq callback", "account", accountID, "data", data)
			return
		}
		entry, err := c.Content.FAQAnswer(ctx, id)
		if errors.Is(err, content.ErrUnknownFAQ) {
			c.log.Warn("unknown faq", "account", accountID, "id", id)
			return
		}
		if err != nil {
			c.fail(ctx, accountID, "faq answer", err)
			return
		}
		c.send(ctx, accountID, messages.FAQAnswer(entry), MenuFAQ)
	}
}

func isCallback(data string) bool {
	return data == cbCancelLegacy ||
		strings.HasPrefix(data, cbCancelPrefix) ||
		strings.HasPrefix(data, cbResetPrefix) ||
		strings.HasPrefix(data, cbFAQPrefix)
}

var errUnknownMetric = errors.New("unknown metric")

func (c *Controller) reset(ctx context.Context, accountID int64, m models.Metric) error {
	switch m {
	case models.MetricCalories:
		return c.Calories.Reset(ctx, accountID)
	case models.MetricWater:
		return c.Water.Reset(ctx, accountID)
	case models.MetricActivity:
		return c.Activity.Reset(ctx, accountID)
	case models.MetricWeight:
		return c.Weight.Reset(ctx, accountID)
	}
	return errUnknownMetric
}
