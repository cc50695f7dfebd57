package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/quiterx/selfrealization-bot/internal/messages"
	"github.com/quiterx/selfrealization-bot/internal/models"
	"github.com/quiterx/selfrealization-bot/internal/notes"
	"github.com/quiterx/selfrealization-bot/internal/tracker"
)

type action func(c *Controller, ctx context.Context, accountID int64) error

// actions maps menu labels to their handlers.
var actions = map[string]action{
	messages.BtnBack: func(c *Controller, ctx context.Context, id int64) error {
		c.send(ctx, id, messages.ChooseSection, MenuMain)
		return nil
	},
	messages.BtnTip: (*Controller).showTip,
	messages.BtnCoach: func(c *Controller, ctx context.Context, id int64) error {
		c.send(ctx, id, messages.CoachIntro, MenuFAQ)
		return nil
	},
	messages.BtnNotes: func(c *Controller, ctx context.Context, id int64) error {
		c.send(ctx, id, messages.NotesIntro, MenuNotes)
		return nil
	},

	messages.BtnCalories:         (*Controller).showCalories,
	messages.BtnSubtractCalories: ask(models.PendingCalories),
	messages.BtnResetCalories:    confirmReset(models.MetricCalories),
	messages.BtnCalorieLimit:     ask(models.PendingCalorieLimit),
	messages.BtnCalorieHistory:   (*Controller).showCalorieHistory,

	messages.BtnWater:        (*Controller).showWater,
	messages.BtnAddWater:     ask(models.PendingWater),
	messages.BtnResetWater:   confirmReset(models.MetricWater),
	messages.BtnWaterLimit:   ask(models.PendingWaterLimit),
	messages.BtnWaterHistory: (*Controller).showWaterHistory,

	messages.BtnActivity:        (*Controller).showActivity,
	messages.BtnAddSteps:        ask(models.PendingSteps),
	messages.BtnWorkout:         (*Controller).markWorkout,
	messages.BtnResetActivity:   confirmReset(models.MetricActivity),
	messages.BtnActivityHistory: (*Controller).showActivityHistory,

	messages.BtnWeight:        (*Controller).showWeight,
	messages.BtnAddWeight:     ask(models.PendingWeight),
	messages.BtnResetWeight:   confirmReset(models.MetricWeight),
	messages.BtnWeightHistory: (*Controller).showWeightHistory,

	messages.BtnAddPlan:      ask(models.PendingPlan),
	messages.BtnAddThought:   ask(models.PendingThought),
	messages.BtnTodayNotes:   (*Controller).showTodayNotes,
	messages.BtnNotesHistory: (*Controller).showNotesHistory,

	messages.BtnFAQ: (*Controller).showFAQ,
	messages.BtnAsk: ask(models.PendingQuestion),
}

// IsAction reports whether text is a menu label.
func IsAction(text string) bool {
	_, ok := actions[text]
	return ok
}

// OnText handles free text: a menu label runs its action and clears the
// pending input; otherwise the text answers the pending input, if any.
func (c *Controller) OnText(ctx context.Context, accountID int64, text string) {
	unlock := c.lock(accountID)
	defer unlock()

	c.log.Info("message", "account", accountID, "text", text)

	if err := c.ensureAccount(ctx, accountID); err != nil {
		c.fail(ctx, accountID, "create account", err)
		return
	}

	if act, ok := actions[text]; ok {
		if err := c.Store.SetPending(ctx, accountID, models.PendingNone); err != nil {
			c.fail(ctx, accountID, "clear pending", err)
			return
		}
		if err := act(c, ctx, accountID); err != nil {
			c.fail(ctx, accountID, "menu action", err)
		}
		return
	}

	pending, err := c.Store.GetPending(ctx, accountID)
	if err != nil {
		c.fail(ctx, accountID, "get pending", err)
		return
	}
	if pending == models.PendingNone {
		return
	}

	done, err := c.consume(ctx, accountID, pending, text)
	if err != nil {
		c.fail(ctx, accountID, "pending input", err)
		return
	}
	if !done {
		return
	}
	if err := c.Store.SetPending(ctx, accountID, models.PendingNone); err != nil {
		c.log.Warn("clear pending", "account", accountID, "err", err)
	}
}

func ask(p models.Pending) action {
	return func(c *Controller, ctx context.Context, id int64) error {
		if err := c.Store.SetPending(ctx, id, p); err != nil {
			return err
		}
		c.send(ctx, id, messages.Prompt(p), MenuRemove)
		return nil
	}
}

func confirmReset(m models.Metric) action {
	return func(c *Controller, ctx context.Context, id int64) error {
		c.reply(ctx, id, Reply{Text: messages.ResetQuestion(m), Inline: resetConfirm(m)})
		return nil
	}
}

// consume applies text to the pending input. done is false when the user was
// asked to retry; the pending input then stays as it is.
func (c *Controller) consume(ctx context.Context, id int64, p models.Pending, text string) (done bool, err error) {
	menu := pendingMenu(p)

	switch p.Expects() {
	case models.InputInt:
		n, perr := strconv.Atoi(strings.TrimSpace(text))
		if perr != nil {
			c.send(ctx, id, messages.EnterNumber, MenuNone)
			return false, nil
		}
		err = c.consumeInt(ctx, id, p, n, menu)

	case models.InputFloat:
		v, perr := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64)
		if perr != nil {
			c.send(ctx, id, messages.EnterNumber, MenuNone)
			return false, nil
		}
		if err = c.Weight.Add(ctx, id, v); err == nil {
			c.send(ctx, id, messages.WeightSaved(v), menu)
		}

	default:
		err = c.consumeText(ctx, id, p, text, menu)
	}

	switch {
	case errors.Is(err, tracker.ErrInvalidAmount):
		c.send(ctx, id, messages.EnterPositive, MenuNone)
		return false, nil
	case errors.Is(err, notes.ErrEmptyText):
		c.send(ctx, id, messages.EnterText, MenuNone)
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

func (c *Controller) consumeInt(ctx context.Context, id int64, p models.Pending, n int, menu Menu) error {
	switch p {
	case models.PendingCalories, models.PendingWater:
		b := c.Calories
		if p == models.PendingWater {
			b = c.Water
		}
		if err := b.Add(ctx, id, n); err != nil {
			return err
		}
		snap, err := b.Today(ctx, id)
		if err != nil {
			return err
		}
		if p == models.PendingWater {
			c.send(ctx, id, messages.WaterAdded(n, snap.Left), menu)
		} else {
			c.send(ctx, id, messages.CaloriesAdded(n, snap.Left), menu)
		}

	case models.PendingCalorieLimit:
		if err := c.Calories.SetLimit(ctx, id, n); err != nil {
			return err
		}
		c.send(ctx, id, messages.CalorieLimitSet(n), menu)

	case models.PendingWaterLimit:
		if err := c.Water.SetLimit(ctx, id, n); err != nil {
			return err
		}
		c.send(ctx, id, messages.WaterLimitSet(n), menu)

	case models.PendingSteps:
		if err := c.Activity.AddSteps(ctx, id, n); err != nil {
			return err
		}
		snap, err := c.Activity.Today(ctx, id)
		if err != nil {
			return err
		}
		c.send(ctx, id, messages.StepsAdded(n, snap.Steps), menu)
	}
	return nil
}

func (c *Controller) consumeText(ctx context.Context, id int64, p models.Pending, text string, menu Menu) error {
	switch p {
	case models.PendingPlan, models.PendingThought:
		kind := models.NotePlan
		if p == models.PendingThought {
			kind = models.NoteThought
		}
		if _, err := c.Notes.Add(ctx, id, kind, text); err != nil {
			return err
		}
		c.send(ctx, id, messages.NoteSaved(kind), menu)

	case models.PendingQuestion:
		if strings.TrimSpace(text) == "" {
			return notes.ErrEmptyText
		}
		answer, err := c.Content.AskCoach(ctx, id, text)
		if err != nil {
			return err
		}
		c.send(ctx, id, messages.CoachAnswer(answer), menu)
	}
	return nil
}

// --- views ------------------------------------------------------------------

func (c *Controller) showCalories(ctx context.Context, id int64) error {
	snap, err := c.Calories.Today(ctx, id)
	if err != nil {
		return err
	}
	c.send(ctx, id, messages.CaloriesSummary(snap), MenuCalories)
	return nil
}

func (c *Controller) showWater(ctx context.Context, id int64) error {
	snap, err := c.Water.Today(ctx, id)
	if err != nil {
		return err
	}
	c.send(ctx, id, messages.WaterSummary(snap), MenuWater)
	return nil
}

func (c *Controller) showActivity(ctx context.Context, id int64) error {
	snap, err := c.Activity.Today(ctx, id)
	if err != nil {
		return err
	}
	c.send(ctx, id, messages.ActivitySummary(snap), MenuActivity)
	return nil
}

func (c *Controller) showWeight(ctx context.Context, id int64) error {
	v, err := c.Weight.Today(ctx, id)
	if err != nil {
		return err
	}
	c.send(ctx, id, messages.WeightSummary(v), MenuWeight)
	return nil
}

func (c *Controller) markWorkout(ctx context.Context, id int64) error {
	if err := c.Activity.MarkWorkout(ctx, id); err != nil {
		return err
	}
	c.send(ctx, id, messages.WorkoutMarked, MenuActivity)
	return nil
}

func (c *Controller) showCalorieHistory(ctx context.Context, id int64) error {
	hist, err := c.Calories.History(ctx, id, tracker.DefaultHistoryDays)
	if err != nil {
		return err
	}
	c.send(ctx, id, messages.CaloriesHistory(hist), MenuNone)
	return nil
}

func (c *Controller) showWaterHistory(ctx context.Context, id int64) error {
	hist, err := c.Water.History(ctx, id, tracker.DefaultHistoryDays)
	if err != nil {
		return err
	}
	c.send(ctx, id, messages.WaterHistory(hist), MenuNone)
	return nil
}

func (c *Controller) showActivityHistory(ctx context.Context, id int64) error {
	hist, err := c.Activity.History(ctx, id, tracker.DefaultHistoryDays)
	if err != nil {
		return err
	}
	c.send(ctx, id, messages.ActivityHistory(hist), MenuNone)
	return nil
}

func (c *Controller) showWeightHistory(ctx context.Context, id int64) error {
	hist, err := c.Weight.History(ctx, id, tracker.DefaultWeightHistoryDays)
	if err != nil {
		return err
	}
	c.send(ctx, id, messages.WeightHistory(hist), MenuNone)
	return nil
}

func (c *Controller) showTodayNotes(ctx context.Context, id int64) error {
	list, err := c.Notes.Today(ctx, id)
	if err != nil {
		return err
	}
	c.send(ctx, id, messages.TodayNotes(list), MenuNotes)
	return nil
}

func (c *Controller) showNotesHistory(ctx context.Context, id int64) error {
	hist, err := c.Notes.History(ctx, id, tracker.DefaultHistoryDays)
	if err != nil {
		return err
	}
	c.send(ctx, id, messages.NotesHistory(hist), MenuNone)
	return nil
}

func (c *Controller) showTip(ctx context.Context, id int64) error {
	tip, err := c.Content.RandomTip(ctx)
	if err != nil {
		return err
	}
	c.send(ctx, id, messages.Tip(tip), MenuNone)
	return nil
}

func (c *Controller) showFAQ(ctx context.Context, id int64) error {
	list, err := c.Content.FAQList(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		c.send(ctx, id, messages.FAQEmpty, MenuFAQ)
		return nil
	}
	rows := make([][]Button, 0, len(list))
	for _, q := range list {
		rows = append(rows, []Button{{Text: q.Question, Data: cbFAQPrefix + strconv.FormatInt(q.ID, 10)}})
	}
	c.reply(ctx, id, Reply{Text: messages.FAQChoose, Inline: rows})
	return nil
}
