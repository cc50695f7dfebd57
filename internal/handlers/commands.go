package handlers

import (
	"context"

	"github.com/quiterx/selfrealization-bot/internal/messages"
	"github.com/quiterx/selfrealization-bot/internal/models"
)

// Profile is the display metadata captured on /start.
type Profile struct {
	Username  string
	FirstName string
	LastName  string
}

// HandleCommand routes a slash command without its leading slash.
func (c *Controller) HandleCommand(ctx context.Context, accountID int64, cmd string, p Profile) {
	switch cmd {
	case "start":
		c.OnStart(ctx, accountID, p)
	case "stop":
		c.OnStop(ctx, accountID)
	case "menu":
		c.send(ctx, accountID, messages.ChooseSection, MenuMain)
	}
}

// ---------------- /start --------------------
func (c *Controller) OnStart(ctx context.Context, accountID int64, p Profile) {
	unlock := c.lock(accountID)
	defer unlock()

	err := c.Store.CreateAccount(ctx, &models.Account{
		ID:        accountID,
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		CreatedAt: c.Calendar.Now().Unix(),
	})
	if err != nil {
		c.fail(ctx, accountID, "create account", err)
		return
	}
	if err := c.Store.SetPending(ctx, accountID, models.PendingNone); err != nil {
		c.log.Warn("clear pending", "account", accountID, "err", err)
	}
	if err := c.Reminders.Start(ctx, accountID); err != nil {
		c.log.Error("start reminders", "account", accountID, "err", err)
	}

	c.log.Info("account started", "account", accountID, "username", p.Username)
	c.send(ctx, accountID, messages.Welcome, MenuMain)
}

// ---------------- /stop ---------------------
func (c *Controller) OnStop(ctx context.Context, accountID int64) {
	unlock := c.lock(accountID)
	defer unlock()

	if err := c.Reminders.Stop(ctx, accountID); err != nil {
		c.fail(ctx, accountID, "stop reminders", err)
		return
	}
	c.send(ctx, accountID, messages.RemindersStopped, MenuNone)
}
