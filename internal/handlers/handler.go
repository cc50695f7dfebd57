// Package handlers holds the conversation controller and its Telegram adapter.
//
// The controller is transport agnostic: it receives start/text/callback
// events for an account and answers through a Sender. The pending input slot
// is stored per account, so two users never see each other's prompts.
package handlers

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/quiterx/selfrealization-bot/internal/content"
	"github.com/quiterx/selfrealization-bot/internal/logger"
	"github.com/quiterx/selfrealization-bot/internal/messages"
	"github.com/quiterx/selfrealization-bot/internal/models"
	"github.com/quiterx/selfrealization-bot/internal/notes"
	"github.com/quiterx/selfrealization-bot/internal/tracker"
)

// Sender delivers a reply to an account.
type Sender interface {
	Send(ctx context.Context, accountID int64, r Reply) error
}

// Reminders is the part of the scheduler the controller drives.
type Reminders interface {
	Start(ctx context.Context, accountID int64) error
	Stop(ctx context.Context, accountID int64) error
}

type Store interface {
	CreateAccount(ctx context.Context, a *models.Account) error
	SetPending(ctx context.Context, accountID int64, p models.Pending) error
	GetPending(ctx context.Context, accountID int64) (models.Pending, error)
}

type Deps struct {
	Store     Store
	Calories  *tracker.Budget
	Water     *tracker.Budget
	Activity  *tracker.Activity
	Weight    *tracker.Weight
	Notes     *notes.Ledger
	Content   *content.Library
	Reminders Reminders
	Sender    Sender
	Calendar  tracker.Calendar
}

type Controller struct {
	Deps
	log *log.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func New(d Deps) *Controller {
	return &Controller{
		Deps:  d,
		log:   logger.With("component", "controller"),
		locks: make(map[int64]*sync.Mutex),
	}
}

// lock serialises events of one account; other accounts are not blocked.
func (c *Controller) lock(accountID int64) func() {
	c.mu.Lock()
	m, ok := c.locks[accountID]
	if !ok {
		m = &sync.Mutex{}
		c.locks[accountID] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func (c *Controller) send(ctx context.Context, accountID int64, text string, menu Menu) {
	c.reply(ctx, accountID, Reply{Text: text, Menu: menu})
}

func (c *Controller) reply(ctx context.Context, accountID int64, r Reply) {
	if err := c.Sender.Send(ctx, accountID, r); err != nil {
		c.log.Warn("send failed", "account", accountID, "err", err)
	}
}

// ensureAccount creates the account on its first event. Profile fields stay
// empty until /start; existing rows are not touched.
func (c *Controller) ensureAccount(ctx context.Context, accountID int64) error {
	return c.Store.CreateAccount(ctx, &models.Account{
		ID:        accountID,
		CreatedAt: c.Calendar.Now().Unix(),
	})
}

// fail logs err and tells the user something went wrong.
func (c *Controller) fail(ctx context.Context, accountID int64, where string, err error) {
	c.log.Error(where, "account", accountID, "err", err)
	c.send(ctx, accountID, messages.GenericError, MenuNone)
}
