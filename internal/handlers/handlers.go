package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/quiterx/selfrealization-bot/internal/logger"
)

const (
	DefaultSendRate = 25 // messages per second, Telegram's global limit is ~30

	inboundEvery  = time.Second
	inboundBurst  = 5
	handleTimeout = 30 * time.Second
)

// API is the subset of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot adapts the controller to Telegram. It implements Sender and the
// scheduler's Notifier.
type Bot struct {
	api  API
	send *rate.Limiter
	log  *log.Logger

	mu      sync.Mutex
	inbound map[int64]*rate.Limiter
	wg      sync.WaitGroup
}

// NewBot limits outbound messages to sendRate per second.
func NewBot(api API, sendRate int) *Bot {
	if sendRate <= 0 {
		sendRate = DefaultSendRate
	}
	return &Bot{
		api:     api,
		send:    rate.NewLimiter(rate.Limit(sendRate), sendRate),
		log:     logger.With("component", "telegram"),
		inbound: make(map[int64]*rate.Limiter),
	}
}

func (b *Bot) Send(ctx context.Context, accountID int64, r Reply) error {
	if err := b.send.Wait(ctx); err != nil {
		return err
	}
	_, err := b.api.Send(buildMessage(accountID, r))
	return err
}

func (b *Bot) Notify(ctx context.Context, accountID int64, text string) error {
	return b.Send(ctx, accountID, Reply{Text: text})
}

// Listen polls updates until ctx is cancelled, then waits for in-flight
// handlers.
func (b *Bot) Listen(ctx context.Context, ctrl *Controller) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	// handlers finish their work even after shutdown starts
	hctx := context.WithoutCancel(ctx)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				ctx, cancel := context.WithTimeout(hctx, handleTimeout)
				defer cancel()
				b.Dispatch(ctx, ctrl, upd)
			}()
		}
	}
}

// Dispatch routes one update to the controller.
func (b *Bot) Dispatch(ctx context.Context, ctrl *Controller, upd tgbotapi.Update) {
	switch {
	case upd.Message != nil && upd.Message.From != nil:
		// === messages & commands ===
		msg := upd.Message
		id := msg.From.ID
		if !b.allow(id) {
			b.log.Debug("throttled", "account", id)
			return
		}
		if msg.IsCommand() {
			ctrl.HandleCommand(ctx, id, msg.Command(), Profile{
				Username:  msg.From.UserName,
				FirstName: msg.From.FirstName,
				LastName:  msg.From.LastName,
			})
			return
		}
		if msg.Text != "" {
			ctrl.OnText(ctx, id, msg.Text)
		}

	case upd.CallbackQuery != nil && upd.CallbackQuery.From != nil:
		// === inline buttons ===
		cq := upd.CallbackQuery
		// always answer the callback to remove 'loading...'
		if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			b.log.Debug("answer callback", "err", err)
		}
		if !b.allow(cq.From.ID) {
			return
		}
		ctrl.OnMenuAction(ctx, cq.From.ID, cq.Data)
	}
}

func (b *Bot) allow(accountID int64) bool {
	b.mu.Lock()
	l, ok := b.inbound[accountID]
	if !ok {
		l = rate.NewLimiter(rate.Every(inboundEvery), inboundBurst)
		b.inbound[accountID] = l
	}
	b.mu.Unlock()
	return l.Allow()
}

func buildMessage(chatID int64, r Reply) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	switch {
	case len(r.Inline) > 0:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(r.Inline))
		for _, row := range r.Inline {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, btn := range row {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	case r.Menu == MenuRemove:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	case r.Menu != MenuNone:
		msg.ReplyMarkup = keyboard(r.Menu)
	}
	return msg
}

func keyboard(m Menu) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for _, labels := range m.Rows() {
		row := make([]tgbotapi.KeyboardButton, 0, len(labels))
		for _, l := range labels {
			row = append(row, tgbotapi.NewKeyboardButton(l))
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(row...))
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}
