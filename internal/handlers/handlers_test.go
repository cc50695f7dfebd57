package handlers

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiterx/selfrealization-bot/internal/messages"
)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	updates  chan tgbotapi.Update
	stopped  bool
}

func (a *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sent = append(a.sent, c)
	return tgbotapi.Message{}, nil
}

func (a *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (a *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return a.updates
}

func (a *fakeAPI) StopReceivingUpdates() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
}

func (a *fakeAPI) messages() []tgbotapi.MessageConfig {
	a.mu.Lock()
	defer a.mu.Unlock()
	var res []tgbotapi.MessageConfig
	for _, c := range a.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			res = append(res, m)
		}
	}
	return res
}

func TestBuildMessage_Keyboards(t *testing.T) {
	msg := buildMessage(5, Reply{Text: "hi", Menu: MenuWater})
	assert.Equal(t, int64(5), msg.ChatID)
	kb, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, kb.ResizeKeyboard)
	require.Len(t, kb.Keyboard, 3)
	assert.Equal(t, messages.BtnAddWater, kb.Keyboard[0][0].Text)

	msg = buildMessage(5, Reply{Text: "x", Menu: MenuRemove})
	_, ok = msg.ReplyMarkup.(tgbotapi.ReplyKeyboardRemove)
	assert.True(t, ok)

	msg = buildMessage(5, Reply{Text: "x"})
	assert.Nil(t, msg.ReplyMarkup)

	msg = buildMessage(5, Reply{Text: "x", Menu: MenuMain, Inline: [][]Button{{{Text: "a", Data: "faq_1"}}}})
	ikb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.NotNil(t, ikb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "faq_1", *ikb.InlineKeyboard[0][0].CallbackData)
}

func TestDispatch(t *testing.T) {
	f := newFixture(t)
	api := &fakeAPI{}
	bot := NewBot(api, 100)
	f.c.Sender = bot
	ctx := context.Background()

	from := &tgbotapi.User{ID: 3, UserName: "neo", FirstName: "Thomas"}
	start := tgbotapi.Update{Message: &tgbotapi.Message{
		From:     from,
		Chat:     &tgbotapi.Chat{ID: 3},
		Text:     "/start",
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}}
	bot.Dispatch(ctx, f.c, start)

	a, err := f.db.GetAccount(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "Thomas", a.FirstName)

	bot.Dispatch(ctx, f.c, tgbotapi.Update{Message: &tgbotapi.Message{From: from, Chat: &tgbotapi.Chat{ID: 3}, Text: messages.BtnFAQ}})
	bot.Dispatch(ctx, f.c, tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb", From: from, Data: "cancel_reset"}})

	sent := api.messages()
	require.Len(t, sent, 3)
	assert.Equal(t, messages.Welcome, sent[0].Text)
	assert.Equal(t, messages.FAQChoose, sent[1].Text)
	assert.Equal(t, messages.ActionCancelled, sent[2].Text)
	assert.Len(t, api.requests, 1)
}

func TestDispatch_InboundThrottle(t *testing.T) {
	f := newFixture(t)
	api := &fakeAPI{}
	bot := NewBot(api, 100)
	f.c.Sender = bot
	ctx := context.Background()

	from := &tgbotapi.User{ID: 8}
	for i := 0; i < inboundBurst+3; i++ {
		bot.Dispatch(ctx, f.c, tgbotapi.Update{Message: &tgbotapi.Message{From: from, Chat: &tgbotapi.Chat{ID: 8}, Text: messages.BtnBack}})
	}
	assert.Len(t, api.messages(), inboundBurst)
}

func TestListen_StopsOnCancel(t *testing.T) {
	f := newFixture(t)
	api := &fakeAPI{updates: make(chan tgbotapi.Update, 1)}
	bot := NewBot(api, 100)
	f.c.Sender = bot

	api.updates <- tgbotapi.Update{Message: &tgbotapi.Message{From: &tgbotapi.User{ID: 4}, Chat: &tgbotapi.Chat{ID: 4}, Text: messages.BtnBack}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		bot.Listen(ctx, f.c)
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(api.messages()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.True(t, api.stopped)
}
