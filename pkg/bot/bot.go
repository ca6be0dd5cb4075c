package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"quranbot/config"
	"quranbot/pkg/logger"
	"quranbot/pkg/menu"

	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"
)

// Bot owns the long-poll loop. Create it once, Start it once and Stop it at
// shutdown.
type Bot struct {
	Bot     *tele.Bot
	Machine *menu.Machine
	Log     logger.ILogger

	running atomic.Bool
}

func New(cfg *config.Config, machine *menu.Machine, log logger.ILogger) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.TelegramBotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	return NewWithSettings(pref, machine, log)
}

func NewWithSettings(pref tele.Settings, machine *menu.Machine, log logger.ILogger) (*Bot, error) {
	pref.OnError = func(err error, c tele.Context) {
		log.Error("telegram handler error", logger.Error(err))
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}
	bot := &Bot{
		Bot:     b,
		Machine: machine,
		Log:     log,
	}
	b.Use(middleware.Recover(func(err error, c tele.Context) {
		log.Error("recovered from handler panic", logger.Error(err))
	}))
	bot.registerHandlers()
	return bot, nil
}

// Start blocks until Stop is called.
func (b *Bot) Start() {
	b.running.Store(true)
	b.Log.Info("🤖 Bot started", logger.String("username", b.Bot.Me.Username))
	b.Bot.Start()
}

func (b *Bot) Stop() {
	if b.running.CompareAndSwap(true, false) {
		b.Bot.Stop()
		b.Log.Info("Bot stopped")
	}
}

func (b *Bot) registerHandlers() {
	b.Bot.Handle("/start", b.handleStart)
	b.Bot.Handle(tele.OnCallback, b.handleCallback)
}

func userID(u *tele.User) string {
	return strconv.FormatInt(u.ID, 10)
}

func fullName(u *tele.User) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (b *Bot) handleStart(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	res, err := b.Machine.Handle(context.Background(), menu.Event{
		Kind:     menu.EventStart,
		UserID:   userID(sender),
		Username: sender.Username,
		FullName: fullName(sender),
	})
	if err != nil {
		b.Log.Error("failed to handle /start", logger.String("user_id", userID(sender)), logger.Error(err))
		return nil
	}

	if err := b.sendScreen(c, res.Screen); err != nil {
		b.Log.Error("failed to send start screen", logger.String("user_id", userID(sender)), logger.Error(err))
	}
	return nil
}

// handleCallback always answers the callback query so the client drops its
// loading indicator, even when the tap changes nothing.
func (b *Bot) handleCallback(c tele.Context) error {
	cb := c.Callback()
	defer func() {
		if err := c.Respond(); err != nil {
			b.Log.Warning("failed to answer callback", logger.Error(err))
		}
	}()
	if cb == nil || cb.Sender == nil {
		return nil
	}

	id := userID(cb.Sender)
	res, err := b.Machine.Handle(context.Background(), menu.Event{
		Kind:     menu.EventCallback,
		UserID:   id,
		Username: cb.Sender.Username,
		FullName: fullName(cb.Sender),
		Payload:  cb.Data,
	})
	if err != nil {
		if errors.Is(err, menu.ErrInvalidLanguage) {
			b.Log.Warning("rejected language selection", logger.String("user_id", id), logger.String("data", cb.Data))
		} else {
			b.Log.Error("failed to handle callback", logger.String("user_id", id), logger.String("data", cb.Data), logger.Error(err))
		}
		return nil
	}
	if res.Screen == nil {
		return nil
	}

	if err := b.editScreen(c, cb, res.Screen); err != nil {
		b.Log.Error("failed to edit screen", logger.String("user_id", id), logger.String("state", res.State.String()), logger.Error(err))
	}
	return nil
}

func (b *Bot) sendScreen(c tele.Context, s *menu.Screen) error {
	if s.PhotoURL == "" {
		return c.Send(s.Text, markup(s))
	}
	photo := &tele.Photo{File: tele.FromURL(s.PhotoURL), Caption: s.Text}
	return c.Send(photo, markup(s))
}

// editScreen edits the caption when the message carries media (the start
// screen is a photo), and the text otherwise.
func (b *Bot) editScreen(c tele.Context, cb *tele.Callback, s *menu.Screen) error {
	if cb.Message != nil && cb.Message.Media() == nil {
		return c.Edit(s.Text, markup(s))
	}
	return c.EditCaption(s.Text, markup(s))
}

// markup renders one button per row. Buttons carry raw callback data, without
// telebot's unique-prefix routing.
func markup(s *menu.Screen) *tele.ReplyMarkup {
	rm := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(s.Buttons))
	for _, btn := range s.Buttons {
		if btn.IsWebApp() {
			rows = append(rows, rm.Row(tele.Btn{Text: btn.Label, WebApp: &tele.WebApp{URL: btn.WebAppURL}}))
			continue
		}
		rows = append(rows, rm.Row(tele.Btn{Text: btn.Label, Data: btn.Data}))
	}
	rm.Inline(rows...)
	return rm
}
