// Package telegram is the Telegram front-end of the quiz client. Each chat
// owns its own controller and server session; the bot only translates
// Telegram updates into controller calls and controller output into
// messages.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/terraquiz/terraquiz/internal/client"
)

const (
	cmdStart   = "start"
	cmdNext    = "next"
	cmdHint    = "hint"
	cmdHistory = "history"
	cmdHelp    = "help"

	callbackPrefix = "answer:"
)

const welcomeText = `Welcome to TerraQuiz! 🌍

I will quiz you on world geography. Questions get harder as your score grows.

Commands:
/next - Get a new question
/hint - Reveal the current question's hint
/history - Show your answer history
/help - Show this message

Let's begin with your first question!`

// Bot runs the Telegram front-end.
type Bot struct {
	api       *tgbotapi.BotAPI
	serverURL string
	log       zerolog.Logger

	mu    sync.Mutex
	chats map[int64]*chatSession
}

// chatSession is one chat's controller and presenter pair.
type chatSession struct {
	ctl  *client.Controller
	pres *chatPresenter
}

// New creates a bot connected to the given Telegram token and quiz server.
func New(token, serverURL string, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	return &Bot{
		api:       api,
		serverURL: serverURL,
		log:       log.With().Str("component", "telegram_bot").Logger(),
		chats:     make(map[int64]*chatSession),
	}, nil
}

// Start polls for updates until ctx is cancelled. Each update is handled in
// its own goroutine; the per-chat controller's busy flag drops actions that
// overlap.
func (b *Bot) Start(ctx context.Context) {
	b.log.Info().Str("username", b.api.Self.UserName).Msg("Bot polling started")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

// sessionFor returns the chat's controller pair, creating it on first use.
func (b *Bot) sessionFor(chatID int64) (*chatSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.chats[chatID]; ok {
		return s, nil
	}

	api, err := client.New(b.serverURL)
	if err != nil {
		return nil, err
	}

	pres := newChatPresenter(b.api, chatID)
	s := &chatSession{
		ctl:  client.NewController(api, pres, client.NewImageLoader(), b.log),
		pres: pres,
	}
	b.chats[chatID] = s
	return s, nil
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	b.log.Debug().Int64("chat_id", chatID).Str("text", message.Text).Msg("Message received")

	s, err := b.sessionFor(chatID)
	if err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("Session setup failed")
		return
	}

	switch {
	case strings.HasPrefix(message.Text, "/"+cmdStart):
		b.send(chatID, welcomeText)
		s.ctl.NextQuestion(ctx)
	case strings.HasPrefix(message.Text, "/"+cmdNext):
		s.ctl.NextQuestion(ctx)
	case strings.HasPrefix(message.Text, "/"+cmdHint):
		s.ctl.ShowHint()
	case strings.HasPrefix(message.Text, "/"+cmdHistory):
		s.ctl.LoadHistory(ctx)
	case strings.HasPrefix(message.Text, "/"+cmdHelp):
		b.send(chatID, welcomeText)
	default:
		b.send(chatID, "Unknown command. Use /next for a new question or /help for assistance.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Acknowledge so the client stops showing the spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Debug().Err(err).Msg("Callback ack failed")
	}

	if cb.Message == nil || !strings.HasPrefix(cb.Data, callbackPrefix) {
		return
	}
	chatID := cb.Message.Chat.ID

	idx, err := strconv.Atoi(strings.TrimPrefix(cb.Data, callbackPrefix))
	if err != nil {
		return
	}

	s, err := b.sessionFor(chatID)
	if err != nil {
		return
	}

	option, ok := s.pres.optionAt(idx)
	if !ok {
		return
	}
	s.ctl.SelectAnswer(ctx, option)
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Warn().Err(err).Int64("chat_id", chatID).Msg("Send failed")
	}
}
