package telegram

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/terraquiz/terraquiz/internal/client"
	"github.com/terraquiz/terraquiz/internal/model"
)

// chatPresenter renders controller state into one Telegram chat. Option
// buttons are an inline keyboard; "disabled" means the keyboard is removed
// from the question message.
type chatPresenter struct {
	api    *tgbotapi.BotAPI
	chatID int64

	mu            sync.Mutex
	options       []string
	questionMsgID int
}

var _ client.Presenter = (*chatPresenter)(nil)

func newChatPresenter(api *tgbotapi.BotAPI, chatID int64) *chatPresenter {
	return &chatPresenter{api: api, chatID: chatID}
}

// optionAt resolves a 0-based option index against the current question.
func (p *chatPresenter) optionAt(idx int) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if idx < 0 || idx >= len(p.options) {
		return "", false
	}
	return p.options[idx], true
}

func (p *chatPresenter) send(text string) {
	msg := tgbotapi.NewMessage(p.chatID, text)
	p.api.Send(msg)
}

func (p *chatPresenter) ShowLoading() {
	p.mu.Lock()
	p.options = nil
	p.mu.Unlock()
}

func (p *chatPresenter) ShowQuestion(q *model.QuestionResponse) {
	p.mu.Lock()
	p.options = q.Options
	p.mu.Unlock()

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options))
	for i, opt := range q.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt, fmt.Sprintf("%s%d", callbackPrefix, i)),
		))
	}

	msg := tgbotapi.NewMessage(p.chatID,
		fmt.Sprintf("[%s] %s", strings.ToUpper(string(q.Difficulty)), q.Question))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)

	sent, err := p.api.Send(msg)
	if err == nil {
		p.mu.Lock()
		p.questionMsgID = sent.MessageID
		p.mu.Unlock()
	}
}

func (p *chatPresenter) ShowResult(message, chosen, correct string, isCorrect bool) {
	if isCorrect {
		p.send(message)
		return
	}
	p.send(fmt.Sprintf("%s\nYou picked: %s", message, chosen))
}

func (p *chatPresenter) UpdateScore(score, total int) {
	p.send(fmt.Sprintf("Score: %d/%d", score, total))
}

func (p *chatPresenter) ShowHint(text string) {
	p.send("💡 Hint: " + text)
}

func (p *chatPresenter) ShowHistory(entries []model.HistoryEntry, score, total int) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "History — score %d/%d\n", score, total)
	if len(entries) == 0 {
		sb.WriteString("No questions answered yet.")
	}
	for _, e := range entries {
		mark := "✅"
		if !e.IsCorrect {
			mark = "❌"
		}
		ts := e.Timestamp
		if t, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
			ts = t.Format("Jan 2, 15:04")
		}
		fmt.Fprintf(&sb, "%s [%s] %s — answered %q, correct %q (%s)\n",
			mark, e.Difficulty, e.Question, e.UserAnswer, e.CorrectAnswer, ts)
	}
	p.send(sb.String())
}

func (p *chatPresenter) ShowHistoryError() {
	p.send("Could not load history. Try again.")
}

func (p *chatPresenter) ShowError() {
	p.send("⚠️ Something went wrong. Try again with /next.")
}

func (p *chatPresenter) SetNextEnabled(bool) {}

// SetOptionsEnabled(false) strips the inline keyboard from the question so
// the buttons cannot be pressed twice.
func (p *chatPresenter) SetOptionsEnabled(enabled bool) {
	if enabled {
		return
	}

	p.mu.Lock()
	msgID := p.questionMsgID
	p.mu.Unlock()
	if msgID == 0 {
		return
	}

	edit := tgbotapi.NewEditMessageReplyMarkup(p.chatID, msgID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	p.api.Request(edit)
}

func (p *chatPresenter) SetHintEnabled(bool) {}

func (p *chatPresenter) ShowImageLoading() {}

func (p *chatPresenter) ShowImage(url string) {
	photo := tgbotapi.NewPhoto(p.chatID, tgbotapi.FileURL(url))
	photo.Caption = "Location photo"
	p.api.Send(photo)
}

func (p *chatPresenter) ShowImagePlaceholder() {}
