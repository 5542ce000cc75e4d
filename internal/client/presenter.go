package client

import "github.com/terraquiz/terraquiz/internal/model"

// Presenter is the presentation layer the controller paints through. The
// controller owns all state transitions; a Presenter only reflects them.
// Implementations: the terminal renderer in cmd/quiz and the Telegram
// renderer in internal/telegram.
type Presenter interface {
	// Question lifecycle.
	ShowLoading()
	ShowQuestion(q *model.QuestionResponse)
	ShowResult(message, chosen, correct string, isCorrect bool)
	UpdateScore(score, total int)
	ShowHint(text string)

	// History panel.
	ShowHistory(entries []model.HistoryEntry, score, total int)
	ShowHistoryError()

	// Generic recoverable failure state.
	ShowError()

	// Control toggles.
	SetNextEnabled(enabled bool)
	SetOptionsEnabled(enabled bool)
	SetHintEnabled(enabled bool)

	// Image panel.
	ShowImageLoading()
	ShowImage(url string)
	ShowImagePlaceholder()
}
