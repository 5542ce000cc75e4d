package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/terraquiz/terraquiz/internal/model"
)

// Controller drives one quiz session: it fetches questions, collects the
// user's answer, submits it for scoring and renders running history through
// a Presenter. At most one question is active at a time, and the busy flag
// keeps fetch and submit from ever overlapping — a user-triggered action
// that arrives while another is in flight is dropped, not queued.
type Controller struct {
	api    QuizAPI
	pres   Presenter
	images *ImageLoader
	log    zerolog.Logger

	mu       sync.Mutex
	busy     bool
	current  *model.QuestionResponse
	answered bool
	hintUsed bool

	// imageGen invalidates in-flight image loads when a newer question
	// arrives, so a slow photo never overwrites the newer question's panel.
	imageGen int
}

// NewController creates a Controller. The ImageLoader may be nil, in which
// case every question shows the image placeholder.
func NewController(api QuizAPI, pres Presenter, images *ImageLoader, log zerolog.Logger) *Controller {
	return &Controller{
		api:    api,
		pres:   pres,
		images: images,
		log:    log.With().Str("component", "quiz_controller").Logger(),
	}
}

// beginOp claims the busy flag. Returns false if another operation is in
// flight, in which case the caller must do nothing.
func (ctl *Controller) beginOp() bool {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	if ctl.busy {
		return false
	}
	ctl.busy = true
	return true
}

func (ctl *Controller) endOp() {
	ctl.mu.Lock()
	ctl.busy = false
	ctl.mu.Unlock()
}

// NextQuestion abandons any current question and fetches a new one. No-op
// while a fetch or submission is in flight. On failure the error state is
// shown and the next control stays usable, so the user can simply retry.
func (ctl *Controller) NextQuestion(ctx context.Context) {
	if !ctl.beginOp() {
		return
	}
	defer ctl.endOp()

	// Reset the view: previous result, hint and options go away, the image
	// panel falls back to the placeholder until the new question's image
	// resolves.
	ctl.mu.Lock()
	ctl.current = nil
	ctl.answered = false
	ctl.hintUsed = false
	ctl.imageGen++
	ctl.mu.Unlock()

	ctl.pres.ShowImagePlaceholder()
	ctl.pres.ShowLoading()
	ctl.pres.SetNextEnabled(false)

	q, err := ctl.api.FetchQuestion(ctx)
	if err != nil {
		ctl.log.Warn().Err(err).Msg("Question fetch failed")
		ctl.pres.ShowError()
		ctl.pres.SetNextEnabled(true)
		return
	}

	ctl.mu.Lock()
	ctl.current = q
	gen := ctl.imageGen
	ctl.mu.Unlock()

	ctl.pres.ShowQuestion(q)
	ctl.pres.SetOptionsEnabled(true)
	ctl.pres.SetHintEnabled(q.Hint != "")
	ctl.pres.SetNextEnabled(false)

	ctl.displayImage(ctx, q.Image, gen)
}

// SelectAnswer submits the chosen option for the current question. No-op
// while busy, when no question is active, when the question was already
// answered, or when the option is not one of the question's choices. The
// options are disabled before the request goes out so a double click cannot
// submit twice.
func (ctl *Controller) SelectAnswer(ctx context.Context, option string) {
	if !ctl.beginOp() {
		return
	}
	defer ctl.endOp()

	ctl.mu.Lock()
	current := ctl.current
	answered := ctl.answered
	ctl.mu.Unlock()

	if current == nil || answered {
		return
	}
	if !optionOf(current, option) {
		ctl.log.Warn().Str("option", option).Msg("Unknown option selected")
		return
	}

	ctl.pres.SetOptionsEnabled(false)

	result, err := ctl.api.SubmitAnswer(ctx, option)
	if err != nil {
		ctl.log.Warn().Err(err).Msg("Answer submission failed")
		ctl.pres.ShowError()
		ctl.pres.SetOptionsEnabled(true)
		ctl.pres.SetNextEnabled(true)
		return
	}

	ctl.mu.Lock()
	ctl.answered = true
	ctl.mu.Unlock()

	ctl.pres.UpdateScore(result.Score, result.TotalQuestions)

	message := "✅ Correct!"
	if !result.IsCorrect {
		message = fmt.Sprintf("❌ Incorrect. The correct answer is %s.", result.CorrectAnswer)
	}
	ctl.pres.ShowResult(message, option, result.CorrectAnswer, result.IsCorrect)
	ctl.pres.SetHintEnabled(false)
	ctl.pres.SetNextEnabled(true)
}

// ShowHint reveals the current question's hint, once. Questions without a
// hint, already-answered questions and repeat calls leave everything as is.
func (ctl *Controller) ShowHint() {
	if !ctl.beginOp() {
		return
	}
	defer ctl.endOp()

	ctl.mu.Lock()
	current := ctl.current
	used := ctl.hintUsed
	answered := ctl.answered
	ctl.mu.Unlock()

	if current == nil || current.Hint == "" || used || answered {
		return
	}

	ctl.mu.Lock()
	ctl.hintUsed = true
	ctl.mu.Unlock()

	ctl.pres.ShowHint(current.Hint)
	ctl.pres.SetHintEnabled(false)
}

// LoadHistory fetches and renders the answer history, newest first. It is
// deliberately not guarded by the busy flag — the history panel lives
// alongside the question flow, and a failure only dirties that panel.
func (ctl *Controller) LoadHistory(ctx context.Context) {
	resp, err := ctl.api.FetchHistory(ctx)
	if err != nil {
		ctl.log.Warn().Err(err).Msg("History fetch failed")
		ctl.pres.ShowHistoryError()
		return
	}

	// Server order is oldest first; the panel shows newest first.
	entries := make([]model.HistoryEntry, len(resp.History))
	for i, e := range resp.History {
		entries[len(resp.History)-1-i] = e
	}

	ctl.pres.ShowHistory(entries, resp.Score, resp.TotalQuestions)
}

// displayImage resolves the question's image panel: no URL means the
// placeholder immediately; otherwise a spinner while the load runs against
// its fixed timeout, then either the image or the placeholder. The result is
// dropped when a newer question has arrived in the meantime.
func (ctl *Controller) displayImage(ctx context.Context, url string, gen int) {
	if url == "" || ctl.images == nil {
		ctl.pres.ShowImagePlaceholder()
		return
	}

	ctl.pres.ShowImageLoading()

	go func() {
		err := ctl.images.Load(ctx, url)

		ctl.mu.Lock()
		stale := gen != ctl.imageGen
		ctl.mu.Unlock()
		if stale {
			return
		}

		if err != nil {
			ctl.log.Debug().Err(err).Str("url", url).Msg("Image load failed")
			ctl.pres.ShowImagePlaceholder()
			return
		}
		ctl.pres.ShowImage(url)
	}()
}

func optionOf(q *model.QuestionResponse, option string) bool {
	for _, opt := range q.Options {
		if opt == option {
			return true
		}
	}
	return false
}
