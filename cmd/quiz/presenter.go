package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/terraquiz/terraquiz/internal/client"
	"github.com/terraquiz/terraquiz/internal/model"
	"golang.org/x/term"
)

// termPresenter renders the quiz in a terminal. Control toggles map to a
// small state struct the input loop consults; everything else prints.
type termPresenter struct {
	mu  sync.Mutex
	out io.Writer

	width   int
	options []string
}

var _ client.Presenter = (*termPresenter)(nil)

func newTermPresenter(out io.Writer) *termPresenter {
	width := 72
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 20 {
			width = w
		}
	}
	return &termPresenter{out: out, width: width}
}

// optionAt resolves a 0-based option index against the current question.
func (p *termPresenter) optionAt(idx int) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if idx < 0 || idx >= len(p.options) {
		return "", false
	}
	return p.options[idx], true
}

func (p *termPresenter) rule() string {
	n := p.width
	if n > 72 {
		n = 72
	}
	return strings.Repeat("─", n)
}

func (p *termPresenter) ShowLoading() {
	p.mu.Lock()
	p.options = nil
	p.mu.Unlock()
	fmt.Fprintln(p.out, "Loading question...")
}

func (p *termPresenter) ShowQuestion(q *model.QuestionResponse) {
	p.mu.Lock()
	p.options = q.Options
	p.mu.Unlock()

	fmt.Fprintln(p.out, p.rule())
	fmt.Fprintf(p.out, "[%s] %s\n\n", strings.ToUpper(string(q.Difficulty)), q.Question)
	for i, opt := range q.Options {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, opt)
	}
	fmt.Fprintln(p.out, p.rule())
}

func (p *termPresenter) ShowResult(message, chosen, correct string, isCorrect bool) {
	fmt.Fprintln(p.out, message)
	if !isCorrect {
		fmt.Fprintf(p.out, "  your answer:    %s\n", chosen)
		fmt.Fprintf(p.out, "  correct answer: %s\n", correct)
	}
}

func (p *termPresenter) UpdateScore(score, total int) {
	fmt.Fprintf(p.out, "Score: %d/%d\n", score, total)
}

func (p *termPresenter) ShowHint(text string) {
	fmt.Fprintf(p.out, "💡 Hint: %s\n", text)
}

func (p *termPresenter) ShowHistory(entries []model.HistoryEntry, score, total int) {
	fmt.Fprintln(p.out, p.rule())
	fmt.Fprintf(p.out, "History — score %d/%d\n", score, total)
	if len(entries) == 0 {
		fmt.Fprintln(p.out, "  (no questions answered yet)")
	}
	for _, e := range entries {
		mark := "✅"
		if !e.IsCorrect {
			mark = "❌"
		}
		fmt.Fprintf(p.out, "  %s [%s] %s\n", mark, e.Difficulty, e.Question)
		fmt.Fprintf(p.out, "     answered %q (correct: %q) at %s\n",
			e.UserAnswer, e.CorrectAnswer, humanTime(e.Timestamp))
	}
	fmt.Fprintln(p.out, p.rule())
}

func (p *termPresenter) ShowHistoryError() {
	fmt.Fprintln(p.out, "Could not load history. Try again.")
}

func (p *termPresenter) ShowError() {
	fmt.Fprintln(p.out, "⚠️  Something went wrong. Try again.")
}

// The terminal has no greyed-out buttons; disabled states are enforced by
// the controller and only the helpful transitions get a line of output.
func (p *termPresenter) SetNextEnabled(enabled bool) {
	if enabled {
		fmt.Fprintln(p.out, "(n = next question)")
	}
}

func (p *termPresenter) SetOptionsEnabled(bool) {}

func (p *termPresenter) SetHintEnabled(enabled bool) {
	if enabled {
		fmt.Fprintln(p.out, "(h = hint)")
	}
}

func (p *termPresenter) ShowImageLoading() {}

func (p *termPresenter) ShowImage(url string) {
	fmt.Fprintf(p.out, "🖼  Location photo: %s\n", url)
}

func (p *termPresenter) ShowImagePlaceholder() {}

// humanTime renders a server RFC 3339 timestamp in a compact local form,
// falling back to the raw string when it does not parse.
func humanTime(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("Jan 2, 15:04")
}
