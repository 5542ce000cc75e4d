// Package generator produces multiple-choice geography questions, either via
// the Gemini API or from a small built-in bank when generation is not
// possible.
package generator

import (
	"context"
	"math/rand"

	"github.com/terraquiz/terraquiz/internal/model"
)

// Generator produces one question at the requested difficulty.
type Generator interface {
	Generate(ctx context.Context, difficulty model.Difficulty) (*model.Question, error)
}

// shuffleOptions returns a shuffled copy of the question with the same
// correct answer. Questions always ship with freshly ordered options so the
// correct one does not sit in a predictable slot.
func shuffleOptions(q *model.Question) *model.Question {
	out := *q
	out.Options = make([]string, len(q.Options))
	copy(out.Options, q.Options)
	rand.Shuffle(len(out.Options), func(i, j int) {
		out.Options[i], out.Options[j] = out.Options[j], out.Options[i]
	})
	return &out
}
