package generator

import (
	"context"
	"math/rand"

	"github.com/terraquiz/terraquiz/internal/model"
)

// fallbackQuestions is the predefined bank used when Gemini is unavailable
// or keeps producing duplicates.
var fallbackQuestions = []model.Question{
	{
		Text:          "Which country has the longest coastline in the world?",
		Options:       []string{"Russia", "Canada", "Norway", "Australia"},
		CorrectAnswer: "Canada",
		Hint:          "This country is in North America and has over 200,000 km of coastline.",
		Difficulty:    model.DifficultyMedium,
	},
	{
		Text:          "What is the capital of Brazil?",
		Options:       []string{"Rio de Janeiro", "São Paulo", "Brasília", "Salvador"},
		CorrectAnswer: "Brasília",
		Hint:          "This planned city became the capital in 1960.",
		Difficulty:    model.DifficultyEasy,
	},
	{
		Text:          "Which desert is the largest in the world?",
		Options:       []string{"Sahara", "Arabian", "Gobi", "Antarctic"},
		CorrectAnswer: "Antarctic",
		Hint:          "It's located at the southernmost continent.",
		Difficulty:    model.DifficultyHard,
	},
	{
		Text:          "Which continent contains the most fresh water?",
		Options:       []string{"North America", "Asia", "Africa", "Antarctica"},
		CorrectAnswer: "Antarctica",
		Hint:          "About 70% of the world's fresh water is frozen here.",
		Difficulty:    model.DifficultyHard,
	},
}

// Fallback serves questions from the predefined bank, preferring ones the
// session has not seen. When every bank question has been used it recycles
// the full bank rather than failing.
type Fallback struct{}

// NewFallback creates a Fallback generator.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Generate ignores difficulty — the bank is too small to filter by tier.
func (f *Fallback) Generate(_ context.Context, _ model.Difficulty) (*model.Question, error) {
	return f.Pick(nil), nil
}

// Pick returns an unused bank question with shuffled options, or any bank
// question when all have been used.
func (f *Fallback) Pick(used func(text string) bool) *model.Question {
	if used != nil {
		available := make([]model.Question, 0, len(fallbackQuestions))
		for _, q := range fallbackQuestions {
			if !used(q.Text) {
				available = append(available, q)
			}
		}
		if len(available) > 0 {
			q := available[rand.Intn(len(available))]
			return shuffleOptions(&q)
		}
	}

	q := fallbackQuestions[rand.Intn(len(fallbackQuestions))]
	return shuffleOptions(&q)
}
