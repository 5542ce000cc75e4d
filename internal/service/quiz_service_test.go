package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/terraquiz/terraquiz/internal/generator"
	"github.com/terraquiz/terraquiz/internal/model"
	"github.com/terraquiz/terraquiz/internal/session"
)

// stubGenerator serves questions from a scripted list, then errors.
type stubGenerator struct {
	questions []model.Question
	err       error
	calls     int
	lastTier  model.Difficulty
}

func (g *stubGenerator) Generate(_ context.Context, difficulty model.Difficulty) (*model.Question, error) {
	g.calls++
	g.lastTier = difficulty
	if g.err != nil {
		return nil, g.err
	}
	if len(g.questions) == 0 {
		return nil, errors.New("out of questions")
	}
	q := g.questions[0]
	g.questions = g.questions[1:]
	return &q, nil
}

// stubImages returns a fixed URL.
type stubImages struct {
	url   string
	query string
}

func (s *stubImages) FindImage(_ context.Context, query string) (string, error) {
	s.query = query
	return s.url, nil
}

func question(text string, difficulty model.Difficulty) model.Question {
	return model.Question{
		Text:          text,
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: "a",
		Hint:          "h",
		Difficulty:    difficulty,
	}
}

func newTestService(gen generator.Generator, images *stubImages) *QuizService {
	if images == nil {
		images = &stubImages{}
	}
	return NewQuizService(session.NewMemoryStore(), gen, images, nil, nil, zerolog.Nop())
}

func TestNextQuestionServesGeneratedQuestion(t *testing.T) {
	gen := &stubGenerator{questions: []model.Question{question("q1", model.DifficultyEasy)}}
	images := &stubImages{url: "http://img/x.jpg"}
	svc := newTestService(gen, images)

	resp, err := svc.NextQuestion(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}

	if resp.Question != "q1" || resp.CorrectAnswer != "a" {
		t.Errorf("unexpected question: %+v", resp)
	}
	if resp.Image != "http://img/x.jpg" {
		t.Errorf("image = %q, want the finder's URL", resp.Image)
	}
	if images.query != "a" {
		t.Errorf("image queried for %q, want the correct answer", images.query)
	}
	if gen.lastTier != model.DifficultyEasy {
		t.Errorf("difficulty = %s, want easy for score 0", gen.lastTier)
	}
}

func TestNextQuestionFallsBackAfterRetries(t *testing.T) {
	gen := &stubGenerator{err: errors.New("llm down")}
	svc := newTestService(gen, nil)

	resp, err := svc.NextQuestion(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}

	if gen.calls != 3 {
		t.Errorf("generator attempts = %d, want 3", gen.calls)
	}
	if resp.Question == "" || len(resp.Options) != 4 {
		t.Errorf("fallback question malformed: %+v", resp)
	}
	found := false
	for _, opt := range resp.Options {
		if opt == resp.CorrectAnswer {
			found = true
		}
	}
	if !found {
		t.Error("fallback correct answer not among options")
	}
}

func TestNextQuestionSkipsDuplicates(t *testing.T) {
	gen := &stubGenerator{questions: []model.Question{
		question("q1", model.DifficultyEasy),
		question("q1", model.DifficultyEasy), // Duplicate of the first.
		question("q2", model.DifficultyEasy),
	}}
	svc := newTestService(gen, nil)
	ctx := context.Background()

	if _, err := svc.NextQuestion(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	resp, err := svc.NextQuestion(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}

	if resp.Question != "q2" {
		t.Errorf("question = %q, want the duplicate skipped", resp.Question)
	}
}

func TestCheckAnswerScoresAndRecordsHistory(t *testing.T) {
	gen := &stubGenerator{questions: []model.Question{
		question("q1", model.DifficultyEasy),
		question("q2", model.DifficultyEasy),
	}}
	svc := newTestService(gen, nil)
	ctx := context.Background()

	if _, err := svc.NextQuestion(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	result, err := svc.CheckAnswer(ctx, "s1", "a")
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsCorrect || result.Score != 1 || result.TotalQuestions != 1 {
		t.Errorf("unexpected result: %+v", result)
	}

	if _, err := svc.NextQuestion(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	result, err = svc.CheckAnswer(ctx, "s1", "b")
	if err != nil {
		t.Fatal(err)
	}
	if result.IsCorrect || result.Score != 1 || result.TotalQuestions != 2 {
		t.Errorf("unexpected result: %+v", result)
	}

	history, err := svc.History(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(history.History))
	}
	// Insertion order: oldest first.
	if history.History[0].Question != "q1" || history.History[1].Question != "q2" {
		t.Errorf("history order wrong: %+v", history.History)
	}
	if !history.History[0].IsCorrect || history.History[1].IsCorrect {
		t.Errorf("history correctness wrong: %+v", history.History)
	}
}

func TestCheckAnswerWithoutQuestion(t *testing.T) {
	svc := newTestService(&stubGenerator{}, nil)

	_, err := svc.CheckAnswer(context.Background(), "s1", "a")
	if !errors.Is(err, ErrNoActiveQuestion) {
		t.Errorf("err = %v, want ErrNoActiveQuestion", err)
	}
}

func TestCheckAnswerConsumesQuestion(t *testing.T) {
	gen := &stubGenerator{questions: []model.Question{question("q1", model.DifficultyEasy)}}
	svc := newTestService(gen, nil)
	ctx := context.Background()

	if _, err := svc.NextQuestion(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CheckAnswer(ctx, "s1", "a"); err != nil {
		t.Fatal(err)
	}

	// Second submission with no newly fetched question must fail.
	if _, err := svc.CheckAnswer(ctx, "s1", "a"); !errors.Is(err, ErrNoActiveQuestion) {
		t.Errorf("err = %v, want ErrNoActiveQuestion after consuming the question", err)
	}
}

func TestDifficultyLadder(t *testing.T) {
	questions := make([]model.Question, 0, 8)
	for i := 0; i < 8; i++ {
		questions = append(questions, question(string(rune('a'+i))+"-question", model.DifficultyEasy))
	}
	gen := &stubGenerator{questions: questions}
	svc := newTestService(gen, nil)
	ctx := context.Background()

	// Answer correctly until the score crosses both thresholds.
	wantTiers := []model.Difficulty{
		model.DifficultyEasy,   // score 0
		model.DifficultyEasy,   // score 1
		model.DifficultyMedium, // score 2
		model.DifficultyMedium, // score 3
		model.DifficultyMedium, // score 4
		model.DifficultyHard,   // score 5
	}
	for i, want := range wantTiers {
		if _, err := svc.NextQuestion(ctx, "s1"); err != nil {
			t.Fatal(err)
		}
		if gen.lastTier != want {
			t.Errorf("fetch %d: tier = %s, want %s", i, gen.lastTier, want)
		}
		if _, err := svc.CheckAnswer(ctx, "s1", "a"); err != nil {
			t.Fatal(err)
		}
	}
}

func TestNewDifficultyThresholdsAreExclusive(t *testing.T) {
	cases := []struct {
		score int
		want  model.Difficulty
	}{
		{0, model.DifficultyEasy},
		{2, model.DifficultyEasy},
		{3, model.DifficultyMedium},
		{5, model.DifficultyMedium},
		{6, model.DifficultyHard},
	}
	for _, tc := range cases {
		if got := model.NextForScore(tc.score); got != tc.want {
			t.Errorf("NextForScore(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestResetDropsState(t *testing.T) {
	gen := &stubGenerator{questions: []model.Question{question("q1", model.DifficultyEasy)}}
	svc := newTestService(gen, nil)
	ctx := context.Background()

	if _, err := svc.NextQuestion(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CheckAnswer(ctx, "s1", "a"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Reset(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	history, err := svc.History(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if history.Score != 0 || history.TotalQuestions != 0 || len(history.History) != 0 {
		t.Errorf("state survived reset: %+v", history)
	}
}

func TestStatsWithoutArchive(t *testing.T) {
	svc := newTestService(&stubGenerator{}, nil)
	if _, err := svc.Stats(context.Background()); !errors.Is(err, ErrArchiveDisabled) {
		t.Errorf("err = %v, want ErrArchiveDisabled", err)
	}
}
