package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/terraquiz/terraquiz/internal/config"
	"github.com/terraquiz/terraquiz/internal/generator"
	"github.com/terraquiz/terraquiz/internal/imagery"
	"github.com/terraquiz/terraquiz/internal/model"
	"github.com/terraquiz/terraquiz/internal/repository"
	"github.com/terraquiz/terraquiz/internal/session"
)

// Common quiz errors.
var (
	ErrNoActiveQuestion = errors.New("no active question")
	ErrArchiveDisabled  = errors.New("answer archive not configured")
)

// maxGenerateAttempts bounds how often a question request retries the
// generator before falling back to the built-in bank.
const maxGenerateAttempts = 3

// QuizService implements the quiz flow: serving questions at the session's
// difficulty tier, scoring answers and maintaining per-session history.
type QuizService struct {
	store    session.Store
	gen      generator.Generator
	fallback *generator.Fallback
	images   imagery.ImageFinder

	// rdb carries scored answers to the archive worker and the monitor
	// channel. Nil disables both without affecting the quiz flow.
	rdb *redis.Client

	// historyRepo serves the /stats aggregate. Nil when archiving is off.
	historyRepo *repository.HistoryRepository

	log zerolog.Logger
}

// NewQuizService creates a QuizService. rdb and historyRepo may be nil.
func NewQuizService(
	store session.Store,
	gen generator.Generator,
	images imagery.ImageFinder,
	rdb *redis.Client,
	historyRepo *repository.HistoryRepository,
	log zerolog.Logger,
) *QuizService {
	return &QuizService{
		store:       store,
		gen:         gen,
		fallback:    generator.NewFallback(),
		images:      images,
		rdb:         rdb,
		historyRepo: historyRepo,
		log:         log.With().Str("component", "quiz_service").Logger(),
	}
}

// loadState fetches session state, returning a fresh zero state for unknown
// or expired sessions.
func (s *QuizService) loadState(ctx context.Context, sessionID string) (*model.SessionState, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return &model.SessionState{}, nil
		}
		return nil, err
	}
	return state, nil
}

// NextQuestion serves a new question at the tier implied by the session
// score. Generation retries a few times (errors and duplicates both count as
// failures), then the fallback bank takes over so the endpoint stays usable
// without the LLM.
func (s *QuizService) NextQuestion(ctx context.Context, sessionID string) (*model.QuestionResponse, error) {
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	difficulty := model.ForScore(state.Score)

	var question *model.Question
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		q, err := s.gen.Generate(ctx, difficulty)
		if err != nil {
			s.log.Warn().Err(err).Int("attempt", attempt).Msg("Question generation failed")
			continue
		}
		if state.QuestionUsed(q.Text) {
			s.log.Debug().Int("attempt", attempt).Msg("Duplicate question generated")
			continue
		}
		question = q
		break
	}

	if question == nil {
		question = s.fallback.Pick(state.QuestionUsed)
		if state.QuestionUsed(question.Text) {
			// Whole bank exhausted — recycle it.
			state.UsedQuestions = nil
		}
	}

	state.UsedQuestions = append(state.UsedQuestions, question.Text)

	// Best effort: the photo is looked up for the correct answer before the
	// question is stored, same as the original flow.
	imageURL, err := s.images.FindImage(ctx, question.CorrectAnswer)
	if err != nil {
		s.log.Debug().Err(err).Msg("Image lookup failed")
		imageURL = ""
	}
	question.ImageURL = imageURL

	state.Current = &model.ActiveQuestion{
		Question:  *question,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &model.QuestionResponse{
		Question:      question.Text,
		Options:       question.Options,
		CorrectAnswer: question.CorrectAnswer,
		Hint:          question.Hint,
		Difficulty:    question.Difficulty,
		Image:         question.ImageURL,
	}, nil
}

// CheckAnswer scores the submitted answer against the session's current
// question, updates score and history, and hands the result to the archive
// queue and monitor channel.
func (s *QuizService) CheckAnswer(ctx context.Context, sessionID, answer string) (*model.AnswerResult, error) {
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if state.Current == nil {
		return nil, ErrNoActiveQuestion
	}
	current := state.Current

	isCorrect := answer == current.CorrectAnswer
	if isCorrect {
		state.Score++
	}
	state.TotalQuestions++

	entry := model.HistoryEntry{
		Question:      current.Text,
		UserAnswer:    answer,
		CorrectAnswer: current.CorrectAnswer,
		IsCorrect:     isCorrect,
		Difficulty:    current.Difficulty,
		Timestamp:     current.Timestamp,
	}
	state.History = append(state.History, entry)
	state.Current = nil

	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.publishAnswer(ctx, sessionID, &entry)

	return &model.AnswerResult{
		IsCorrect:      isCorrect,
		CorrectAnswer:  current.CorrectAnswer,
		Score:          state.Score,
		TotalQuestions: state.TotalQuestions,
		NewDifficulty:  model.NextForScore(state.Score),
	}, nil
}

// History returns the session's answer history in insertion order together
// with the running score.
func (s *QuizService) History(ctx context.Context, sessionID string) (*model.HistoryResponse, error) {
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	history := state.History
	if history == nil {
		history = []model.HistoryEntry{}
	}

	return &model.HistoryResponse{
		History:        history,
		Score:          state.Score,
		TotalQuestions: state.TotalQuestions,
	}, nil
}

// Reset drops the session's state entirely.
func (s *QuizService) Reset(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// Stats aggregates the global answer archive.
func (s *QuizService) Stats(ctx context.Context) (*model.GlobalStats, error) {
	if s.historyRepo == nil {
		return nil, ErrArchiveDisabled
	}
	return s.historyRepo.GlobalStats(ctx)
}

// publishAnswer pushes the scored answer onto the archive queue and the
// monitor channel. Both are fire-and-forget: losing an event never fails the
// answer that triggered it.
func (s *QuizService) publishAnswer(ctx context.Context, sessionID string, entry *model.HistoryEntry) {
	if s.rdb == nil {
		return
	}

	answeredAt, err := time.Parse(time.RFC3339, entry.Timestamp)
	if err != nil {
		answeredAt = time.Now()
	}

	archived := repository.ArchivedAnswer{
		SessionID:     sessionID,
		Question:      entry.Question,
		UserAnswer:    entry.UserAnswer,
		CorrectAnswer: entry.CorrectAnswer,
		IsCorrect:     entry.IsCorrect,
		Difficulty:    entry.Difficulty,
		AnsweredAt:    answeredAt,
	}

	raw, err := json.Marshal(&archived)
	if err != nil {
		return
	}

	if err := s.rdb.RPush(ctx, config.CacheKey.ArchiveQueue(), raw).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Archive enqueue failed")
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.MonitorChannel(), raw).Err(); err != nil {
		s.log.Debug().Err(err).Msg("Monitor publish failed")
	}
}
