package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/terraquiz/terraquiz/internal/model"
)

// ArchivedAnswer is one scored answer bound for the answer_archive table.
type ArchivedAnswer struct {
	SessionID     string           `json:"session_id"`
	Question      string           `json:"question"`
	UserAnswer    string           `json:"user_answer"`
	CorrectAnswer string           `json:"correct_answer"`
	IsCorrect     bool             `json:"is_correct"`
	Difficulty    model.Difficulty `json:"difficulty"`
	AnsweredAt    time.Time        `json:"answered_at"`
}

// HistoryRepository handles answer archive data access.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// BulkInsert writes a batch of archived answers in one round trip using
// UNNEST so batch size does not change the statement.
func (r *HistoryRepository) BulkInsert(ctx context.Context, answers []*ArchivedAnswer) error {
	if len(answers) == 0 {
		return nil
	}

	sessionIDs := make([]string, len(answers))
	questions := make([]string, len(answers))
	userAnswers := make([]string, len(answers))
	correctAnswers := make([]string, len(answers))
	corrects := make([]bool, len(answers))
	difficulties := make([]string, len(answers))
	answeredAts := make([]time.Time, len(answers))

	for i, a := range answers {
		sessionIDs[i] = a.SessionID
		questions[i] = a.Question
		userAnswers[i] = a.UserAnswer
		correctAnswers[i] = a.CorrectAnswer
		corrects[i] = a.IsCorrect
		difficulties[i] = string(a.Difficulty)
		answeredAts[i] = a.AnsweredAt
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO answer_archive
		   (session_id, question, user_answer, correct_answer, is_correct, difficulty, answered_at)
		 SELECT * FROM UNNEST
		   ($1::text[], $2::text[], $3::text[], $4::text[], $5::bool[], $6::text[], $7::timestamptz[])`,
		sessionIDs, questions, userAnswers, correctAnswers, corrects, difficulties, answeredAts,
	)
	if err != nil {
		return fmt.Errorf("bulk insert answers: %w", err)
	}
	return nil
}

// Insert writes a single archived answer. Fallback path for failed batches.
func (r *HistoryRepository) Insert(ctx context.Context, a *ArchivedAnswer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO answer_archive
		   (session_id, question, user_answer, correct_answer, is_correct, difficulty, answered_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.SessionID, a.Question, a.UserAnswer, a.CorrectAnswer, a.IsCorrect, string(a.Difficulty), a.AnsweredAt,
	)
	return err
}

// GlobalStats aggregates the archive for the /stats endpoint.
func (r *HistoryRepository) GlobalStats(ctx context.Context) (*model.GlobalStats, error) {
	stats := &model.GlobalStats{
		ByDifficulty: make(map[model.Difficulty]int64),
	}

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct) FROM answer_archive`,
	).Scan(&stats.TotalAnswers, &stats.CorrectAnswers)
	if err != nil {
		return nil, fmt.Errorf("aggregate archive: %w", err)
	}

	if stats.TotalAnswers > 0 {
		stats.Accuracy = float64(stats.CorrectAnswers) / float64(stats.TotalAnswers)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT difficulty, COUNT(*) FROM answer_archive GROUP BY difficulty`,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate by difficulty: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var difficulty string
		var count int64
		if err := rows.Scan(&difficulty, &count); err != nil {
			return nil, err
		}
		stats.ByDifficulty[model.Difficulty(difficulty)] = count
	}
	return stats, rows.Err()
}
