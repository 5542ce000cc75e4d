package model

// Difficulty labels a question's difficulty tier. Tiers advance with the
// session score: easy until 2 correct answers, medium until 5, then hard.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ForScore returns the difficulty tier used when fetching a new question.
func ForScore(score int) Difficulty {
	switch {
	case score >= 5:
		return DifficultyHard
	case score >= 2:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}

// NextForScore returns the tier reported to the client after an answer is
// scored. The thresholds are exclusive here, unlike ForScore.
func NextForScore(score int) Difficulty {
	switch {
	case score > 5:
		return DifficultyHard
	case score > 2:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}

// Question is a single multiple-choice geography question. Exactly four
// options; CorrectAnswer must be one of them.
type Question struct {
	Text          string     `json:"question" validate:"required"`
	Options       []string   `json:"options" validate:"required,len=4,dive,required"`
	CorrectAnswer string     `json:"correct_answer" validate:"required"`
	Hint          string     `json:"hint"`
	Difficulty    Difficulty `json:"difficulty" validate:"required,oneof=easy medium hard"`
	ImageURL      string     `json:"image,omitempty"`
}

// HasOption reports whether answer is one of the question's options.
func (q *Question) HasOption(answer string) bool {
	for _, opt := range q.Options {
		if opt == answer {
			return true
		}
	}
	return false
}

// QuestionResponse is the wire shape of GET /get_question.
type QuestionResponse struct {
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Hint          string     `json:"hint"`
	Difficulty    Difficulty `json:"difficulty"`
	Image         string     `json:"image"`
}

// CheckAnswerRequest is the body of POST /check_answer.
type CheckAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// AnswerResult is the wire shape of POST /check_answer responses.
type AnswerResult struct {
	IsCorrect      bool       `json:"is_correct"`
	CorrectAnswer  string     `json:"correct_answer"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	NewDifficulty  Difficulty `json:"new_difficulty"`
}
