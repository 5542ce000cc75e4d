package model

// HistoryEntry records one answered question. The server appends entries in
// answer order; clients render them newest first.
type HistoryEntry struct {
	Question      string     `json:"question"`
	UserAnswer    string     `json:"user_answer"`
	CorrectAnswer string     `json:"correct_answer"`
	IsCorrect     bool       `json:"is_correct"`
	Difficulty    Difficulty `json:"difficulty"`
	Timestamp     string     `json:"timestamp"`
}

// HistoryResponse is the wire shape of GET /get_history.
type HistoryResponse struct {
	History        []HistoryEntry `json:"history"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"total_questions"`
}

// GlobalStats aggregates the answer archive for GET /stats.
type GlobalStats struct {
	TotalAnswers   int64                `json:"total_answers"`
	CorrectAnswers int64                `json:"correct_answers"`
	Accuracy       float64              `json:"accuracy"`
	ByDifficulty   map[Difficulty]int64 `json:"by_difficulty"`
}
