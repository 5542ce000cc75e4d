package model

// ActiveQuestion is the session's current question plus the moment it was
// served. The timestamp is carried into the history entry when the answer
// comes in, matching when the question was asked rather than answered.
type ActiveQuestion struct {
	Question
	Timestamp string `json:"timestamp"`
}

// SessionState is everything the server remembers about one quiz session.
type SessionState struct {
	Score          int             `json:"score"`
	TotalQuestions int             `json:"total_questions"`
	History        []HistoryEntry  `json:"history"`
	Current        *ActiveQuestion `json:"current_question"`
	UsedQuestions  []string        `json:"used_questions"`
}

// QuestionUsed reports whether a question text has already been served in
// this session.
func (s *SessionState) QuestionUsed(text string) bool {
	for _, q := range s.UsedQuestions {
		if q == text {
			return true
		}
	}
	return false
}
