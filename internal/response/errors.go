package response

// ErrCode is a typed error code enum for consistent error identification in
// logs. The wire carries only the message — the quiz client treats every
// failure the same way.
type ErrCode string

const (
	// ─── Quiz flow ─────────────────────────────────────────────────────
	ErrQuestionGeneration ErrCode = "QUESTION_GENERATION_FAILED"
	ErrNoActiveQuestion   ErrCode = "NO_ACTIVE_QUESTION"
	ErrAnswerCheck        ErrCode = "ANSWER_CHECK_FAILED"
	ErrHistoryFetch       ErrCode = "HISTORY_FETCH_FAILED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrQuestionGeneration:
		return "Failed to generate question"
	case ErrNoActiveQuestion:
		return "No active question"
	case ErrAnswerCheck:
		return "Failed to check answer"
	case ErrHistoryFetch:
		return "Failed to get history"
	case ErrInvalidPayload:
		return "Invalid request data"
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "Internal server error"
	default:
		return "An unexpected error occurred"
	}
}
