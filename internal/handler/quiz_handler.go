package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/terraquiz/terraquiz/internal/model"
	"github.com/terraquiz/terraquiz/internal/response"
	"github.com/terraquiz/terraquiz/internal/service"
	"github.com/terraquiz/terraquiz/internal/session"
	"github.com/terraquiz/terraquiz/internal/validator"
)

// QuizHandler exposes the quiz flow endpoints. Response shapes are flat JSON
// with a single "error" field on failure — the quiz client folds every
// failure into one retryable state and never inspects details.
type QuizHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, log zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		log:         log.With().Str("component", "quiz_handler").Logger(),
	}
}

// GetQuestion godoc
// GET /get_question
// Serves a new question at the difficulty tier implied by the session score.
func (h *QuizHandler) GetQuestion(c *gin.Context) {
	sessionID := session.GetSessionID(c)

	q, err := h.quizService.NextQuestion(c.Request.Context(), sessionID)
	if err != nil {
		h.log.Error().Err(err).Msg("get_question failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrQuestionGeneration)
		return
	}

	response.Success(c, http.StatusOK, q)
}

// CheckAnswer godoc
// POST /check_answer
// Scores the submitted answer against the session's current question.
func (h *QuizHandler) CheckAnswer(c *gin.Context) {
	sessionID := session.GetSessionID(c)

	var req model.CheckAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	result, err := h.quizService.CheckAnswer(c.Request.Context(), sessionID, req.Answer)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveQuestion) {
			response.Fail(c, http.StatusBadRequest, response.ErrNoActiveQuestion)
			return
		}
		h.log.Error().Err(err).Msg("check_answer failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrAnswerCheck)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetHistory godoc
// GET /get_history
// Returns the session's answer history and running score.
func (h *QuizHandler) GetHistory(c *gin.Context) {
	sessionID := session.GetSessionID(c)

	history, err := h.quizService.History(c.Request.Context(), sessionID)
	if err != nil {
		h.log.Error().Err(err).Msg("get_history failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrHistoryFetch)
		return
	}

	response.Success(c, http.StatusOK, history)
}

// ResetSession godoc
// POST /reset_session
// Drops the session's quiz state, starting the score from zero.
func (h *QuizHandler) ResetSession(c *gin.Context) {
	sessionID := session.GetSessionID(c)

	if err := h.quizService.Reset(c.Request.Context(), sessionID); err != nil {
		h.log.Error().Err(err).Msg("reset_session failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"score": 0, "total_questions": 0})
}

// GetStats godoc
// GET /stats
// Aggregates the global answer archive. 404 when archiving is disabled.
func (h *QuizHandler) GetStats(c *gin.Context) {
	stats, err := h.quizService.Stats(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrArchiveDisabled) {
			response.Fail(c, http.StatusNotFound, response.ErrInternal)
			return
		}
		h.log.Error().Err(err).Msg("stats failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, stats)
}
