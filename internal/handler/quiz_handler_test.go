package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/terraquiz/terraquiz/internal/config"
	"github.com/terraquiz/terraquiz/internal/handler"
	"github.com/terraquiz/terraquiz/internal/model"
	"github.com/terraquiz/terraquiz/internal/router"
	"github.com/terraquiz/terraquiz/internal/service"
	"github.com/terraquiz/terraquiz/internal/session"
	"github.com/terraquiz/terraquiz/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

type scriptedGenerator struct {
	question model.Question
	err      error
}

func (g *scriptedGenerator) Generate(context.Context, model.Difficulty) (*model.Question, error) {
	if g.err != nil {
		return nil, g.err
	}
	q := g.question
	return &q, nil
}

type noImages struct{}

func (noImages) FindImage(context.Context, string) (string, error) { return "", nil }

func newTestRouter(gen *scriptedGenerator) *gin.Engine {
	log := zerolog.Nop()
	store := session.NewMemoryStore()
	quizService := service.NewQuizService(store, gen, noImages{}, nil, nil, log)

	handlers := &router.Handlers{
		Quiz:    handler.NewQuizHandler(quizService, log),
		Monitor: handler.NewMonitorHandler(nil, log, nil),
	}

	cfg := &config.Config{
		GinMode:    gin.TestMode,
		SessionTTL: time.Hour,
	}
	return router.SetupRouter(session.NewTokenManager("test-secret", time.Hour), handlers, cfg)
}

// doJSON performs a request carrying the cookies from previous responses.
func doJSON(t *testing.T, r *gin.Engine, method, path, body string, cookies []*http.Cookie) (*httptest.ResponseRecorder, []*http.Cookie) {
	t.Helper()

	var reqBody *strings.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	} else {
		reqBody = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	got := w.Result().Cookies()
	if len(got) == 0 {
		got = cookies
	}
	return w, got
}

func defaultQuestion() model.Question {
	return model.Question{
		Text:          "Capital of Japan?",
		Options:       []string{"Kyoto", "Osaka", "Tokyo", "Hiroshima"},
		CorrectAnswer: "Tokyo",
		Hint:          "Largest metro area on Earth.",
		Difficulty:    model.DifficultyEasy,
	}
}

func TestGetQuestionReturnsFlatPayload(t *testing.T) {
	r := newTestRouter(&scriptedGenerator{question: defaultQuestion()})

	w, cookies := doJSON(t, r, http.MethodGet, "/get_question", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(cookies) == 0 {
		t.Error("no session cookie set on first request")
	}

	var resp model.QuestionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Question != "Capital of Japan?" || len(resp.Options) != 4 {
		t.Errorf("unexpected payload: %+v", resp)
	}
	if resp.CorrectAnswer != "Tokyo" {
		t.Errorf("correct_answer = %q, want Tokyo", resp.CorrectAnswer)
	}
}

func TestCheckAnswerFlow(t *testing.T) {
	r := newTestRouter(&scriptedGenerator{question: defaultQuestion()})

	_, cookies := doJSON(t, r, http.MethodGet, "/get_question", "", nil)

	w, cookies := doJSON(t, r, http.MethodPost, "/check_answer", `{"answer":"Osaka"}`, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result model.AnswerResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.IsCorrect {
		t.Error("Osaka should not be correct")
	}
	if result.CorrectAnswer != "Tokyo" {
		t.Errorf("correct_answer = %q, want Tokyo", result.CorrectAnswer)
	}
	if result.Score != 0 || result.TotalQuestions != 1 {
		t.Errorf("score = %d/%d, want 0/1", result.Score, result.TotalQuestions)
	}

	// History reflects the exchange, oldest first on the wire.
	w, _ = doJSON(t, r, http.MethodGet, "/get_history", "", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var history model.HistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatal(err)
	}
	if len(history.History) != 1 || history.History[0].UserAnswer != "Osaka" {
		t.Errorf("unexpected history: %+v", history)
	}
}

func TestCheckAnswerWithoutActiveQuestion(t *testing.T) {
	r := newTestRouter(&scriptedGenerator{question: defaultQuestion()})

	w, _ := doJSON(t, r, http.MethodPost, "/check_answer", `{"answer":"Tokyo"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error == "" {
		t.Error("expected an error field")
	}
}

func TestCheckAnswerInvalidPayload(t *testing.T) {
	r := newTestRouter(&scriptedGenerator{question: defaultQuestion()})

	w, _ := doJSON(t, r, http.MethodPost, "/check_answer", `{"wrong":"field"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "error") {
		t.Errorf("body = %s, want an error field", w.Body.String())
	}
}

func TestGetQuestionFallsBackWhenGeneratorFails(t *testing.T) {
	r := newTestRouter(&scriptedGenerator{err: errors.New("llm down")})

	w, _ := doJSON(t, r, http.MethodGet, "/get_question", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d — the fallback bank should keep the endpoint alive", w.Code)
	}

	var resp model.QuestionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Options) != 4 {
		t.Errorf("fallback question malformed: %+v", resp)
	}
}

func TestResetSessionZeroesScore(t *testing.T) {
	r := newTestRouter(&scriptedGenerator{question: defaultQuestion()})

	_, cookies := doJSON(t, r, http.MethodGet, "/get_question", "", nil)
	_, cookies = doJSON(t, r, http.MethodPost, "/check_answer", `{"answer":"Tokyo"}`, cookies)

	w, cookies := doJSON(t, r, http.MethodPost, "/reset_session", "", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/get_history", "", cookies)
	var history model.HistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatal(err)
	}
	if history.Score != 0 || history.TotalQuestions != 0 || len(history.History) != 0 {
		t.Errorf("state survived reset: %+v", history)
	}
}

func TestStatsDisabledWithoutArchive(t *testing.T) {
	r := newTestRouter(&scriptedGenerator{question: defaultQuestion()})

	w, _ := doJSON(t, r, http.MethodGet, "/stats", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when archiving is disabled", w.Code)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&scriptedGenerator{question: defaultQuestion()})

	w, _ := doJSON(t, r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
