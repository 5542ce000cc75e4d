package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraquiz/terraquiz/internal/model"
	"github.com/terraquiz/terraquiz/internal/validator"
)

const (
	defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
	geminiTimeout    = 30 * time.Second
)

const promptTemplate = `Generate a unique world geography multiple-choice question with these requirements:
- Difficulty level: %s
- 1 correct answer and 3 plausible incorrect answers
- Include a brief hint
- Format as valid JSON with these exact keys:
{
    "question": "question text",
    "options": ["option1", "option2", "option3", "option4"],
    "correct_answer": "correct option",
    "hint": "helpful hint",
    "difficulty": "%s"
}
Return ONLY the JSON object, no additional text or markdown.
Make sure the options are clear and distinct from each other.`

// Gemini generates questions through the Gemini generateContent REST API.
type Gemini struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewGemini creates a Gemini generator.
func NewGemini(apiKey string, log zerolog.Logger) *Gemini {
	return &Gemini{
		apiKey:  apiKey,
		baseURL: defaultGeminiURL,
		client:  &http.Client{Timeout: geminiTimeout},
		log:     log.With().Str("component", "gemini").Logger(),
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (g *Gemini) WithBaseURL(url string) *Gemini {
	g.baseURL = url
	return g
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

// Generate asks Gemini for one question and validates the result before
// returning it with shuffled options.
func (g *Gemini) Generate(ctx context.Context, difficulty model.Difficulty) (*model.Question, error) {
	if g.apiKey == "" {
		return nil, errors.New("gemini API key not configured")
	}

	prompt := fmt.Sprintf(promptTemplate, difficulty, difficulty)
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, body)
	}

	var genResp geminiResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("no candidates in gemini response")
	}

	question, err := parseQuestionJSON(genResp.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return nil, err
	}

	g.log.Debug().
		Dur("took", time.Since(start)).
		Str("difficulty", string(difficulty)).
		Msg("Question generated")

	return shuffleOptions(question), nil
}

// parseQuestionJSON strips optional markdown fences, unmarshals the model
// output and validates it against the question schema.
func parseQuestionJSON(text string) (*model.Question, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	var q model.Question
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &q); err != nil {
		return nil, fmt.Errorf("parse generated question: %w", err)
	}

	if err := validator.Struct(&q); err != nil {
		return nil, fmt.Errorf("invalid generated question: %w", err)
	}
	if !q.HasOption(q.CorrectAnswer) {
		return nil, errors.New("correct answer must be one of the options")
	}

	return &q, nil
}
