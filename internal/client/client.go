// Package client implements the quiz client: an HTTP API client for the
// quiz server and a presentation-independent controller that drives the
// question/answer/history flow.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/terraquiz/terraquiz/internal/model"
)

const requestTimeout = 10 * time.Second

// QuizAPI is the server surface the controller depends on.
type QuizAPI interface {
	FetchQuestion(ctx context.Context) (*model.QuestionResponse, error)
	SubmitAnswer(ctx context.Context, answer string) (*model.AnswerResult, error)
	FetchHistory(ctx context.Context) (*model.HistoryResponse, error)
}

// Client talks to the quiz server over HTTP. A cookie jar carries the
// session cookie so score and history stick across calls.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given server base URL.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: requestTimeout,
		},
	}, nil
}

// FetchQuestion requests the next question.
func (c *Client) FetchQuestion(ctx context.Context) (*model.QuestionResponse, error) {
	var payload struct {
		model.QuestionResponse
		Error string `json:"error"`
	}
	if err := c.do(ctx, http.MethodGet, "/get_question", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("server error: %s", payload.Error)
	}
	return &payload.QuestionResponse, nil
}

// SubmitAnswer submits the chosen option for scoring.
func (c *Client) SubmitAnswer(ctx context.Context, answer string) (*model.AnswerResult, error) {
	body := map[string]string{"answer": answer}

	var payload struct {
		model.AnswerResult
		Error string `json:"error"`
	}
	if err := c.do(ctx, http.MethodPost, "/check_answer", body, &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("server error: %s", payload.Error)
	}
	return &payload.AnswerResult, nil
}

// FetchHistory requests the session's full answer history.
func (c *Client) FetchHistory(ctx context.Context) (*model.HistoryResponse, error) {
	var payload struct {
		model.HistoryResponse
		Error string `json:"error"`
	}
	if err := c.do(ctx, http.MethodGet, "/get_history", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("server error: %s", payload.Error)
	}
	return &payload.HistoryResponse, nil
}

// do performs one JSON request/response exchange. Non-2xx responses are
// errors even when the body parses — the caller treats every failure the
// same way, so precision about why matters only for the log line.
func (c *Client) do(ctx context.Context, method, path string, body, dst interface{}) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Surface the server's error message when there is one.
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, errBody.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
