package generator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/terraquiz/terraquiz/internal/model"
)

const validQuestionJSON = `{
	"question": "Which river flows through Cairo?",
	"options": ["Nile", "Congo", "Niger", "Zambezi"],
	"correct_answer": "Nile",
	"hint": "Longest river in Africa.",
	"difficulty": "easy"
}`

func TestParseQuestionJSON(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"bare json", validQuestionJSON, false},
		{"json fence", "```json\n" + validQuestionJSON + "\n```", false},
		{"plain fence", "```\n" + validQuestionJSON + "\n```", false},
		{"surrounding whitespace", "\n\n  " + validQuestionJSON + "  \n", false},
		{"not json", "Sure! Here is your question: ...", true},
		{"three options", `{"question":"q","options":["a","b","c"],"correct_answer":"a","hint":"h","difficulty":"easy"}`, true},
		{"five options", `{"question":"q","options":["a","b","c","d","e"],"correct_answer":"a","hint":"h","difficulty":"easy"}`, true},
		{"correct answer not an option", `{"question":"q","options":["a","b","c","d"],"correct_answer":"x","hint":"h","difficulty":"easy"}`, true},
		{"missing question", `{"options":["a","b","c","d"],"correct_answer":"a","hint":"h","difficulty":"easy"}`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := parseQuestionJSON(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseQuestionJSON(%q) accepted invalid input", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if q.Text != "Which river flows through Cairo?" || q.CorrectAnswer != "Nile" {
				t.Errorf("unexpected question: %+v", q)
			}
		})
	}
}

func geminiBody(text string) string {
	resp := geminiResponse{
		Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{Text: text}}},
		}},
	}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func TestGenerate(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		io.WriteString(w, geminiBody("```json\n"+validQuestionJSON+"\n```"))
	}))
	defer srv.Close()

	g := NewGemini("test-key", zerolog.Nop()).WithBaseURL(srv.URL)
	q, err := g.Generate(context.Background(), model.DifficultyEasy)
	if err != nil {
		t.Fatal(err)
	}

	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if q.Text != "Which river flows through Cairo?" {
		t.Errorf("question = %q", q.Text)
	}
	if len(q.Options) != 4 || !q.HasOption(q.CorrectAnswer) {
		t.Errorf("options broken after shuffle: %+v", q)
	}
}

func TestGenerateUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error": {"message": "quota exceeded"}}`)
	}))
	defer srv.Close()

	g := NewGemini("test-key", zerolog.Nop()).WithBaseURL(srv.URL)
	if _, err := g.Generate(context.Background(), model.DifficultyEasy); err == nil {
		t.Fatal("expected error for non-200 upstream status")
	}
}

func TestGenerateNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates": []}`)
	}))
	defer srv.Close()

	g := NewGemini("test-key", zerolog.Nop()).WithBaseURL(srv.URL)
	if _, err := g.Generate(context.Background(), model.DifficultyEasy); err == nil {
		t.Fatal("expected error for empty candidate list")
	}
}

func TestGenerateWithoutKey(t *testing.T) {
	g := NewGemini("", zerolog.Nop())
	if _, err := g.Generate(context.Background(), model.DifficultyEasy); err == nil {
		t.Fatal("expected error when no API key is configured")
	}
}

func TestShuffleKeepsOptionSet(t *testing.T) {
	q := &model.Question{
		Text:          "q",
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: "c",
	}

	shuffled := shuffleOptions(q)
	if len(shuffled.Options) != 4 {
		t.Fatalf("options length = %d", len(shuffled.Options))
	}
	seen := map[string]bool{}
	for _, opt := range shuffled.Options {
		seen[opt] = true
	}
	for _, want := range []string{"a", "b", "c", "d"} {
		if !seen[want] {
			t.Errorf("option %q lost in shuffle", want)
		}
	}
	if shuffled.CorrectAnswer != "c" {
		t.Errorf("correct answer changed to %q", shuffled.CorrectAnswer)
	}
}
