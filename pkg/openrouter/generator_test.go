package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, content string, seen *chatRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if seen != nil {
			if err := json.Unmarshal(raw, seen); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test/model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) Config {
	maxTokens := 256
	return Config{
		BaseURL:            baseURL,
		APIKey:             "test-key",
		Model:              "test/model",
		MaxCompletionToken: &maxTokens,
		Temperature:        0.2,
	}
}

func TestGeneratorSendsInstructionAndPayload(t *testing.T) {
	t.Parallel()

	var seen chatRequest
	srv := completionServer(t, "  Showers are likely Tuesday.  ", &seen)

	gen, err := NewGenerator(testConfig(srv.URL), "You write weather insights.")
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	text, err := gen.Generate(context.Background(), "Summarize the forecast.", map[string]any{"high_f": 88})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "Showers are likely Tuesday." {
		t.Fatalf("unexpected text: %q", text)
	}

	if seen.Model != "test/model" {
		t.Fatalf("unexpected model: %s", seen.Model)
	}
	if len(seen.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(seen.Messages))
	}
	if !strings.Contains(seen.Messages[0].Content, "Summarize the forecast.") {
		t.Fatalf("system message lacks instruction: %q", seen.Messages[0].Content)
	}
	if seen.Messages[1].Content != `{"high_f":88}` {
		t.Fatalf("unexpected user message: %q", seen.Messages[1].Content)
	}
}

func TestGeneratorEmptyCompletion(t *testing.T) {
	t.Parallel()

	srv := completionServer(t, "   ", nil)
	gen, err := NewGenerator(testConfig(srv.URL), "prompt")
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	_, err = gen.Generate(context.Background(), "", map[string]any{})
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestNewGeneratorRequiresKeyAndModel(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://localhost")
	cfg.APIKey = ""
	if _, err := NewGenerator(cfg, "prompt"); err == nil {
		t.Fatal("expected error without api key")
	}

	cfg = testConfig("http://localhost")
	cfg.Model = " "
	if _, err := NewGenerator(cfg, "prompt"); err == nil {
		t.Fatal("expected error without model")
	}
}
