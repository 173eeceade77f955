package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smart-resume/internal/llm"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("  ", ""); err == nil {
		t.Fatal("expected error for missing api key")
	}
	c, err := NewClient("key", "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if c.Model() != DefaultModel {
		t.Fatalf("expected default model %q, got %q", DefaultModel, c.Model())
	}
}

func TestBuildPromptAppendsTextVerbatim(t *testing.T) {
	text := strings.Repeat("word ", 5000)
	messages := BuildPrompt(text)
	if len(messages) != 1 || messages[0].Role != "user" {
		t.Fatalf("expected one user message, got %+v", messages)
	}
	if !strings.HasPrefix(messages[0].Content, llm.ExtractionPrompt()) {
		t.Fatal("prompt must start with the extraction instructions")
	}
	if !strings.HasSuffix(messages[0].Content, "Resume Text:\n"+text) {
		t.Fatal("resume text must follow the instructions untouched")
	}
}

func TestExtractResumeStructured(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if got := r.Header.Get("X-Title"); got != "Smart Resume Parser" {
			t.Errorf("unexpected title header: %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"gen-1","choices":[{"message":{"role":"assistant","content":"{\"name\":\"Ann\",\"skills\":[\"Go\"]}"}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	}))
	defer srv.Close()

	c, err := NewClient("secret", "test-model", WithBaseURL(srv.URL), WithAttribution("https://example.com", "Smart Resume Parser"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	rec, err := c.ExtractResume(context.Background(), "Ann Go developer")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if rec.IsFallback() {
		t.Fatalf("expected structured record, got fallback %q", rec.RawOutput)
	}
	if rec.Profile.Name == nil || *rec.Profile.Name != "Ann" {
		t.Fatalf("unexpected name: %v", rec.Profile.Name)
	}
	if gotReq.Model != "test-model" {
		t.Fatalf("unexpected model: %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || !strings.HasSuffix(gotReq.Messages[0].Content, "Ann Go developer") {
		t.Fatalf("unexpected messages: %+v", gotReq.Messages)
	}
}

func TestExtractResumeFallbackOnProse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Here you go:\n` + "```json" + `\n{}\n` + "```" + `"}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient("secret", "", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	rec, err := c.ExtractResume(context.Background(), "text")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !rec.IsFallback() || !strings.HasPrefix(rec.RawOutput, "Here you go:") {
		t.Fatalf("expected fallback with raw reply, got %+v", rec)
	}
}

func TestExtractResumeStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"No auth credentials found","code":401}}`))
	}))
	defer srv.Close()

	c, err := NewClient("bad", "", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.ExtractResume(context.Background(), "text")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized || statusErr.Message != "No auth credentials found" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
}

func TestExtractResumeMissingChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c, _ := NewClient("secret", "", WithBaseURL(srv.URL))
	if _, err := c.ExtractResume(context.Background(), "text"); err == nil {
		t.Fatal("expected error for missing choices")
	}
}

func TestErrorMessageFallsBackToBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "structured", body: `{"error":{"message":"rate limited"}}`, want: "rate limited"},
		{name: "plain", body: "  bad gateway \n", want: "bad gateway"},
		{name: "empty", body: "", want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage([]byte(tt.body)); got != tt.want {
				t.Fatalf("errorMessage(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}
