package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:     srv.URL,
		APIKey:      "test-key",
		Model:       "gemini-3-flash-preview",
		Temperature: 0.3,
		MaxTokens:   2048,
		Timeout:     2 * time.Second,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func TestComplete_SendsChatRequest(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(completionBody("answer")))
	}))
	defer srv.Close()

	got, err := testClient(t, srv).Complete(context.Background(), "you are a fact checker", "check this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "answer" {
		t.Errorf("got %q, want %q", got, "answer")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "gemini-3-flash-preview" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("messages = %+v, want system+user pair", gotReq.Messages)
	}
}

func TestComplete_StripsCodeFences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody("```json\n{\"score\": 0.5}\n```")))
	}))
	defer srv.Close()

	got, err := testClient(t, srv).Complete(context.Background(), "", "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"score": 0.5}` {
		t.Errorf("got %q, want fences stripped", got)
	}
}

func TestComplete_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
	}{
		{"401 auth", http.StatusUnauthorized, "", KindAuth},
		{"403 auth", http.StatusForbidden, "", KindAuth},
		{"402 quota", http.StatusPaymentRequired, "", KindQuota},
		{"429 rate limit", http.StatusTooManyRequests, "slow down", KindRateLimited},
		{"429 with quota body", http.StatusTooManyRequests, `{"error": "Quota exceeded for model"}`, KindQuota},
		{"500 generic", http.StatusInternalServerError, "", KindAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := testClient(t, srv).Complete(context.Background(), "", "prompt")
			if err == nil {
				t.Fatal("expected error")
			}
			e, ok := AsError(err)
			if !ok {
				t.Fatalf("expected *Error, got %T", err)
			}
			if e.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", e.Kind, tt.wantKind)
			}
			if e.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", e.StatusCode, tt.status)
			}
		})
	}
}

func TestComplete_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := testClient(t, srv).Complete(context.Background(), "", "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	e, ok := AsError(err)
	if !ok || e.Kind != KindAPI || e.StatusCode != 0 {
		t.Errorf("transport failure should be a generic API error without status, got %v", err)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	if _, err := testClient(t, srv).Complete(context.Background(), "", "prompt"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\ntext\n```", "text"},
		{"no fence", "  plain  ", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
