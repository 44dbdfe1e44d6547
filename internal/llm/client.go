// Package llm is a minimal client for Gemini through its OpenAI-compatible
// chat-completions surface. Keeping the transport to one REST call avoids an
// SDK dependency and lets the checker service swap providers by changing the
// base URL and model name.
package llm

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
)

// Kind classifies an LLM API failure.
type Kind int

const (
	KindAPI Kind = iota
	KindAuth
	KindQuota
	KindRateLimited
)

// Error is a typed LLM API failure. StatusCode is zero for transport failures.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("llm: %s (status %d)", e.Message, e.StatusCode)
	}
	return "llm: " + e.Message
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindAuth
}

// IsQuota reports whether err is a quota/billing failure.
func IsQuota(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindQuota
}

// IsRateLimited reports whether err is a rate-limit failure.
func IsRateLimited(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindRateLimited
}

// Config holds the LLM provider settings.
type Config struct {
	BaseURL     string // OpenAI-compatible base, e.g. https://generativelanguage.googleapis.com/v1beta/openai
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client sends chat-completion requests to the configured provider.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

// NewClient creates a Client.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: API key is not configured")
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log.With().Str("component", "llm").Logger(),
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a system+user prompt pair and returns the response text with
// any markdown code fences stripped.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	payload, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", &Error{Kind: KindAPI, Message: fmt.Sprintf("encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Kind: KindAPI, Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", &Error{Kind: KindAPI, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: KindAPI, Message: fmt.Sprintf("read response: %v", err)}
	}

	if apiErr := statusError(resp.StatusCode, body); apiErr != nil {
		return "", apiErr
	}

	var data chatResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", &Error{Kind: KindAPI, Message: fmt.Sprintf("invalid response: %v", err)}
	}
	if len(data.Choices) == 0 {
		return "", &Error{Kind: KindAPI, Message: "response contained no choices"}
	}

	c.log.Debug().
		Str("model", c.cfg.Model).
		Dur("duration", time.Since(start)).
		Msg("completion finished")

	return StripFences(data.Choices[0].Message.Content), nil
}

// statusError maps a bad status to its typed error, or nil for 2xx.
func statusError(status int, body []byte) *Error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &Error{Kind: KindAuth, StatusCode: status, Message: "invalid or missing LLM API key"}
	case status == http.StatusPaymentRequired:
		return &Error{Kind: KindQuota, StatusCode: status, Message: "LLM quota exceeded"}
	case status == http.StatusTooManyRequests:
		// Providers report exhausted quotas on 429 too; tell them apart by body.
		if bytes.Contains(bytes.ToLower(body), []byte("quota")) {
			return &Error{Kind: KindQuota, StatusCode: status, Message: "LLM quota exceeded"}
		}
		return &Error{Kind: KindRateLimited, StatusCode: status, Message: "LLM rate limit exceeded"}
	case status >= 400:
		return &Error{Kind: KindAPI, StatusCode: status, Message: fmt.Sprintf("API error: %d - %s", status, string(body))}
	}
	return nil
}

// StripFences removes markdown code fences wrapping LLM output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
