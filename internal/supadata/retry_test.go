package supadata

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetry_SuccessFirstTry(t *testing.T) {
	calls := 0
	got, err := WithRetry(context.Background(), testPolicy(3), zerolog.Nop(), func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestWithRetry_RateLimitedThenSuccess(t *testing.T) {
	calls := 0
	got, err := WithRetry(context.Background(), testPolicy(3), zerolog.Nop(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", newRateLimitError("slow down")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_ExhaustsBudgetThenPropagates(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), testPolicy(3), zerolog.Nop(), func() (string, error) {
		calls++
		return "", newRateLimitError("still throttled")
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 4 { // initial try + 3 retries
		t.Errorf("expected 4 calls, got %d", calls)
	}
	if !IsRateLimited(err) {
		t.Errorf("exhausted retry should surface the rate-limit error, got %v", err)
	}
}

func TestWithRetry_NoRetryOnAuthError(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), testPolicy(3), zerolog.Nop(), func() (string, error) {
		calls++
		return "", newAuthError()
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("auth failure must not be retried, got %d calls", calls)
	}
	if !IsAuth(err) {
		t.Errorf("expected auth error, got %v", err)
	}
}

func TestWithRetry_NoRetryOnQuotaError(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), testPolicy(3), zerolog.Nop(), func() (string, error) {
		calls++
		return "", newQuotaError()
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("quota failure must not be retried, got %d calls", calls)
	}
	if !IsQuota(err) {
		t.Errorf("expected quota error, got %v", err)
	}
}

func TestWithRetry_NoRetryOnGenericUpstreamError(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), testPolicy(3), zerolog.Nop(), func() (string, error) {
		calls++
		return "", &Error{Kind: KindUpstream, StatusCode: 500, Message: "server error"}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("5xx failure must not be retried, got %d calls", calls)
	}
	e, ok := AsError(err)
	if !ok || e.StatusCode != 500 {
		t.Errorf("expected upstream error with status 500, got %v", err)
	}
}
