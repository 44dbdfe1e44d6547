package supadata

import (
	"errors"
	"fmt"
)

// Kind classifies an upstream API failure. The serving layer maps each kind to
// a distinct response status; only KindRateLimited is ever retried.
type Kind int

const (
	// KindUpstream is any other bad status or a transport-level failure.
	KindUpstream Kind = iota
	// KindAuth means the API key was rejected (HTTP 401). Misconfiguration.
	KindAuth
	// KindQuota means the account is out of credits (HTTP 402).
	KindQuota
	// KindRateLimited means the upstream throttled us (HTTP 429).
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindQuota:
		return "quota"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "upstream"
	}
}

// Error is a typed Supadata API failure. StatusCode is zero for transport-level
// failures where no HTTP status was received.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("supadata: %s (status %d)", e.Message, e.StatusCode)
	}
	return "supadata: " + e.Message
}

func newAuthError() *Error {
	return &Error{Kind: KindAuth, StatusCode: 401, Message: "invalid or missing Supadata API key"}
}

func newQuotaError() *Error {
	return &Error{Kind: KindQuota, StatusCode: 402, Message: "Supadata API credits exhausted"}
}

func newRateLimitError(body string) *Error {
	return &Error{Kind: KindRateLimited, StatusCode: 429, Message: "rate limit exceeded: " + body}
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsRateLimited reports whether err is an upstream 429.
func IsRateLimited(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindRateLimited
}

// IsAuth reports whether err is an upstream 401.
func IsAuth(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindAuth
}

// IsQuota reports whether err is an upstream 402.
func IsQuota(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindQuota
}
