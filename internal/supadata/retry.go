package supadata

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
)

// RetryPolicy bounds the retry loop around a single upstream call.
// MaxRetries is the number of retries after the first attempt, so the wrapped
// operation runs at most MaxRetries+1 times.
type RetryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration
	Multiplier   float64
}

// WithRetry runs op, retrying with exponential backoff only while it fails
// rate-limited (upstream 429). Every other failure — auth, quota, other bad
// statuses, transport errors — propagates on first occurrence. When the retry
// budget is exhausted the last rate-limit failure is returned unchanged.
func WithRetry[T any](ctx context.Context, policy RetryPolicy, log zerolog.Logger, op func() (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = policy.InitialDelay
	bo.Multiplier = policy.Multiplier
	bo.RandomizationFactor = 0
	bo.MaxInterval = time.Hour // the try budget bounds the loop, not the interval cap

	attempt := 0
	result, err := backoff.Retry(ctx, func() (T, error) {
		attempt++
		v, opErr := op()
		if opErr == nil {
			return v, nil
		}
		if !IsRateLimited(opErr) {
			return v, backoff.Permanent(opErr)
		}
		log.Warn().
			Int("attempt", attempt).
			Int("max_attempts", policy.MaxRetries+1).
			Msg("rate limit hit, backing off")
		return v, opErr
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(policy.MaxRetries+1)),
		backoff.WithMaxElapsedTime(0),
	)
	return result, err
}
