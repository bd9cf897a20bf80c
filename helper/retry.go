package helper

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy is a reusable description of how an idempotent operation is
// retried: a maximum number of attempts and an exponential delay between them.
type RetryPolicy struct {
	MaxAttempts     uint64
	InitialInterval time.Duration
	Multiplier      float64
}

// NewRetryPolicy creates a policy with the given attempt budget and initial
// delay, doubling the delay after each failed attempt.
func NewRetryPolicy(maxAttempts uint64, initialInterval time.Duration) RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return RetryPolicy{
		MaxAttempts:     maxAttempts,
		InitialInterval: initialInterval,
		Multiplier:      2,
	}
}

// Do runs op until it succeeds, the attempt budget is exhausted or ctx is
// cancelled. The last error is returned on exhaustion.
func (p RetryPolicy) Do(ctx context.Context, op backoff.Operation) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.MaxInterval = 5 * time.Minute
	b.Reset()

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, p.MaxAttempts-1), ctx))
}
