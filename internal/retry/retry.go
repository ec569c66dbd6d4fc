// Package retry provides bounded retries with a fixed delay between attempts.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Defaults applied when a Policy field is left zero.
const (
	DefaultMaxAttempts = 3
	DefaultDelay       = 5 * time.Second
)

// AttemptFunc runs one attempt of an operation. It must be safe to invoke
// again after a failure; operations wrapped here are at-least-once.
type AttemptFunc func(ctx context.Context) error

// Policy describes how an operation is retried. All failures are treated the
// same: any error triggers another attempt until the budget runs out.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Logger      *slog.Logger
}

// Default returns the standard policy used for retryable deployment stages.
func Default() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, Delay: DefaultDelay}
}

// Outcome records how a retried operation finished.
type Outcome struct {
	// Succeeded is true when some attempt returned nil.
	Succeeded bool
	// Attempts is the number of attempts actually made, always >= 1.
	Attempts int
	// LastFailure is the error from the final attempt, nil on success.
	LastFailure error
}

// Err returns nil on success, otherwise an error describing the exhausted
// attempts wrapping the final failure.
func (o Outcome) Err() error {
	if o.Succeeded {
		return nil
	}
	if o.Attempts > 1 {
		return fmt.Errorf("failed after %d attempts: %w", o.Attempts, o.LastFailure)
	}
	return o.LastFailure
}

// Do runs op until it succeeds or the attempt budget is exhausted, waiting
// Delay between attempts. It returns on the first success and never waits
// after the final attempt. Cancelling ctx aborts the inter-attempt wait.
func (p Policy) Do(ctx context.Context, name string, op AttemptFunc) Outcome {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return Outcome{Succeeded: true, Attempts: attempt}
		}
		lastErr = err
		logger.Warn("attempt failed",
			"operation", name,
			"attempt", attempt,
			"max_attempts", p.MaxAttempts,
			"error", err)

		if attempt == p.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return Outcome{Attempts: attempt, LastFailure: fmt.Errorf("%s interrupted: %w", name, ctx.Err())}
		case <-time.After(p.Delay):
		}
	}
	return Outcome{Attempts: p.MaxAttempts, LastFailure: lastErr}
}
