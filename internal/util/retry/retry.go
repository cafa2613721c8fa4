package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy describes how long an operation may keep retrying. Delay is the
// fixed pause between attempts. MaxElapsed bounds the total time spent on
// one Do call unless Forever is set, in which case only context
// cancellation stops the loop.
type Policy struct {
	Delay      time.Duration
	MaxElapsed time.Duration
	Forever    bool
}

// For returns a policy that retries with the given delay until maxElapsed
// has passed. A zero maxElapsed allows exactly one attempt.
func For(maxElapsed, delay time.Duration) Policy {
	return Policy{Delay: delay, MaxElapsed: maxElapsed}
}

// Unbounded returns a policy that retries with the given delay until the
// context is cancelled.
func Unbounded(delay time.Duration) Policy {
	return Policy{Delay: delay, Forever: true}
}

// Option is a functional option for a Do loop.
type Option func(*options)

type options struct {
	notify func(attempt int, err error)
}

// WithNotify registers a callback invoked after each failed attempt that
// will be retried. The attempt number starts at 1.
func WithNotify(fn func(attempt int, err error)) Option {
	return func(o *options) {
		o.notify = fn
	}
}

// ExhaustedError reports a Do loop that ran out of its time budget. Err
// holds the error from the final attempt.
type ExhaustedError struct {
	Attempts int
	Elapsed  time.Duration
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry budget exhausted after %d attempts in %s: %v", e.Attempts, e.Elapsed.Round(time.Millisecond), e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Do executes the operation until it succeeds, a fatal error occurs, the
// policy's time budget runs out, or the context is cancelled. The budget
// check happens before sleeping: if the elapsed time plus the next delay
// would exceed MaxElapsed, the loop stops rather than sleeping into a
// guaranteed timeout.
//
// Errors wrapped with Fatal() are not retried.
func Do(ctx context.Context, p Policy, operation func() error, opts ...Option) error {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	start := time.Now()

	for attempt := 1; ; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		if IsFatal(err) {
			return fmt.Errorf("fatal error (not retrying): %w", err)
		}

		if !p.Forever {
			if elapsed := time.Since(start); elapsed+p.Delay > p.MaxElapsed {
				return &ExhaustedError{Attempts: attempt, Elapsed: elapsed, Err: err}
			}
		}

		if o.notify != nil {
			o.notify(attempt, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(p.Delay):
		}
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
// Operations that encounter fatal errors will not be retried.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
