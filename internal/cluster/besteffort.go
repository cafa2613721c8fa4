package cluster

import (
	"errors"
	"fmt"
)

// CleanupError represents accumulated errors from best-effort cleanup
// steps.
type CleanupError struct {
	Errors []error
}

func (e *CleanupError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("cleanup encountered %d errors: %v", len(e.Errors), e.Errors)
}

func (e *CleanupError) Unwrap() error {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return errors.Join(e.Errors...)
}

// bestEffort runs cleanup steps in order and never aborts. Every step's
// outcome is reported through the observer; failures are additionally
// collected so callers can inspect what was left behind.
type bestEffort struct {
	observer Observer
	phase    string
	failures CleanupError
}

func newBestEffort(observer Observer, phase string) *bestEffort {
	return &bestEffort{observer: observer, phase: phase}
}

// step runs one cleanup action against a resource and reports the
// outcome. It returns true on success so dependent steps can be
// chained.
func (b *bestEffort) step(resource, action string, fn func() error) bool {
	if err := fn(); err != nil {
		b.failures.Errors = append(b.failures.Errors, fmt.Errorf("%s %s: %w", action, resource, err))
		emit(b.observer, Event{Type: EventRollbackStep, Phase: b.phase, Resource: resource, Message: action + " failed", Err: err})
		return false
	}
	emit(b.observer, Event{Type: EventRollbackStep, Phase: b.phase, Resource: resource, Message: action})
	return true
}

// err returns the collected failures, or nil when every step succeeded.
func (b *bestEffort) err() error {
	if len(b.failures.Errors) == 0 {
		return nil
	}
	return &b.failures
}
