// Package errdef classifies the errors surfaced by cluster operations so
// callers can branch on error kind without string matching.
package errdef

import (
	"errors"
	"fmt"
)

// NewAlreadyExists creates an error for a launch that collides with a live
// resource of the same name.
func NewAlreadyExists(format string, a ...any) error {
	return alreadyExists{fmt.Errorf(format, a...)}
}

type alreadyExists struct{ error }

// IsAlreadyExists returns true if err represents an identity collision.
func IsAlreadyExists(err error) bool {
	var e alreadyExists
	return errors.As(err, &e)
}

// NewNotFound creates an error representing a resource that could not be found.
func NewNotFound(format string, a ...any) error {
	return notFound{fmt.Errorf(format, a...)}
}

type notFound struct{ error }

// IsNotFound returns true if err is an error representing a resource that
// could not be found.
func IsNotFound(err error) bool {
	var e notFound
	return errors.As(err, &e)
}

// NewTransient creates an error for a failure assumed to be temporary, such
// as an instance capacity shortage. Transient errors are retried by launch
// loops up to their time budget.
func NewTransient(format string, a ...any) error {
	return transient{fmt.Errorf(format, a...)}
}

type transient struct{ error }

func IsTransient(err error) bool {
	var e transient
	return errors.As(err, &e)
}

// NewTimeout creates an error for a retry loop or state waiter that ran out
// of time.
func NewTimeout(format string, a ...any) error {
	return timeout{fmt.Errorf(format, a...)}
}

type timeout struct{ error }

func IsTimeout(err error) bool {
	var e timeout
	return errors.As(err, &e)
}

// NewValidation creates an error for configuration that failed field or
// cross-field checks before any cloud call was made.
func NewValidation(format string, a ...any) error {
	return validation{fmt.Errorf(format, a...)}
}

type validation struct{ error }

func IsValidation(err error) bool {
	var e validation
	return errors.As(err, &e)
}

// NewRemoteExecution creates an error for a remote command that could not be
// executed or a session that could not be established.
func NewRemoteExecution(format string, a ...any) error {
	return remoteExecution{fmt.Errorf(format, a...)}
}

type remoteExecution struct{ error }

func IsRemoteExecution(err error) bool {
	var e remoteExecution
	return errors.As(err, &e)
}

// NewNotImplemented creates an error for an explicitly unsupported operation
// combination.
func NewNotImplemented(format string, a ...any) error {
	return notImplemented{fmt.Errorf(format, a...)}
}

type notImplemented struct{ error }

func IsNotImplemented(err error) bool {
	var e notImplemented
	return errors.As(err, &e)
}
