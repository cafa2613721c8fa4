// Package tui provides a Bubble Tea-based terminal UI for cluster launches.
package tui

import "github.com/ec3io/ec3/internal/cluster"

// ProgressMsg carries one observer event from the launch in flight.
type ProgressMsg struct {
	Event cluster.Event
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the operation is complete.
type DoneMsg struct{}
