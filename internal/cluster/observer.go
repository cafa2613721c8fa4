package cluster

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// EventType classifies the lifecycle events emitted while a cluster
// operation runs.
type EventType string

const (
	EventPhaseStarted   EventType = "phase.started"
	EventPhaseCompleted EventType = "phase.completed"
	EventPhaseFailed    EventType = "phase.failed"

	EventNodeLaunching  EventType = "node.launching"
	EventNodeRetrying   EventType = "node.retrying"
	EventNodeLaunched   EventType = "node.launched"
	EventNodeTerminated EventType = "node.terminated"

	EventResourceCreated EventType = "resource.created"
	EventResourceExists  EventType = "resource.exists"
	EventResourceDeleted EventType = "resource.deleted"

	// EventRollbackStep reports one best-effort cleanup step after a
	// failed launch, including steps that themselves failed.
	EventRollbackStep EventType = "rollback.step"
)

// Phase names carried in events. Consumers that render progress key
// their rows off these.
const (
	PhaseSecurityGroup  = "security-group"
	PhasePlacementGroup = "placement-group"
	PhaseNodes          = "nodes"
	PhaseWaitRunning    = "wait-running"
	PhaseRollback       = "rollback"
	PhaseTerminate      = "terminate"
	PhaseWaitTerminated = "wait-terminated"
	PhaseCleanup        = "cleanup"
)

// Event is one observation of progress. Err is set on failure and retry
// events, Attempt on retry events only.
type Event struct {
	Type      EventType
	Phase     string
	Resource  string
	Message   string
	Attempt   int
	Err       error
	Timestamp time.Time
}

// Observer receives events as an operation progresses. Events arrive in
// order from the goroutine driving the operation; implementations that
// hand them to other goroutines must do their own synchronization.
type Observer interface {
	Event(event Event)
}

// NopObserver discards all events.
type NopObserver struct{}

// Event implements Observer.
func (NopObserver) Event(Event) {}

// LogObserver writes one line per event to the standard logger.
type LogObserver struct{}

// Event implements Observer.
func (LogObserver) Event(e Event) {
	log.Print(formatEvent(e))
}

// ChannelObserver forwards every event into a channel. The send blocks
// when the channel is full, so a slow consumer throttles the operation
// instead of losing events.
type ChannelObserver chan<- Event

// Event implements Observer.
func (c ChannelObserver) Event(e Event) {
	c <- e
}

// Ensure interface compliance
var (
	_ Observer = NopObserver{}
	_ Observer = LogObserver{}
	_ Observer = ChannelObserver(nil)
)

func formatEvent(e Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]", e.Type, e.Phase)
	if e.Resource != "" {
		fmt.Fprintf(&b, " %s", e.Resource)
	}
	if e.Attempt > 0 {
		fmt.Fprintf(&b, " attempt=%d", e.Attempt)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, " %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// emit stamps and delivers an event, tolerating a nil observer.
func emit(o Observer, e Event) {
	if o == nil {
		return
	}
	e.Timestamp = time.Now()
	o.Event(e)
}
