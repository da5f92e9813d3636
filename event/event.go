// Package event provides progress events emitted while a report run
// executes. The orchestrator and agent packages emit events on a
// channel the caller drains; dropping the channel loses progress
// reporting but never blocks the run.
package event

import (
	"time"

	ai "github.com/robertcrowe/arrg"
	"github.com/robertcrowe/arrg/a2a"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when a report run begins.
	RunStart Type = "run_start"

	// RunEnd fires when a report run completes.
	RunEnd Type = "run_end"

	// RunError fires when an unrecoverable error occurs.
	RunError Type = "run_error"
)

// Phase lifecycle events
const (
	// PhaseStart fires when a pipeline phase begins.
	PhaseStart Type = "phase_start"

	// PhaseEnd fires when a pipeline phase completes.
	PhaseEnd Type = "phase_end"

	// RevisionStart fires when the writing phase is re-run with QA feedback.
	RevisionStart Type = "revision_start"
)

// Task events
const (
	// TaskTransition fires for every task state change.
	TaskTransition Type = "task_transition"
)

// Tool call lifecycle events
const (
	// ToolCallStart fires when a tool call begins (contains tool name).
	ToolCallStart Type = "tool_call_start"

	// ToolCallResult fires with the tool execution result.
	ToolCallResult Type = "tool_call_result"

	// RoundStart fires at the start of each tool-invocation round.
	RoundStart Type = "round_start"
)

// Event represents an observable occurrence during a report run.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// Phase names the pipeline phase for phase and task events.
	Phase string

	// TaskID identifies the task for task events.
	TaskID string

	// State is the new task state for TaskTransition events.
	State a2a.TaskState

	// Note carries the transition note for TaskTransition events.
	Note string

	// Round is the current tool round (1-indexed) for agent events.
	Round int

	// Revision is the revision cycle (1-indexed) for RevisionStart events.
	Revision int

	// ToolCall contains the tool call for tool-related events.
	ToolCall *ai.ToolCall

	// ToolResult contains the result for ToolCallResult events.
	ToolResult *ai.ToolResult

	// Error contains the error for RunError events.
	Error error

	// Message contains additional context (e.g., termination reason).
	Message string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit sends an event with timestamp to the channel (non-blocking).
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
