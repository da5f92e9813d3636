package a2a

import "fmt"

// ValidationError indicates a malformed message, part, or task that must
// be rejected before dispatch.
type ValidationError struct {
	Field string
	Msg   string
}

// Error returns a formatted error message including the offending field.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("a2a: invalid %s: %s", e.Field, e.Msg)
}

// ErrInvalidTransition is returned when a task state transition is not
// allowed by the state machine.
type ErrInvalidTransition struct {
	From TaskState
	To   TaskState
}

// Error returns a formatted error message naming the rejected edge.
func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("a2a: invalid transition from %s to %s", e.From, e.To)
}

// ErrTaskTerminal is returned when modifying a task that has already
// reached a terminal state.
type ErrTaskTerminal struct {
	ID    string
	State TaskState
}

// Error returns a formatted error message including the task ID and state.
func (e *ErrTaskTerminal) Error() string {
	return fmt.Sprintf("a2a: task %s is terminal (%s)", e.ID, e.State)
}
