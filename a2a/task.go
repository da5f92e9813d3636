package a2a

import (
	"time"

	"github.com/google/uuid"
)

// TaskState represents the lifecycle state of a task.
type TaskState string

const (
	TaskStateSubmitted     TaskState = "submitted"
	TaskStateWorking       TaskState = "working"
	TaskStateInputRequired TaskState = "input-required"
	TaskStateCompleted     TaskState = "completed"
	TaskStateCanceled      TaskState = "canceled"
	TaskStateFailed        TaskState = "failed"
	TaskStateRejected      TaskState = "rejected"
	TaskStateAuthRequired  TaskState = "auth-required"
)

// IsTerminal returns true if the state is a terminal state.
// Terminal tasks accept no further transitions or messages.
func (s TaskState) IsTerminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateCanceled, TaskStateFailed, TaskStateRejected:
		return true
	default:
		return false
	}
}

// validTransitions enumerates the allowed edges of the task state machine.
// input-required and auth-required are pause states: the task resumes to
// working once the blocker is resolved.
var validTransitions = map[TaskState][]TaskState{
	TaskStateSubmitted: {
		TaskStateWorking,
		TaskStateRejected,
		TaskStateCanceled,
		TaskStateFailed,
	},
	TaskStateWorking: {
		TaskStateCompleted,
		TaskStateFailed,
		TaskStateInputRequired,
		TaskStateAuthRequired,
		TaskStateRejected,
		TaskStateCanceled,
	},
	TaskStateInputRequired: {
		TaskStateWorking,
		TaskStateCanceled,
		TaskStateFailed,
	},
	TaskStateAuthRequired: {
		TaskStateWorking,
		TaskStateCanceled,
		TaskStateFailed,
	},
}

// CanTransition returns true if the edge from s to target is allowed.
func (s TaskState) CanTransition(target TaskState) bool {
	for _, next := range validTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TaskStatus represents the status of a task at a point in time.
type TaskStatus struct {
	State TaskState `json:"state"`
	// Note optionally explains why the transition happened.
	Note      string   `json:"note,omitempty"`
	Message   *Message `json:"message,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// NewTaskStatus creates a new TaskStatus with the given state.
func NewTaskStatus(state TaskState) TaskStatus {
	return TaskStatus{
		State:     state,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Task represents a unit of work being processed by a worker.
//
// History and StatusHistory are append-only: messages are added with
// AddMessage and state changes with Transition, never by rewriting
// earlier entries.
type Task struct {
	Kind      string     `json:"kind"`
	ID        string     `json:"id"`
	ContextID string     `json:"contextId"`
	Status    TaskStatus `json:"status"`
	// StatusHistory records every transition the task has made, in order,
	// including the initial submitted status.
	StatusHistory []TaskStatus   `json:"statusHistory,omitempty"`
	Artifacts     []Artifact     `json:"artifacts,omitempty"`
	History       []Message      `json:"history,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// NewTask creates a new task in the submitted state.
// If id is empty a new one is generated.
func NewTask(id, contextID string) *Task {
	if id == "" {
		id = uuid.New().String()
	}
	status := NewTaskStatus(TaskStateSubmitted)
	return &Task{
		Kind:          "task",
		ID:            id,
		ContextID:     contextID,
		Status:        status,
		StatusHistory: []TaskStatus{status},
	}
}

// Transition moves the task to a new state, recording the edge in the
// status history. Returns ErrInvalidTransition if the edge is not allowed
// or the task is already in a terminal state.
func (t *Task) Transition(state TaskState, note string) error {
	if !t.Status.State.CanTransition(state) {
		return &ErrInvalidTransition{From: t.Status.State, To: state}
	}
	status := NewTaskStatus(state)
	status.Note = note
	t.Status = status
	t.StatusHistory = append(t.StatusHistory, status)
	return nil
}

// AddMessage appends a message to the task history.
// Messages cannot be added to a task in a terminal state.
func (t *Task) AddMessage(msg Message) error {
	if t.Status.State.IsTerminal() {
		return &ErrTaskTerminal{ID: t.ID, State: t.Status.State}
	}
	t.History = append(t.History, msg)
	return nil
}

// AddArtifact attaches an output artifact to the task.
func (t *Task) AddArtifact(artifact Artifact) {
	t.Artifacts = append(t.Artifacts, artifact)
}

// Artifact returns the artifact with the given name and true if present.
func (t *Task) Artifact(name string) (Artifact, bool) {
	for _, a := range t.Artifacts {
		if a.Name == name {
			return a, true
		}
	}
	return Artifact{}, false
}
