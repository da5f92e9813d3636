package a2a

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	task := NewTask("task-1", "ctx-1")

	assert.Equal(t, "task", task.Kind)
	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, "ctx-1", task.ContextID)
	assert.Equal(t, TaskStateSubmitted, task.Status.State)
	require.Len(t, task.StatusHistory, 1)
	assert.NotEmpty(t, task.StatusHistory[0].Timestamp)
}

func TestNewTask_GeneratesID(t *testing.T) {
	task := NewTask("", "ctx-1")
	assert.NotEmpty(t, task.ID)
}

func TestTask_Transition(t *testing.T) {
	t.Run("happy path records every edge", func(t *testing.T) {
		task := NewTask("t", "c")

		require.NoError(t, task.Transition(TaskStateWorking, "started"))
		require.NoError(t, task.Transition(TaskStateCompleted, "done"))

		assert.Equal(t, TaskStateCompleted, task.Status.State)
		require.Len(t, task.StatusHistory, 3)
		assert.Equal(t, TaskStateSubmitted, task.StatusHistory[0].State)
		assert.Equal(t, TaskStateWorking, task.StatusHistory[1].State)
		assert.Equal(t, "started", task.StatusHistory[1].Note)
		assert.Equal(t, TaskStateCompleted, task.StatusHistory[2].State)
		for _, s := range task.StatusHistory {
			assert.NotEmpty(t, s.Timestamp)
		}
	})

	t.Run("rejects skipping submitted to completed", func(t *testing.T) {
		task := NewTask("t", "c")

		err := task.Transition(TaskStateCompleted, "")
		var invalid *ErrInvalidTransition
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, TaskStateSubmitted, invalid.From)
		assert.Equal(t, TaskStateCompleted, invalid.To)
		// State and history are unchanged after a rejected edge.
		assert.Equal(t, TaskStateSubmitted, task.Status.State)
		assert.Len(t, task.StatusHistory, 1)
	})

	t.Run("terminal states are final", func(t *testing.T) {
		task := NewTask("t", "c")
		require.NoError(t, task.Transition(TaskStateWorking, ""))
		require.NoError(t, task.Transition(TaskStateFailed, "provider error"))

		for _, next := range []TaskState{TaskStateWorking, TaskStateCompleted, TaskStateCanceled} {
			err := task.Transition(next, "")
			assert.Error(t, err, "failed -> %s should be rejected", next)
		}
	})

	t.Run("input-required resumes to working", func(t *testing.T) {
		task := NewTask("t", "c")
		require.NoError(t, task.Transition(TaskStateWorking, ""))
		require.NoError(t, task.Transition(TaskStateInputRequired, "need clarification"))
		require.NoError(t, task.Transition(TaskStateWorking, "input received"))
		require.NoError(t, task.Transition(TaskStateCompleted, ""))

		assert.Len(t, task.StatusHistory, 5)
	})

	t.Run("cancel before start", func(t *testing.T) {
		task := NewTask("t", "c")
		require.NoError(t, task.Transition(TaskStateCanceled, "run aborted"))
		assert.True(t, task.Status.State.IsTerminal())
	})
}

func TestTaskState_IsTerminal(t *testing.T) {
	terminal := []TaskState{TaskStateCompleted, TaskStateCanceled, TaskStateFailed, TaskStateRejected}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "%s", s)
	}

	open := []TaskState{TaskStateSubmitted, TaskStateWorking, TaskStateInputRequired, TaskStateAuthRequired}
	for _, s := range open {
		assert.False(t, s.IsTerminal(), "%s", s)
	}
}

func TestTask_AddMessage(t *testing.T) {
	t.Run("appends in order", func(t *testing.T) {
		task := NewTask("t", "c")
		require.NoError(t, task.AddMessage(NewMessage(MessageRoleUser, NewTextPart("first"))))
		require.NoError(t, task.AddMessage(NewMessage(MessageRoleAgent, NewTextPart("second"))))

		require.Len(t, task.History, 2)
		assert.Equal(t, "first", task.History[0].TextContent())
		assert.Equal(t, "second", task.History[1].TextContent())
	})

	t.Run("rejected on terminal task", func(t *testing.T) {
		task := NewTask("t", "c")
		require.NoError(t, task.Transition(TaskStateWorking, ""))
		require.NoError(t, task.Transition(TaskStateCompleted, ""))

		err := task.AddMessage(NewMessage(MessageRoleUser, NewTextPart("late")))
		var terminal *ErrTaskTerminal
		require.ErrorAs(t, err, &terminal)
		assert.Equal(t, TaskStateCompleted, terminal.State)
	})
}

func TestTask_Artifacts(t *testing.T) {
	task := NewTask("t", "c")
	task.AddArtifact(NewArtifact("report", "final report", NewTextPart("# Report")))

	a, ok := task.Artifact("report")
	require.True(t, ok)
	assert.Equal(t, "final report", a.Description)

	_, ok = task.Artifact("missing")
	assert.False(t, ok)
}
