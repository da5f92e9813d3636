package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertcrowe/arrg/a2a"
)

const planResponse = "```json\n" + `{
  "research_questions": ["What drives sea level rise?", "Which ports are most exposed?"],
  "outline": {"1. Introduction": "Context", "2. Exposure": "Port-level analysis"},
  "key_areas": ["climate data", "port infrastructure"],
  "methodology": ["literature review"]
}` + "\n```"

func TestPlanning_Process(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{responses: textResponses(planResponse)}
	ws := newWorkspace()
	w := NewPlanning(client, ws)

	task, msg := newTaskAndMessage(t, PlanningRequest{Topic: "sea level rise and ports"})
	task, err := w.Process(ctx, task, msg)
	require.NoError(t, err)
	requireCompleted(t, task)

	artifact, ok := task.Artifact("research_plan")
	require.True(t, ok)
	var result PlanningResult
	require.NoError(t, DecodeArtifact(artifact, &result))
	assert.Equal(t, "research_plan_"+task.ID, result.PlanReference)
	assert.Len(t, result.ResearchQuestions, 2)

	var stored Plan
	require.NoError(t, ws.GetInto(ctx, result.PlanReference, &stored))
	assert.Equal(t, "sea level rise and ports", stored.Topic)
	assert.Equal(t, "What drives sea level rise?", stored.ResearchQuestions[0])

	// user message and agent reply both recorded
	require.Len(t, task.History, 2)
	assert.Equal(t, a2a.MessageRoleAgent, task.History[1].Role)
}

func TestPlanning_TopicFromText(t *testing.T) {
	client := &stubClient{responses: textResponses(planResponse)}
	w := NewPlanning(client, newWorkspace())

	task := a2a.NewTask("", "")
	msg := a2a.NewMessageFrom(a2a.MessageRoleUser, "orchestrator", task.ID,
		a2a.NewTextPart("quantum batteries"))

	task, err := w.Process(context.Background(), task, msg)
	require.NoError(t, err)
	requireCompleted(t, task)
	assert.Contains(t, client.prompts[0], "quantum batteries")
}

func TestPlanning_FallbackOnUnparseableResponse(t *testing.T) {
	ctx := context.Background()
	client := &stubClient{responses: textResponses("I cannot produce JSON today.")}
	ws := newWorkspace()
	w := NewPlanning(client, ws)

	task, msg := newTaskAndMessage(t, PlanningRequest{Topic: "fusion energy"})
	task, err := w.Process(ctx, task, msg)
	require.NoError(t, err)
	requireCompleted(t, task)

	var stored Plan
	require.NoError(t, ws.GetInto(ctx, "research_plan_"+task.ID, &stored))
	require.Len(t, stored.ResearchQuestions, 3)
	assert.Contains(t, stored.ResearchQuestions[0], "fusion energy")
	assert.NotEmpty(t, stored.Outline)
}

func TestPlanning_NoTopicFails(t *testing.T) {
	w := NewPlanning(&stubClient{}, newWorkspace())

	task := a2a.NewTask("", "")
	msg := a2a.NewMessageFrom(a2a.MessageRoleUser, "orchestrator", task.ID, a2a.NewTextPart(""))

	task, err := w.Process(context.Background(), task, msg)
	require.Error(t, err)
	assert.Equal(t, a2a.TaskStateFailed, task.Status.State)
}

func TestPlanning_ChatErrorFailsTask(t *testing.T) {
	w := NewPlanning(&stubClient{}, newWorkspace())

	task, msg := newTaskAndMessage(t, PlanningRequest{Topic: "anything"})
	task, err := w.Process(context.Background(), task, msg)
	require.Error(t, err)
	assert.Equal(t, a2a.TaskStateFailed, task.Status.State)
	// transition log records the failure note
	last := task.StatusHistory[len(task.StatusHistory)-1]
	assert.Equal(t, a2a.TaskStateFailed, last.State)
	assert.NotEmpty(t, last.Note)
}
