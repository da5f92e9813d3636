package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	ai "github.com/robertcrowe/arrg"
	"github.com/robertcrowe/arrg/a2a"
	"github.com/robertcrowe/arrg/workspace"
)

// stubClient replays canned responses and records the prompts it saw.
type stubClient struct {
	mu        sync.Mutex
	responses []*ai.Response
	systems   []string
	prompts   []string
}

func (c *stubClient) Chat(_ context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	options := ai.ApplyOptions(opts...)
	c.systems = append(c.systems, options.System)
	c.prompts = append(c.prompts, messages[len(messages)-1].Content)
	if len(c.responses) == 0 {
		return nil, errors.New("script exhausted")
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func textResponses(contents ...string) []*ai.Response {
	resps := make([]*ai.Response, len(contents))
	for i, c := range contents {
		resps[i] = &ai.Response{Content: c}
	}
	return resps
}

func newWorkspace() *workspace.Workspace {
	return workspace.New(workspace.NewMemoryAdapter())
}

func newTaskAndMessage(t *testing.T, payload any) (*a2a.Task, a2a.Message) {
	t.Helper()
	task := a2a.NewTask("", "run-1")
	msg := a2a.NewMessageFrom(a2a.MessageRoleUser, "orchestrator", task.ID,
		a2a.NewTextPart("do the phase"), a2a.NewDataPart(payload))
	return task, msg
}

func requireCompleted(t *testing.T, task *a2a.Task) {
	t.Helper()
	require.Equal(t, a2a.TaskStateCompleted, task.Status.State)
}
