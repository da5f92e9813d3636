package worker

import (
	"context"
	"strings"

	ai "github.com/robertcrowe/arrg"
	"github.com/robertcrowe/arrg/a2a"
	"github.com/robertcrowe/arrg/chat"
	"github.com/robertcrowe/arrg/event"
	"github.com/robertcrowe/arrg/workspace"
)

// Worker is a pipeline agent that processes one task at a time.
type Worker interface {
	// Card returns the agent's self-description.
	Card() a2a.AgentCard

	// Process runs the task and returns it in a terminal state. The
	// returned task is the same pointer, transitioned and annotated.
	Process(ctx context.Context, task *a2a.Task, msg a2a.Message) (*a2a.Task, error)
}

// Option configures a worker.
type Option func(*base)

// WithEvents sets the channel workers emit task transitions on.
func WithEvents(ch chan<- event.Event) Option {
	return func(b *base) {
		b.events = ch
	}
}

// WithChatOptions appends options passed to every model call, such as
// ai.WithModel or ai.WithMaxTokens.
func WithChatOptions(opts ...ai.Option) Option {
	return func(b *base) {
		b.chatOpts = append(b.chatOpts, opts...)
	}
}

// WithMaxRounds bounds the research worker's tool loop. Other workers
// ignore it.
func WithMaxRounds(n int) Option {
	return func(b *base) {
		b.maxRounds = n
	}
}

// base carries the dependencies and helpers shared by all workers.
type base struct {
	name      string
	client    chat.Client
	ws        *workspace.Workspace
	events    chan<- event.Event
	chatOpts  []ai.Option
	maxRounds int
}

func newBase(name string, client chat.Client, ws *workspace.Workspace, opts ...Option) base {
	b := base{name: name, client: client, ws: ws}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// transition moves the task and emits the change.
func (b *base) transition(task *a2a.Task, state a2a.TaskState, note string) error {
	if err := task.Transition(state, note); err != nil {
		return err
	}
	event.Emit(b.events, event.Event{
		Type:   event.TaskTransition,
		Phase:  b.name,
		TaskID: task.ID,
		State:  state,
		Note:   note,
	})
	return nil
}

// begin validates the incoming message, moves the task to working, and
// records the message in the task history.
func (b *base) begin(task *a2a.Task, msg a2a.Message, note string) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := b.transition(task, a2a.TaskStateWorking, note); err != nil {
		return err
	}
	return task.AddMessage(msg)
}

// complete attaches the result artifact, records the agent's reply, and
// moves the task to completed.
func (b *base) complete(task *a2a.Task, artifactName, summary string, result any) (*a2a.Task, error) {
	task.AddArtifact(a2a.NewArtifact(artifactName, summary, a2a.NewDataPart(result)))

	reply := a2a.NewMessageFrom(a2a.MessageRoleAgent, b.name, task.ID,
		a2a.NewTextPart(summary), a2a.NewDataPart(result))
	if err := task.AddMessage(reply); err != nil {
		return task, err
	}
	if err := b.transition(task, a2a.TaskStateCompleted, summary); err != nil {
		return task, err
	}
	return task, nil
}

// fail moves the task to failed, or canceled when the context ended,
// and passes the error through.
func (b *base) fail(ctx context.Context, task *a2a.Task, err error) (*a2a.Task, error) {
	state := a2a.TaskStateFailed
	if ctx.Err() != nil {
		state = a2a.TaskStateCanceled
	}
	if terr := b.transition(task, state, err.Error()); terr != nil {
		return task, err
	}
	return task, err
}

// chat makes a single model call with the worker's system prompt.
func (b *base) chat(ctx context.Context, system, prompt string) (string, error) {
	opts := append([]ai.Option{ai.WithSystem(system)}, b.chatOpts...)
	resp, err := b.client.Chat(ctx, []ai.Message{{Role: ai.RoleUser, Content: prompt}}, opts...)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
