package agent

import (
	"context"
	"errors"
	"sync"

	ai "github.com/robertcrowe/arrg"
	"github.com/robertcrowe/arrg/chat"
	"github.com/robertcrowe/arrg/event"
	"github.com/robertcrowe/arrg/tool"
)

// TerminationReason explains why a run ended.
type TerminationReason string

const (
	// TerminationComplete means the model answered without requesting tools.
	TerminationComplete TerminationReason = "complete"

	// TerminationRoundLimit means the round limit was reached and the
	// final answer was produced with tools disabled. The result is
	// best-effort and callers may want to surface that.
	TerminationRoundLimit TerminationReason = "round_limit"

	// TerminationTimeout means the run timeout expired.
	TerminationTimeout TerminationReason = "timeout"

	// TerminationCancelled means the context was cancelled.
	TerminationCancelled TerminationReason = "cancelled"

	// TerminationError means a chat call failed.
	TerminationError TerminationReason = "error"
)

// Result holds the outcome of a run.
type Result struct {
	// Response is the last model response.
	Response *ai.Response

	// Messages is the full conversation including tool traffic.
	Messages []ai.Message

	// Rounds is the number of model calls made.
	Rounds int

	// TotalUsage accumulates token usage across all calls.
	TotalUsage ai.Usage

	// Termination explains why the run ended.
	Termination TerminationReason
}

// Text returns the content of the final response, or "" if there is none.
func (r *Result) Text() string {
	if r == nil || r.Response == nil {
		return ""
	}
	return r.Response.Content
}

// Agent runs a bounded tool-invocation loop.
type Agent struct {
	client   chat.Client
	registry *tool.Registry
}

// New creates an agent over the given chat client and tool registry.
// The registry may be nil, in which case every call runs without tools.
func New(client chat.Client, registry *tool.Registry) *Agent {
	return &Agent{
		client:   client,
		registry: registry,
	}
}

// Run executes the loop until the model answers without tool calls, the
// round limit is hit, or the context ends. The returned Result is non-nil
// whenever at least one chat call succeeded, even alongside an error.
func (a *Agent) Run(ctx context.Context, messages []ai.Message, opts ...Option) (*Result, error) {
	if len(messages) == 0 {
		return nil, ai.ErrEmptyInput
	}
	options := ApplyOptions(opts...)

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	history := make([]ai.Message, len(messages))
	copy(history, messages)

	chatOpts := options.ChatOptions
	if a.registry != nil && a.registry.Len() > 0 {
		chatOpts = append([]ai.Option{ai.WithTools(a.registry.Tools())}, chatOpts...)
	}

	result := &Result{}
	for round := 1; round <= options.MaxRounds; round++ {
		if reason := checkContext(ctx); reason != "" {
			result.Messages = history
			result.Termination = reason
			return result, ctx.Err()
		}

		event.Emit(options.Events, event.Event{Type: event.RoundStart, Round: round})

		resp, err := a.client.Chat(ctx, history, chatOpts...)
		if err != nil {
			result.Messages = history
			result.Termination = terminationForError(ctx, err)
			event.Emit(options.Events, event.Event{Type: event.RunError, Error: err})
			return result, err
		}

		result.Response = resp
		result.Rounds = round
		result.TotalUsage.Add(resp.Usage)

		assistant := ai.Message{
			ID:        ai.GenerateMessageID(),
			Role:      ai.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		}
		history = append(history, assistant)

		if len(resp.ToolCalls) == 0 {
			result.Messages = history
			result.Termination = TerminationComplete
			return result, nil
		}

		toolResults := a.executeToolCalls(ctx, resp.ToolCalls, options)
		history = append(history, ai.NewToolResultMessage(toolResults...))
	}

	// Round limit reached. One last call with tools disabled forces a
	// text answer out of whatever was gathered so far.
	finalOpts := append(append([]ai.Option{}, chatOpts...), ai.WithToolChoice(ai.ToolChoiceNone))
	resp, err := a.client.Chat(ctx, history, finalOpts...)
	if err != nil {
		result.Messages = history
		result.Termination = terminationForError(ctx, err)
		event.Emit(options.Events, event.Event{Type: event.RunError, Error: err})
		return result, err
	}

	result.Response = resp
	result.Rounds++
	result.TotalUsage.Add(resp.Usage)
	result.Messages = append(history, ai.Message{
		ID:      ai.GenerateMessageID(),
		Role:    ai.RoleAssistant,
		Content: resp.Content,
	})
	result.Termination = TerminationRoundLimit
	return result, nil
}

// executeToolCalls runs all tool calls in a round, preserving request
// order in the results regardless of execution order.
func (a *Agent) executeToolCalls(ctx context.Context, calls []ai.ToolCall, options *Options) []ai.ToolResult {
	results := make([]ai.ToolResult, len(calls))

	if options.ParallelToolCalls && len(calls) > 1 {
		var wg sync.WaitGroup
		for idx, call := range calls {
			wg.Add(1)
			go func(idx int, call ai.ToolCall) {
				defer wg.Done()
				results[idx] = a.executeToolCall(ctx, call, options)
			}(idx, call)
		}
		wg.Wait()
		return results
	}

	for idx, call := range calls {
		results[idx] = a.executeToolCall(ctx, call, options)
	}
	return results
}

// executeToolCall runs a single tool call with the handler timeout.
// Failures come back as error-flagged results rather than Go errors so
// the model sees them and the loop keeps going.
func (a *Agent) executeToolCall(ctx context.Context, call ai.ToolCall, options *Options) ai.ToolResult {
	event.Emit(options.Events, event.Event{Type: event.ToolCallStart, ToolCall: &call})

	callCtx := ctx
	if options.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, options.HandlerTimeout)
		defer cancel()
	}

	var result ai.ToolResult
	if a.registry == nil {
		result = ai.ToolResult{
			ToolCallID: call.ID,
			Content:    "no tools registered",
			IsError:    true,
		}
	} else {
		var err error
		result, err = a.registry.Execute(callCtx, call)
		if err != nil {
			result = ai.ToolResult{
				ToolCallID: call.ID,
				Content:    err.Error(),
				IsError:    true,
			}
		}
	}

	event.Emit(options.Events, event.Event{Type: event.ToolCallResult, ToolCall: &call, ToolResult: &result})
	return result
}

func checkContext(ctx context.Context) TerminationReason {
	select {
	case <-ctx.Done():
		return terminationForError(ctx, ctx.Err())
	default:
		return ""
	}
}

func terminationForError(ctx context.Context, err error) TerminationReason {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return TerminationTimeout
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return TerminationCancelled
	}
	return TerminationError
}
