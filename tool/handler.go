package tool

import (
	"context"

	ai "github.com/robertcrowe/arrg"
)

// Handler is a function that executes a tool call and returns a result.
// The context supports cancellation and timeout.
// The call contains the tool name, ID, and arguments as a JSON string.
// Returns the result content string, or an error if execution failed.
type Handler func(ctx context.Context, call ai.ToolCall) (string, error)

// TypedHandler is a function that executes a tool call with typed arguments.
// The args parameter is automatically unmarshaled from the tool call's JSON arguments.
type TypedHandler[T any] func(ctx context.Context, args T) (string, error)

// ToolPair bundles a tool definition with its handler.
type ToolPair struct {
	Tool    ai.Tool
	Handler Handler
}

// RegisterAll registers all tool pairs to a registry.
// Returns the first error encountered, or nil if all registrations succeed.
func RegisterAll(r *Registry, pairs []ToolPair) error {
	for _, p := range pairs {
		if err := r.Register(p.Tool, p.Handler); err != nil {
			return err
		}
	}
	return nil
}

// MustRegisterAll is like RegisterAll but panics on error.
func MustRegisterAll(r *Registry, pairs []ToolPair) {
	if err := RegisterAll(r, pairs); err != nil {
		panic(err)
	}
}
