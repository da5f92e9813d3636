// Package chat provides the canonical chat client interface.
//
// This package exists to provide a unified interface that can be used
// across the agent, worker, and orchestrator packages without import
// cycles. The [github.com/robertcrowe/arrg/provider] subpackages
// implement this interface.
package chat

import (
	"context"

	ai "github.com/robertcrowe/arrg"
)

// Client defines the interface for chat clients.
// This is the canonical generation capability consumed by the agent,
// worker, and orchestrator packages.
type Client interface {
	// Chat sends a conversation and returns a complete response.
	Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error)

// Chat calls f.
func (f ClientFunc) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	return f(ctx, messages, opts...)
}
