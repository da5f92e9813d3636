package agent

import (
	"time"

	ai "github.com/robertcrowe/arrg"
	"github.com/robertcrowe/arrg/event"
)

// Options configures agent execution behavior.
type Options struct {
	// MaxRounds is the maximum number of model calls that may request
	// tools. When exceeded, one final call is made with tools disabled.
	MaxRounds int

	// Timeout bounds the whole run. Zero means no timeout.
	Timeout time.Duration

	// HandlerTimeout bounds each individual tool handler call.
	HandlerTimeout time.Duration

	// ParallelToolCalls executes tool calls within a round concurrently.
	ParallelToolCalls bool

	// Events receives progress events if non-nil. Emission never blocks.
	Events chan<- event.Event

	// ChatOptions are passed through to every chat call.
	ChatOptions []ai.Option
}

// Option is a functional option for configuring agent execution.
type Option func(*Options)

// WithMaxRounds sets the maximum number of tool-invocation rounds.
func WithMaxRounds(n int) Option {
	return func(o *Options) {
		o.MaxRounds = n
	}
}

// WithTimeout sets the overall run timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithHandlerTimeout sets the per-tool-call timeout.
func WithHandlerTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.HandlerTimeout = d
	}
}

// WithParallelToolCalls enables or disables concurrent tool execution
// within a round.
func WithParallelToolCalls(enabled bool) Option {
	return func(o *Options) {
		o.ParallelToolCalls = enabled
	}
}

// WithEvents sets the channel progress events are emitted on.
func WithEvents(ch chan<- event.Event) Option {
	return func(o *Options) {
		o.Events = ch
	}
}

// WithChatOptions appends options passed through to every chat call,
// such as ai.WithModel or ai.WithTemperature.
func WithChatOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, opts...)
	}
}

// ApplyOptions applies the given options and fills in defaults.
func ApplyOptions(opts ...Option) *Options {
	options := &Options{
		MaxRounds:         5,
		HandlerTimeout:    30 * time.Second,
		ParallelToolCalls: true,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.MaxRounds <= 0 {
		options.MaxRounds = 5
	}
	if options.HandlerTimeout <= 0 {
		options.HandlerTimeout = 30 * time.Second
	}
	return options
}
