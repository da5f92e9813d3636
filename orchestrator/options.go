package orchestrator

import (
	ai "github.com/robertcrowe/arrg"
	"github.com/robertcrowe/arrg/event"
	"github.com/robertcrowe/arrg/workspace"
)

// Options configures the orchestrator.
type Options struct {
	// Workspace is the shared store for plans, findings, and drafts.
	// Defaults to an in-memory workspace.
	Workspace *workspace.Workspace

	// RevisionLimit bounds how many times a rejected draft goes back to
	// the writer before the run degrades to success_with_objections.
	RevisionLimit int

	// Events receives progress events if non-nil.
	Events chan<- event.Event

	// ChatOptions are passed to every worker's model calls.
	ChatOptions []ai.Option

	// MaxRounds bounds the research worker's tool loop.
	MaxRounds int
}

// Option is a functional option for configuring the orchestrator.
type Option func(*Options)

// WithWorkspace sets the shared workspace.
func WithWorkspace(ws *workspace.Workspace) Option {
	return func(o *Options) {
		o.Workspace = ws
	}
}

// WithRevisionLimit sets the maximum number of QA revision cycles.
func WithRevisionLimit(n int) Option {
	return func(o *Options) {
		o.RevisionLimit = n
	}
}

// WithEvents sets the channel progress events are emitted on.
func WithEvents(ch chan<- event.Event) Option {
	return func(o *Options) {
		o.Events = ch
	}
}

// WithChatOptions appends options passed to every worker's model calls.
func WithChatOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, opts...)
	}
}

// WithMaxRounds bounds the research worker's tool loop.
func WithMaxRounds(n int) Option {
	return func(o *Options) {
		o.MaxRounds = n
	}
}

// ApplyOptions applies the given options and fills in defaults.
func ApplyOptions(opts ...Option) *Options {
	options := &Options{
		RevisionLimit: 2,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.Workspace == nil {
		options.Workspace = workspace.New(workspace.NewMemoryAdapter())
	}
	if options.RevisionLimit < 0 {
		options.RevisionLimit = 0
	}
	return options
}
