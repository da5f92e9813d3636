// Package workspace provides the shared data workspace that pipeline
// phases use to pass intermediate products by reference instead of
// inlining them in messages.
//
// A [Workspace] wraps a pluggable [Adapter] (in-memory or directory
// backed) and adds key generation, overwrite protection, per-entry
// metadata, and the reference policy that decides when a value travels
// inline versus by workspace reference.
package workspace

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robertcrowe/arrg/a2a"
)

// RefKey is the field name used in data parts that carry a workspace
// reference instead of an inline value.
const RefKey = "workspace_ref"

// DefaultInlineLimit is the encoded size above which Offload stores the
// value and passes a reference.
const DefaultInlineLimit = 1024

// entry is the stored envelope for a workspace value.
type entry struct {
	CreatedAt string          `json:"createdAt"`
	Value     json.RawMessage `json:"value"`
}

// Entry describes a stored value without its content.
type Entry struct {
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"createdAt"`
	Size      int       `json:"size"`
}

// Workspace is a conflict-safe key-value store shared by the pipeline
// phases of a single run. It is safe for concurrent use.
type Workspace struct {
	adapter     Adapter
	inlineLimit int

	// guards the check-then-set in Put
	mu sync.Mutex
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*Workspace)

// WithInlineLimit sets the encoded size above which Offload passes a
// reference instead of an inline value.
func WithInlineLimit(bytes int) WorkspaceOption {
	return func(w *Workspace) {
		w.inlineLimit = bytes
	}
}

// New creates a workspace over the given adapter.
func New(adapter Adapter, opts ...WorkspaceOption) *Workspace {
	w := &Workspace{
		adapter:     adapter,
		inlineLimit: DefaultInlineLimit,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// PutOption configures a single Put call.
type PutOption func(*putConfig)

type putConfig struct {
	overwrite bool
}

// WithOverwrite allows Put to replace an existing entry.
// Without it, putting an existing key fails with ErrKeyConflict.
func WithOverwrite() PutOption {
	return func(c *putConfig) {
		c.overwrite = true
	}
}

// Put stores a value and returns its key. If key is empty a new one is
// generated. Existing keys are never silently overwritten: without
// WithOverwrite, Put returns ErrKeyConflict.
func (w *Workspace) Put(ctx context.Context, key string, value any, opts ...PutOption) (string, error) {
	var cfg putConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	if key == "" {
		key = uuid.New().String()
	}

	env, err := json.Marshal(entry{
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Value:     raw,
	})
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !cfg.overwrite {
		exists, err := w.adapter.Has(ctx, key)
		if err != nil {
			return "", err
		}
		if exists {
			return "", &ErrKeyConflict{Key: key}
		}
	}

	if err := w.adapter.Set(ctx, key, env); err != nil {
		return "", err
	}
	return key, nil
}

// Get retrieves the raw value stored under key.
// Returns ErrNotFound if the key does not exist.
func (w *Workspace) Get(ctx context.Context, key string) (json.RawMessage, error) {
	env, err := w.load(ctx, key)
	if err != nil {
		return nil, err
	}
	return env.Value, nil
}

// GetInto retrieves the value stored under key and unmarshals it into dest.
func (w *Workspace) GetInto(ctx context.Context, key string, dest any) error {
	raw, err := w.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Delete removes a key. Deleting a missing key is a no-op.
func (w *Workspace) Delete(ctx context.Context, key string) error {
	return w.adapter.Delete(ctx, key)
}

// Has returns true if the key exists.
func (w *Workspace) Has(ctx context.Context, key string) (bool, error) {
	return w.adapter.Has(ctx, key)
}

// Keys returns all stored keys.
func (w *Workspace) Keys(ctx context.Context) ([]string, error) {
	return w.adapter.Keys(ctx)
}

// Len returns the number of stored entries.
func (w *Workspace) Len(ctx context.Context) (int, error) {
	return w.adapter.Len(ctx)
}

// Clear removes all entries.
func (w *Workspace) Clear(ctx context.Context) error {
	return w.adapter.Clear(ctx)
}

// Entry returns metadata for the value stored under key.
func (w *Workspace) Entry(ctx context.Context, key string) (Entry, error) {
	env, err := w.load(ctx, key)
	if err != nil {
		return Entry{}, err
	}
	createdAt, _ := time.Parse(time.RFC3339, env.CreatedAt)
	return Entry{
		Key:       key,
		CreatedAt: createdAt,
		Size:      len(env.Value),
	}, nil
}

// Offload applies the reference policy to a value: small values are
// returned as an inline data part, large values are stored under key and
// returned as a data part carrying only the workspace reference.
func (w *Workspace) Offload(ctx context.Context, key string, value any) (a2a.Part, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	if len(raw) <= w.inlineLimit {
		return a2a.NewDataPart(value), nil
	}

	stored, err := w.Put(ctx, key, value, WithOverwrite())
	if err != nil {
		return nil, err
	}
	return a2a.NewDataPart(map[string]any{RefKey: stored}), nil
}

// Resolve follows a workspace reference in a data part payload.
// If the payload is a reference produced by Offload, the stored value is
// loaded; otherwise the payload is returned as is.
func (w *Workspace) Resolve(ctx context.Context, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return data, nil
	}
	ref, ok := m[RefKey].(string)
	if !ok {
		return data, nil
	}

	var value any
	if err := w.GetInto(ctx, ref, &value); err != nil {
		return nil, err
	}
	return value, nil
}

func (w *Workspace) load(ctx context.Context, key string) (entry, error) {
	raw, ok, err := w.adapter.Get(ctx, key)
	if err != nil {
		return entry{}, err
	}
	if !ok {
		return entry{}, &ErrNotFound{Key: key}
	}

	var env entry
	if err := json.Unmarshal(raw, &env); err != nil {
		return entry{}, err
	}
	return env, nil
}
