package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DirAdapter stores each entry as a JSON file in a directory, so the
// workspace survives process restarts. Writes go through a temp file and
// rename, so readers never observe a partial entry.
type DirAdapter struct {
	dir string
}

// NewDirAdapter creates a directory-backed adapter, creating the directory
// if it does not exist.
func NewDirAdapter(dir string) (*DirAdapter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirAdapter{dir: dir}, nil
}

// Dir returns the backing directory.
func (d *DirAdapter) Dir() string { return d.dir }

func (d *DirAdapter) path(key string) string {
	// Escape so arbitrary keys map to safe, reversible file names.
	return filepath.Join(d.dir, url.QueryEscape(key)+".json")
}

// Get retrieves a value by key.
func (d *DirAdapter) Get(_ context.Context, key string) (json.RawMessage, bool, error) {
	data, err := os.ReadFile(d.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value by key. The write is atomic: a temp file in the same
// directory is renamed over the final path.
func (d *DirAdapter) Set(_ context.Context, key string, value json.RawMessage) error {
	tmp, err := os.CreateTemp(d.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, d.path(key)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Delete removes a key.
func (d *DirAdapter) Delete(_ context.Context, key string) error {
	err := os.Remove(d.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Has returns true if the key exists.
func (d *DirAdapter) Has(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(d.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Keys returns all keys.
func (d *DirAdapter) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		key, err := url.QueryUnescape(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Len returns the number of stored keys.
func (d *DirAdapter) Len(ctx context.Context) (int, error) {
	keys, err := d.Keys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Clear removes all data.
func (d *DirAdapter) Clear(ctx context.Context) error {
	keys, err := d.Keys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := d.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
