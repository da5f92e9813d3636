package workspace

import "fmt"

// ErrNotFound is returned when a key does not exist in the workspace.
type ErrNotFound struct {
	Key string
}

// Error returns a formatted error message including the missing key.
func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("workspace: key not found: %s", e.Key)
}

// ErrKeyConflict is returned when Put would overwrite an existing entry
// without the overwrite option.
type ErrKeyConflict struct {
	Key string
}

// Error returns a formatted error message including the conflicting key.
func (e *ErrKeyConflict) Error() string {
	return fmt.Sprintf("workspace: key already exists: %s", e.Key)
}
