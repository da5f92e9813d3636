package tool

import (
	"encoding/json"

	ai "github.com/robertcrowe/arrg"
)

// SchemaFor generates a JSON schema from a struct type T.
// This is a convenience re-export of the root package's SchemaFor.
func SchemaFor[T any]() (json.RawMessage, error) {
	return ai.SchemaFor[T]()
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	return ai.MustSchemaFor[T]()
}
