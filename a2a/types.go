package a2a

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageRole indicates the originator of a message.
type MessageRole string

const (
	// MessageRoleUser is the role for messages from the user/orchestrator.
	MessageRoleUser MessageRole = "user"
	// MessageRoleAgent is the role for messages from a worker agent.
	MessageRoleAgent MessageRole = "agent"
)

// Message represents a single exchange between the orchestrator and a worker.
// Messages are immutable once constructed.
type Message struct {
	Kind      string      `json:"kind"`
	MessageID string      `json:"messageId"`
	Role      MessageRole `json:"role"`
	Parts     []Part      `json:"parts"`
	// Sender identifies the worker or orchestrator that produced the message.
	Sender    string         `json:"sender,omitempty"`
	ContextID *string        `json:"contextId,omitempty"`
	TaskID    *string        `json:"taskId,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewMessage creates a new message with the given role and parts.
func NewMessage(role MessageRole, parts ...Part) Message {
	return Message{
		Kind:      "message",
		MessageID: uuid.New().String(),
		Role:      role,
		Parts:     parts,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewMessageFrom creates a new message attributed to a sender, bound to a task.
func NewMessageFrom(role MessageRole, sender, taskID string, parts ...Part) Message {
	m := NewMessage(role, parts...)
	m.Sender = sender
	if taskID != "" {
		m.TaskID = &taskID
	}
	return m
}

// TextContent returns the concatenated text from all TextParts in the message.
func (m Message) TextContent() string {
	var text string
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			text += tp.Text
		}
	}
	return text
}

// Data returns the payload of the first DataPart in the message, or nil.
func (m Message) Data() any {
	for _, p := range m.Parts {
		if dp, ok := p.(DataPart); ok {
			return dp.Data
		}
	}
	return nil
}

// Validate checks that the message is well formed before dispatch.
func (m Message) Validate() error {
	if m.Role != MessageRoleUser && m.Role != MessageRoleAgent {
		return &ValidationError{Field: "role", Msg: "must be user or agent"}
	}
	if len(m.Parts) == 0 {
		return &ValidationError{Field: "parts", Msg: "must contain at least one part"}
	}
	return nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Message.
// This is needed because Parts is a []Part interface which can't be
// directly unmarshaled.
func (m *Message) UnmarshalJSON(data []byte) error {
	type messageAlias Message
	var tmp struct {
		messageAlias
		Parts []json.RawMessage `json:"parts"`
	}

	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}

	*m = Message(tmp.messageAlias)
	m.Parts = make([]Part, 0, len(tmp.Parts))

	for _, raw := range tmp.Parts {
		part, err := UnmarshalPart(raw)
		if err != nil {
			return err
		}
		m.Parts = append(m.Parts, part)
	}

	return nil
}

// Part represents a segment of a message (text, file, or data).
type Part interface {
	partMarker()
	GetKind() string
}

// TextPart represents a text segment within a message.
type TextPart struct {
	Kind     string         `json:"kind"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (TextPart) partMarker()       {}
func (p TextPart) GetKind() string { return p.Kind }

// NewTextPart creates a new TextPart with the given text.
func NewTextPart(text string) TextPart {
	return TextPart{Kind: "text", Text: text}
}

// FilePart represents a file included in a message.
type FilePart struct {
	Kind     string         `json:"kind"`
	File     FileContent    `json:"file"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (FilePart) partMarker()       {}
func (p FilePart) GetKind() string { return p.Kind }

// FileContent represents file content, either inline bytes or a URI reference.
type FileContent struct {
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Bytes    string `json:"bytes,omitempty"` // Base64 encoded
	URI      string `json:"uri,omitempty"`
}

// NewFilePartWithBytes creates a FilePart with inline base64-encoded content.
func NewFilePartWithBytes(name, mimeType, bytes string) FilePart {
	return FilePart{
		Kind: "file",
		File: FileContent{Name: name, MimeType: mimeType, Bytes: bytes},
	}
}

// NewFilePartWithURI creates a FilePart with a URI reference.
func NewFilePartWithURI(name, mimeType, uri string) FilePart {
	return FilePart{
		Kind: "file",
		File: FileContent{Name: name, MimeType: mimeType, URI: uri},
	}
}

// DataPart represents arbitrary structured data (JSON) within a message.
type DataPart struct {
	Kind     string         `json:"kind"`
	Data     any            `json:"data"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (DataPart) partMarker()       {}
func (p DataPart) GetKind() string { return p.Kind }

// NewDataPart creates a new DataPart with the given data.
func NewDataPart(data any) DataPart {
	return DataPart{Kind: "data", Data: data}
}

// Artifact represents an output generated by a task.
type Artifact struct {
	ArtifactID  string         `json:"artifactId"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Parts       []Part         `json:"parts"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewArtifact creates a new artifact with the given parts.
func NewArtifact(name, description string, parts ...Part) Artifact {
	return Artifact{
		ArtifactID:  uuid.New().String(),
		Name:        name,
		Description: description,
		Parts:       parts,
	}
}

// Data returns the payload of the first DataPart in the artifact, or nil.
func (a Artifact) Data() any {
	for _, p := range a.Parts {
		if dp, ok := p.(DataPart); ok {
			return dp.Data
		}
	}
	return nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Artifact.
func (a *Artifact) UnmarshalJSON(data []byte) error {
	type artifactAlias Artifact
	var tmp struct {
		artifactAlias
		Parts []json.RawMessage `json:"parts"`
	}

	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}

	*a = Artifact(tmp.artifactAlias)
	a.Parts = make([]Part, 0, len(tmp.Parts))

	for _, raw := range tmp.Parts {
		part, err := UnmarshalPart(raw)
		if err != nil {
			return err
		}
		a.Parts = append(a.Parts, part)
	}

	return nil
}

// MarshalPart marshals a Part to JSON with the correct kind.
func MarshalPart(p Part) ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalPart unmarshals a Part from JSON, dispatching on the kind
// discriminator. Unknown kinds are rejected.
func UnmarshalPart(data []byte) (Part, error) {
	var raw struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	switch raw.Kind {
	case "text":
		var p TextPart
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case "file":
		var p FilePart
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case "data":
		var p DataPart
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, &ValidationError{Field: "kind", Msg: "unknown part kind: " + raw.Kind}
	}
}
