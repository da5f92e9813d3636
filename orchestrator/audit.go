package orchestrator

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/robertcrowe/arrg/a2a"
)

// AuditEntry is one record in the run's audit log: either a task state
// transition or a message exchanged with a worker.
type AuditEntry struct {
	Seq       int            `json:"seq"`
	Kind      string         `json:"kind"`
	Phase     string         `json:"phase"`
	TaskID    string         `json:"taskId"`
	Timestamp string         `json:"timestamp,omitempty"`
	State     a2a.TaskState  `json:"state,omitempty"`
	Note      string         `json:"note,omitempty"`
	MessageID string         `json:"messageId,omitempty"`
	Role      a2a.MessageRole `json:"role,omitempty"`
	Sender    string         `json:"sender,omitempty"`
	Text      string         `json:"text,omitempty"`
}

const (
	auditTransition = "transition"
	auditMessage    = "message"
)

// Audit is the append-only record of everything that happened in a run.
// The ordered entries reconstruct the run end to end.
type Audit struct {
	mu      sync.Mutex
	entries []AuditEntry
}

// recordTask appends the task's full transition and message history.
func (a *Audit) recordTask(phase string, task *a2a.Task) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, status := range task.StatusHistory {
		a.append(AuditEntry{
			Kind:      auditTransition,
			Phase:     phase,
			TaskID:    task.ID,
			Timestamp: status.Timestamp,
			State:     status.State,
			Note:      status.Note,
		})
	}
	for _, msg := range task.History {
		a.append(AuditEntry{
			Kind:      auditMessage,
			Phase:     phase,
			TaskID:    task.ID,
			Timestamp: msg.Timestamp,
			MessageID: msg.MessageID,
			Role:      msg.Role,
			Sender:    msg.Sender,
			Text:      msg.TextContent(),
		})
	}
}

// append assigns the next sequence number. Caller holds the lock.
func (a *Audit) append(e AuditEntry) {
	e.Seq = len(a.entries)
	a.entries = append(a.entries, e)
}

// Entries returns a copy of the audit log in order.
func (a *Audit) Entries() []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]AuditEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Len returns the number of entries recorded so far.
func (a *Audit) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Export writes the audit log as JSON lines, one entry per line.
func (a *Audit) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, e := range a.Entries() {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}
