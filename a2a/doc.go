// Package a2a provides the agent-to-agent protocol data model used between
// the orchestrator and its workers.
//
// The package defines the core protocol types ([Message], [Task],
// [TaskState], [Artifact], [AgentCard] and the Part variants) plus
// conversion helpers between protocol messages and chat messages.
//
// # Task Lifecycle
//
// Tasks progress through defined states:
//
//   - TaskStateSubmitted: task received, not yet started
//   - TaskStateWorking: task is being processed
//   - TaskStateInputRequired: worker needs additional input to continue
//   - TaskStateAuthRequired: worker needs credentials to continue
//   - TaskStateCompleted: task finished successfully
//   - TaskStateFailed: task failed with an error
//   - TaskStateCanceled: task was canceled
//   - TaskStateRejected: task was rejected by the worker
//
// Transitions are validated by [Task.Transition]; every accepted edge is
// recorded in the task's status history with a timestamp and optional
// note. Terminal states are final: no further transitions or messages
// are accepted.
//
// # Messages and Parts
//
// A message carries one or more parts, each discriminated by a "kind"
// field on the wire: "text", "file", or "data". [UnmarshalPart] rejects
// unknown kinds with a [ValidationError].
//
// # Thread Safety
//
// Tasks are NOT safe for concurrent mutation. The orchestrator processes
// one task at a time per run; conversion functions are stateless and safe
// for concurrent use.
package a2a
