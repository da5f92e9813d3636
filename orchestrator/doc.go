// Package orchestrator drives the five-phase report pipeline:
// planning, research, analysis, writing, and QA.
//
// Phases run strictly in sequence. Each phase gets a fresh task whose
// user message carries references to the previous phase's artifacts.
// When QA rejects the draft, the writer gets a revision task with the
// verdict attached; the revision loop is bounded, and on exhaustion the
// run returns the last draft together with the outstanding objections.
//
// Every task transition and message is recorded in an append-only audit
// log that can be exported as JSON lines.
package orchestrator
