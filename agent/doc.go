// Package agent implements a bounded tool-invocation loop over a chat
// client and a tool registry.
//
// The agent sends the conversation to the model, executes any tool calls
// the model requests, appends the results, and repeats until the model
// answers without tools or the round limit is reached. On exhaustion the
// agent makes one final call with tools disabled so the run always ends
// with usable text, flagged with TerminationRoundLimit.
//
// Tool handler failures never abort the loop. They are converted to
// error-flagged tool results and fed back to the model, which decides
// how to proceed.
package agent
