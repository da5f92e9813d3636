// Package worker implements the five pipeline agents: planning, research,
// analysis, writing, and QA.
//
// Each worker receives a task and a user message, transitions the task
// through the lifecycle, and returns it with a data artifact holding the
// phase result. Large intermediate products (plans, findings, drafts) go
// into the shared workspace; artifacts carry references to them plus a
// small summary payload.
//
// Workers never mutate tasks beyond the transitions they own. A worker
// that fails returns the task in the failed state together with the error.
package worker
