// Package anthropic implements the chat client interface on top of the
// Anthropic Messages API.
package anthropic
