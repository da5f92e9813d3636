// Package openai implements the chat client interface on top of the
// OpenAI Chat Completions API.
package openai
