// Package google implements the chat client interface on top of the
// Google GenAI (Gemini) API.
package google
