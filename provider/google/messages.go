package google

import (
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	ai "github.com/robertcrowe/arrg"
)

// convertMessages maps a conversation to Gemini contents. System messages
// are collected separately for the system instruction.
func convertMessages(messages []ai.Message) ([]*genai.Content, []string) {
	var contents []*genai.Content
	var system []string

	for _, msg := range messages {
		if msg.Role == ai.RoleSystem {
			if msg.Content != "" {
				system = append(system, msg.Content)
			}
			continue
		}

		role := genai.RoleUser
		if msg.Role == ai.RoleAssistant {
			role = genai.RoleModel
		}

		var parts []*genai.Part
		if msg.Content != "" {
			parts = append(parts, &genai.Part{Text: msg.Content})
		}

		// Assistant tool calls become FunctionCall parts
		for _, tc := range msg.ToolCalls {
			var args map[string]any
			json.Unmarshal([]byte(tc.Arguments), &args)
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					Name: tc.Name,
					Args: args,
				},
			})
		}

		// Tool results become FunctionResponse parts on a user turn
		for _, tr := range msg.ToolResults {
			var result map[string]any
			if err := json.Unmarshal([]byte(tr.Content), &result); err != nil {
				result = map[string]any{"result": tr.Content}
			}
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     functionNameFromCallID(tr.ToolCallID),
					Response: result,
				},
			})
		}

		if len(parts) > 0 {
			contents = append(contents, &genai.Content{
				Role:  role,
				Parts: parts,
			})
		}
	}

	return contents, system
}

func systemContent(system []string) *genai.Content {
	parts := make([]*genai.Part, len(system))
	for i, s := range system {
		parts[i] = &genai.Part{Text: s}
	}
	return &genai.Content{Parts: parts}
}

// functionNameFromCallID recovers the function name from a synthesized
// call identifier of the form "call_<index>_<name>". Gemini does not
// issue call IDs, so extractToolCalls embeds the name in the ID it makes
// up and this reverses that.
func functionNameFromCallID(id string) string {
	if rest, ok := strings.CutPrefix(id, "call_"); ok {
		if _, name, found := strings.Cut(rest, "_"); found {
			return name
		}
	}
	return id
}

// BlockedError indicates the request was blocked by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request blocked: %s", e.Reason)
}
