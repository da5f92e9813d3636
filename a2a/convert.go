package a2a

import (
	ai "github.com/robertcrowe/arrg"
)

// ToChatMessages converts protocol messages to chat messages for generation.
func ToChatMessages(msgs []Message) []ai.Message {
	result := make([]ai.Message, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, ToChatMessage(msg))
	}
	return result
}

// ToChatMessage converts a single protocol message to a chat message.
// Text parts are concatenated; data parts carrying tool calls or tool
// results are restored to their typed form.
func ToChatMessage(msg Message) ai.Message {
	m := ai.Message{
		ID:   msg.MessageID,
		Role: toChatRole(msg.Role),
	}

	for _, part := range msg.Parts {
		switch p := part.(type) {
		case TextPart:
			m.Content += p.Text
		case DataPart:
			if data, ok := p.Data.(map[string]any); ok {
				if toolCalls := extractToolCalls(data); len(toolCalls) > 0 {
					m.ToolCalls = append(m.ToolCalls, toolCalls...)
				}
				if toolResults := extractToolResults(data); len(toolResults) > 0 {
					m.ToolResults = append(m.ToolResults, toolResults...)
				}
			}
		}
	}

	return m
}

// FromChatMessages converts chat messages to protocol messages.
func FromChatMessages(msgs []ai.Message) []Message {
	result := make([]Message, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, FromChatMessage(msg))
	}
	return result
}

// FromChatMessage converts a single chat message to a protocol message.
func FromChatMessage(msg ai.Message) Message {
	m := NewMessage(fromChatRole(msg.Role))
	if msg.ID != "" {
		m.MessageID = msg.ID
	}

	var parts []Part

	if msg.Content != "" {
		parts = append(parts, NewTextPart(msg.Content))
	}

	for _, tc := range msg.ToolCalls {
		parts = append(parts, NewDataPart(map[string]any{
			"type": "tool_call",
			"tool_call": map[string]any{
				"id":        tc.ID,
				"name":      tc.Name,
				"arguments": tc.Arguments,
			},
		}))
	}

	for _, tr := range msg.ToolResults {
		parts = append(parts, NewDataPart(map[string]any{
			"type": "tool_result",
			"tool_result": map[string]any{
				"tool_call_id": tr.ToolCallID,
				"content":      tr.Content,
				"is_error":     tr.IsError,
			},
		}))
	}

	m.Parts = parts
	return m
}

func toChatRole(role MessageRole) ai.Role {
	switch role {
	case MessageRoleUser:
		return ai.RoleUser
	case MessageRoleAgent:
		return ai.RoleAssistant
	default:
		return ai.RoleUser
	}
}

func fromChatRole(role ai.Role) MessageRole {
	switch role {
	case ai.RoleUser:
		return MessageRoleUser
	case ai.RoleAssistant, ai.RoleSystem, ai.RoleTool:
		return MessageRoleAgent
	default:
		return MessageRoleUser
	}
}

// extractToolCalls extracts tool calls from a data part.
func extractToolCalls(data map[string]any) []ai.ToolCall {
	if data["type"] != "tool_call" {
		return nil
	}

	tc, ok := data["tool_call"].(map[string]any)
	if !ok {
		return nil
	}

	id, _ := tc["id"].(string)
	name, _ := tc["name"].(string)
	args, _ := tc["arguments"].(string)

	return []ai.ToolCall{{
		ID:        id,
		Name:      name,
		Arguments: args,
	}}
}

// extractToolResults extracts tool results from a data part.
func extractToolResults(data map[string]any) []ai.ToolResult {
	if data["type"] != "tool_result" {
		return nil
	}

	tr, ok := data["tool_result"].(map[string]any)
	if !ok {
		return nil
	}

	toolCallID, _ := tr["tool_call_id"].(string)
	content, _ := tr["content"].(string)
	isError, _ := tr["is_error"].(bool)

	return []ai.ToolResult{{
		ToolCallID: toolCallID,
		Content:    content,
		IsError:    isError,
	}}
}
