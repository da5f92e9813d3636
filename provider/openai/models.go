package openai

// ChatModel represents an OpenAI chat/completion model.
type ChatModel string

const (
	// GPT-5 Series
	GPT5     ChatModel = "gpt-5"
	GPT5Mini ChatModel = "gpt-5-mini"
	GPT5Nano ChatModel = "gpt-5-nano"

	// GPT-4.1 Series
	GPT41     ChatModel = "gpt-4.1"
	GPT41Mini ChatModel = "gpt-4.1-mini"

	// O-Series Reasoning Models
	O3     ChatModel = "o3"
	O4Mini ChatModel = "o4-mini"

	// DefaultChatModel is the recommended default model.
	DefaultChatModel ChatModel = GPT5
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }
