package a2a

// AgentCapabilities declares optional protocol features an agent supports.
type AgentCapabilities struct {
	Streaming              bool `json:"streaming,omitempty"`
	PushNotifications      bool `json:"pushNotifications,omitempty"`
	StateTransitionHistory bool `json:"stateTransitionHistory,omitempty"`
}

// AgentSkill describes a single capability an agent advertises.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

// AgentCard is the self-description an agent publishes so the orchestrator
// can discover what it does. Cards are immutable value types.
type AgentCard struct {
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	Version            string            `json:"version,omitempty"`
	Capabilities       AgentCapabilities `json:"capabilities"`
	Skills             []AgentSkill      `json:"skills,omitempty"`
	DefaultInputModes  []string          `json:"defaultInputModes,omitempty"`
	DefaultOutputModes []string          `json:"defaultOutputModes,omitempty"`
}

// NewAgentCard creates a card with text input/output defaults and
// state transition history enabled.
func NewAgentCard(name, description string, skills ...AgentSkill) AgentCard {
	return AgentCard{
		Name:        name,
		Description: description,
		Version:     "1.0.0",
		Capabilities: AgentCapabilities{
			StateTransitionHistory: true,
		},
		Skills:             skills,
		DefaultInputModes:  []string{"text", "data"},
		DefaultOutputModes: []string{"text", "data"},
	}
}

// Skill returns the skill with the given id and true if present.
func (c AgentCard) Skill(id string) (AgentSkill, bool) {
	for _, s := range c.Skills {
		if s.ID == id {
			return s, true
		}
	}
	return AgentSkill{}, false
}
