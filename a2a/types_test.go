package a2a

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_RoundTrip(t *testing.T) {
	msg := NewMessageFrom(MessageRoleAgent, "research", "task-1",
		NewTextPart("findings"),
		NewDataPart(map[string]any{"data_reference": "ws-key"}),
	)

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, msg.MessageID, decoded.MessageID)
	assert.Equal(t, "research", decoded.Sender)
	require.NotNil(t, decoded.TaskID)
	assert.Equal(t, "task-1", *decoded.TaskID)
	require.Len(t, decoded.Parts, 2)
	assert.Equal(t, "text", decoded.Parts[0].GetKind())
	assert.Equal(t, "data", decoded.Parts[1].GetKind())
	assert.Equal(t, "findings", decoded.TextContent())
}

func TestUnmarshalPart_KindDispatch(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		p, err := UnmarshalPart([]byte(`{"kind":"text","text":"hello"}`))
		require.NoError(t, err)
		tp, ok := p.(TextPart)
		require.True(t, ok)
		assert.Equal(t, "hello", tp.Text)
	})

	t.Run("file", func(t *testing.T) {
		p, err := UnmarshalPart([]byte(`{"kind":"file","file":{"name":"report.md","uri":"file:///tmp/report.md"}}`))
		require.NoError(t, err)
		fp, ok := p.(FilePart)
		require.True(t, ok)
		assert.Equal(t, "report.md", fp.File.Name)
	})

	t.Run("data", func(t *testing.T) {
		p, err := UnmarshalPart([]byte(`{"kind":"data","data":{"plan_reference":"k1"}}`))
		require.NoError(t, err)
		dp, ok := p.(DataPart)
		require.True(t, ok)
		data := dp.Data.(map[string]any)
		assert.Equal(t, "k1", data["plan_reference"])
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		_, err := UnmarshalPart([]byte(`{"kind":"video","url":"x"}`))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "kind", verr.Field)
	})
}

func TestMessage_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		msg := NewMessage(MessageRoleUser, NewTextPart("hi"))
		assert.NoError(t, msg.Validate())
	})

	t.Run("bad role", func(t *testing.T) {
		msg := Message{Role: "system", Parts: []Part{NewTextPart("hi")}}
		var verr *ValidationError
		require.ErrorAs(t, msg.Validate(), &verr)
		assert.Equal(t, "role", verr.Field)
	})

	t.Run("no parts", func(t *testing.T) {
		msg := Message{Role: MessageRoleUser}
		var verr *ValidationError
		require.ErrorAs(t, msg.Validate(), &verr)
		assert.Equal(t, "parts", verr.Field)
	})
}

func TestMessage_Data(t *testing.T) {
	msg := NewMessage(MessageRoleUser,
		NewTextPart("revision requested"),
		NewDataPart(map[string]any{"issues": []any{"missing citations"}}),
	)

	data, ok := msg.Data().(map[string]any)
	require.True(t, ok)
	assert.Contains(t, data, "issues")

	textOnly := NewMessage(MessageRoleUser, NewTextPart("hi"))
	assert.Nil(t, textOnly.Data())
}

func TestArtifact_RoundTrip(t *testing.T) {
	artifact := NewArtifact("analysis", "synthesized insights",
		NewTextPart("three themes emerged"),
		NewDataPart(map[string]any{"analysis_reference": "ws-7"}),
	)

	data, err := json.Marshal(artifact)
	require.NoError(t, err)

	var decoded Artifact
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, artifact.ArtifactID, decoded.ArtifactID)
	assert.Equal(t, "analysis", decoded.Name)
	require.Len(t, decoded.Parts, 2)
	assert.IsType(t, TextPart{}, decoded.Parts[0])
	assert.IsType(t, DataPart{}, decoded.Parts[1])
}

func TestNewAgentCard(t *testing.T) {
	card := NewAgentCard("planning", "builds research plans",
		AgentSkill{ID: "plan", Name: "Research planning", Tags: []string{"planning"}},
	)

	assert.Equal(t, "planning", card.Name)
	assert.True(t, card.Capabilities.StateTransitionHistory)
	assert.Contains(t, card.DefaultInputModes, "text")

	skill, ok := card.Skill("plan")
	require.True(t, ok)
	assert.Equal(t, "Research planning", skill.Name)

	_, ok = card.Skill("unknown")
	assert.False(t, ok)
}
