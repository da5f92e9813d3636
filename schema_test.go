package arrg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFrom_SimpleTypes(t *testing.T) {
	type Args struct {
		Name   string  `json:"name"`
		Age    int     `json:"age"`
		Score  float64 `json:"score"`
		Active bool    `json:"active"`
	}

	schema := SchemaFrom[Args]().Build()

	var result map[string]any
	err := json.Unmarshal(schema, &result)
	require.NoError(t, err)

	assert.Equal(t, "object", result["type"])
	props := result["properties"].(map[string]any)

	assert.Equal(t, "string", props["name"].(map[string]any)["type"])
	assert.Equal(t, "integer", props["age"].(map[string]any)["type"])
	assert.Equal(t, "number", props["score"].(map[string]any)["type"])
	assert.Equal(t, "boolean", props["active"].(map[string]any)["type"])
}

func TestSchemaFrom_Required(t *testing.T) {
	type Args struct {
		Location string `json:"location"`
		Unit     string `json:"unit"`
	}

	schema := SchemaFrom[Args]().
		Required("location").
		Build()

	var result map[string]any
	err := json.Unmarshal(schema, &result)
	require.NoError(t, err)

	required := result["required"].([]any)
	assert.Len(t, required, 1)
	assert.Equal(t, "location", required[0])
}

func TestSchemaFrom_DescAndEnum(t *testing.T) {
	type Args struct {
		Query string `json:"query"`
		Kind  string `json:"kind"`
	}

	schema := SchemaFrom[Args]().
		Desc("query", "Search query").
		Enum("kind", "web", "news").
		Build()

	var result map[string]any
	err := json.Unmarshal(schema, &result)
	require.NoError(t, err)

	props := result["properties"].(map[string]any)
	assert.Equal(t, "Search query", props["query"].(map[string]any)["description"])
	assert.Equal(t, []any{"web", "news"}, props["kind"].(map[string]any)["enum"])
}

func TestSchemaFrom_NestedAndArrays(t *testing.T) {
	type Inner struct {
		Value string `json:"value"`
	}
	type Args struct {
		Tags  []string `json:"tags"`
		Inner Inner    `json:"inner"`
		Meta  map[string]string `json:"meta"`
	}

	schema := SchemaFrom[Args]().Build()

	var result map[string]any
	err := json.Unmarshal(schema, &result)
	require.NoError(t, err)

	props := result["properties"].(map[string]any)
	tags := props["tags"].(map[string]any)
	assert.Equal(t, "array", tags["type"])
	assert.Equal(t, "string", tags["items"].(map[string]any)["type"])

	inner := props["inner"].(map[string]any)
	assert.Equal(t, "object", inner["type"])
	assert.Contains(t, inner["properties"], "value")

	assert.Equal(t, "object", props["meta"].(map[string]any)["type"])
}

func TestSchemaFor_Tags(t *testing.T) {
	type Args struct {
		Query string `json:"query" desc:"Search query" required:"true"`
		Kind  string `json:"kind" desc:"Result kind" enum:"web,news"`
	}

	schema, err := SchemaFor[Args]()
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal(schema, &result))

	props := result["properties"].(map[string]any)
	assert.Len(t, props, 2)
	assert.Equal(t, "Search query", props["query"].(map[string]any)["description"])
	assert.Equal(t, []any{"web", "news"}, props["kind"].(map[string]any)["enum"])

	required := result["required"].([]any)
	assert.Equal(t, []any{"query"}, required)
}

func TestSchemaFor_NonStruct(t *testing.T) {
	_, err := SchemaFor[string]()
	assert.Error(t, err)
}

func TestMustSchemaFor_PanicsOnNonStruct(t *testing.T) {
	assert.Panics(t, func() {
		MustSchemaFor[int]()
	})
}
