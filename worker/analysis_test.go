package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertcrowe/arrg/a2a"
)

const analysisResponse = "```json\n" + `{
  "key_findings": ["exposure is rising", "defenses lag", "costs compound"],
  "insights": ["adaptation spending trails risk growth"],
  "themes": ["infrastructure risk"],
  "recommendations": ["prioritize port elevation surveys"]
}` + "\n```"

func TestAnalyzer_Process(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace()
	_, err := ws.Put(ctx, "data-key", ResearchData{
		Findings: []Finding{
			{Question: "q1", Answer: "sea levels are rising", KeyPoints: []string{"3mm per year"}},
		},
		KeyFacts: []string{"90 major ports surveyed"},
		Gaps:     []string{"no data past 2100"},
	})
	require.NoError(t, err)

	client := &stubClient{responses: textResponses(analysisResponse)}
	w := NewAnalyzer(client, ws)

	task, msg := newTaskAndMessage(t, AnalysisRequest{DataReference: "data-key"})
	task, err = w.Process(ctx, task, msg)
	require.NoError(t, err)
	requireCompleted(t, task)

	artifact, ok := task.Artifact("analysis")
	require.True(t, ok)
	var result AnalysisResult
	require.NoError(t, DecodeArtifact(artifact, &result))
	assert.Equal(t, 1, result.InsightCount)
	// only the top findings travel in the artifact
	assert.Len(t, result.KeyFindings, 3)

	var stored Analysis
	require.NoError(t, ws.GetInto(ctx, result.AnalysisReference, &stored))
	assert.Equal(t, []string{"adaptation spending trails risk growth"}, stored.Insights)
	assert.Equal(t, []string{"infrastructure risk"}, stored.Themes)

	// prompt carried the findings, facts, and gaps
	assert.Contains(t, client.prompts[0], "sea levels are rising")
	assert.Contains(t, client.prompts[0], "90 major ports surveyed")
	assert.Contains(t, client.prompts[0], "no data past 2100")
}

func TestAnalyzer_PlanTopicInPrompt(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace()
	_, err := ws.Put(ctx, "data-key", ResearchData{Findings: []Finding{{Question: "q1", Answer: "a1"}}})
	require.NoError(t, err)
	_, err = ws.Put(ctx, "plan-key", Plan{Topic: "coastal ports"})
	require.NoError(t, err)

	client := &stubClient{responses: textResponses(analysisResponse)}
	w := NewAnalyzer(client, ws)

	task, msg := newTaskAndMessage(t, AnalysisRequest{
		DataReference: "data-key",
		PlanReference: "plan-key",
	})
	_, err = w.Process(ctx, task, msg)
	require.NoError(t, err)
	assert.Contains(t, client.prompts[0], "coastal ports")
}

func TestAnalyzer_UnparseableResponseKeptAsInsight(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace()
	_, err := ws.Put(ctx, "data-key", ResearchData{Findings: []Finding{{Question: "q1", Answer: "a1"}}})
	require.NoError(t, err)

	client := &stubClient{responses: textResponses("prose analysis without JSON")}
	w := NewAnalyzer(client, ws)

	task, msg := newTaskAndMessage(t, AnalysisRequest{DataReference: "data-key"})
	task, err = w.Process(ctx, task, msg)
	require.NoError(t, err)
	requireCompleted(t, task)

	var stored Analysis
	require.NoError(t, ws.GetInto(ctx, "analysis_"+task.ID, &stored))
	assert.Equal(t, []string{"prose analysis without JSON"}, stored.Insights)
}

func TestAnalyzer_NoDataReferenceFails(t *testing.T) {
	w := NewAnalyzer(&stubClient{}, newWorkspace())

	task, msg := newTaskAndMessage(t, AnalysisRequest{})
	task, err := w.Process(context.Background(), task, msg)
	require.Error(t, err)
	assert.Equal(t, a2a.TaskStateFailed, task.Status.State)
}

func TestAnalyzer_MissingDataFails(t *testing.T) {
	w := NewAnalyzer(&stubClient{}, newWorkspace())

	task, msg := newTaskAndMessage(t, AnalysisRequest{DataReference: "absent"})
	task, err := w.Process(context.Background(), task, msg)
	require.Error(t, err)
	assert.Equal(t, a2a.TaskStateFailed, task.Status.State)
}
