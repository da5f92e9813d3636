package worker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertcrowe/arrg/a2a"
)

const reportResponse = "```json\n" + `{
  "title": "Ports Under Pressure",
  "sections": {"1. Introduction": "Intro text.", "2. Findings": "Findings text."},
  "full_text": "# Ports Under Pressure\n\nIntro text.\n\nFindings text.",
  "executive_summary": "Ports face rising exposure."
}` + "\n```"

func TestWriter_Process(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace()
	_, err := ws.Put(ctx, "plan-key", Plan{Topic: "ports", Outline: defaultOutline})
	require.NoError(t, err)
	_, err = ws.Put(ctx, "analysis-key", Analysis{
		KeyFindings: []string{"exposure is rising"},
		Insights:    []string{"adaptation lags"},
	})
	require.NoError(t, err)

	client := &stubClient{responses: textResponses(reportResponse)}
	w := NewWriter(client, ws)

	task, msg := newTaskAndMessage(t, WritingRequest{
		AnalysisReference: "analysis-key",
		PlanReference:     "plan-key",
	})
	task, err = w.Process(ctx, task, msg)
	require.NoError(t, err)
	requireCompleted(t, task)

	artifact, ok := task.Artifact("report")
	require.True(t, ok)
	var result WritingResult
	require.NoError(t, DecodeArtifact(artifact, &result))
	assert.Equal(t, "Ports Under Pressure", result.Title)
	assert.Equal(t, 2, result.SectionCount)
	assert.Positive(t, result.WordCount)

	var stored Report
	require.NoError(t, ws.GetInto(ctx, result.ReportReference, &stored))
	assert.Contains(t, stored.FullText, "Intro text.")

	// prompt carried both the analysis and the outline
	assert.Contains(t, client.prompts[0], "exposure is rising")
	assert.Contains(t, client.prompts[0], "Introduction")
}

func TestWriter_Revision(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace()
	_, err := ws.Put(ctx, "draft-key", Report{
		Title:    "Draft",
		FullText: "Original draft text.",
	})
	require.NoError(t, err)

	revised := "```json\n" + `{"title":"Draft","full_text":"Revised draft text.","sections":{"All":"Revised draft text."},"revision_notes":"expanded findings"}` + "\n```"
	client := &stubClient{responses: textResponses(revised)}
	w := NewWriter(client, ws)

	task, msg := newTaskAndMessage(t, WritingRequest{
		ReportReference: "draft-key",
		QAFeedback: &Verdict{
			Approved:     false,
			QualityScore: 55,
			Issues: []Issue{
				{Severity: "high", Description: "missing evidence for section 2"},
			},
		},
	})
	task, err = w.Process(ctx, task, msg)
	require.NoError(t, err)
	requireCompleted(t, task)

	// revision prompt carries the original text and the QA issues
	assert.Contains(t, client.prompts[0], "Original draft text.")
	assert.Contains(t, client.prompts[0], "missing evidence for section 2")

	var result WritingResult
	artifact, _ := task.Artifact("report")
	require.NoError(t, DecodeArtifact(artifact, &result))
	var stored Report
	require.NoError(t, ws.GetInto(ctx, result.ReportReference, &stored))
	assert.Equal(t, "Revised draft text.", stored.FullText)
	assert.Equal(t, "expanded findings", stored.RevisionNotes)

	// the working note marks this as a revision pass
	assert.Equal(t, "revising report based on QA feedback", task.StatusHistory[1].Note)
}

func TestWriter_FallbackToRawResponse(t *testing.T) {
	ctx := context.Background()
	ws := newWorkspace()
	client := &stubClient{responses: textResponses("# Plain Markdown Report\n\nNo JSON here.")}
	w := NewWriter(client, ws)

	task, msg := newTaskAndMessage(t, WritingRequest{})
	task, err := w.Process(ctx, task, msg)
	require.NoError(t, err)
	requireCompleted(t, task)

	var stored Report
	require.NoError(t, ws.GetInto(ctx, "report_"+task.ID, &stored))
	assert.Equal(t, "Research Report", stored.Title)
	assert.Contains(t, stored.FullText, "Plain Markdown Report")
}

func TestAssembleFullText(t *testing.T) {
	report := Report{
		Title:            "T",
		ExecutiveSummary: "Summary.",
		Sections: map[string]string{
			"2. Later": "later",
			"1. Intro": "intro",
		},
	}
	text := assembleFullText(report)
	assert.Contains(t, text, "# T")
	assert.Contains(t, text, "## Executive Summary")
	// sections come out in sorted order
	assert.Less(t, strings.Index(text, "1. Intro"), strings.Index(text, "2. Later"))
}

func TestWriter_MissingReferenceFails(t *testing.T) {
	w := NewWriter(&stubClient{}, newWorkspace())

	task, msg := newTaskAndMessage(t, WritingRequest{AnalysisReference: "absent"})
	task, err := w.Process(context.Background(), task, msg)
	require.Error(t, err)
	assert.Equal(t, a2a.TaskStateFailed, task.Status.State)
}
