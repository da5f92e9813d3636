package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/robertcrowe/arrg/a2a"
	"github.com/robertcrowe/arrg/chat"
	"github.com/robertcrowe/arrg/workspace"
)

const analysisSystem = `You are an analysis agent that synthesizes research data into insights.
You should:
1. Identify the most important discoveries
2. Recognize patterns and themes across findings
3. Generate actionable insights
4. Provide recommendations

Output your analysis as a JSON object with:
- key_findings: most important discoveries (list of strings)
- insights: synthesized understanding (list of strings)
- themes: recurring themes across the research (list of strings)
- recommendations: actionable recommendations (list of strings)`

// Analysis is the synthesized output stored in the workspace.
type Analysis struct {
	KeyFindings     []string `json:"key_findings"`
	Insights        []string `json:"insights"`
	Themes          []string `json:"themes,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// AnalysisRequest is the payload of the user message starting the phase.
type AnalysisRequest struct {
	DataReference string `json:"data_reference"`
	PlanReference string `json:"plan_reference,omitempty"`
}

// AnalysisResult is the artifact payload of a completed analysis task.
type AnalysisResult struct {
	AnalysisReference string   `json:"analysis_reference"`
	KeyFindings       []string `json:"key_findings"`
	InsightCount      int      `json:"insight_count"`
}

// Analyzer synthesizes research findings into insights and themes.
type Analyzer struct {
	base
}

// NewAnalyzer creates the analysis worker.
func NewAnalyzer(client chat.Client, ws *workspace.Workspace, opts ...Option) *Analyzer {
	return &Analyzer{base: newBase("analysis", client, ws, opts...)}
}

func (w *Analyzer) Card() a2a.AgentCard {
	return a2a.NewAgentCard("analysis", "Synthesizes research data into insights",
		a2a.AgentSkill{ID: "synthesis", Name: "Synthesis"},
		a2a.AgentSkill{ID: "pattern_recognition", Name: "Pattern recognition"},
		a2a.AgentSkill{ID: "recommendation_generation", Name: "Recommendation generation"},
	)
}

func (w *Analyzer) Process(ctx context.Context, task *a2a.Task, msg a2a.Message) (*a2a.Task, error) {
	if err := w.begin(task, msg, "analyzing research data"); err != nil {
		return task, err
	}

	var req AnalysisRequest
	if err := decodeData(msg, &req); err != nil {
		return w.fail(ctx, task, err)
	}
	if req.DataReference == "" {
		return w.fail(ctx, task, errors.New("analysis: no data reference provided"))
	}

	var data ResearchData
	if err := w.ws.GetInto(ctx, req.DataReference, &data); err != nil {
		return w.fail(ctx, task, err)
	}

	analysis, err := w.analyze(ctx, data, req.PlanReference)
	if err != nil {
		return w.fail(ctx, task, err)
	}

	key := "analysis_" + task.ID
	if _, err := w.ws.Put(ctx, key, analysis, workspace.WithOverwrite()); err != nil {
		return w.fail(ctx, task, err)
	}

	top := analysis.KeyFindings
	if len(top) > 3 {
		top = top[:3]
	}
	result := AnalysisResult{
		AnalysisReference: key,
		KeyFindings:       top,
		InsightCount:      len(analysis.Insights),
	}
	summary := fmt.Sprintf("analysis produced %d insights across %d findings",
		len(analysis.Insights), len(data.Findings))
	return w.complete(task, "analysis", summary, result)
}

func (w *Analyzer) analyze(ctx context.Context, data ResearchData, planRef string) (Analysis, error) {
	var topic string
	if planRef != "" {
		var plan Plan
		if err := w.ws.GetInto(ctx, planRef, &plan); err == nil {
			topic = plan.Topic
		}
	}

	var sb strings.Builder
	sb.WriteString("Analyze the following research data and provide insights")
	if topic != "" {
		fmt.Fprintf(&sb, " on %q", topic)
	}
	sb.WriteString(":\n\n")
	for _, f := range data.Findings {
		fmt.Fprintf(&sb, "Question: %s\nAnswer: %s\n", f.Question, f.Answer)
		for _, kp := range f.KeyPoints {
			fmt.Fprintf(&sb, "- %s\n", kp)
		}
		sb.WriteString("\n")
	}
	if len(data.KeyFacts) > 0 {
		sb.WriteString("Key facts:\n")
		for _, fact := range data.KeyFacts {
			fmt.Fprintf(&sb, "- %s\n", fact)
		}
	}
	if len(data.Gaps) > 0 {
		sb.WriteString("Known gaps:\n")
		for _, gap := range data.Gaps {
			fmt.Fprintf(&sb, "- %s\n", gap)
		}
	}
	sb.WriteString("\nProvide comprehensive analysis with insights, themes, and recommendations.")

	response, err := w.chat(ctx, analysisSystem, sb.String())
	if err != nil {
		return Analysis{}, err
	}

	var analysis Analysis
	if !ParseInto(response, &analysis) || len(analysis.Insights) == 0 {
		analysis = Analysis{Insights: []string{response}}
	}
	return analysis, nil
}
