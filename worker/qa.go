package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/robertcrowe/arrg/a2a"
	"github.com/robertcrowe/arrg/chat"
	"github.com/robertcrowe/arrg/workspace"
)

const qaSystem = `You are a QA agent that reviews research reports for quality.
You should evaluate:
1. Accuracy: are claims properly supported?
2. Completeness: are all sections adequately covered?
3. Coherence: does the report flow logically?
4. Clarity: is the writing clear and professional?
5. Structure: does it follow the outline properly?
6. Citations: are sources properly referenced?

Output your review as a JSON object with:
- quality_score: overall score (0-100)
- approved: boolean approval status
- issues: list of {severity, category, description}
- strengths: positive aspects (list of strings)
- recommendations: suggestions for improvement (list of strings)`

// Issue is a single problem the reviewer found.
type Issue struct {
	Severity    string `json:"severity"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description"`
}

// Verdict is the structured QA review. A rejected report keeps the QA
// task completed; the verdict itself carries the approval decision.
type Verdict struct {
	Approved        bool     `json:"approved"`
	QualityScore    int      `json:"quality_score"`
	Issues          []Issue  `json:"issues,omitempty"`
	Strengths       []string `json:"strengths,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	Summary         string   `json:"summary,omitempty"`
}

// QARequest is the payload of the user message starting the phase.
type QARequest struct {
	ReportReference string `json:"report_reference"`
}

// QAResult is the artifact payload of a completed QA task.
type QAResult struct {
	VerdictReference string `json:"verdict_reference"`
	Verdict
}

// Reviewer evaluates the report and produces a verdict.
type Reviewer struct {
	base
}

// NewReviewer creates the QA worker.
func NewReviewer(client chat.Client, ws *workspace.Workspace, opts ...Option) *Reviewer {
	return &Reviewer{base: newBase("qa", client, ws, opts...)}
}

func (w *Reviewer) Card() a2a.AgentCard {
	return a2a.NewAgentCard("qa", "Reviews and validates reports for quality",
		a2a.AgentSkill{ID: "quality_assessment", Name: "Quality assessment"},
		a2a.AgentSkill{ID: "completeness_validation", Name: "Completeness validation"},
		a2a.AgentSkill{ID: "recommendation_generation", Name: "Recommendation generation"},
	)
}

func (w *Reviewer) Process(ctx context.Context, task *a2a.Task, msg a2a.Message) (*a2a.Task, error) {
	if err := w.begin(task, msg, "reviewing report quality"); err != nil {
		return task, err
	}

	var req QARequest
	if err := decodeData(msg, &req); err != nil {
		return w.fail(ctx, task, err)
	}
	if req.ReportReference == "" {
		return w.fail(ctx, task, errors.New("qa: no report reference provided"))
	}

	var report Report
	if err := w.ws.GetInto(ctx, req.ReportReference, &report); err != nil {
		return w.fail(ctx, task, err)
	}

	verdict, err := w.review(ctx, report)
	if err != nil {
		return w.fail(ctx, task, err)
	}

	key := "qa_results_" + task.ID
	if _, err := w.ws.Put(ctx, key, verdict, workspace.WithOverwrite()); err != nil {
		return w.fail(ctx, task, err)
	}

	result := QAResult{VerdictReference: key, Verdict: verdict}
	status := "rejected"
	if verdict.Approved {
		status = "approved"
	}
	summary := fmt.Sprintf("review complete: %s with score %d/100, %d issues",
		status, verdict.QualityScore, len(verdict.Issues))
	return w.complete(task, "qa_verdict", summary, result)
}

func (w *Reviewer) review(ctx context.Context, report Report) (Verdict, error) {
	prompt := fmt.Sprintf(`Review the following research report for quality:

Title: %s
Word count: %d
Sections: %d

Report content (excerpt):
%s

Provide a comprehensive QA review with scores, issues, and recommendations.`,
		report.Title, wordCount(report.FullText), len(report.Sections),
		truncate(report.FullText, 2000))

	response, err := w.chat(ctx, qaSystem, prompt)
	if err != nil {
		return Verdict{}, err
	}

	var verdict Verdict
	if ParseInto(response, &verdict) && verdict.QualityScore > 0 {
		if verdict.Summary == "" {
			verdict.Summary = fmt.Sprintf("report scored %d/100 with %d issues",
				verdict.QualityScore, len(verdict.Issues))
		}
		return verdict, nil
	}
	return evaluateReport(report), nil
}

// evaluateReport applies the rule-based rubric when the model review
// cannot be parsed: short reports and thin structure raise issues, and
// any high-severity issue blocks approval.
func evaluateReport(report Report) Verdict {
	var issues []Issue

	words := wordCount(report.FullText)
	if words < 500 {
		issues = append(issues, Issue{
			Severity:    "high",
			Category:    "completeness",
			Description: fmt.Sprintf("report is too short (%d words), expected at least 500", words),
		})
	}
	if len(report.Sections) < 3 {
		issues = append(issues, Issue{
			Severity:    "medium",
			Category:    "structure",
			Description: fmt.Sprintf("report has only %d sections", len(report.Sections)),
		})
	}

	high := 0
	for _, issue := range issues {
		if issue.Severity == "high" {
			high++
		}
	}

	score := 85 - high*20 - len(issues)*5
	if score < 0 {
		score = 0
	}

	return Verdict{
		Approved:     high == 0,
		QualityScore: score,
		Issues:       issues,
		Summary:      fmt.Sprintf("rule-based review: %d issues found", len(issues)),
	}
}
