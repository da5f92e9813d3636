package worker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/robertcrowe/arrg/a2a"
	"github.com/robertcrowe/arrg/chat"
	"github.com/robertcrowe/arrg/workspace"
)

const writingSystem = `You are a writing agent that composes comprehensive research reports.
You must write a well-structured report with:
1. Clear introduction with context and objectives
2. Well-organized sections following the outline
3. Integration of research findings and analysis insights
4. Proper conclusions and recommendations

Output your report as a JSON object with:
- title: report title
- sections: object mapping section names to full markdown content
- full_text: the complete report as a single markdown document
- executive_summary: brief summary of findings`

const revisionSystem = `You are a writing agent revising a research report based on QA feedback.
Address all issues raised by the reviewer while maintaining the report's strengths.

Output the revised report as a JSON object with:
- title: report title
- sections: object mapping section names to full markdown content
- full_text: the complete revised report as markdown
- executive_summary: brief summary
- revision_notes: what was changed`

// Report is the written deliverable stored in the workspace.
type Report struct {
	Title            string            `json:"title"`
	Sections         map[string]string `json:"sections,omitempty"`
	FullText         string            `json:"full_text"`
	ExecutiveSummary string            `json:"executive_summary,omitempty"`
	RevisionNotes    string            `json:"revision_notes,omitempty"`
}

// WritingRequest is the payload of the user message starting the phase.
// A non-nil QAFeedback marks a revision pass over ReportReference.
type WritingRequest struct {
	AnalysisReference string   `json:"analysis_reference,omitempty"`
	PlanReference     string   `json:"plan_reference,omitempty"`
	ReportReference   string   `json:"report_reference,omitempty"`
	QAFeedback        *Verdict `json:"qa_feedback,omitempty"`
}

// WritingResult is the artifact payload of a completed writing task.
type WritingResult struct {
	ReportReference string `json:"report_reference"`
	Title           string `json:"title"`
	WordCount       int    `json:"word_count"`
	SectionCount    int    `json:"section_count"`
}

// Writer composes and revises the report.
type Writer struct {
	base
}

// NewWriter creates the writing worker.
func NewWriter(client chat.Client, ws *workspace.Workspace, opts ...Option) *Writer {
	return &Writer{base: newBase("writing", client, ws, opts...)}
}

func (w *Writer) Card() a2a.AgentCard {
	return a2a.NewAgentCard("writing", "Composes research reports from analysis",
		a2a.AgentSkill{ID: "report_composition", Name: "Report composition"},
		a2a.AgentSkill{ID: "section_writing", Name: "Section writing"},
		a2a.AgentSkill{ID: "report_revision", Name: "Report revision"},
	)
}

func (w *Writer) Process(ctx context.Context, task *a2a.Task, msg a2a.Message) (*a2a.Task, error) {
	var req WritingRequest
	if err := decodeData(msg, &req); err != nil {
		if berr := w.begin(task, msg, "composing report"); berr != nil {
			return task, berr
		}
		return w.fail(ctx, task, err)
	}

	note := "composing research report"
	if req.QAFeedback != nil {
		note = "revising report based on QA feedback"
	}
	if err := w.begin(task, msg, note); err != nil {
		return task, err
	}

	var (
		report Report
		err    error
	)
	if req.QAFeedback != nil {
		report, err = w.revise(ctx, req)
	} else {
		report, err = w.write(ctx, req)
	}
	if err != nil {
		return w.fail(ctx, task, err)
	}

	key := "report_" + task.ID
	if _, err := w.ws.Put(ctx, key, report, workspace.WithOverwrite()); err != nil {
		return w.fail(ctx, task, err)
	}

	result := WritingResult{
		ReportReference: key,
		Title:           report.Title,
		WordCount:       wordCount(report.FullText),
		SectionCount:    len(report.Sections),
	}
	summary := fmt.Sprintf("report %q completed, %d words in %d sections",
		report.Title, result.WordCount, result.SectionCount)
	return w.complete(task, "report", summary, result)
}

func (w *Writer) write(ctx context.Context, req WritingRequest) (Report, error) {
	var plan Plan
	if req.PlanReference != "" {
		if err := w.ws.GetInto(ctx, req.PlanReference, &plan); err != nil {
			return Report{}, err
		}
	}
	var analysis Analysis
	if req.AnalysisReference != "" {
		if err := w.ws.GetInto(ctx, req.AnalysisReference, &analysis); err != nil {
			return Report{}, err
		}
	}

	var sb strings.Builder
	sb.WriteString("Write a comprehensive research report based on the following:\n\n")
	if plan.Topic != "" {
		fmt.Fprintf(&sb, "Topic: %s\n\n", plan.Topic)
	}
	if len(plan.Outline) > 0 {
		fmt.Fprintf(&sb, "Outline:\n%s\n\n", plan.Outline)
	}
	writeList(&sb, "Key findings", analysis.KeyFindings)
	writeList(&sb, "Insights", analysis.Insights)
	writeList(&sb, "Recommendations", analysis.Recommendations)
	sb.WriteString("Write a professional, well-structured report following the outline.")

	response, err := w.chat(ctx, writingSystem, sb.String())
	if err != nil {
		return Report{}, err
	}
	return parseReport(response), nil
}

func (w *Writer) revise(ctx context.Context, req WritingRequest) (Report, error) {
	var original Report
	if req.ReportReference != "" {
		if err := w.ws.GetInto(ctx, req.ReportReference, &original); err != nil {
			return Report{}, err
		}
	}
	feedback := req.QAFeedback

	var sb strings.Builder
	sb.WriteString("Revise the following report based on QA feedback:\n\n")
	fmt.Fprintf(&sb, "Original report:\n%s\n\n", truncate(original.FullText, 8000))
	fmt.Fprintf(&sb, "QA score: %d\n\n", feedback.QualityScore)
	if len(feedback.Issues) > 0 {
		sb.WriteString("Issues found:\n")
		for _, issue := range feedback.Issues {
			fmt.Fprintf(&sb, "- [%s] %s\n", issue.Severity, issue.Description)
		}
		sb.WriteString("\n")
	}
	writeList(&sb, "Suggestions", feedback.Recommendations)
	sb.WriteString("Please address all issues and improve the report quality.")

	response, err := w.chat(ctx, revisionSystem, sb.String())
	if err != nil {
		return Report{}, err
	}

	report := parseReport(response)
	if report.Title == "Research Report" && original.Title != "" {
		report.Title = original.Title
	}
	return report, nil
}

// parseReport extracts a Report from model output, assembling full text
// from sections when the model omits it and falling back to the raw
// response when nothing parses.
func parseReport(response string) Report {
	var report Report
	if !ParseInto(response, &report) || (report.FullText == "" && len(report.Sections) == 0) {
		return Report{
			Title:    "Research Report",
			FullText: response,
			Sections: map[string]string{"Full Report": response},
		}
	}
	if report.Title == "" {
		report.Title = "Research Report"
	}
	if report.FullText == "" {
		report.FullText = assembleFullText(report)
	}
	return report
}

func assembleFullText(report Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", report.Title)
	if report.ExecutiveSummary != "" {
		fmt.Fprintf(&sb, "## Executive Summary\n\n%s\n\n", report.ExecutiveSummary)
	}
	names := make([]string, 0, len(report.Sections))
	for name := range report.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "## %s\n\n%s\n\n", name, report.Sections[name])
	}
	return sb.String()
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", heading)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}
