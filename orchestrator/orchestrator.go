package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/robertcrowe/arrg/a2a"
	"github.com/robertcrowe/arrg/chat"
	"github.com/robertcrowe/arrg/event"
	"github.com/robertcrowe/arrg/tool"
	"github.com/robertcrowe/arrg/worker"
	"github.com/robertcrowe/arrg/workspace"
)

// Status is the overall outcome of a report run.
type Status string

const (
	// StatusSuccess means QA approved the final draft.
	StatusSuccess Status = "success"

	// StatusSuccessWithObjections means the revision limit was exhausted
	// and the last draft ships with the outstanding QA objections.
	StatusSuccessWithObjections Status = "success_with_objections"

	// StatusFailed means a phase failed and the run aborted.
	StatusFailed Status = "failed"
)

// Result is the outcome of a report run. Tasks and Audit are populated
// even when the run fails, so the history is never lost.
type Result struct {
	Status           Status
	Topic            string
	Report           worker.Report
	Verdict          worker.Verdict
	ReportReference  string
	VerdictReference string
	Revisions        int
	Tasks            []*a2a.Task
	Audit            *Audit
}

// Orchestrator owns the five workers and the shared workspace.
type Orchestrator struct {
	options  *Options
	ws       *workspace.Workspace
	planning worker.Worker
	research worker.Worker
	analyzer worker.Worker
	writer   worker.Worker
	reviewer worker.Worker
}

// New builds the orchestrator and its workers over the given chat client
// and tool registry.
func New(client chat.Client, registry *tool.Registry, opts ...Option) *Orchestrator {
	options := ApplyOptions(opts...)
	workerOpts := []worker.Option{
		worker.WithEvents(options.Events),
		worker.WithChatOptions(options.ChatOptions...),
		worker.WithMaxRounds(options.MaxRounds),
	}
	ws := options.Workspace
	return &Orchestrator{
		options:  options,
		ws:       ws,
		planning: worker.NewPlanning(client, ws, workerOpts...),
		research: worker.NewResearch(client, registry, ws, workerOpts...),
		analyzer: worker.NewAnalyzer(client, ws, workerOpts...),
		writer:   worker.NewWriter(client, ws, workerOpts...),
		reviewer: worker.NewReviewer(client, ws, workerOpts...),
	}
}

// Workspace returns the shared workspace the run writes into.
func (o *Orchestrator) Workspace() *workspace.Workspace {
	return o.ws
}

// Cards returns the agent cards of all five workers in pipeline order.
func (o *Orchestrator) Cards() []a2a.AgentCard {
	return []a2a.AgentCard{
		o.planning.Card(),
		o.research.Card(),
		o.analyzer.Card(),
		o.writer.Card(),
		o.reviewer.Card(),
	}
}

// RunOption configures a single report run.
type RunOption func(*runConfig)

type runConfig struct {
	requirements map[string]any
}

// WithRequirements attaches extra requirements to the planning phase.
func WithRequirements(req map[string]any) RunOption {
	return func(c *runConfig) {
		c.requirements = req
	}
}

// GenerateReport runs planning, research, analysis, writing, and QA in
// order, revising rejected drafts up to the revision limit.
func (o *Orchestrator) GenerateReport(ctx context.Context, topic string, opts ...RunOption) (*Result, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &run{
		o:         o,
		contextID: uuid.New().String(),
		audit:     &Audit{},
	}
	result := &Result{Topic: topic, Audit: r.audit}

	o.emit(event.Event{Type: event.RunStart, Message: topic})

	var planRes worker.PlanningResult
	if err := r.dispatch(ctx, "planning", o.planning,
		"Create research plan for topic: "+topic,
		worker.PlanningRequest{Topic: topic, Requirements: cfg.requirements},
		"research_plan", &planRes); err != nil {
		return r.failed(result, err)
	}

	var researchRes worker.ResearchResult
	if err := r.dispatch(ctx, "research", o.research,
		"Conduct research on questions from plan",
		worker.ResearchRequest{
			ResearchQuestions: planRes.ResearchQuestions,
			PlanReference:     planRes.PlanReference,
		},
		"research_data", &researchRes); err != nil {
		return r.failed(result, err)
	}

	var analysisRes worker.AnalysisResult
	if err := r.dispatch(ctx, "analysis", o.analyzer,
		"Analyze research data and synthesize insights",
		worker.AnalysisRequest{
			DataReference: researchRes.DataReference,
			PlanReference: planRes.PlanReference,
		},
		"analysis", &analysisRes); err != nil {
		return r.failed(result, err)
	}

	var writingRes worker.WritingResult
	if err := r.dispatch(ctx, "writing", o.writer,
		"Write comprehensive research report",
		worker.WritingRequest{
			AnalysisReference: analysisRes.AnalysisReference,
			PlanReference:     planRes.PlanReference,
		},
		"report", &writingRes); err != nil {
		return r.failed(result, err)
	}

	// QA loop: a rejected verdict sends the draft back to the writer
	// with the feedback attached, up to the revision limit.
	var qaRes worker.QAResult
	for {
		if err := r.dispatch(ctx, "qa", o.reviewer,
			"Quality assurance review of report",
			worker.QARequest{ReportReference: writingRes.ReportReference},
			"qa_verdict", &qaRes); err != nil {
			return r.failed(result, err)
		}

		if qaRes.Approved {
			result.Status = StatusSuccess
			break
		}
		if result.Revisions >= o.options.RevisionLimit {
			result.Status = StatusSuccessWithObjections
			break
		}

		result.Revisions++
		o.emit(event.Event{Type: event.RevisionStart, Phase: "writing", Revision: result.Revisions})

		if err := r.dispatch(ctx, "writing", o.writer,
			fmt.Sprintf("Revise report based on QA feedback (revision %d)", result.Revisions),
			worker.WritingRequest{
				AnalysisReference: analysisRes.AnalysisReference,
				PlanReference:     planRes.PlanReference,
				ReportReference:   writingRes.ReportReference,
				QAFeedback:        &qaRes.Verdict,
			},
			"report", &writingRes); err != nil {
			return r.failed(result, err)
		}
	}

	result.Tasks = r.tasks
	result.ReportReference = writingRes.ReportReference
	result.VerdictReference = qaRes.VerdictReference
	result.Verdict = qaRes.Verdict
	if err := o.ws.GetInto(ctx, writingRes.ReportReference, &result.Report); err != nil {
		return r.failed(result, fmt.Errorf("loading final report: %w", err))
	}

	o.emit(event.Event{Type: event.RunEnd, Message: string(result.Status)})
	return result, nil
}

func (o *Orchestrator) emit(e event.Event) {
	event.Emit(o.options.Events, e)
}

// run holds the per-run task log and audit trail.
type run struct {
	o         *Orchestrator
	contextID string
	tasks     []*a2a.Task
	audit     *Audit
}

// dispatch creates a fresh task for the phase, sends the payload as the
// user message, and decodes the named artifact from the completed task.
func (r *run) dispatch(ctx context.Context, phase string, w worker.Worker, description string, payload any, artifactName string, out any) error {
	r.o.emit(event.Event{Type: event.PhaseStart, Phase: phase})

	task := a2a.NewTask("", r.contextID)
	task.Metadata = map[string]any{"phase": phase, "description": description}
	r.tasks = append(r.tasks, task)

	msg := a2a.NewMessageFrom(a2a.MessageRoleUser, "orchestrator", task.ID,
		a2a.NewTextPart(description), a2a.NewDataPart(payload))

	done, err := w.Process(ctx, task, msg)
	if done != nil {
		r.audit.recordTask(phase, done)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", phase, err)
	}
	if done.Status.State != a2a.TaskStateCompleted {
		return fmt.Errorf("%s: task ended in state %s", phase, done.Status.State)
	}

	artifact, ok := done.Artifact(artifactName)
	if !ok {
		return fmt.Errorf("%s: completed task has no %s artifact", phase, artifactName)
	}
	if err := worker.DecodeArtifact(artifact, out); err != nil {
		return fmt.Errorf("%s: decoding %s artifact: %w", phase, artifactName, err)
	}

	r.o.emit(event.Event{Type: event.PhaseEnd, Phase: phase, TaskID: task.ID})
	return nil
}

// failed finalizes a run that aborted, keeping the task history.
func (r *run) failed(result *Result, err error) (*Result, error) {
	result.Status = StatusFailed
	result.Tasks = r.tasks
	r.o.emit(event.Event{Type: event.RunError, Error: err})
	return result, err
}
