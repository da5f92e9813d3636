package orchestrator

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertcrowe/arrg/a2a"
	"github.com/robertcrowe/arrg/worker"
	"github.com/robertcrowe/arrg/workspace"
)

// stubWorker walks the task through the lifecycle and returns a canned
// artifact payload.
type stubWorker struct {
	name         string
	artifactName string
	calls        int
	requests     []a2a.Message
	process      func(ctx context.Context, task *a2a.Task, msg a2a.Message) (any, error)
}

func (s *stubWorker) Card() a2a.AgentCard {
	return a2a.NewAgentCard(s.name, "stub")
}

func (s *stubWorker) Process(ctx context.Context, task *a2a.Task, msg a2a.Message) (*a2a.Task, error) {
	s.calls++
	s.requests = append(s.requests, msg)
	if err := task.Transition(a2a.TaskStateWorking, "working"); err != nil {
		return task, err
	}
	if err := task.AddMessage(msg); err != nil {
		return task, err
	}

	payload, err := s.process(ctx, task, msg)
	if err != nil {
		_ = task.Transition(a2a.TaskStateFailed, err.Error())
		return task, err
	}

	task.AddArtifact(a2a.NewArtifact(s.artifactName, "done", a2a.NewDataPart(payload)))
	reply := a2a.NewMessageFrom(a2a.MessageRoleAgent, s.name, task.ID, a2a.NewTextPart("done"))
	if err := task.AddMessage(reply); err != nil {
		return task, err
	}
	if err := task.Transition(a2a.TaskStateCompleted, "done"); err != nil {
		return task, err
	}
	return task, nil
}

// testPipeline wires stub workers into an orchestrator. The QA stub's
// verdicts are consumed in order; the last one repeats.
func testPipeline(t *testing.T, verdicts []worker.Verdict, opts ...Option) (*Orchestrator, map[string]*stubWorker) {
	t.Helper()

	ws := workspace.New(workspace.NewMemoryAdapter())
	o := New(nil, nil, append([]Option{WithWorkspace(ws)}, opts...)...)

	stubs := map[string]*stubWorker{}

	planning := &stubWorker{name: "planning", artifactName: "research_plan",
		process: func(ctx context.Context, task *a2a.Task, _ a2a.Message) (any, error) {
			key := "research_plan_" + task.ID
			_, err := ws.Put(ctx, key, worker.Plan{Topic: "t", ResearchQuestions: []string{"q1"}})
			return worker.PlanningResult{PlanReference: key, ResearchQuestions: []string{"q1"}}, err
		}}
	research := &stubWorker{name: "research", artifactName: "research_data",
		process: func(ctx context.Context, task *a2a.Task, _ a2a.Message) (any, error) {
			key := "research_data_" + task.ID
			_, err := ws.Put(ctx, key, worker.ResearchData{Questions: []string{"q1"}})
			return worker.ResearchResult{DataReference: key, Summary: "done", SourceCount: 1}, err
		}}
	analysis := &stubWorker{name: "analysis", artifactName: "analysis",
		process: func(ctx context.Context, task *a2a.Task, _ a2a.Message) (any, error) {
			key := "analysis_" + task.ID
			_, err := ws.Put(ctx, key, worker.Analysis{Insights: []string{"i1"}})
			return worker.AnalysisResult{AnalysisReference: key, InsightCount: 1}, err
		}}
	writing := &stubWorker{name: "writing", artifactName: "report",
		process: func(ctx context.Context, task *a2a.Task, _ a2a.Message) (any, error) {
			key := "report_" + task.ID
			_, err := ws.Put(ctx, key, worker.Report{Title: "R", FullText: "report text"})
			return worker.WritingResult{ReportReference: key, Title: "R", WordCount: 2}, err
		}}
	qa := &stubWorker{name: "qa", artifactName: "qa_verdict",
		process: func(ctx context.Context, task *a2a.Task, _ a2a.Message) (any, error) {
			verdict := verdicts[0]
			if len(verdicts) > 1 {
				verdicts = verdicts[1:]
			}
			key := "qa_results_" + task.ID
			_, err := ws.Put(ctx, key, verdict)
			return worker.QAResult{VerdictReference: key, Verdict: verdict}, err
		}}

	o.planning, stubs["planning"] = planning, planning
	o.research, stubs["research"] = research, research
	o.analyzer, stubs["analysis"] = analysis, analysis
	o.writer, stubs["writing"] = writing, writing
	o.reviewer, stubs["qa"] = qa, qa
	return o, stubs
}

func TestGenerateReport_Approved(t *testing.T) {
	o, stubs := testPipeline(t, []worker.Verdict{{Approved: true, QualityScore: 90}})

	result, err := o.GenerateReport(context.Background(), "sea level rise")
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 0, result.Revisions)
	assert.Equal(t, "report text", result.Report.FullText)
	assert.Equal(t, 90, result.Verdict.QualityScore)
	assert.Len(t, result.Tasks, 5)
	for _, s := range stubs {
		assert.Equal(t, 1, s.calls, s.name)
	}

	// every task completed and the audit saw all of them
	for _, task := range result.Tasks {
		assert.Equal(t, a2a.TaskStateCompleted, task.Status.State)
	}
	assert.Positive(t, result.Audit.Len())
}

func TestGenerateReport_RejectedOnceThenApproved(t *testing.T) {
	o, stubs := testPipeline(t, []worker.Verdict{
		{Approved: false, QualityScore: 50, Issues: []worker.Issue{{Severity: "high", Description: "thin"}}},
		{Approved: true, QualityScore: 88},
	})

	result, err := o.GenerateReport(context.Background(), "topic")
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 1, result.Revisions)
	assert.Equal(t, 2, stubs["writing"].calls)
	assert.Equal(t, 2, stubs["qa"].calls)
	// plan, research, analysis, write, qa, revision, qa
	assert.Len(t, result.Tasks, 7)

	// the revision request carried the QA feedback
	var req worker.WritingRequest
	data, err := json.Marshal(stubs["writing"].requests[1].Data())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &req))
	require.NotNil(t, req.QAFeedback)
	assert.Equal(t, 50, req.QAFeedback.QualityScore)
	assert.NotEmpty(t, req.ReportReference)
}

func TestGenerateReport_RevisionLimitExhausted(t *testing.T) {
	o, stubs := testPipeline(t, []worker.Verdict{
		{Approved: false, QualityScore: 40, Issues: []worker.Issue{{Severity: "high", Description: "bad"}}},
	})

	result, err := o.GenerateReport(context.Background(), "topic")
	require.NoError(t, err)

	assert.Equal(t, StatusSuccessWithObjections, result.Status)
	assert.Equal(t, 2, result.Revisions)
	// initial write plus two revisions, reviewed three times
	assert.Equal(t, 3, stubs["writing"].calls)
	assert.Equal(t, 3, stubs["qa"].calls)
	// the shipped result still carries the objections
	assert.False(t, result.Verdict.Approved)
	assert.NotEmpty(t, result.Verdict.Issues)
	assert.Equal(t, "report text", result.Report.FullText)
}

func TestGenerateReport_ZeroRevisionLimit(t *testing.T) {
	o, stubs := testPipeline(t,
		[]worker.Verdict{{Approved: false, QualityScore: 40}},
		WithRevisionLimit(0))

	result, err := o.GenerateReport(context.Background(), "topic")
	require.NoError(t, err)

	assert.Equal(t, StatusSuccessWithObjections, result.Status)
	assert.Equal(t, 1, stubs["writing"].calls)
	assert.Equal(t, 1, stubs["qa"].calls)
}

func TestGenerateReport_PhaseFailureAborts(t *testing.T) {
	o, stubs := testPipeline(t, []worker.Verdict{{Approved: true}})
	stubs["research"].process = func(context.Context, *a2a.Task, a2a.Message) (any, error) {
		return nil, errors.New("network down")
	}

	result, err := o.GenerateReport(context.Background(), "topic")
	require.Error(t, err)
	assert.ErrorContains(t, err, "research")
	assert.ErrorContains(t, err, "network down")

	assert.Equal(t, StatusFailed, result.Status)
	// planning ran, research failed, nothing after
	require.Len(t, result.Tasks, 2)
	assert.Equal(t, a2a.TaskStateCompleted, result.Tasks[0].Status.State)
	assert.Equal(t, a2a.TaskStateFailed, result.Tasks[1].Status.State)
	assert.Equal(t, 0, stubs["analysis"].calls)

	// the audit still recorded the failed task's transitions
	var sawFailure bool
	for _, e := range result.Audit.Entries() {
		if e.Kind == "transition" && e.State == a2a.TaskStateFailed {
			sawFailure = true
		}
	}
	assert.True(t, sawFailure)
}

func TestAudit_Export(t *testing.T) {
	o, _ := testPipeline(t, []worker.Verdict{{Approved: true}})

	result, err := o.GenerateReport(context.Background(), "topic")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, result.Audit.Export(&buf))

	scanner := bufio.NewScanner(&buf)
	var lines int
	lastSeq := -1
	for scanner.Scan() {
		var entry AuditEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry), "line %d", lines)
		assert.Greater(t, entry.Seq, lastSeq)
		lastSeq = entry.Seq
		lines++
	}
	assert.Equal(t, result.Audit.Len(), lines)
	// 5 tasks, each with at least 3 transitions and 2 messages
	assert.GreaterOrEqual(t, lines, 25)
}

func TestGenerateReport_RequirementsReachPlanning(t *testing.T) {
	o, stubs := testPipeline(t, []worker.Verdict{{Approved: true}})

	_, err := o.GenerateReport(context.Background(), "topic",
		WithRequirements(map[string]any{"audience": "executives"}))
	require.NoError(t, err)

	var req worker.PlanningRequest
	data, err := json.Marshal(stubs["planning"].requests[0].Data())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &req))
	assert.Equal(t, "executives", req.Requirements["audience"])
}

func TestGenerateReport_TasksShareContext(t *testing.T) {
	o, _ := testPipeline(t, []worker.Verdict{{Approved: true}})

	result, err := o.GenerateReport(context.Background(), "topic")
	require.NoError(t, err)

	ctxID := result.Tasks[0].ContextID
	require.NotEmpty(t, ctxID)
	for i, task := range result.Tasks {
		assert.Equal(t, ctxID, task.ContextID, fmt.Sprintf("task %d", i))
	}
}
