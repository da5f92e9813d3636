package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ai "github.com/robertcrowe/arrg"
	"github.com/robertcrowe/arrg/a2a"
	"github.com/robertcrowe/arrg/agent"
	"github.com/robertcrowe/arrg/chat"
	"github.com/robertcrowe/arrg/tool"
	"github.com/robertcrowe/arrg/workspace"
)

const researchSystem = `You are a research agent that gathers information on research questions.
Use the available tools to search the web, fetch pages, and store findings.
For each question you should:
1. Provide comprehensive information and key findings
2. Cite the sources you consulted
3. Extract important facts and data points
4. Note any conflicting information or gaps

When you are done, output your research as a JSON object with:
- findings: list of {question, answer, key_points, sources}
- sources: list of sources consulted (strings)
- key_facts: important facts extracted (strings)
- gaps: identified knowledge gaps (strings)`

// Finding answers one research question.
type Finding struct {
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	KeyPoints []string `json:"key_points,omitempty"`
	Sources   []string `json:"sources,omitempty"`
}

// ResearchData is the full research output stored in the workspace.
type ResearchData struct {
	Questions []string  `json:"questions"`
	Findings  []Finding `json:"findings"`
	Sources   []string  `json:"sources,omitempty"`
	KeyFacts  []string  `json:"key_facts,omitempty"`
	Gaps      []string  `json:"gaps,omitempty"`
	Summary   string    `json:"summary,omitempty"`
}

// ResearchRequest is the payload of the user message starting the phase.
type ResearchRequest struct {
	ResearchQuestions []string `json:"research_questions"`
	PlanReference     string   `json:"plan_reference,omitempty"`
}

// ResearchResult is the artifact payload of a completed research task.
type ResearchResult struct {
	DataReference string `json:"data_reference"`
	Summary       string `json:"summary"`
	SourceCount   int    `json:"source_count"`
}

// Research drives the agentic tool loop to gather findings per question.
type Research struct {
	base
	agent *agent.Agent
}

// NewResearch creates the research worker. The registry supplies the
// tools the agent loop may call (web search, fetch, workspace access).
func NewResearch(client chat.Client, registry *tool.Registry, ws *workspace.Workspace, opts ...Option) *Research {
	w := &Research{base: newBase("research", client, ws, opts...)}
	w.agent = agent.New(client, registry)
	return w
}

func (w *Research) Card() a2a.AgentCard {
	return a2a.NewAgentCard("research", "Gathers information on research questions",
		a2a.AgentSkill{ID: "information_gathering", Name: "Information gathering"},
		a2a.AgentSkill{ID: "web_search", Name: "Web search"},
		a2a.AgentSkill{ID: "fact_extraction", Name: "Fact extraction"},
	)
}

func (w *Research) Process(ctx context.Context, task *a2a.Task, msg a2a.Message) (*a2a.Task, error) {
	if err := w.begin(task, msg, "conducting research"); err != nil {
		return task, err
	}

	var req ResearchRequest
	if err := decodeData(msg, &req); err != nil {
		return w.fail(ctx, task, err)
	}
	if len(req.ResearchQuestions) == 0 {
		return w.fail(ctx, task, errors.New("research: no research questions provided"))
	}

	data, err := w.conductResearch(ctx, task, req)
	if err != nil {
		return w.fail(ctx, task, err)
	}

	key := "research_data_" + task.ID
	if _, err := w.ws.Put(ctx, key, data, workspace.WithOverwrite()); err != nil {
		return w.fail(ctx, task, err)
	}

	result := ResearchResult{
		DataReference: key,
		Summary:       data.Summary,
		SourceCount:   len(data.Sources),
	}
	return w.complete(task, "research_data", data.Summary, result)
}

func (w *Research) conductResearch(ctx context.Context, task *a2a.Task, req ResearchRequest) (ResearchData, error) {
	var topic string
	if req.PlanReference != "" {
		var plan Plan
		if err := w.ws.GetInto(ctx, req.PlanReference, &plan); err == nil {
			topic = plan.Topic
		}
	}

	var sb strings.Builder
	sb.WriteString("Conduct research on the following questions")
	if topic != "" {
		fmt.Fprintf(&sb, " about %q", topic)
	}
	sb.WriteString(":\n\n")
	for i, q := range req.ResearchQuestions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, q)
	}
	sb.WriteString("\nProvide comprehensive findings with sources and key facts for each question.")

	res, err := w.agent.Run(ctx,
		[]ai.Message{{Role: ai.RoleUser, Content: sb.String()}},
		agent.WithMaxRounds(w.maxRounds),
		agent.WithEvents(w.events),
		agent.WithChatOptions(append([]ai.Option{ai.WithSystem(researchSystem)}, w.chatOpts...)...),
	)
	if err != nil {
		return ResearchData{}, err
	}

	// Keep the agent transcript in the task history for the audit trail.
	for _, am := range a2a.FromChatMessages(res.Messages) {
		am.Sender = w.name
		am.TaskID = &task.ID
		if err := task.AddMessage(am); err != nil {
			break
		}
	}

	text := res.Text()
	var data ResearchData
	if !ParseInto(text, &data) || len(data.Findings) == 0 {
		// Unparseable output still carries the gathered material.
		data = ResearchData{
			Findings: []Finding{{
				Question: strings.Join(req.ResearchQuestions, "; "),
				Answer:   text,
			}},
		}
	}
	data.Questions = req.ResearchQuestions
	if data.Summary == "" {
		data.Summary = fmt.Sprintf("completed research on %d questions with %d findings",
			len(req.ResearchQuestions), len(data.Findings))
	}
	return data, nil
}
