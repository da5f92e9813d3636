package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/robertcrowe/arrg/a2a"
	"github.com/robertcrowe/arrg/chat"
	"github.com/robertcrowe/arrg/workspace"
)

const planningSystem = `You are a planning agent that creates comprehensive research plans.
Given a research topic, you must:
1. Break down the topic into key research questions
2. Create a structured outline with sections
3. Identify key areas that need investigation
4. Suggest research methodologies

Output your plan as a JSON object with:
- research_questions: list of specific questions to answer
- outline: object mapping section names to descriptions
- key_areas: main areas to investigate (list of strings)
- methodology: suggested research approaches (list of strings)`

// Plan is the structured research plan the planning worker produces.
type Plan struct {
	Topic             string          `json:"topic"`
	ResearchQuestions []string        `json:"research_questions"`
	Outline           json.RawMessage `json:"outline"`
	KeyAreas          []string        `json:"key_areas,omitempty"`
	Methodology       []string        `json:"methodology,omitempty"`
}

// PlanningRequest is the payload of the user message starting the phase.
type PlanningRequest struct {
	Topic        string         `json:"topic"`
	Requirements map[string]any `json:"requirements,omitempty"`
}

// PlanningResult is the artifact payload of a completed planning task.
type PlanningResult struct {
	PlanReference     string          `json:"plan_reference"`
	ResearchQuestions []string        `json:"research_questions"`
	Outline           json.RawMessage `json:"outline"`
}

// Planning decomposes a topic into research questions and an outline.
type Planning struct {
	base
}

// NewPlanning creates the planning worker.
func NewPlanning(client chat.Client, ws *workspace.Workspace, opts ...Option) *Planning {
	return &Planning{base: newBase("planning", client, ws, opts...)}
}

func (w *Planning) Card() a2a.AgentCard {
	return a2a.NewAgentCard("planning", "Creates research plans and outlines",
		a2a.AgentSkill{ID: "topic_decomposition", Name: "Topic decomposition"},
		a2a.AgentSkill{ID: "outline_generation", Name: "Outline generation"},
		a2a.AgentSkill{ID: "research_question_formulation", Name: "Research question formulation"},
	)
}

func (w *Planning) Process(ctx context.Context, task *a2a.Task, msg a2a.Message) (*a2a.Task, error) {
	if err := w.begin(task, msg, "creating research plan"); err != nil {
		return task, err
	}

	var req PlanningRequest
	if err := decodeData(msg, &req); err != nil {
		return w.fail(ctx, task, err)
	}
	if req.Topic == "" {
		req.Topic = msg.TextContent()
	}
	if req.Topic == "" {
		return w.fail(ctx, task, errors.New("planning: no topic provided"))
	}

	plan, err := w.createPlan(ctx, req)
	if err != nil {
		return w.fail(ctx, task, err)
	}

	key := "research_plan_" + task.ID
	if _, err := w.ws.Put(ctx, key, plan, workspace.WithOverwrite()); err != nil {
		return w.fail(ctx, task, err)
	}

	result := PlanningResult{
		PlanReference:     key,
		ResearchQuestions: plan.ResearchQuestions,
		Outline:           plan.Outline,
	}
	summary := fmt.Sprintf("research plan created with %d questions", len(plan.ResearchQuestions))
	return w.complete(task, "research_plan", summary, result)
}

func (w *Planning) createPlan(ctx context.Context, req PlanningRequest) (Plan, error) {
	prompt := fmt.Sprintf(`Create a comprehensive research plan for the following topic:

Topic: %s
`, req.Topic)
	if len(req.Requirements) > 0 {
		reqs, _ := json.MarshalIndent(req.Requirements, "", "  ")
		prompt += fmt.Sprintf("\nRequirements:\n%s\n", reqs)
	}
	prompt += "\nProvide a detailed research plan with research questions, outline, and methodology."

	response, err := w.chat(ctx, planningSystem, prompt)
	if err != nil {
		return Plan{}, err
	}

	var plan Plan
	if !ParseInto(response, &plan) || len(plan.ResearchQuestions) == 0 {
		plan = fallbackPlan(req.Topic)
	}
	plan.Topic = req.Topic
	if len(plan.Outline) == 0 {
		plan.Outline = defaultOutline
	}
	return plan, nil
}

var defaultOutline = json.RawMessage(`{` +
	`"1. Introduction":"Background and context",` +
	`"2. Current State":"Overview and developments",` +
	`"3. Analysis":"Challenges and evaluation",` +
	`"4. Future Directions":"Trends and recommendations",` +
	`"5. Conclusion":"Summary of findings"}`)

// fallbackPlan gives the pipeline something to work with when the model
// response cannot be parsed.
func fallbackPlan(topic string) Plan {
	return Plan{
		Topic: topic,
		ResearchQuestions: []string{
			fmt.Sprintf("What is the current state of %s?", topic),
			fmt.Sprintf("What are the key challenges in %s?", topic),
			fmt.Sprintf("What are the future trends in %s?", topic),
		},
		Outline: defaultOutline,
	}
}
