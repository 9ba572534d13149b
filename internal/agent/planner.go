package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"taskpilot/internal/observability"
)

// PlanGenerator turns a request into an ordered action plan by running
// the analyzer and then a second extraction pass over the analysis.
type PlanGenerator struct {
	Analyzer *Analyzer
	LLM      Extractor
	Logger   *observability.Logger
}

func NewPlanGenerator(analyzer *Analyzer, llm Extractor, logger *observability.Logger) *PlanGenerator {
	return &PlanGenerator{Analyzer: analyzer, LLM: llm, Logger: logger}
}

// CreatePlan analyzes the request and, when the analysis is complete,
// generates the action list. A clarification analysis short-circuits:
// no plan-generation call is made, and the returned plan carries
// status needs_clarification with no actions.
//
// Unlike the analyzer, a malformed plan response is an error. A generic
// fallback here would silently discard the user's already-validated
// intent, so the failure propagates to the caller.
func (g *PlanGenerator) CreatePlan(ctx context.Context, request string) (*Plan, error) {
	analysis, err := g.Analyzer.Analyze(ctx, request)
	if err != nil {
		return nil, err
	}

	if analysis.NeedsClarification() {
		plan := &Plan{
			Goal:     request,
			Analysis: *analysis,
			Actions:  []Action{},
			Status:   PlanNeedsClarification,
		}
		g.Logger.LogPlan(ThreadID(ctx), string(plan.Status), 0)
		return plan, nil
	}

	analysisJSON, err := json.MarshalIndent(analysis.Structured, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}

	prompt := buildActionPlanPrompt(string(analysisJSON))
	response, err := g.LLM.Invoke(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("plan extraction call failed: %w", err)
	}
	g.Logger.LogLLM(ThreadID(ctx), prompt, response)

	actions, err := parseActions(response)
	if err != nil {
		g.Logger.LogError(ThreadID(ctx), fmt.Errorf("error parsing action plan response: %w", err))
		return nil, err
	}

	plan := &Plan{
		Goal:     request,
		Analysis: *analysis,
		Actions:  actions,
		Status:   PlanDraft,
	}
	g.Logger.LogPlan(ThreadID(ctx), string(plan.Status), len(plan.Actions))
	return plan, nil
}

// parseActions parses the full response body as a bare JSON array; the
// prompt forbids surrounding commentary, so no span extraction happens
// here. Every element must carry all five action fields.
func parseActions(raw string) ([]Action, error) {
	var rawActions []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &rawActions); err != nil {
		return nil, fmt.Errorf("invalid action array: %v", err)
	}

	for _, a := range rawActions {
		if !hasKeys(a, "action_type", "description", "parameters", "status", "subtask_id") {
			return nil, fmt.Errorf("invalid action structure")
		}
	}

	var actions []Action
	if err := json.Unmarshal([]byte(raw), &actions); err != nil {
		return nil, err
	}
	return actions, nil
}
