package agent

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func samplePlan() *Plan {
	return &Plan{
		Goal: "generate 5 products and put them in a sheet",
		Analysis: TaskAnalysis{Structured: &StructuredAnalysis{
			MainGoal:   "Generate products and store them in a sheet",
			Complexity: ComplexityModerate,
			Subtasks: []Subtask{
				{Description: "Generate 5 products", EstimatedTime: "2 minutes"},
				{Description: "Create the sheet", EstimatedTime: "1 minute", Dependencies: []string{"task_1"}},
			},
			PotentialRisks:     []string{"Generated data may need review"},
			RequiredResources:  []string{"product generator"},
			EstimatedTotalTime: "5 minutes",
		}},
		Actions: []Action{
			{Type: ActionGenerateProducts, Description: "Generate 5 products", Parameters: map[string]string{"num_products": "5"}, Status: ActionPending, SubtaskID: "task_1"},
			{Type: ActionCreateSheet, Description: "Create the sheet", Status: ActionPending, SubtaskID: "task_2"},
		},
		Status: PlanDraft,
	}
}

func TestFormatGreetingShape(t *testing.T) {
	m := decode(t, FormatGreeting())
	assert.Equal(t, "greeting", m["type"])
	assert.Equal(t, "Hello! What would you like me to help you with?", m["message"])
}

func TestFormatPlanShape(t *testing.T) {
	m := decode(t, FormatPlan(samplePlan()))
	assert.Equal(t, "plan", m["type"])
	assert.Equal(t, "generate 5 products and put them in a sheet", m["goal"])
	assert.Equal(t, "draft", m["status"])

	analysis, ok := m["analysis"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "moderate", analysis["complexity"])
	assert.Equal(t, "5 minutes", analysis["estimated_time"])
	subtasks, ok := analysis["subtasks"].([]any)
	require.True(t, ok)
	require.Len(t, subtasks, 2)
	first := subtasks[0].(map[string]any)
	assert.Equal(t, []any{}, first["dependencies"], "nil dependencies render as an empty list")

	actions, ok := m["actions"].([]any)
	require.True(t, ok)
	require.Len(t, actions, 2)
	second := actions[1].(map[string]any)
	assert.Equal(t, "create_sheet", second["type"])
	assert.Equal(t, map[string]any{}, second["parameters"], "nil parameters render as an empty object")
}

func TestFormatPlanIdempotent(t *testing.T) {
	p := samplePlan()
	assert.Equal(t, FormatPlan(p), FormatPlan(p))
}

func TestFormatClarificationNormalizesNilSlices(t *testing.T) {
	m := decode(t, FormatClarification(&ClarificationRequest{}))
	assert.Equal(t, "clarification_request", m["type"])
	assert.Equal(t, []any{}, m["questions"])
	assert.Equal(t, []any{}, m["concerns"])
}

func TestFormatExecutionResultsSummary(t *testing.T) {
	p := samplePlan()
	p.Status = PlanCompleted
	p.Actions[0].Status = ActionCompleted
	p.Actions[1].Status = ActionFailed

	raw := FormatExecutionResults(p,
		[]string{"✓ Generate 5 products: Generated 5 products", "✓ Create the sheet: Action failed: no sheet"},
		map[string]string{"sheet": "https://sheets.example.com/s1"})
	m := decode(t, raw)

	assert.Equal(t, "execution_results", m["type"])
	assert.Equal(t, "completed", m["status"])
	summary := m["summary"].(map[string]any)
	assert.Equal(t, float64(2), summary["total_actions"])
	assert.Equal(t, float64(1), summary["completed_actions"])
	assert.Equal(t, float64(1), summary["failed_actions"])
	links := m["links"].(map[string]any)
	assert.Equal(t, "https://sheets.example.com/s1", links["sheet"])
}

func TestFormatExecutionResultsOmitsEmptyLinks(t *testing.T) {
	m := decode(t, FormatExecutionResults(samplePlan(), nil, nil))
	_, hasLinks := m["links"]
	assert.False(t, hasLinks)
	assert.Equal(t, []any{}, m["results"], "nil results render as an empty list")
}

func TestFormatConfirmationRequestOptions(t *testing.T) {
	m := decode(t, FormatConfirmationRequest())
	assert.Equal(t, "confirmation_request", m["type"])
	assert.Equal(t, []any{"confirm", "modify", "cancel"}, m["options"])
}

func TestFormatModificationRequestShape(t *testing.T) {
	m := decode(t, FormatModificationRequest())
	assert.Equal(t, "modification_request", m["type"])
	assert.Equal(t, "available", m["current_plan"])
}

func TestFormatErrorTimestamp(t *testing.T) {
	m := decode(t, FormatError("something broke"))
	assert.Equal(t, "error", m["type"])
	assert.Equal(t, "something broke", m["message"])
	ts, ok := m["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}
