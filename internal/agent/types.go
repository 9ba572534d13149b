package agent

import "encoding/json"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation's history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ConversationState is the unit of persistence for one conversation thread.
// It is mutated only by the Machine, once per turn, and serialized before
// every suspend point so a thread can resume in a different process.
type ConversationState struct {
	History              []Message `json:"history"`
	CurrentPlan          *Plan     `json:"current_plan,omitempty"`
	AwaitingConfirmation bool      `json:"awaiting_confirmation"`
	Finished             bool      `json:"finished"`

	// ToolResults is scoped to a single execution pass and is cleared
	// before the state is persisted.
	ToolResults map[string]any `json:"-"`
}

// NewConversationState returns the state a thread starts with.
func NewConversationState() *ConversationState {
	return &ConversationState{History: []Message{}}
}

// Complexity is the analyzer's assessment of a task.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Subtask is one unit of a structured analysis. Dependencies hold subtask
// identifiers like "task_1"; they are advisory and never dereferenced.
type Subtask struct {
	Description   string   `json:"description"`
	EstimatedTime string   `json:"estimated_time"`
	Dependencies  []string `json:"dependencies"`
}

// StructuredAnalysis is the analyzer's output when the request carries
// enough essential information to plan against.
type StructuredAnalysis struct {
	MainGoal           string     `json:"main_goal"`
	Complexity         Complexity `json:"complexity"`
	Subtasks           []Subtask  `json:"subtasks"`
	PotentialRisks     []string   `json:"potential_risks"`
	RequiredResources  []string   `json:"required_resources"`
	EstimatedTotalTime string     `json:"estimated_total_time"`
}

// ClarificationRequest is the analyzer's output when essential information
// is missing. It is terminal for the turn; no plan is built from it.
type ClarificationRequest struct {
	Questions []string `json:"clarification_questions"`
	Concerns  []string `json:"concerns"`
}

// TaskAnalysis is the tagged result of analyzing one request. Exactly one
// of the two fields is set.
type TaskAnalysis struct {
	Clarification *ClarificationRequest `json:"clarification,omitempty"`
	Structured    *StructuredAnalysis   `json:"structured,omitempty"`
}

// NeedsClarification reports whether the analysis took the clarification branch.
func (a *TaskAnalysis) NeedsClarification() bool {
	return a.Clarification != nil
}

// ActionType enumerates the closed set of executable action kinds.
type ActionType string

const (
	ActionGenerateProducts ActionType = "generate_products"
	ActionCreateSheet      ActionType = "create_sheet"
	ActionExportSheet      ActionType = "export_sheet"
	ActionSendEmail        ActionType = "send_email"
	ActionCustom           ActionType = "custom_action"
)

// ActionStatus tracks whether an action has been attempted.
type ActionStatus string

const (
	ActionPending   ActionStatus = "pending"
	ActionCompleted ActionStatus = "completed"
	ActionFailed    ActionStatus = "failed"
)

// Action is one executable step of a plan.
type Action struct {
	Type        ActionType        `json:"action_type"`
	Description string            `json:"description"`
	Parameters  map[string]string `json:"parameters"`
	Status      ActionStatus      `json:"status"`
	SubtaskID   string            `json:"subtask_id"`
}

// PlanStatus is the lifecycle state of a plan.
type PlanStatus string

const (
	PlanNeedsClarification PlanStatus = "needs_clarification"
	PlanDraft              PlanStatus = "draft"
	PlanExecuting          PlanStatus = "executing"
	PlanCompleted          PlanStatus = "completed"
)

// Plan is the structured, user-confirmed action sequence for one request.
// A plan with status needs_clarification has no actions and a
// clarification analysis; all other statuses carry a structured analysis.
type Plan struct {
	Goal     string       `json:"goal"`
	Analysis TaskAnalysis `json:"analysis"`
	Actions  []Action     `json:"actions"`
	Status   PlanStatus   `json:"status"`
}

// SheetRef is the value stored under the "sheet" key of the results bag
// after a successful create_sheet action.
type SheetRef struct {
	ID   string `json:"sheet_id"`
	Link string `json:"shareable_link"`
}

func hasKeys(obj map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			return false
		}
	}
	return true
}
