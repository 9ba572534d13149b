package agent

import (
	"encoding/json"
	"time"
)

// The formatter renders typed internal results into user-facing JSON
// messages. Shapes are stable: rendering the same values twice yields
// byte-identical output, and every message carries a "type" tag the
// presentation layer dispatches on.

// MessageType tags a formatted assistant message.
type MessageType string

const (
	MessageGreeting      MessageType = "greeting"
	MessageClarification MessageType = "clarification_request"
	MessagePlan          MessageType = "plan"
	MessageExecution     MessageType = "execution_results"
	MessageConfirmation  MessageType = "confirmation_request"
	MessageModification  MessageType = "modification_request"
	MessageError         MessageType = "error"
)

type greetingMessage struct {
	Type    MessageType `json:"type"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

type clarificationMessage struct {
	Type      MessageType `json:"type"`
	Title     string      `json:"title"`
	Concerns  []string    `json:"concerns"`
	Questions []string    `json:"questions"`
}

type planSubtask struct {
	Description   string   `json:"description"`
	EstimatedTime string   `json:"estimated_time"`
	Dependencies  []string `json:"dependencies"`
}

type planAnalysis struct {
	Complexity    Complexity    `json:"complexity"`
	EstimatedTime string        `json:"estimated_time"`
	Subtasks      []planSubtask `json:"subtasks"`
	Risks         []string      `json:"risks"`
	Resources     []string      `json:"resources"`
}

type planAction struct {
	Description string            `json:"description"`
	Type        ActionType        `json:"type"`
	Status      ActionStatus      `json:"status"`
	Parameters  map[string]string `json:"parameters"`
}

type planMessage struct {
	Type     MessageType  `json:"type"`
	Title    string       `json:"title"`
	Goal     string       `json:"goal"`
	Analysis planAnalysis `json:"analysis"`
	Actions  []planAction `json:"actions"`
	Status   PlanStatus   `json:"status"`
}

type executionSummary struct {
	TotalActions     int `json:"total_actions"`
	CompletedActions int `json:"completed_actions"`
	FailedActions    int `json:"failed_actions"`
}

type executionMessage struct {
	Type    MessageType       `json:"type"`
	Title   string            `json:"title"`
	Status  PlanStatus        `json:"status"`
	Results []string          `json:"results"`
	Summary executionSummary  `json:"summary"`
	Links   map[string]string `json:"links,omitempty"`
}

type confirmationMessage struct {
	Type    MessageType `json:"type"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
	Options []string    `json:"options"`
}

type modificationMessage struct {
	Type        MessageType `json:"type"`
	Title       string      `json:"title"`
	Message     string      `json:"message"`
	CurrentPlan string      `json:"current_plan"`
}

type errorMessage struct {
	Type      MessageType `json:"type"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Timestamp string      `json:"timestamp"`
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// The message structs contain nothing unmarshalable; reaching
		// this means a programming error.
		panic(err)
	}
	return string(data)
}

// FormatGreeting renders the opening assistant message of a thread.
func FormatGreeting() string {
	return mustJSON(greetingMessage{
		Type:    MessageGreeting,
		Title:   "Welcome",
		Message: "Hello! What would you like me to help you with?",
	})
}

// FormatClarification renders the questions and concerns of a
// clarification analysis.
func FormatClarification(c *ClarificationRequest) string {
	msg := clarificationMessage{
		Type:      MessageClarification,
		Title:     "Task Needs Clarification",
		Concerns:  c.Concerns,
		Questions: c.Questions,
	}
	if msg.Concerns == nil {
		msg.Concerns = []string{}
	}
	if msg.Questions == nil {
		msg.Questions = []string{}
	}
	return mustJSON(msg)
}

// FormatPlan renders a draft plan for user review.
func FormatPlan(p *Plan) string {
	analysis := planAnalysis{
		Subtasks:  []planSubtask{},
		Risks:     []string{},
		Resources: []string{},
	}
	if s := p.Analysis.Structured; s != nil {
		analysis.Complexity = s.Complexity
		analysis.EstimatedTime = s.EstimatedTotalTime
		for _, st := range s.Subtasks {
			deps := st.Dependencies
			if deps == nil {
				deps = []string{}
			}
			analysis.Subtasks = append(analysis.Subtasks, planSubtask{
				Description:   st.Description,
				EstimatedTime: st.EstimatedTime,
				Dependencies:  deps,
			})
		}
		if s.PotentialRisks != nil {
			analysis.Risks = s.PotentialRisks
		}
		if s.RequiredResources != nil {
			analysis.Resources = s.RequiredResources
		}
	}

	actions := make([]planAction, 0, len(p.Actions))
	for _, a := range p.Actions {
		params := a.Parameters
		if params == nil {
			params = map[string]string{}
		}
		actions = append(actions, planAction{
			Description: a.Description,
			Type:        a.Type,
			Status:      a.Status,
			Parameters:  params,
		})
	}

	return mustJSON(planMessage{
		Type:     MessagePlan,
		Title:    "Task Analysis and Plan",
		Goal:     p.Goal,
		Analysis: analysis,
		Actions:  actions,
		Status:   p.Status,
	})
}

// FormatExecutionResults renders the per-action outcomes, the
// completed/failed counts, and any links produced during the run.
func FormatExecutionResults(p *Plan, results []string, links map[string]string) string {
	summary := executionSummary{TotalActions: len(p.Actions)}
	for _, a := range p.Actions {
		switch a.Status {
		case ActionCompleted:
			summary.CompletedActions++
		case ActionFailed:
			summary.FailedActions++
		}
	}
	if results == nil {
		results = []string{}
	}

	return mustJSON(executionMessage{
		Type:    MessageExecution,
		Title:   "Plan Execution Results",
		Status:  p.Status,
		Results: results,
		Summary: summary,
		Links:   links,
	})
}

// FormatConfirmationRequest renders the prompt asking the user to
// approve a plan.
func FormatConfirmationRequest() string {
	return mustJSON(confirmationMessage{
		Type:    MessageConfirmation,
		Title:   "Plan Confirmation Required",
		Message: "Please review and confirm if this plan looks correct.",
		Options: []string{"confirm", "modify", "cancel"},
	})
}

// FormatModificationRequest renders the prompt asking the user to
// describe changes after declining a plan.
func FormatModificationRequest() string {
	return mustJSON(modificationMessage{
		Type:        MessageModification,
		Title:       "Plan Modification",
		Message:     "Please describe what changes you'd like to make to the plan.",
		CurrentPlan: "available",
	})
}

// FormatError renders a failure as a typed message; raw error text
// never reaches the user outside this shape.
func FormatError(message string) string {
	return mustJSON(errorMessage{
		Type:      MessageError,
		Title:     "Error Occurred",
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
