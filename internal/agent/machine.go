package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"taskpilot/internal/observability"
)

// ConversationStore persists serialized conversation state per thread.
type ConversationStore interface {
	LoadConversation(threadID string) ([]byte, error)
	SaveConversation(threadID string, state []byte) error
}

// Reply is what a turn hands back to the host surface.
type Reply struct {
	Message  string
	Finished bool
}

// quitWords end the conversation on an exact, case-insensitive
// full-message match.
var quitWords = map[string]bool{
	"quit":    true,
	"exit":    true,
	"goodbye": true,
}

// confirmWords approve a pending plan.
var confirmWords = map[string]bool{
	"yes":     true,
	"confirm": true,
	"proceed": true,
}

// Machine is the conversation state machine. Each turn runs exactly one
// node (planner or agent), emits exactly one assistant message, persists
// the state, and suspends. A thread may resume in a different process
// arbitrarily long after the pause.
type Machine struct {
	Planner  *PlanGenerator
	Executor *Executor
	Store    ConversationStore
	Logger   *observability.Logger

	// MarkFailedOutcomes records an action whose outcome reports
	// "Action failed" with status failed instead of completed. Off by
	// default: the summary then counts attempts, not successes.
	MarkFailedOutcomes bool
}

func NewMachine(planner *PlanGenerator, executor *Executor, store ConversationStore, logger *observability.Logger) *Machine {
	return &Machine{Planner: planner, Executor: executor, Store: store, Logger: logger}
}

// StartThread creates a fresh conversation and emits the greeting.
func (m *Machine) StartThread(ctx context.Context, threadID string) (Reply, error) {
	ctx = WithThreadID(ctx, threadID)
	state := NewConversationState()

	msg := m.plannerNode(ctx, state)
	state.History = append(state.History, Message{Role: RoleAssistant, Content: msg})

	if err := m.persist(threadID, state); err != nil {
		return Reply{}, err
	}
	return Reply{Message: msg, Finished: state.Finished}, nil
}

// Resume loads a suspended thread, applies one user input, runs the next
// node, and suspends again. The routing rules:
//   - quit/exit/goodbye finishes the thread;
//   - an already finished thread stays finished;
//   - a plan awaiting confirmation routes to the agent node;
//   - everything else routes to the planner node.
func (m *Machine) Resume(ctx context.Context, threadID, input string) (Reply, error) {
	ctx = WithThreadID(ctx, threadID)

	state, err := m.load(threadID)
	if err != nil {
		return Reply{}, err
	}

	if state.Finished {
		return Reply{Message: lastAssistantMessage(state), Finished: true}, nil
	}

	state.History = append(state.History, Message{Role: RoleUser, Content: input})

	if quitWords[strings.ToLower(strings.TrimSpace(input))] {
		state.Finished = true
		if err := m.persist(threadID, state); err != nil {
			return Reply{}, err
		}
		return Reply{Message: lastAssistantMessage(state), Finished: true}, nil
	}

	var msg string
	if state.CurrentPlan != nil && state.AwaitingConfirmation {
		msg = m.agentNode(ctx, state, input)
	} else {
		msg = m.plannerNode(ctx, state)
	}
	state.History = append(state.History, Message{Role: RoleAssistant, Content: msg})

	if err := m.persist(threadID, state); err != nil {
		return Reply{}, err
	}
	return Reply{Message: msg, Finished: state.Finished}, nil
}

// plannerNode produces or refreshes the plan from the latest user
// message. Any failure is converted into an error message with the plan
// cleared; the conversation is never left in an inconsistent state.
func (m *Machine) plannerNode(ctx context.Context, state *ConversationState) string {
	m.Logger.LogTurn(ThreadID(ctx), "planner")

	if len(state.History) == 0 {
		return FormatGreeting()
	}

	request := latestUserMessage(state)

	// A retained plan plus a non-confirmation reply lands here: the
	// message is treated as a modification request and re-planned the
	// same way a brand-new request would be.
	plan, err := m.Planner.CreatePlan(ctx, request)
	if err != nil {
		m.Logger.LogError(ThreadID(ctx), err)
		state.CurrentPlan = nil
		state.AwaitingConfirmation = false
		return FormatError(err.Error())
	}

	if plan.Status == PlanNeedsClarification {
		state.CurrentPlan = nil
		state.AwaitingConfirmation = false
		return FormatClarification(plan.Analysis.Clarification)
	}

	state.CurrentPlan = plan
	state.AwaitingConfirmation = true
	return FormatPlan(plan)
}

// agentNode evaluates the confirmation reply. "yes"/"confirm"/"proceed"
// executes the plan; anything else is treated as decline-or-modify: the
// plan is retained, confirmation is cleared, and the user is asked to
// describe changes.
func (m *Machine) agentNode(ctx context.Context, state *ConversationState, input string) string {
	m.Logger.LogTurn(ThreadID(ctx), "agent")

	if state.CurrentPlan == nil {
		state.AwaitingConfirmation = false
		return FormatError("No plan to execute. Please create a plan first.")
	}

	if !confirmWords[strings.ToLower(strings.TrimSpace(input))] {
		state.AwaitingConfirmation = false
		return FormatModificationRequest()
	}

	plan := state.CurrentPlan
	plan.Status = PlanExecuting
	state.ToolResults = make(map[string]any)

	results := make([]string, 0, len(plan.Actions))
	for i := range plan.Actions {
		action := &plan.Actions[i]
		outcome := m.Executor.Execute(ctx, action, state.ToolResults)
		if m.MarkFailedOutcomes && strings.HasPrefix(outcome, "Action failed") {
			action.Status = ActionFailed
		} else {
			action.Status = ActionCompleted
		}
		results = append(results, fmt.Sprintf("✓ %s: %s", action.Description, outcome))
	}

	plan.Status = PlanCompleted
	state.AwaitingConfirmation = false

	msg := FormatExecutionResults(plan, results, extractLinks(state.ToolResults))

	// The results bag is scoped to this execution pass; it has been
	// read back into the summary and is not persisted.
	state.ToolResults = nil
	return msg
}

func (m *Machine) load(threadID string) (*ConversationState, error) {
	data, err := m.Store.LoadConversation(threadID)
	if err != nil {
		return nil, err
	}
	var state ConversationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("corrupt conversation state for thread %s: %w", threadID, err)
	}
	return &state, nil
}

func (m *Machine) persist(threadID string, state *ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return m.Store.SaveConversation(threadID, data)
}

func latestUserMessage(state *ConversationState) string {
	for i := len(state.History) - 1; i >= 0; i-- {
		if state.History[i].Role == RoleUser {
			return state.History[i].Content
		}
	}
	return ""
}

func lastAssistantMessage(state *ConversationState) string {
	for i := len(state.History) - 1; i >= 0; i-- {
		if state.History[i].Role == RoleAssistant {
			return state.History[i].Content
		}
	}
	return ""
}

// extractLinks pulls user-facing references out of the results bag for
// the execution summary.
func extractLinks(results map[string]any) map[string]string {
	links := make(map[string]string)
	if sheet, ok := results["sheet"].(SheetRef); ok {
		links["sheet"] = sheet.Link
	}
	if path, ok := results["exportPath"].(string); ok {
		links["export"] = path
	}
	if len(links) == 0 {
		return nil
	}
	return links
}
