package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"taskpilot/internal/observability"
)

// Extractor is the structured extraction client: one prompt in, raw
// completion text out. The analyzer and plan generator own the parsing.
type Extractor interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Analyzer turns a raw request into either a clarification request or a
// structured task analysis.
type Analyzer struct {
	LLM    Extractor
	Logger *observability.Logger
}

func NewAnalyzer(llm Extractor, logger *observability.Logger) *Analyzer {
	return &Analyzer{LLM: llm, Logger: logger}
}

// fallbackClarification is returned whenever the extraction backend
// produced something unparsable. Backend unreliability must never crash
// the conversation, so the analyzer degrades to asking for the basics.
func fallbackClarification() *TaskAnalysis {
	return &TaskAnalysis{
		Clarification: &ClarificationRequest{
			Questions: []string{
				"What is the basic task you want to perform?",
				"What is the minimum information needed to start this task?",
			},
			Concerns: []string{
				"The request is too vague to determine the basic task",
				"Unable to identify the essential requirements",
			},
		},
	}
}

// Analyze invokes the extraction backend and parses its response.
// A failed extraction call is returned as an error; a malformed or
// incomplete response is converted into a synthesized clarification
// request and never surfaced as an error.
func (a *Analyzer) Analyze(ctx context.Context, request string) (*TaskAnalysis, error) {
	prompt := buildAnalysisPrompt(request)

	response, err := a.LLM.Invoke(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("analysis extraction call failed: %w", err)
	}
	a.Logger.LogLLM(ThreadID(ctx), prompt, response)

	analysis, err := parseAnalysis(response)
	if err != nil {
		a.Logger.LogError(ThreadID(ctx), fmt.Errorf("error parsing analysis response: %w", err))
		analysis = fallbackClarification()
	}

	a.Logger.LogAnalysis(ThreadID(ctx), analysis.NeedsClarification())
	return analysis, nil
}

// parseAnalysis extracts the first top-level {...} span from the raw
// response, tolerating leading or trailing commentary, and validates it
// against the two accepted shapes.
func parseAnalysis(raw string) (*TaskAnalysis, error) {
	content := strings.TrimSpace(raw)
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	jsonStr := content[start : end+1]

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &obj); err != nil {
		return nil, err
	}

	if needsClarification(obj) {
		if !hasKeys(obj, "clarification_questions", "concerns") {
			return nil, fmt.Errorf("invalid clarification response structure")
		}
		var c ClarificationRequest
		if err := json.Unmarshal([]byte(jsonStr), &c); err != nil {
			return nil, err
		}
		return &TaskAnalysis{Clarification: &c}, nil
	}

	if !hasKeys(obj, "main_goal", "complexity", "subtasks",
		"potential_risks", "required_resources", "estimated_total_time") {
		return nil, fmt.Errorf("invalid analysis structure")
	}

	var rawSubtasks []map[string]json.RawMessage
	if err := json.Unmarshal(obj["subtasks"], &rawSubtasks); err != nil {
		return nil, fmt.Errorf("invalid subtasks: %v", err)
	}
	for _, st := range rawSubtasks {
		if !hasKeys(st, "description", "estimated_time", "dependencies") {
			return nil, fmt.Errorf("invalid subtask structure")
		}
	}

	var s StructuredAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &s); err != nil {
		return nil, err
	}
	return &TaskAnalysis{Structured: &s}, nil
}

func needsClarification(obj map[string]json.RawMessage) bool {
	raw, ok := obj["needs_clarification"]
	if !ok {
		return false
	}
	var flag bool
	if err := json.Unmarshal(raw, &flag); err != nil {
		return false
	}
	return flag
}
