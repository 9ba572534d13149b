package agent

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpilot/internal/observability"
)

// fakeExtractor replays canned responses and records every prompt.
type fakeExtractor struct {
	responses []string
	prompts   []string
	err       error
}

func (f *fakeExtractor) Invoke(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("fakeExtractor: no responses left")
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r, nil
}

func (f *fakeExtractor) calls() int { return len(f.prompts) }

func testLogger(t *testing.T) *observability.Logger {
	t.Helper()
	l := observability.NewLogger(t.TempDir())
	l.SetOutput(io.Discard)
	return l
}

const structuredAnalysisJSON = `{
	"main_goal": "Generate products and store them in a sheet",
	"complexity": "moderate",
	"subtasks": [
		{"description": "Generate 5 products", "estimated_time": "2 minutes", "dependencies": []},
		{"description": "Create the Inventory sheet", "estimated_time": "1 minute", "dependencies": ["task_1"]}
	],
	"potential_risks": ["Generated data may need review"],
	"required_resources": ["product generator", "spreadsheet service"],
	"estimated_total_time": "5 minutes"
}`

const clarificationJSON = `{
	"needs_clarification": true,
	"clarification_questions": ["What is the recipient's email address?"],
	"concerns": ["No recipient was provided for the email"]
}`

func TestAnalyzeStructured(t *testing.T) {
	fake := &fakeExtractor{responses: []string{
		"Here is the analysis you asked for:\n" + structuredAnalysisJSON + "\nLet me know if you need more.",
	}}
	a := NewAnalyzer(fake, testLogger(t))

	analysis, err := a.Analyze(context.Background(), "generate 5 products and put them in a sheet")
	require.NoError(t, err)
	require.NotNil(t, analysis.Structured)
	assert.False(t, analysis.NeedsClarification())

	s := analysis.Structured
	assert.Equal(t, "Generate products and store them in a sheet", s.MainGoal)
	assert.Equal(t, ComplexityModerate, s.Complexity)
	require.Len(t, s.Subtasks, 2)
	assert.Equal(t, []string{"task_1"}, s.Subtasks[1].Dependencies)
	assert.Equal(t, "5 minutes", s.EstimatedTotalTime)
}

func TestAnalyzeClarification(t *testing.T) {
	fake := &fakeExtractor{responses: []string{clarificationJSON}}
	a := NewAnalyzer(fake, testLogger(t))

	analysis, err := a.Analyze(context.Background(), "send an email")
	require.NoError(t, err)
	require.True(t, analysis.NeedsClarification())
	assert.Contains(t, analysis.Clarification.Questions[0], "recipient")
	assert.NotEmpty(t, analysis.Clarification.Concerns)
}

func TestAnalyzeEmbedsRequestInPrompt(t *testing.T) {
	fake := &fakeExtractor{responses: []string{structuredAnalysisJSON}}
	a := NewAnalyzer(fake, testLogger(t))

	_, err := a.Analyze(context.Background(), "generate 7 products")
	require.NoError(t, err)
	require.Equal(t, 1, fake.calls())
	assert.Contains(t, fake.prompts[0], "generate 7 products")
}

func TestAnalyzeMalformedFallsBack(t *testing.T) {
	for name, response := range map[string]string{
		"no json":        "I could not produce anything structured, sorry.",
		"broken json":    "{ this is not valid",
		"missing fields": `{"main_goal": "x", "complexity": "simple"}`,
		"bad subtask":    `{"main_goal":"x","complexity":"complex","subtasks":[{"description":"y"}],"potential_risks":[],"required_resources":[],"estimated_total_time":"1h"}`,
		"clarification without keys": `{"needs_clarification": true}`,
	} {
		t.Run(name, func(t *testing.T) {
			fake := &fakeExtractor{responses: []string{response}}
			a := NewAnalyzer(fake, testLogger(t))

			analysis, err := a.Analyze(context.Background(), "do something")
			require.NoError(t, err, "malformed responses must not surface as errors")
			require.True(t, analysis.NeedsClarification())
			assert.Equal(t, "What is the basic task you want to perform?", analysis.Clarification.Questions[0])
		})
	}
}

func TestAnalyzeExtractionFailurePropagates(t *testing.T) {
	fake := &fakeExtractor{err: errors.New("backend unreachable")}
	a := NewAnalyzer(fake, testLogger(t))

	_, err := a.Analyze(context.Background(), "generate 5 products")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unreachable")
}

func TestAnalyzeSimpleTaskEmptySubtasks(t *testing.T) {
	fake := &fakeExtractor{responses: []string{`{
		"main_goal": "Generate 3 products",
		"complexity": "simple",
		"subtasks": [],
		"potential_risks": [],
		"required_resources": ["product generator"],
		"estimated_total_time": "1 minute"
	}`}}
	a := NewAnalyzer(fake, testLogger(t))

	analysis, err := a.Analyze(context.Background(), "generate 3 products")
	require.NoError(t, err)
	require.NotNil(t, analysis.Structured)
	assert.Equal(t, ComplexitySimple, analysis.Structured.Complexity)
	assert.Empty(t, analysis.Structured.Subtasks)
}
