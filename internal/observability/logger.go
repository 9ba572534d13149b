package observability

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// EventType defines the category of the log event.
type EventType string

const (
	EventTypeTurn     EventType = "turn"
	EventTypeAnalysis EventType = "analysis"
	EventTypePlan     EventType = "plan"
	EventTypeAction   EventType = "action"
	EventTypeLLM      EventType = "llm"
	EventTypeError    EventType = "error"
)

// Event represents a structured log entry.
type Event struct {
	Type      EventType `json:"type"`
	ThreadID  string    `json:"thread_id,omitempty"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Logger handles structured logging. It is an injected collaborator;
// components never log through package globals.
type Logger struct {
	out        io.Writer
	llmLogPath string
	maxSize    int64
}

func NewLogger(logDir string) *Logger {
	return &Logger{
		out:        os.Stderr,
		llmLogPath: filepath.Join(logDir, "llm.jsonl"),
		maxSize:    10 * 1024 * 1024, // 10MB
	}
}

// SetOutput redirects event output, e.g. to keep a chat REPL clean.
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
}

// Log emits a structured JSON event.
func (l *Logger) Log(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		fmt.Fprintf(l.out, "{\"error\": \"failed to marshal event: %v\"}\n", err)
		return
	}
	fmt.Fprintln(l.out, string(data))

	if evt.Type == EventTypeLLM {
		l.writeToFile(data)
	}
}

func (l *Logger) writeToFile(data []byte) {
	if err := os.MkdirAll(filepath.Dir(l.llmLogPath), 0755); err != nil {
		log.Printf("failed to create log directory: %v", err)
		return
	}

	// Check size before writing
	info, err := os.Stat(l.llmLogPath)
	if err == nil && info.Size() > l.maxSize {
		l.rotateLogs()
	}

	f, err := os.OpenFile(l.llmLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("failed to open log file: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		log.Printf("failed to write to log file: %v", err)
	}
}

func (l *Logger) rotateLogs() {
	// Simple rotation: keep one .old file
	oldPath := l.llmLogPath + ".old"
	_ = os.Remove(oldPath)
	_ = os.Rename(l.llmLogPath, oldPath)
}

// Helper methods for common events

func (l *Logger) LogTurn(threadID, phase string) {
	l.Log(Event{
		Type:     EventTypeTurn,
		ThreadID: threadID,
		Data:     map[string]string{"phase": phase},
	})
}

func (l *Logger) LogAnalysis(threadID string, needsClarification bool) {
	l.Log(Event{
		Type:     EventTypeAnalysis,
		ThreadID: threadID,
		Data:     map[string]bool{"needs_clarification": needsClarification},
	})
}

func (l *Logger) LogPlan(threadID, status string, actionCount int) {
	l.Log(Event{
		Type:     EventTypePlan,
		ThreadID: threadID,
		Data: map[string]any{
			"status":  status,
			"actions": actionCount,
		},
	})
}

func (l *Logger) LogAction(threadID, actionType, description, outcome string) {
	l.Log(Event{
		Type:     EventTypeAction,
		ThreadID: threadID,
		Data: map[string]string{
			"action_type": actionType,
			"description": description,
			"outcome":     outcome,
		},
	})
}

func (l *Logger) LogLLM(threadID, prompt, response string) {
	l.Log(Event{
		Type:     EventTypeLLM,
		ThreadID: threadID,
		Data: map[string]string{
			"prompt":   prompt,
			"response": response,
		},
	})
}

func (l *Logger) LogError(threadID string, err error) {
	l.Log(Event{
		Type:     EventTypeError,
		ThreadID: threadID,
		Data:     map[string]string{"error": err.Error()},
	})
}
