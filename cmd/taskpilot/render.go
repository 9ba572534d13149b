package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// renderMessage pretty-prints one typed assistant message. Unknown or
// non-JSON content falls back to raw output.
func renderMessage(content string) {
	var msg struct {
		Type      string            `json:"type"`
		Title     string            `json:"title"`
		Message   string            `json:"message"`
		Goal      string            `json:"goal"`
		Concerns  []string          `json:"concerns"`
		Questions []string          `json:"questions"`
		Options   []string          `json:"options"`
		Results   []string          `json:"results"`
		Links     map[string]string `json:"links"`
		Analysis  struct {
			Complexity    string `json:"complexity"`
			EstimatedTime string `json:"estimated_time"`
			Subtasks      []struct {
				Description   string   `json:"description"`
				EstimatedTime string   `json:"estimated_time"`
				Dependencies  []string `json:"dependencies"`
			} `json:"subtasks"`
			Risks     []string `json:"risks"`
			Resources []string `json:"resources"`
		} `json:"analysis"`
		Actions []struct {
			Description string `json:"description"`
			Type        string `json:"type"`
			Status      string `json:"status"`
		} `json:"actions"`
		Summary struct {
			TotalActions     int `json:"total_actions"`
			CompletedActions int `json:"completed_actions"`
			FailedActions    int `json:"failed_actions"`
		} `json:"summary"`
	}

	if err := json.Unmarshal([]byte(content), &msg); err != nil {
		fmt.Println(content)
		return
	}

	switch msg.Type {
	case "greeting":
		header(colorGreen, msg.Title)
		fmt.Println(msg.Message)

	case "clarification_request":
		header(colorYellow, msg.Title)
		if len(msg.Concerns) > 0 {
			fmt.Printf("%sConcerns:%s\n", colorBold, colorReset)
			for _, c := range msg.Concerns {
				fmt.Printf("  • %s\n", c)
			}
		}
		if len(msg.Questions) > 0 {
			fmt.Printf("%sQuestions:%s\n", colorBold, colorReset)
			for i, q := range msg.Questions {
				fmt.Printf("  %d. %s\n", i+1, q)
			}
		}

	case "plan":
		header(colorBlue, msg.Title)
		fmt.Printf("%sGoal:%s %s\n", colorBold, colorReset, msg.Goal)
		fmt.Printf("%sComplexity:%s %s  %sEstimated time:%s %s\n",
			colorBold, colorReset, msg.Analysis.Complexity,
			colorBold, colorReset, msg.Analysis.EstimatedTime)
		if len(msg.Analysis.Subtasks) > 0 {
			fmt.Printf("%sSubtasks:%s\n", colorBold, colorReset)
			for i, st := range msg.Analysis.Subtasks {
				deps := "None"
				if len(st.Dependencies) > 0 {
					deps = strings.Join(st.Dependencies, ", ")
				}
				fmt.Printf("  %d. %s (time: %s, deps: %s)\n", i+1, st.Description, st.EstimatedTime, deps)
			}
		}
		if len(msg.Analysis.Risks) > 0 {
			fmt.Printf("%sRisks:%s\n", colorBold, colorReset)
			for _, r := range msg.Analysis.Risks {
				fmt.Printf("  • %s\n", r)
			}
		}
		if len(msg.Analysis.Resources) > 0 {
			fmt.Printf("%sResources:%s\n", colorBold, colorReset)
			for _, r := range msg.Analysis.Resources {
				fmt.Printf("  • %s\n", r)
			}
		}
		fmt.Printf("%sActions:%s\n", colorBold, colorReset)
		for i, a := range msg.Actions {
			fmt.Printf("  %d. %s [%s, %s]\n", i+1, a.Description, a.Type, a.Status)
		}
		fmt.Printf("\n%sConfirm this plan? (yes/confirm/proceed, or describe changes)%s\n", colorCyan, colorReset)

	case "execution_results":
		header(colorGreen, msg.Title)
		for _, r := range msg.Results {
			fmt.Printf("  %s\n", r)
		}
		fmt.Printf("%sSummary:%s %d total, %d completed, %d failed\n",
			colorBold, colorReset,
			msg.Summary.TotalActions, msg.Summary.CompletedActions, msg.Summary.FailedActions)
		for name, link := range msg.Links {
			fmt.Printf("  %s: %s\n", name, link)
		}

	case "confirmation_request":
		header(colorYellow, msg.Title)
		fmt.Println(msg.Message)
		for _, opt := range msg.Options {
			fmt.Printf("  • %s\n", opt)
		}

	case "modification_request":
		header(colorYellow, msg.Title)
		fmt.Println(msg.Message)

	case "error":
		header(colorRed, msg.Title)
		fmt.Println(msg.Message)

	default:
		fmt.Println(content)
	}
}

func header(color, title string) {
	fmt.Printf("\n%s%s== %s ==%s\n", colorBold, color, title, colorReset)
}
