package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskpilot/internal/agent"
	"taskpilot/internal/governance"
	"taskpilot/internal/llm"
	"taskpilot/internal/observability"
	"taskpilot/internal/store"
	"taskpilot/internal/tools"
	"taskpilot/pkg/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "taskpilot",
	Short: "taskpilot - a confirmation-driven task planning agent",
	Long: `taskpilot turns free-text requests into structured action plans,
asks for confirmation, and executes the confirmed steps against its
tools (product data generation, spreadsheets, email).

Run 'taskpilot chat' for a local conversation or 'taskpilot serve' to
listen on the configured messaging gateways.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "path to the config file")
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
}

// wire builds the full machine from the config file. The returned store
// is shared by the machine and the sheet tool; the caller owns closing it.
func wire(cfg *config.Config) (*agent.Machine, *store.Store, error) {
	pName, pCfg := cfg.GetDefaultProvider()
	if pName == "" {
		return nil, nil, fmt.Errorf("no enabled provider found in config")
	}

	client, err := llm.New(pName, pCfg.APIKey, pCfg.Model, pCfg.BaseURL)
	if err != nil {
		return nil, nil, err
	}

	st, err := store.NewStore(cfg.Memory.Path)
	if err != nil {
		return nil, nil, err
	}

	logger := observability.NewLogger(cfg.App.LogDir)

	analyzer := agent.NewAnalyzer(client, logger)
	planner := agent.NewPlanGenerator(analyzer, client, logger)

	executor := &agent.Executor{
		Products: tools.NewProductGenerator(client),
		Sheets:   tools.NewSheetManager(st, cfg.App.ExportDir, cfg.App.ShareBaseURL),
		Email: tools.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port,
			cfg.SMTP.Username, cfg.SMTP.Password),
		Policy: governance.NewDefaultPolicyEngine(),
		Logger: logger,
		Sender: cfg.SMTP.Sender,
	}

	machine := agent.NewMachine(planner, executor, st, logger)
	machine.MarkFailedOutcomes = cfg.Execution.MarkFailedOutcomes
	return machine, st, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
