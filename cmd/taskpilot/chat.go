package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"taskpilot/internal/observability"
	"taskpilot/pkg/config"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a local conversation on the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgPath)
		if err != nil {
			return err
		}

		machine, st, err := wire(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		// Keep the REPL clean; events still land in the llm log file.
		machine.Logger.SetOutput(io.Discard)

		observability.PrintBanner()
		fmt.Println("Type 'quit' to exit.")
		fmt.Println()

		ctx := context.Background()
		threadID := fmt.Sprintf("cli_session_%s", time.Now().Format("20060102_150405"))

		reply, err := machine.StartThread(ctx, threadID)
		if err != nil {
			return err
		}
		renderMessage(reply.Message)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("\nYou: ")
			if !scanner.Scan() {
				break
			}
			input := scanner.Text()
			if input == "" {
				continue
			}

			reply, err = machine.Resume(ctx, threadID, input)
			if err != nil {
				fmt.Printf("%sError:%s %v\n", colorRed, colorReset, err)
				continue
			}
			renderMessage(reply.Message)

			if reply.Finished {
				fmt.Printf("\n%sGoodbye!%s\n", colorGreen, colorReset)
				break
			}
		}
		return scanner.Err()
	},
}
