package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taskpilot/internal/gateway"
	"taskpilot/internal/observability"
	"taskpilot/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Listen for conversations on the configured messaging gateways",
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

		observability.PrintBanner()

		var gateways []gateway.Messenger

		if tgCfg, ok := cfg.GetGateway("telegram"); ok {
			tg, err := gateway.NewTelegramGateway(tgCfg.Token, machine, st)
			if err != nil {
				return fmt.Errorf("telegram gateway: %w", err)
			}
			gateways = append(gateways, tg)
		}

		if dcCfg, ok := cfg.GetGateway("discord"); ok {
			dc, err := gateway.NewDiscordGateway(dcCfg.Token, machine, st)
			if err != nil {
				return fmt.Errorf("discord gateway: %w", err)
			}
			gateways = append(gateways, dc)
		}

		if len(gateways) == 0 {
			return fmt.Errorf("no gateway is enabled in config")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		for _, g := range gateways {
			g := g
			go func() {
				if err := g.Start(); err != nil {
					log.Printf("gateway error: %v", err)
					stop()
				}
			}()
		}

		<-ctx.Done()

		for _, g := range gateways {
			_ = g.Stop()
		}
		log.Println("Shutting down. Goodbye.")
		return nil
	},
}
