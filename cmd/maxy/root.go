package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"maxy/internal/communicators"
	"maxy/internal/gateway"
	"maxy/internal/onboarding"

	_ "maxy/internal/communicators/console"
	_ "maxy/internal/communicators/telegram"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "maxy",
	Short: "FAQ auto-reply bot",
	Long: `Maxy watches enabled channels and answers questions it recognizes
from its FAQ store, using fuzzy matching against the stored questions.

Without a subcommand it starts an interactive console session.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommunicator(cmd.Context(), "console")
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start all configured transports (console, Telegram)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAll(cmd.Context())
	},
}

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Start only the Telegram transport",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommunicator(cmd.Context(), "telegram")
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive first-run configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if isatty.IsTerminal(os.Stdout.Fd()) {
			return onboarding.RunTUI()
		}
		// Not a terminal worth drawing on; fall back to the plain wizard.
		wizard := onboarding.NewWizard()
		cfg, err := wizard.Run()
		if err != nil {
			return err
		}
		return cfg.SaveToFile(onboarding.DefaultConfigPath)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("maxy %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", onboarding.DefaultConfigPath, "onboarding config file")
	rootCmd.AddCommand(serveCmd, telegramCmd, setupCmd, versionCmd)
}

func runCommunicator(ctx context.Context, id string) error {
	comm, err := communicators.Get(id)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return comm.Start(ctx, gateway.New(configPath))
}

func runAll(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw := gateway.New(configPath)

	var wg sync.WaitGroup
	for _, comm := range communicators.All() {
		wg.Add(1)
		go func(c communicators.Communicator) {
			defer wg.Done()
			if err := c.Start(ctx, gw); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", c.ID(), err)
			}
		}(comm)
	}
	wg.Wait()
	return nil
}
