package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/notecard/internal/cli"
	"codeberg.org/snonux/notecard/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)
	rootCmd.MarkFlagsMutuallyExclusive("tui", "print", "list-voices")

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, flags *cli.Flags) error {
	proc := processor.NewProcessor(flags)

	// Validate the configuration before starting any mode
	if _, err := proc.Settings(); err != nil {
		return err
	}
	cmd.SilenceUsage = true

	switch {
	case flags.ListVoices:
		return proc.ListVoices(cmd.Context(), os.Stdout)
	case flags.Print:
		return proc.PrintEntry(cmd.Context(), os.Stdout)
	case flags.TUI:
		return proc.RunTUIMode()
	default:
		// No mode selected - launch GUI mode by default
		return proc.RunGUIMode()
	}
}
