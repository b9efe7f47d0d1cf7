package main

import (
	"fmt"
	"os"

	"go-startup-automation/internal/config"

	"github.com/kataras/golog"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "automator",
		Short: "Draft cover letters for Work at a Startup listings",
		Long: `automator logs into Work at a Startup, loads the company directory, extracts
the open roles and writes a cover letter draft for each of them.

Nothing is ever submitted: letters are saved under the output directory and
optionally sent to Telegram or stored in PostgreSQL.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", config.DefaultPath, "Configuration file path")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewLetterCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config named by --config and sets the global log level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	level := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	golog.SetLevel(level)
	return cfg, nil
}
