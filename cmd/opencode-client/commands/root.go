// Package commands provides the CLI commands for the opencode client.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/opencode-client/internal/config"
	"github.com/opencode-ai/opencode-client/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	flagServer    string
	flagDirectory string
	logLevel      string
	prettyLogs    bool
)

var rootCmd = &cobra.Command{
	Use:   "opencode-client",
	Short: "Client-side state sync for the opencode server",
	Long: `opencode-client maintains a live, incrementally-updated view of chat
sessions, messages and tool activity streamed from an opencode server,
and manages the prompt history used by command-style inputs.

Run 'opencode-client tail' to follow a server's event stream, or
'opencode-client sessions' to manage sessions.`,
	Version: Version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.Config{
			Level:  logging.ParseLevel(logLevel),
			Output: os.Stderr,
			Pretty: prettyLogs,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Server base URL (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&flagDirectory, "directory", "C", "", "Project directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().BoolVar(&prettyLogs, "print-logs", false, "Human-readable log output on stderr")

	rootCmd.SetVersionTemplate(fmt.Sprintf("opencode-client %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(tailCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadConfig resolves the effective configuration for a command run,
// applying the global flags on top of files and environment.
func loadConfig() (*config.Config, error) {
	dir := flagDirectory
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = wd
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if flagServer != "" {
		cfg.Server = flagServer
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
