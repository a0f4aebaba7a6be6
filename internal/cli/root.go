// Package cli implements the inferctl command tree: a thin HTTP client for
// the inferd daemon.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Config carries the client settings shared by all subcommands.
type Config struct {
	Addr    string
	Timeout time.Duration
}

// Main parses and runs the command line. It returns the process exit code
// instead of exiting, enabling reuse from tests.
func Main(args []string) int {
	root := buildRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

// buildRootCmd is a convenience for the default environment-driven config.
func buildRootCmd() *cobra.Command {
	return buildRootCmdWith(&Config{Addr: envStr("INFERCTL_ADDR", "http://127.0.0.1:8080")})
}

// buildRootCmdWith constructs the Cobra command tree wired to cfg.
func buildRootCmdWith(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "inferctl",
		Short:         "Client for the inferd model server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfg.Addr, "addr", cfg.Addr, "Base URL of the inferd server (defaults INFERCTL_ADDR or http://127.0.0.1:8080)")
	root.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", 0, "Request timeout (0=none; generation requests stream and default to none)")

	root.AddCommand(
		newModelsCmd(cfg),
		newStatusCmd(cfg),
		newGenerateCmd(cfg),
		newLoadCmd(cfg),
		newUnloadCmd(cfg),
		newPullCmd(cfg),
	)

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(os.Stdout, true) }})
	root.AddCommand(completionCmd)

	return root
}

// envStr reads an environment variable with a default.
func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
