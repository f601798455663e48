// Package cli wires the symforge commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/symforge/symforge/internal/logging"
	"github.com/symforge/symforge/pkg/version"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "symforge",
	Short: "Symforge - deterministic export prefixes for plugin builds",
	Long: `Resolve the symbol prefix each crate's exported functions should carry,
render exported names from templates and filter rules, and dump the actual
export table of built artifacts for cross-validation.

Outputs:
- .symforge/resolution.toml  per-crate resolution summary
- <artifact>.exports.txt     export dump sidecar next to each artifact
- .symforge/trace.log        resolver decisions (with SYMFORGE_TRACE=1)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func loggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logLevel
	return cfg
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("Symforge version %s\n", version.Version)
			cmd.Printf("Git commit: %s\n", version.GitCommit)
			cmd.Printf("Build date: %s\n", version.BuildDate)
			cmd.Printf("Go version: %s\n", version.GoVersion)
		},
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
