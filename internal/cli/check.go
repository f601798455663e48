package cli

import (
	"github.com/spf13/cobra"

	"github.com/symforge/symforge/internal/config"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the one-time setup markers in the environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := config.TakeSnapshot()
			if err != nil {
				return err
			}
			if err := snap.CheckInitialized(); err != nil {
				return err
			}
			cmd.Printf("environment initialized: config=%s require_config=%t enforce_inherit=%t\n",
				snap.ConfigPath, snap.RequireConfig, snap.EnforceInherit)
			return nil
		},
	}
}
