package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/symforge/symforge/internal/config"
	"github.com/symforge/symforge/internal/constants"
	"github.com/symforge/symforge/internal/logging"
	"github.com/symforge/symforge/internal/safe"
)

func newInitCmd() *cobra.Command {
	var (
		prefix string
		sep    string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the shared config document and print the setup exports",
		Long: `Write ` + constants.ConfigFileName + ` into the workspace and print the
environment exports that mark the one-time setup as done. Source the
printed lines (or add them to the build environment) so that
` + "`symforge check`" + ` passes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewWithComponent(loggerConfig(), "init")

			if prefix == "" {
				return fmt.Errorf("--prefix is required")
			}

			cfgPath, err := filepath.Abs(constants.ConfigFileName)
			if err != nil {
				return err
			}
			if !force {
				if _, err := os.Stat(cfgPath); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", cfgPath)
				}
			}

			doc := config.File{Prefix: prefix, Sep: sep}
			encoded, err := toml.Marshal(doc)
			if err != nil {
				return fmt.Errorf("encode config document: %w", err)
			}
			if err := safe.WriteFile(cfgPath, encoded, nil); err != nil {
				return err
			}
			logger.Info().Str("path", cfgPath).Msg("wrote config document")

			cmd.Printf("wrote %s\n\n", cfgPath)
			cmd.Printf("export %s=%s\n", constants.EnvConfig, cfgPath)
			cmd.Printf("export %s=1\n", constants.EnvRequireConfig)
			cmd.Printf("export %s=1\n", constants.EnvEnforceInherit)
			cmd.Printf("export %s=1\n", constants.EnvInitialized)
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "prefix written into the config document (required)")
	cmd.Flags().StringVar(&sep, "sep", constants.DefaultSeparator, "separator written into the config document")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config document")
	return cmd
}
