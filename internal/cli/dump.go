package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/symforge/symforge/internal/config"
	"github.com/symforge/symforge/internal/constants"
	"github.com/symforge/symforge/internal/logging"
	"github.com/symforge/symforge/internal/nro"
	"github.com/symforge/symforge/internal/report"
)

func newDumpCmd() *cobra.Command {
	var (
		profile string
		outDir  string
		symLog  bool
	)

	cmd := &cobra.Command{
		Use:   "dump <artifact-or-dir> [more paths...]",
		Short: "Dump exported symbols of built artifacts",
		Long: `Read the dynamic symbol table of each built artifact and write an
export dump sidecar next to it. Directories are scanned recursively for
artifacts. A failed artifact aborts only its own dump; resolution results
are unaffected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewWithComponent(loggerConfig(), "dump")

			snap, err := config.TakeSnapshot()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = constants.OutputDir
			}

			artifacts, err := collectArtifacts(args, profile)
			if err != nil {
				return err
			}

			writer := report.NewWriter(outDir, snap, logger)
			var dumpErrs []error
			for _, artifact := range artifacts {
				entries, err := nro.ReadExports(artifact)
				if err != nil {
					logger.Error().Err(err).Str("artifact", artifact).Msg("export dump failed")
					dumpErrs = append(dumpErrs, err)
					continue
				}
				path, err := writer.WriteExportsSidecar(artifact, entries)
				if err != nil {
					dumpErrs = append(dumpErrs, fmt.Errorf("%s: %w", artifact, err))
					continue
				}
				cmd.Printf("%s: %d exported symbols -> %s\n", artifact, len(entries), path)
				if symLog {
					if _, err := writer.WriteSymbolLog(artifact, entries); err != nil {
						dumpErrs = append(dumpErrs, fmt.Errorf("%s: %w", artifact, err))
					}
				}
			}
			return errors.Join(dumpErrs...)
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "only dump artifacts under this build profile path segment")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory for sym.log (defaults to "+constants.OutputDir+")")
	cmd.Flags().BoolVar(&symLog, "sym-log", false, "also write the combined symbol log into the output directory")
	return cmd
}

// collectArtifacts expands files and directories into a flat artifact list.
func collectArtifacts(paths []string, profile string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("artifact path %s: %w", p, err)
		}
		if info.IsDir() {
			found, err := nro.FindArtifacts(p, profile)
			if err != nil {
				return nil, err
			}
			out = append(out, found...)
			continue
		}
		if filepath.Ext(p) != constants.ArtifactExtension {
			return nil, fmt.Errorf("artifact path %s: not a %s file", p, constants.ArtifactExtension)
		}
		out = append(out, p)
	}
	return out, nil
}
