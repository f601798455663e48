package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/symforge/symforge/internal/config"
	"github.com/symforge/symforge/internal/constants"
	"github.com/symforge/symforge/internal/errors"
	"github.com/symforge/symforge/internal/logging"
	"github.com/symforge/symforge/internal/report"
	"github.com/symforge/symforge/internal/resolve"
	"github.com/symforge/symforge/pkg/sdk"
)

// skipDirs are never descended into while discovering crate manifests.
var skipDirs = map[string]struct{}{
	".git":              {},
	"target":            {},
	constants.OutputDir: {},
}

func newResolveCmd() *cobra.Command {
	var (
		workspace  string
		topPackage string
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve prefixes for every crate in a workspace",
		Long: `Walk the workspace for crate manifests, resolve each crate's prefix
through the configured priority chain, and write the resolution report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewWithComponent(loggerConfig(), "resolve")

			snap, err := config.TakeSnapshot()
			if err != nil {
				return err
			}

			if outDir == "" {
				outDir = filepath.Join(workspace, constants.OutputDir)
			}

			var tracer resolve.Tracer
			if snap.Trace {
				tracePath := snap.TraceFile
				if tracePath == "" {
					tracePath = filepath.Join(outDir, constants.TraceLogFile)
				}
				ft, err := report.OpenFileTracer(tracePath)
				if err != nil {
					return err
				}
				defer errors.DeferClose(logger, ft, "close trace log")
				tracer = ft
			}

			engine, err := sdk.NewWithSnapshot(snap, logger, sdk.Options{Tracer: tracer})
			if err != nil {
				return err
			}

			if topPackage == "" {
				topPackage = discoverTopPackage(workspace)
			}

			crates, err := discoverCrates(workspace, topPackage)
			if err != nil {
				return err
			}
			if len(crates) == 0 {
				return fmt.Errorf("no crate manifests found under %s", workspace)
			}

			writer := report.NewWriter(outDir, snap, logger)
			records := make([]report.ResolutionRecord, 0, len(crates))
			for _, crate := range crates {
				res, err := engine.ResolvePrefix(crate)
				if err != nil {
					return fmt.Errorf("crate %s: %w", crate.Name, err)
				}
				rec := report.NewRecord(res, crate.ManifestDir, engine.Flags(crate))
				if snap.TraceHard {
					return report.HardDiagnostic(rec)
				}
				records = append(records, rec)
				logger.Info().
					Str("crate", res.Crate).
					Str("prefix", res.Prefix).
					Str("source", res.SelectedSource).
					Msg("resolved prefix")
			}

			path, err := writer.WriteResolution(records)
			if err != nil {
				return err
			}
			cmd.Printf("resolution report: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&workspace, "workspace", ".", "workspace root to scan for crate manifests")
	cmd.Flags().StringVar(&topPackage, "top-package", "", "top-level package name (defaults to the workspace root manifest)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (defaults to <workspace>/"+constants.OutputDir+")")
	return cmd
}

// discoverTopPackage reads the workspace root manifest's package name.
// The resolver treats the value as injected input; it never queries a build
// tool itself.
func discoverTopPackage(workspace string) string {
	m, err := config.LoadManifest(filepath.Join(workspace, constants.ManifestFileName))
	if err != nil {
		return ""
	}
	return m.Name
}

// discoverCrates walks the workspace for crate manifests.
func discoverCrates(workspace, topPackage string) ([]sdk.Crate, error) {
	var crates []sdk.Crate
	err := filepath.WalkDir(workspace, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip && path != workspace {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != constants.ManifestFileName {
			return nil
		}
		m, err := config.LoadManifest(path)
		if err != nil {
			// Unparseable manifests cannot name a crate; skip them.
			return nil
		}
		if m.Name == "" {
			return nil
		}
		crates = append(crates, sdk.Crate{
			Name:        m.Name,
			ManifestDir: filepath.Dir(path),
			TopPackage:  topPackage,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan workspace %s: %w", workspace, err)
	}
	return crates, nil
}
