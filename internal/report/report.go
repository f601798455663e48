// Package report persists the per-crate resolution summary, the plain-text
// export dumps, and the optional resolver trace log.
package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/symforge/symforge/internal/config"
	"github.com/symforge/symforge/internal/constants"
	"github.com/symforge/symforge/internal/nro"
	"github.com/symforge/symforge/internal/resolve"
	"github.com/symforge/symforge/internal/safe"
)

// ResolutionRecord is one row of the resolution report.
type ResolutionRecord struct {
	Crate               string `toml:"name"`
	Prefix              string `toml:"resolved_prefix"`
	SelectedSource      string `toml:"selected_source"`
	OverrideApplied     bool   `toml:"override_applied"`
	ManifestDir         string `toml:"manifest_dir,omitempty"`
	PreferPackagePrefix bool   `toml:"prefer_package_prefix"`
	EnforceInherit      bool   `toml:"enforce_inherit"`
	RequireConfig       bool   `toml:"require_config"`
}

// NewRecord builds a record from a resolution result and its flags.
func NewRecord(res resolve.Resolved, manifestDir string, flags resolve.Flags) ResolutionRecord {
	return ResolutionRecord{
		Crate:               res.Crate,
		Prefix:              res.Prefix,
		SelectedSource:      res.SelectedSource,
		OverrideApplied:     res.OverrideApplied(),
		ManifestDir:         manifestDir,
		PreferPackagePrefix: flags.PreferPackagePrefix,
		EnforceInherit:      flags.EnforceInherit,
		RequireConfig:       flags.RequireConfig,
	}
}

type resolutionReport struct {
	GeneratedUnixUTC  int64              `toml:"generated_unix_utc"`
	InvocationID      string             `toml:"invocation_id"`
	TopPackage        string             `toml:"top_package,omitempty"`
	ConfigPath        string             `toml:"config_path,omitempty"`
	Crates            []ResolutionRecord `toml:"crates"`
	OverridesTemplate map[string]string  `toml:"overrides_template"`
}

// Writer produces the sidecar documents of one build invocation.
// Destination files are not safe for concurrent writers; callers serialize.
type Writer struct {
	dir    string
	snap   *config.Snapshot
	logger zerolog.Logger
}

// NewWriter creates a report writer rooted at the output directory.
func NewWriter(dir string, snap *config.Snapshot, logger zerolog.Logger) *Writer {
	return &Writer{
		dir:    dir,
		snap:   snap,
		logger: logger.With().Str("component", "report").Logger(),
	}
}

// invocationID derives a stable identifier from the snapshot so that
// re-running the reporter against unchanged inputs is byte-identical.
func (w *Writer) invocationID() string {
	seed := fmt.Sprintf("%s|%s|%d", w.snap.ConfigPath, w.snap.TopPackage, w.snap.TakenUnix)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}

// WriteResolution persists the per-crate resolution summary as TOML and
// returns the report path. Records are sorted by crate name; the
// overrides_template section gives operators a paste-ready override table.
func (w *Writer) WriteResolution(records []ResolutionRecord) (string, error) {
	sorted := make([]ResolutionRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Crate < sorted[j].Crate })

	overrides := make(map[string]string, len(sorted))
	for _, r := range sorted {
		overrides[r.Crate] = r.Prefix
	}

	doc := resolutionReport{
		GeneratedUnixUTC:  w.snap.TakenUnix,
		InvocationID:      w.invocationID(),
		TopPackage:        w.snap.TopPackage,
		ConfigPath:        w.snap.ConfigPath,
		Crates:            sorted,
		OverridesTemplate: overrides,
	}

	encoded, err := toml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode resolution report: %w", err)
	}

	path := filepath.Join(w.dir, constants.ResolutionReportFile)
	if err := safe.WriteFile(path, encoded, &safe.WriteFileOptions{MkdirParents: true}); err != nil {
		return "", fmt.Errorf("write resolution report: %w", err)
	}
	w.logger.Info().Str("path", path).Int("crates", len(sorted)).Msg("wrote resolution report")
	return path, nil
}

// FormatExportLine renders one export dump line:
// address (hex), type name, binding name, size (decimal), symbol name.
func FormatExportLine(e nro.ExportSymbol) string {
	return fmt.Sprintf("0x%016X %s %s %d %s", e.Address, e.Type, e.Binding, e.Size, e.Name)
}

// WriteExportsSidecar writes the export dump for one artifact next to it,
// named after the artifact plus a fixed suffix. Ordering matches the
// reader's output order.
func (w *Writer) WriteExportsSidecar(artifactPath string, entries []nro.ExportSymbol) (string, error) {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(FormatExportLine(e))
		b.WriteByte('\n')
	}

	path := filepath.Join(filepath.Dir(artifactPath), filepath.Base(artifactPath)+constants.ExportsSidecarSuffix)
	if err := safe.WriteFile(path, []byte(b.String()), nil); err != nil {
		return "", fmt.Errorf("write exports sidecar: %w", err)
	}
	w.logger.Info().Str("path", path).Int("symbols", len(entries)).Msg("wrote exports sidecar")
	return path, nil
}

// WriteSymbolLog writes the combined symbol dump for one artifact into the
// output directory.
func (w *Writer) WriteSymbolLog(artifactPath string, entries []nro.ExportSymbol) (string, error) {
	var b strings.Builder
	b.WriteString("# symforge sym.log\n")
	fmt.Fprintf(&b, "# source=%s\n", artifactPath)
	b.WriteString("# format: address type bind size name\n")
	for _, e := range entries {
		b.WriteString(FormatExportLine(e))
		b.WriteByte('\n')
	}

	path := filepath.Join(w.dir, constants.SymbolLogFile)
	if err := safe.WriteFile(path, []byte(b.String()), &safe.WriteFileOptions{MkdirParents: true}); err != nil {
		return "", fmt.Errorf("write symbol log: %w", err)
	}
	w.logger.Info().Str("path", path).Int("symbols", len(entries)).Msg("wrote symbol log")
	return path, nil
}

// HardDiagnosticError halts the build to force visibility of a resolution
// decision when hard tracing is enabled.
type HardDiagnosticError struct {
	Record ResolutionRecord
}

func (e *HardDiagnosticError) Error() string {
	return fmt.Sprintf(
		"hard trace: crate %q resolved prefix %q from source %q (override=%t)",
		e.Record.Crate, e.Record.Prefix, e.Record.SelectedSource, e.Record.OverrideApplied,
	)
}

// HardDiagnostic surfaces the resolved source and prefix as a build-halting
// error instead of writing silently.
func HardDiagnostic(rec ResolutionRecord) error {
	return &HardDiagnosticError{Record: rec}
}
