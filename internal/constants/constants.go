// Package constants defines shared configuration constants.
package constants

// Environment variables read once into the configuration snapshot.
const (
	EnvPrefix         = "SYMFORGE_PREFIX"
	EnvSep            = "SYMFORGE_SEP"
	EnvPriority       = "SYMFORGE_PRIORITY"
	EnvConfig         = "SYMFORGE_CONFIG"
	EnvTopPackage     = "SYMFORGE_TOP_PACKAGE"
	EnvRequireConfig  = "SYMFORGE_REQUIRE_CONFIG"
	EnvEnforceInherit = "SYMFORGE_ENFORCE_INHERIT"
	EnvInitialized    = "SYMFORGE_INITIALIZED"
	EnvTrace          = "SYMFORGE_TRACE"
	EnvTraceFile      = "SYMFORGE_TRACE_FILE"
	EnvTraceHard      = "SYMFORGE_TRACE_HARD"
)

var (
	// OutputDir is the per-workspace directory sidecar reports are written to.
	OutputDir = ".symforge"

	// ConfigFileName is the default name of the shared TOML config document.
	ConfigFileName = "symforge.toml"

	// ManifestFileName is the crate manifest consulted for metadata tables.
	ManifestFileName = "Cargo.toml"

	// MetadataNamespace is the reserved table name under
	// [workspace.metadata] and [package.metadata].
	MetadataNamespace = "symforge"

	// ResolutionReportFile holds the per-crate resolution summary.
	ResolutionReportFile = "resolution.toml"

	// TraceLogFile is the default trace log name inside OutputDir.
	TraceLogFile = "trace.log"

	// SymbolLogFile is the combined symbol dump name inside OutputDir.
	SymbolLogFile = "sym.log"

	// ExportsSidecarSuffix is appended to an artifact's file name to form
	// its export dump sidecar.
	ExportsSidecarSuffix = ".exports.txt"

	// ArtifactExtension identifies built executable containers.
	ArtifactExtension = ".nro"
)

const (
	// DefaultSeparator joins prefix and function name in exported symbols.
	DefaultSeparator = "__"

	// DefaultTemplate is used when no symbol template is configured.
	DefaultTemplate = "{prefix}{sep}{name}"
)
