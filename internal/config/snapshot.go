// Package config provides configuration loading for prefix resolution:
// a one-time environment snapshot, the shared TOML config document, and
// crate/workspace manifest metadata.
package config

import (
	"fmt"
	"os"
	"time"
)

// Snapshot is the read-only environment configuration taken once at the
// start of a resolution pass. It is never re-read mid-pass so that
// resolution stays a pure function of its inputs.
type Snapshot struct {
	// Prefix overrides the resolved prefix via the env_prefix source.
	Prefix string `env:"SYMFORGE_PREFIX"`

	// Sep overrides the separator used in rendered symbols.
	Sep string `env:"SYMFORGE_SEP"`

	// Priority overrides the source priority order (comma-separated tags).
	Priority []string `env:"SYMFORGE_PRIORITY"`

	// ConfigPath points at the shared TOML config document.
	ConfigPath string `env:"SYMFORGE_CONFIG"`

	// TopPackage explicitly names the top-level package being built.
	TopPackage string `env:"SYMFORGE_TOP_PACKAGE"`

	// RequireConfig makes an unreachable config document a hard failure.
	RequireConfig bool `env:"SYMFORGE_REQUIRE_CONFIG"`

	// EnforceInherit makes crate-local prefix selection a hard failure
	// for dependency crates.
	EnforceInherit bool `env:"SYMFORGE_ENFORCE_INHERIT"`

	// Initialized marks that one-time setup has been performed.
	Initialized bool `env:"SYMFORGE_INITIALIZED"`

	// Trace enables the append-only resolver trace log.
	Trace bool `env:"SYMFORGE_TRACE"`

	// TraceFile overrides the trace log destination.
	TraceFile string `env:"SYMFORGE_TRACE_FILE"`

	// TraceHard surfaces each resolution as a build-halting diagnostic.
	TraceHard bool `env:"SYMFORGE_TRACE_HARD"`

	// TakenUnix records when the snapshot was taken. Reports derive their
	// timestamp from this so reruns over one snapshot stay byte-identical.
	TakenUnix int64
}

// TakeSnapshot reads the process environment once into a Snapshot.
func TakeSnapshot() (*Snapshot, error) {
	s := &Snapshot{}
	if err := LoadFromEnv(s); err != nil {
		return nil, fmt.Errorf("load environment snapshot: %w", err)
	}
	s.TakenUnix = time.Now().Unix()
	return s, nil
}

func setupHint() string {
	return "run `symforge init --prefix <your_prefix>` from the workspace root"
}

// CheckInitialized returns nil when the one-time setup markers are present
// and valid. The checks mirror what `symforge init` writes so that a stale
// or partial setup fails with an actionable message.
func (s *Snapshot) CheckInitialized() error {
	if !s.Initialized {
		return fmt.Errorf("missing SYMFORGE_INITIALIZED=1; %s", setupHint())
	}
	if s.ConfigPath == "" {
		return fmt.Errorf("missing SYMFORGE_CONFIG; %s", setupHint())
	}
	if _, err := os.Stat(s.ConfigPath); err != nil {
		return fmt.Errorf("SYMFORGE_CONFIG points to missing file %s: %w; %s", s.ConfigPath, err, setupHint())
	}
	if !s.RequireConfig {
		return fmt.Errorf("expected SYMFORGE_REQUIRE_CONFIG=1 for deterministic builds; %s", setupHint())
	}
	if !s.EnforceInherit {
		return fmt.Errorf("expected SYMFORGE_ENFORCE_INHERIT=1 to prevent dependency prefix leaks; %s", setupHint())
	}
	return nil
}
