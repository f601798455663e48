package resolve

import (
	"github.com/rs/zerolog"

	"github.com/symforge/symforge/internal/config"
)

// CrateContext describes one crate of the build graph for resolution.
// TopPackage is injected by the caller after its own build-graph
// introspection; the aggregator never queries a build tool itself.
type CrateContext struct {
	// Name is the crate's declared name, the guaranteed fallback source.
	Name string

	// ManifestDir locates the crate manifest for metadata lookups.
	ManifestDir string

	// TopPackage is the build graph's root package name, if known.
	TopPackage string

	// AttrPrefix is the per-symbol inline override, if any. It is supplied
	// per resolution request because it short-circuits everything else for
	// one symbol only.
	AttrPrefix string
}

// Candidate is one source's raw value for a resolution request.
type Candidate struct {
	Source  Source
	Value   string
	Present bool
}

// Candidates holds one candidate per source, in default source order.
type Candidates []Candidate

// Lookup returns the candidate for a source.
func (cs Candidates) Lookup(src Source) (Candidate, bool) {
	for _, c := range cs {
		if c.Source == src {
			return c, true
		}
	}
	return Candidate{}, false
}

// Collector gathers raw prefix values from the seven sources without
// interpreting priority. Snapshot and config are read-only shared inputs
// loaded once per build invocation.
type Collector struct {
	snap   *config.Snapshot
	file   *config.File
	logger zerolog.Logger
}

// NewCollector creates a collector over one configuration snapshot.
// file may be nil when no config document is reachable.
func NewCollector(snap *config.Snapshot, file *config.File, logger zerolog.Logger) *Collector {
	return &Collector{
		snap:   snap,
		file:   file,
		logger: logger.With().Str("component", "collector").Logger(),
	}
}

// Collect looks up all seven sources for one crate. Manifest lookups that
// fail are reported as absent, matching how an optional metadata table
// behaves; only the config document distinguishes malformed from missing,
// and that is handled at snapshot load.
func (c *Collector) Collect(crate CrateContext) Candidates {
	pkgMeta := config.PackageMeta(crate.ManifestDir)
	wsMeta := config.WorkspaceMeta(crate.ManifestDir)

	out := Candidates{
		candidate(SourceAttr, crate.AttrPrefix, crate.AttrPrefix != ""),
		candidate(SourceEnvPrefix, c.snap.Prefix, c.snap.Prefix != ""),
		c.configCandidate(),
		c.topPackageCandidate(crate),
		metaCandidate(SourceWorkspace, wsMeta),
		metaCandidate(SourcePackage, pkgMeta),
		candidate(SourceCrate, crate.Name, crate.Name != ""),
	}

	for _, cand := range out {
		c.logger.Debug().
			Str("crate", crate.Name).
			Str("source", string(cand.Source)).
			Bool("present", cand.Present).
			Msg("collected prefix candidate")
	}
	return out
}

// FlagsFor derives the per-crate resolution flags from package metadata and
// the global snapshot.
func (c *Collector) FlagsFor(crate CrateContext) Flags {
	flags := Flags{
		EnforceInherit: c.snap.EnforceInherit,
		RequireConfig:  c.snap.RequireConfig,
	}
	if meta := config.PackageMeta(crate.ManifestDir); meta != nil {
		flags.PreferPackagePrefix = meta.PreferPackagePrefix
	}
	return flags
}

func (c *Collector) configCandidate() Candidate {
	if c.file == nil {
		return candidate(SourceConfig, "", false)
	}
	return candidate(SourceConfig, c.file.Prefix, c.file.Prefix != "")
}

func (c *Collector) topPackageCandidate(crate CrateContext) Candidate {
	// Explicit env override wins over the injected build-graph root.
	if c.snap.TopPackage != "" {
		return candidate(SourceTopPackage, c.snap.TopPackage, true)
	}
	return candidate(SourceTopPackage, crate.TopPackage, crate.TopPackage != "")
}

func candidate(src Source, value string, present bool) Candidate {
	if !present {
		value = ""
	}
	return Candidate{Source: src, Value: value, Present: present}
}

func metaCandidate(src Source, meta *config.Metadata) Candidate {
	if meta == nil || meta.Prefix == "" {
		return candidate(src, "", false)
	}
	return candidate(src, meta.Prefix, true)
}
