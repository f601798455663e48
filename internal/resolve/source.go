// Package resolve implements prefix resolution for crates in a build graph:
// candidate collection from the seven configured sources and the ordered
// priority walk that picks the authoritative prefix.
package resolve

// Source identifies the origin of a prefix candidate.
type Source string

const (
	// SourceAttr is a per-function inline override.
	SourceAttr Source = "attr"
	// SourceEnvPrefix is the SYMFORGE_PREFIX environment variable.
	SourceEnvPrefix Source = "env_prefix"
	// SourceConfig is the prefix key of the shared config document.
	SourceConfig Source = "config"
	// SourceTopPackage is the top-level package of the build graph.
	SourceTopPackage Source = "top_package"
	// SourceWorkspace is the workspace manifest metadata table.
	SourceWorkspace Source = "workspace"
	// SourcePackage is the crate manifest metadata table.
	SourcePackage Source = "package"
	// SourceCrate is the building crate's own declared name.
	SourceCrate Source = "crate"
)

// Selected-source markers that are not plain sources.
const (
	// SelectedOverride marks a prefix taken from the override table.
	SelectedOverride = "override"
	// SelectedCrateFallback marks the crate-name fallback taken after the
	// priority order was exhausted without a match.
	SelectedCrateFallback = "crate_fallback_after_priority"
)

// DefaultPriority returns the default source consultation order.
func DefaultPriority() []Source {
	return []Source{
		SourceAttr,
		SourceEnvPrefix,
		SourceConfig,
		SourceTopPackage,
		SourceWorkspace,
		SourcePackage,
		SourceCrate,
	}
}

var knownSources = map[Source]struct{}{
	SourceAttr:       {},
	SourceEnvPrefix:  {},
	SourceConfig:     {},
	SourceTopPackage: {},
	SourceWorkspace:  {},
	SourcePackage:    {},
	SourceCrate:      {},
}

// ParsePriority converts configured source tags into a priority order.
// Unknown tags are dropped: a misconfigured order degrades to the sources
// it does name rather than failing the build. An empty input yields the
// default order.
func ParsePriority(tags []string) []Source {
	if len(tags) == 0 {
		return DefaultPriority()
	}
	out := make([]Source, 0, len(tags))
	for _, t := range tags {
		s := Source(t)
		if _, ok := knownSources[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
