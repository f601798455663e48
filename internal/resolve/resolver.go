package resolve

import (
	"github.com/symforge/symforge/internal/symbol"
)

// Flags govern chain short-circuiting for one crate.
type Flags struct {
	// PreferPackagePrefix lets a dependency opt out of inheriting a
	// parent's prefix: the package candidate wins immediately when present.
	PreferPackagePrefix bool

	// EnforceInherit turns a crate-local selection into a hard failure.
	EnforceInherit bool

	// RequireConfig fails resolution when the config document was never
	// reachable, before priority evaluation even begins.
	RequireConfig bool
}

// Tracer receives one line per resolver decision point. Implementations
// live in the report package; a nil Tracer disables tracing.
type Tracer interface {
	Tracef(format string, args ...any)
}

// Options are the read-only shared inputs of one resolution pass.
type Options struct {
	// Priority is the ordered list of sources to consult.
	Priority []Source

	// Overrides maps crate names to explicit prefixes that always win.
	Overrides map[string]string

	// Flags are the crate's resolution flags.
	Flags Flags

	// ConfigReachable reports whether the config document could be read at
	// snapshot load, for the require-config precondition.
	ConfigReachable bool

	// ConfigPath names the config document for error messages.
	ConfigPath string

	// Tracer, when non-nil, records every decision point.
	Tracer Tracer
}

// Resolved is the immutable result of resolving one crate's prefix.
type Resolved struct {
	// Prefix is the sanitized authoritative prefix.
	Prefix string

	// SelectedSource is the winning Source tag, SelectedOverride, or
	// SelectedCrateFallback.
	SelectedSource string

	// Crate is the crate the prefix was resolved for.
	Crate string
}

// OverrideApplied reports whether the prefix came from the override table.
func (r Resolved) OverrideApplied() bool {
	return r.SelectedSource == SelectedOverride
}

// Resolve picks one authoritative prefix for a crate from its collected
// candidates. For fixed inputs the result is always identical; nothing here
// consults ambient state.
func Resolve(crate string, candidates Candidates, opts Options) (Resolved, error) {
	tracef(opts.Tracer, "crate=%q begin resolution priority=%v", crate, opts.Priority)

	// Require-config precondition: fails before priority evaluation.
	if opts.Flags.RequireConfig && !opts.ConfigReachable {
		tracef(opts.Tracer, "crate=%q require_config set but config source unreachable", crate)
		return Resolved{}, &MissingRequiredConfigError{Crate: crate, ConfigPath: opts.ConfigPath}
	}

	// Explicit overrides always win over the priority chain.
	if v, ok := opts.Overrides[crate]; ok {
		tracef(opts.Tracer, "crate=%q selected source=%s sanitized=%q", crate, SelectedOverride, symbol.Sanitize(v))
		return Resolved{Prefix: symbol.Sanitize(v), SelectedSource: SelectedOverride, Crate: crate}, nil
	}

	// Per-crate opt-out of inherited prefixes: the package candidate wins
	// immediately when present, and no inheritance check applies.
	if opts.Flags.PreferPackagePrefix {
		if c, ok := candidates.Lookup(SourcePackage); ok && c.Present {
			tracef(opts.Tracer, "crate=%q prefer_package_prefix selected source=%s sanitized=%q", crate, SourcePackage, symbol.Sanitize(c.Value))
			return Resolved{Prefix: symbol.Sanitize(c.Value), SelectedSource: string(SourcePackage), Crate: crate}, nil
		}
		tracef(opts.Tracer, "crate=%q prefer_package_prefix set but package candidate absent", crate)
	}

	priority := opts.Priority
	if len(priority) == 0 {
		priority = DefaultPriority()
	}

	selected := ""
	prefix := ""
	for _, src := range priority {
		c, ok := candidates.Lookup(src)
		if !ok || !c.Present {
			tracef(opts.Tracer, "crate=%q source=%s absent", crate, src)
			continue
		}
		tracef(opts.Tracer, "crate=%q source=%s value=%q present", crate, src, c.Value)
		selected = string(src)
		prefix = c.Value
		break
	}

	if selected == "" {
		// Priority order exhausted; fall back to the crate's own name when
		// the order did not already consult it.
		if c, ok := candidates.Lookup(SourceCrate); ok && c.Present && !containsSource(priority, SourceCrate) {
			selected = SelectedCrateFallback
			prefix = c.Value
			tracef(opts.Tracer, "crate=%q priority exhausted, crate-name fallback value=%q", crate, c.Value)
		} else {
			tracef(opts.Tracer, "crate=%q priority exhausted, no candidate present", crate)
			return Resolved{}, &NoPrefixResolvedError{Crate: crate, Priority: priority}
		}
	}

	resolved := Resolved{Prefix: symbol.Sanitize(prefix), SelectedSource: selected, Crate: crate}

	// Dependency crates are expected to inherit, not invent a prefix.
	if !isInherited(selected) {
		if opts.Flags.EnforceInherit {
			tracef(opts.Tracer, "crate=%q inheritance violation selected=%s", crate, selected)
			return Resolved{}, &InheritanceViolationError{Crate: crate, Selected: selected}
		}
		tracef(opts.Tracer, "crate=%q advisory: crate-local source %s selected without enforcement", crate, selected)
	}

	tracef(opts.Tracer, "crate=%q selected source=%s sanitized=%q", crate, selected, resolved.Prefix)
	return resolved, nil
}

func containsSource(list []Source, s Source) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func tracef(t Tracer, format string, args ...any) {
	if t != nil {
		t.Tracef(format, args...)
	}
}
