// Package sdk exposes the resolved-symbol contract consumed by the
// attribute-rewriting collaborator: given a function name, its module path
// and a crate context, produce the exported symbol name. Results are pure
// and total over one configuration snapshot.
package sdk

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/symforge/symforge/internal/config"
	"github.com/symforge/symforge/internal/resolve"
	"github.com/symforge/symforge/internal/symbol"
)

// Crate aliases the resolver's crate context.
type Crate = resolve.CrateContext

// SymbolOptions tune one ResolveSymbol call.
type SymbolOptions struct {
	// Template overrides the engine's default template. Zero value means
	// the engine default.
	Template symbol.Template

	// Rules filters which functions are renamed; nil renames everything.
	Rules *symbol.Rules
}

// Engine binds a configuration snapshot to the resolution and rendering
// machinery. Construct once per build invocation; the snapshot is never
// re-read, keeping every resolution deterministic.
type Engine struct {
	snap      *config.Snapshot
	collector *resolve.Collector
	template  symbol.Template
	opts      resolve.Options
	logger    zerolog.Logger
}

// Options configure engine construction.
type Options struct {
	// Tracer receives resolver decision events; nil disables tracing.
	Tracer resolve.Tracer
}

// New takes the environment snapshot, loads the config document, validates
// the template and returns a ready engine. Template validation happens here,
// at resolution time, so configuration failures surface before any build
// output is produced.
func New(logger zerolog.Logger, opts Options) (*Engine, error) {
	snap, err := config.TakeSnapshot()
	if err != nil {
		return nil, err
	}
	return NewWithSnapshot(snap, logger, opts)
}

// NewWithSnapshot builds an engine over an already-taken snapshot.
func NewWithSnapshot(snap *config.Snapshot, logger zerolog.Logger, opts Options) (*Engine, error) {
	file, reachable, err := snap.LoadConfigFile()
	if err != nil {
		return nil, err
	}

	sep := snap.Sep
	if sep == "" && file != nil {
		sep = file.Sep
	}
	tpl := symbol.NewTemplate("", sep, "")
	if err := tpl.Validate(); err != nil {
		return nil, err
	}

	priorityTags := snap.Priority
	if len(priorityTags) == 0 && file != nil {
		priorityTags = file.Priority
	}

	var overrides map[string]string
	if file != nil {
		overrides = file.Overrides
	}

	e := &Engine{
		snap:      snap,
		collector: resolve.NewCollector(snap, file, logger),
		template:  tpl,
		opts: resolve.Options{
			Priority:        resolve.ParsePriority(priorityTags),
			Overrides:       overrides,
			ConfigReachable: reachable,
			ConfigPath:      snap.ConfigPath,
			Tracer:          opts.Tracer,
		},
		logger: logger.With().Str("component", "sdk").Logger(),
	}
	return e, nil
}

// Snapshot returns the engine's configuration snapshot.
func (e *Engine) Snapshot() *config.Snapshot { return e.snap }

// Flags returns the resolution flags effective for a crate.
func (e *Engine) Flags(crate Crate) resolve.Flags {
	return e.collector.FlagsFor(crate)
}

// ResolvePrefix resolves the authoritative prefix for one crate.
func (e *Engine) ResolvePrefix(crate Crate) (resolve.Resolved, error) {
	candidates := e.collector.Collect(crate)
	opts := e.opts
	opts.Flags = e.collector.FlagsFor(crate)
	return resolve.Resolve(crate.Name, candidates, opts)
}

// ResolveSymbol renders the exported name for one function. Functions the
// rules filter out keep their originally declared name. crate.AttrPrefix
// carries the per-symbol inline override.
func (e *Engine) ResolveSymbol(function, module string, crate Crate, symOpts *SymbolOptions) (string, error) {
	tpl := e.template
	var rules *symbol.Rules
	if symOpts != nil {
		if symOpts.Template.Format != "" {
			tpl = symOpts.Template
			if err := tpl.Validate(); err != nil {
				return "", err
			}
		}
		rules = symOpts.Rules
	}

	if rules != nil && !rules.ShouldRename(function) {
		e.logger.Debug().Str("function", function).Msg("function filtered out, keeping declared name")
		return function, nil
	}

	res, err := e.ResolvePrefix(crate)
	if err != nil {
		return "", fmt.Errorf("resolve symbol %s: %w", function, err)
	}
	return tpl.Render(res.Prefix, module, function), nil
}
