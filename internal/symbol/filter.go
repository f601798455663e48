package symbol

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// InvalidPatternError reports an include/exclude pattern that fails to
// compile as regex or glob.
type InvalidPatternError struct {
	Kind    string // "include" or "exclude"
	Syntax  string // "regex" or "glob"
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid %s %s pattern %q: %v", e.Kind, e.Syntax, e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// RuleSpecs holds raw pattern strings as configured. Each string may encode
// multiple comma-separated sub-patterns, each an independent alternative.
type RuleSpecs struct {
	IncludeRegex string
	ExcludeRegex string
	IncludeGlob  string
	ExcludeGlob  string
}

// Rules is a compiled filter set. Include rules are evaluated first: the
// union of their matches forms the working set (all functions when no
// include rule is configured). Exclude rules then remove matches; they can
// only shrink the working set, never grow it.
type Rules struct {
	includeRegex []*regexp.Regexp
	excludeRegex []*regexp.Regexp
	includeGlob  []glob.Glob
	excludeGlob  []glob.Glob
}

// SplitPatterns splits a comma-separated pattern string into trimmed,
// non-empty sub-patterns.
func SplitPatterns(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CompileRules compiles all configured patterns. Any failure aborts with
// InvalidPatternError; no partial rule set is ever returned.
func CompileRules(specs RuleSpecs) (*Rules, error) {
	r := &Rules{}
	var err error
	if r.includeRegex, err = compileRegexes(specs.IncludeRegex, "include"); err != nil {
		return nil, err
	}
	if r.excludeRegex, err = compileRegexes(specs.ExcludeRegex, "exclude"); err != nil {
		return nil, err
	}
	if r.includeGlob, err = compileGlobs(specs.IncludeGlob, "include"); err != nil {
		return nil, err
	}
	if r.excludeGlob, err = compileGlobs(specs.ExcludeGlob, "exclude"); err != nil {
		return nil, err
	}
	return r, nil
}

func compileRegexes(spec, kind string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, p := range SplitPatterns(spec) {
		// Regexes match the bare function name full-string.
		re, err := regexp.Compile(`\A(?:` + p + `)\z`)
		if err != nil {
			return nil, &InvalidPatternError{Kind: kind, Syntax: "regex", Pattern: p, Err: err}
		}
		out = append(out, re)
	}
	return out, nil
}

func compileGlobs(spec, kind string) ([]glob.Glob, error) {
	var out []glob.Glob
	for _, p := range SplitPatterns(spec) {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, &InvalidPatternError{Kind: kind, Syntax: "glob", Pattern: p, Err: err}
		}
		out = append(out, g)
	}
	return out, nil
}

// hasIncludes reports whether any include rule is configured.
func (r *Rules) hasIncludes() bool {
	return len(r.includeRegex) > 0 || len(r.includeGlob) > 0
}

// Included reports whether name enters the working set.
func (r *Rules) Included(name string) bool {
	if !r.hasIncludes() {
		return true
	}
	for _, re := range r.includeRegex {
		if re.MatchString(name) {
			return true
		}
	}
	for _, g := range r.includeGlob {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Excluded reports whether name is removed from the working set.
func (r *Rules) Excluded(name string) bool {
	for _, re := range r.excludeRegex {
		if re.MatchString(name) {
			return true
		}
	}
	for _, g := range r.excludeGlob {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// ShouldRename reports whether the function survives filtering. Functions
// that do not survive keep their originally declared name.
func (r *Rules) ShouldRename(name string) bool {
	return r.Included(name) && !r.Excluded(name)
}

// Filter returns the functions surviving the include/exclude sequence,
// preserving input order.
func (r *Rules) Filter(functions []string) []string {
	out := make([]string, 0, len(functions))
	for _, f := range functions {
		if r.ShouldRename(f) {
			out = append(out, f)
		}
	}
	return out
}
