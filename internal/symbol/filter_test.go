package symbol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRules_Empty(t *testing.T) {
	rules, err := CompileRules(RuleSpecs{})
	require.NoError(t, err)

	// Default rule set includes everything.
	funcs := []string{"on_load", "on_unload", "internal_helper"}
	assert.Equal(t, funcs, rules.Filter(funcs))
}

func TestCompileRules_ExcludeOnlyShrinks(t *testing.T) {
	funcs := []string{"on_load", "on_unload", "debug_hook"}

	rules, err := CompileRules(RuleSpecs{ExcludeGlob: "debug_*"})
	require.NoError(t, err)

	got := rules.Filter(funcs)
	assert.Equal(t, []string{"on_load", "on_unload"}, got)

	// Adding another exclude can only remove candidates, never add.
	tighter, err := CompileRules(RuleSpecs{ExcludeGlob: "debug_*,on_unload"})
	require.NoError(t, err)
	assert.Equal(t, []string{"on_load"}, tighter.Filter(funcs))
}

func TestCompileRules_IncludeUnion(t *testing.T) {
	funcs := []string{"on_load", "hook_attach", "render_frame", "misc"}

	// Regex and glob includes form one working set by union.
	rules, err := CompileRules(RuleSpecs{
		IncludeRegex: "on_.*",
		IncludeGlob:  "hook_*",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"on_load", "hook_attach"}, rules.Filter(funcs))
}

func TestCompileRules_CommaSeparatedAlternatives(t *testing.T) {
	funcs := []string{"alpha", "beta", "gamma", "delta"}

	rules, err := CompileRules(RuleSpecs{IncludeGlob: "alpha, gamma"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "gamma"}, rules.Filter(funcs))
}

func TestCompileRules_RegexAnchored(t *testing.T) {
	rules, err := CompileRules(RuleSpecs{IncludeRegex: "load"})
	require.NoError(t, err)

	// Full-string matching: "on_load" must not match the bare "load" regex.
	assert.True(t, rules.ShouldRename("load"))
	assert.False(t, rules.ShouldRename("on_load"))
}

func TestCompileRules_ExcludeAfterInclude(t *testing.T) {
	funcs := []string{"ext_read", "ext_write", "ext_debug"}

	rules, err := CompileRules(RuleSpecs{
		IncludeGlob:  "ext_*",
		ExcludeRegex: "ext_debug",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ext_read", "ext_write"}, rules.Filter(funcs))
}

func TestCompileRules_InvalidPatterns(t *testing.T) {
	tests := []struct {
		name   string
		specs  RuleSpecs
		syntax string
	}{
		{"bad include regex", RuleSpecs{IncludeRegex: "("}, "regex"},
		{"bad exclude regex", RuleSpecs{ExcludeRegex: "[z-a]"}, "regex"},
		{"bad include glob", RuleSpecs{IncludeGlob: "[unclosed"}, "glob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileRules(tt.specs)
			require.Error(t, err)

			var ip *InvalidPatternError
			require.True(t, errors.As(err, &ip))
			assert.Equal(t, tt.syntax, ip.Syntax)
		})
	}
}

func TestSplitPatterns(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ", []string{"a", "b"}},
		{"", []string{}},
		{",,", []string{}},
		{"single", []string{"single"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitPatterns(tt.in), "SplitPatterns(%q)", tt.in)
	}
}
