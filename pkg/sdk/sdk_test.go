package sdk

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symforge/symforge/internal/config"
	"github.com/symforge/symforge/internal/symbol"
	"github.com/symforge/symforge/internal/testutil"
)

func clearSymforgeEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SYMFORGE_PREFIX", "SYMFORGE_SEP", "SYMFORGE_PRIORITY",
		"SYMFORGE_CONFIG", "SYMFORGE_TOP_PACKAGE", "SYMFORGE_REQUIRE_CONFIG",
		"SYMFORGE_ENFORCE_INHERIT", "SYMFORGE_INITIALIZED", "SYMFORGE_TRACE",
		"SYMFORGE_TRACE_FILE", "SYMFORGE_TRACE_HARD",
	} {
		t.Setenv(key, "")
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(testutil.NewTestLogger(t), Options{})
	require.NoError(t, err)
	return e
}

func TestEngine_EnvPrefixSymbol(t *testing.T) {
	clearSymforgeEnv(t)
	t.Setenv("SYMFORGE_PREFIX", "plugin")
	t.Setenv("SYMFORGE_PRIORITY", "attr,env_prefix,crate")

	e := newTestEngine(t)

	name, err := e.ResolveSymbol("my_export", "", Crate{Name: "child"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "plugin__my_export", name)
}

func TestEngine_AttrPrefixWins(t *testing.T) {
	clearSymforgeEnv(t)
	t.Setenv("SYMFORGE_PREFIX", "env_value")

	e := newTestEngine(t)

	name, err := e.ResolveSymbol("run", "", Crate{Name: "child", AttrPrefix: "inline"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "inline__run", name)
}

func TestEngine_FilteredFunctionKeepsDeclaredName(t *testing.T) {
	clearSymforgeEnv(t)
	t.Setenv("SYMFORGE_PREFIX", "hdr")

	e := newTestEngine(t)

	rules, err := symbol.CompileRules(symbol.RuleSpecs{ExcludeGlob: "internal_*"})
	require.NoError(t, err)

	name, err := e.ResolveSymbol("internal_helper", "", Crate{Name: "child"}, &SymbolOptions{Rules: rules})
	require.NoError(t, err)
	assert.Equal(t, "internal_helper", name)

	name, err = e.ResolveSymbol("public_api", "", Crate{Name: "child"}, &SymbolOptions{Rules: rules})
	require.NoError(t, err)
	assert.Equal(t, "hdr__public_api", name)
}

func TestEngine_PerCallTemplate(t *testing.T) {
	clearSymforgeEnv(t)
	t.Setenv("SYMFORGE_PREFIX", "hdr")

	e := newTestEngine(t)

	opts := &SymbolOptions{
		Template: symbol.NewTemplate("{prefix}_{module}_{name}{suffix}", "_", "_v1"),
	}
	name, err := e.ResolveSymbol("init", "audio", Crate{Name: "child"}, opts)
	require.NoError(t, err)
	assert.Equal(t, "hdr_audio_init_v1", name)
}

func TestEngine_MalformedPerCallTemplate(t *testing.T) {
	clearSymforgeEnv(t)
	t.Setenv("SYMFORGE_PREFIX", "hdr")

	e := newTestEngine(t)

	opts := &SymbolOptions{
		Template: symbol.NewTemplate("{prefix}{bogus}", "", ""),
	}
	_, err := e.ResolveSymbol("init", "", Crate{Name: "child"}, opts)
	require.Error(t, err)

	var mt *symbol.MalformedTemplateError
	assert.True(t, errors.As(err, &mt))
}

func TestEngine_ConfigFileDrivesResolution(t *testing.T) {
	clearSymforgeEnv(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "symforge.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
prefix = "cfg_prefix"
sep = "___"
priority = ["config", "crate"]

[overrides]
special = "pinned"
`), 0o644))
	t.Setenv("SYMFORGE_CONFIG", cfgPath)

	e := newTestEngine(t)

	name, err := e.ResolveSymbol("go", "", Crate{Name: "regular"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "cfg_prefix___go", name)

	res, err := e.ResolvePrefix(Crate{Name: "special"})
	require.NoError(t, err)
	assert.Equal(t, "pinned", res.Prefix)
	assert.True(t, res.OverrideApplied())
}

func TestEngine_RequireConfigFailsWithoutFile(t *testing.T) {
	clearSymforgeEnv(t)
	t.Setenv("SYMFORGE_PREFIX", "hdr")
	t.Setenv("SYMFORGE_REQUIRE_CONFIG", "true")
	t.Setenv("SYMFORGE_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	e := newTestEngine(t)

	_, err := e.ResolvePrefix(Crate{Name: "child"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "child")
}

func TestEngine_SnapshotExposed(t *testing.T) {
	clearSymforgeEnv(t)
	t.Setenv("SYMFORGE_TOP_PACKAGE", "app")

	e := newTestEngine(t)
	require.NotNil(t, e.Snapshot())
	assert.Equal(t, "app", e.Snapshot().TopPackage)
}

func TestNewWithSnapshot_MalformedConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "symforge.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("prefix = [broken"), 0o644))

	snap := &config.Snapshot{ConfigPath: cfgPath}
	_, err := NewWithSnapshot(snap, testutil.NewTestLogger(t), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed config document")
}
