package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestTakeSnapshot_ReadsEnvironment(t *testing.T) {
	clearSymforgeEnv(t)
	t.Setenv("SYMFORGE_PREFIX", "plugin")
	t.Setenv("SYMFORGE_PRIORITY", "attr, env_prefix ,crate")
	t.Setenv("SYMFORGE_ENFORCE_INHERIT", "yes")
	t.Setenv("SYMFORGE_TRACE", "1")

	snap, err := TakeSnapshot()
	require.NoError(t, err)

	assert.Equal(t, "plugin", snap.Prefix)
	assert.Equal(t, []string{"attr", "env_prefix", "crate"}, snap.Priority)
	assert.True(t, snap.EnforceInherit)
	assert.True(t, snap.Trace)
	assert.False(t, snap.RequireConfig)
	assert.NotZero(t, snap.TakenUnix)
}

func TestTakeSnapshot_InvalidBool(t *testing.T) {
	clearSymforgeEnv(t)
	t.Setenv("SYMFORGE_TRACE", "maybe")

	_, err := TakeSnapshot()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SYMFORGE_TRACE")
}

func TestParseTruthy(t *testing.T) {
	truthy := []string{"1", "true", "yes", "on", "YES", " On "}
	for _, v := range truthy {
		got, err := ParseTruthy(v)
		require.NoError(t, err, "value %q", v)
		assert.True(t, got, "value %q", v)
	}

	falsy := []string{"0", "false", "no", "off", ""}
	for _, v := range falsy {
		got, err := ParseTruthy(v)
		require.NoError(t, err, "value %q", v)
		assert.False(t, got, "value %q", v)
	}

	_, err := ParseTruthy("definitely")
	require.Error(t, err)
}

func TestCheckInitialized(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "symforge.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("prefix = \"app\"\n"), 0o644))

	tests := []struct {
		name    string
		snap    Snapshot
		wantErr string
	}{
		{
			name:    "not initialized",
			snap:    Snapshot{},
			wantErr: "SYMFORGE_INITIALIZED",
		},
		{
			name:    "missing config path",
			snap:    Snapshot{Initialized: true},
			wantErr: "SYMFORGE_CONFIG",
		},
		{
			name:    "config file missing",
			snap:    Snapshot{Initialized: true, ConfigPath: "/nope/symforge.toml"},
			wantErr: "missing file",
		},
		{
			name:    "require config unset",
			snap:    Snapshot{Initialized: true, ConfigPath: cfgPath},
			wantErr: "SYMFORGE_REQUIRE_CONFIG",
		},
		{
			name:    "enforce inherit unset",
			snap:    Snapshot{Initialized: true, ConfigPath: cfgPath, RequireConfig: true},
			wantErr: "SYMFORGE_ENFORCE_INHERIT",
		},
		{
			name: "fully initialized",
			snap: Snapshot{Initialized: true, ConfigPath: cfgPath, RequireConfig: true, EnforceInherit: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snap.CheckInitialized()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "symforge.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
prefix = "hdr"
sep = "__"
priority = ["env_prefix", "crate"]

[overrides]
child = "forced"
`), 0o644))

	snap := &Snapshot{ConfigPath: path}
	f, reachable, err := snap.LoadConfigFile()
	require.NoError(t, err)
	assert.True(t, reachable)
	assert.Equal(t, "hdr", f.Prefix)
	assert.Equal(t, "__", f.Sep)
	assert.Equal(t, []string{"env_prefix", "crate"}, f.Priority)
	assert.Equal(t, map[string]string{"child": "forced"}, f.Overrides)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	snap := &Snapshot{ConfigPath: "/does/not/exist.toml"}
	f, reachable, err := snap.LoadConfigFile()
	require.NoError(t, err)
	assert.False(t, reachable)
	assert.Nil(t, f)
}

func TestLoadConfigFile_NoPathConfigured(t *testing.T) {
	snap := &Snapshot{}
	f, reachable, err := snap.LoadConfigFile()
	require.NoError(t, err)
	assert.False(t, reachable)
	assert.Nil(t, f)
}

func TestLoadConfigFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "symforge.toml")
	require.NoError(t, os.WriteFile(path, []byte("prefix = [unterminated"), 0o644))

	snap := &Snapshot{ConfigPath: path}
	_, reachable, err := snap.LoadConfigFile()
	require.Error(t, err)
	assert.True(t, reachable)
	assert.Contains(t, err.Error(), "malformed config document")
}
