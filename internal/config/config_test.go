package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	return xdg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 9, cfg.Browse.PageSize)
	assert.Equal(t, "default", cfg.Browse.DefaultSort)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 200*time.Millisecond, cfg.WatchDebounceDuration())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFilesUsesDefaults(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "projects.json"), cfg.Catalog.Path)
	assert.Equal(t, 9, cfg.Browse.PageSize)
}

func TestLoad_ProjectOverridesUser(t *testing.T) {
	// Given: a user config and a project config that disagree
	xdg := isolate(t)
	writeFile(t, filepath.Join(xdg, "openplayground", "config.yaml"), `
browse:
  page_size: 12
  default_sort: az
server:
  port: 9000
`)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectConfigName), `
browse:
  page_size: 6
catalog:
  path: data/projects.json
`)

	// When: loading
	cfg, err := Load(dir)

	// Then: project wins, user fills the rest, defaults remain elsewhere
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Browse.PageSize)
	assert.Equal(t, "az", cfg.Browse.DefaultSort)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, filepath.Join(dir, "data", "projects.json"), cfg.Catalog.Path)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
}

func TestLoad_RelativeStoragePathResolvesAgainstDir(t *testing.T) {
	// Given: a project config with a relative storage path
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectConfigName), `
storage:
  backend: file
  path: state/state.json
`)

	// When: loading from a different working directory
	t.Chdir(t.TempDir())
	cfg, err := Load(dir)

	// Then: the storage path is anchored at the config directory
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "state", "state.json"), cfg.Storage.Path)
	assert.True(t, filepath.IsAbs(cfg.Storage.Path))
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectConfigName), "server:\n  port: 9000\n")
	t.Setenv("PLAYGROUND_SERVER_PORT", "9100")
	t.Setenv("PLAYGROUND_BROWSE_DEFAULT_SORT", "newest")
	t.Setenv("PLAYGROUND_CATALOG_WATCH", "false")

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "newest", cfg.Browse.DefaultSort)
	assert.False(t, cfg.Catalog.Watch)
}

func TestLoad_FileBackendFollowsDefaultPath(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectConfigName), "storage:\n  backend: file\n")

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "state.json", filepath.Base(cfg.Storage.Path))
}

func TestLoad_InvalidYAML(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectConfigName), "browse: [unclosed")

	_, err := Load(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"page size", func(c *Config) { c.Browse.PageSize = 0 }, "browse.page_size"},
		{"sort", func(c *Config) { c.Browse.DefaultSort = "popular" }, "browse.default_sort"},
		{"backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"burst", func(c *Config) { c.Server.Burst = 0 }, "server.burst"},
		{"level", func(c *Config) { c.Server.LogLevel = "loud" }, "server.log_level"},
		{"debounce", func(c *Config) { c.Catalog.WatchDebounce = "soon" }, "catalog.watch_debounce"},
		{"buffer", func(c *Config) { c.Telemetry.BufferSize = 0 }, "telemetry.buffer_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWriteYAML_RoundTripsThroughLoad(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	cfg := NewConfig()
	cfg.Browse.PageSize = 3
	require.NoError(t, cfg.WriteYAML(filepath.Join(dir, ProjectConfigName)))

	loaded, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Browse.PageSize)
}

func TestAddr(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "127.0.0.1:8787", cfg.Addr())
}
