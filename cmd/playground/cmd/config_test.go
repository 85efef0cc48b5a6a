package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openplayground/catalog/configs"
	"github.com/openplayground/catalog/internal/config"
)

func TestConfigCmd_HasSubcommands(t *testing.T) {
	// Given: root command
	cmd := NewRootCmd()

	// When: finding config command
	configCmd, _, err := cmd.Find([]string{"config"})
	require.NoError(t, err)

	// Then: init, show and path exist
	names := make(map[string]bool)
	for _, sc := range configCmd.Commands() {
		names[sc.Name()] = true
	}
	assert.True(t, names["init"], "should have init command")
	assert.True(t, names["show"], "should have show command")
	assert.True(t, names["path"], "should have path command")
}

func TestConfigInitCmd_WritesProjectTemplate(t *testing.T) {
	// Given: an empty directory
	dir := setupWorkspace(t)

	// When: running config init
	out, err := runCmd(t, "--config-dir", dir, "config", "init")

	// Then: .playground.yaml holds the template
	require.NoError(t, err)
	assert.Contains(t, out, "Created configuration")
	data, err := os.ReadFile(filepath.Join(dir, config.ProjectConfigName))
	require.NoError(t, err)
	assert.Equal(t, configs.ProjectConfigTemplate, string(data))

	// And: the template loads
	_, err = config.Load(dir)
	require.NoError(t, err)
}

func TestConfigInitCmd_KeepsExistingWithoutForce(t *testing.T) {
	// Given: an existing project config
	dir := setupWorkspace(t)
	path := filepath.Join(dir, config.ProjectConfigName)
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o644))

	// When: running config init without --force
	out, err := runCmd(t, "--config-dir", dir, "config", "init")

	// Then: the file is untouched
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", string(data))

	// When: running with --force
	_, err = runCmd(t, "--config-dir", dir, "config", "init", "--force")

	// Then: the template replaces it
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, configs.ProjectConfigTemplate, string(data))
}

func TestConfigInitCmd_User(t *testing.T) {
	// Given: an isolated XDG_CONFIG_HOME
	dir := setupWorkspace(t)

	// When: running config init --user
	_, err := runCmd(t, "--config-dir", dir, "config", "init", "--user")

	// Then: the user template is written to the user config path
	require.NoError(t, err)
	data, err := os.ReadFile(config.GetUserConfigPath())
	require.NoError(t, err)
	assert.Equal(t, configs.UserConfigTemplate, string(data))
}

func TestConfigShowCmd_AppliesEnvOverrides(t *testing.T) {
	// Given: an env override
	dir := setupWorkspace(t)
	t.Setenv("PLAYGROUND_SERVER_PORT", "9100")

	// When: showing the merged configuration
	out, err := runCmd(t, "--config-dir", dir, "config", "show")

	// Then: the override is visible
	require.NoError(t, err)
	assert.Contains(t, out, "merged")
	assert.Contains(t, out, "port: 9100")

	// When: showing defaults only
	out, err = runCmd(t, "--config-dir", dir, "config", "show", "--defaults")

	// Then: the built-in port is shown
	require.NoError(t, err)
	assert.Contains(t, out, "port: 8787")
}

func TestConfigPathCmd_OutputsPath(t *testing.T) {
	// Given: temp home directory
	setupWorkspace(t)

	// When: printing the path
	out, err := runCmd(t, "config", "path")

	// Then: it is the user config path
	require.NoError(t, err)
	assert.Equal(t, config.GetUserConfigPath(), strings.TrimSpace(out))
}
