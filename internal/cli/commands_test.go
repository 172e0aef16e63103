// internal/cli/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: real OS filesystem (t.TempDir)
// PURPOSE: Drive the command tree end to end

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/hasscleanup/pkg/config"
	"github.com/arthur-debert/hasscleanup/pkg/errors"
)

const (
	devicesJSON  = `{"data": {"devices": [{"id": "a", "name": "Lamp"}, {"id": "b", "name": "Plug"}]}}`
	entitiesJSON = `{"data": {"entities": [{"device_id": "a"}, {"device_id": "a"}, {"device_id": "b"}]}}`
)

// setupStorage isolates XDG dirs and writes both registries into a temp dir
func setupStorage(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "xdg-config"))
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(tmp, "xdg-config-dirs"))

	dir := filepath.Join(tmp, ".storage")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.device_registry"), []byte(devicesJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.entity_registry"), []byte(entitiesJSON), 0644))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func backups(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.bak"))
	require.NoError(t, err)
	return matches
}

func TestRoot_RemovesDevice(t *testing.T) {
	dir := setupStorage(t)

	out, err := execute(t, "-d", dir, "-i", "a", "-o", "text")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Device ID a removed from 1 device and 2 entities\n"))
	assert.Len(t, backups(t, dir), 2)

	data, err := os.ReadFile(filepath.Join(dir, "core.entity_registry"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"a"`)
	assert.Contains(t, string(data), "    ", "written with 4-space indent")
}

func TestRoot_NotFoundIsNotAnError(t *testing.T) {
	dir := setupStorage(t)

	out, err := execute(t, "-d", dir, "-i", "zzz", "-o", "text")
	require.NoError(t, err)

	assert.Equal(t, "Device ID zzz not found. Not writing to disk\n", out)
	assert.Empty(t, backups(t, dir))
}

func TestRoot_DryRun(t *testing.T) {
	dir := setupStorage(t)

	out, err := execute(t, "--directory", dir, "--device-id", "a", "--dry-run", "-o", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Dry run - device ID a would be removed from 1 device and 2 entities")
	data, err := os.ReadFile(filepath.Join(dir, "core.device_registry"))
	require.NoError(t, err)
	assert.Equal(t, devicesJSON, string(data))
	assert.Empty(t, backups(t, dir))
}

func TestRoot_SkipBackup(t *testing.T) {
	dir := setupStorage(t)

	_, err := execute(t, "-d", dir, "-i", "b", "-s", "-o", "text")
	require.NoError(t, err)
	assert.Empty(t, backups(t, dir))
}

func TestRoot_EnvDeviceID(t *testing.T) {
	dir := setupStorage(t)
	t.Setenv("HASSCLEANUP_DEVICE_ID", "b")
	t.Setenv("HASSCLEANUP_OUTPUT__FORMAT", "text")

	out, err := execute(t, "-d", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Device ID b removed from 1 device and 1 entities")
}

func TestRoot_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		dir := setupStorage(t)
		_, err := execute(t, "-d", filepath.Join(dir, "nope"), "-i", "a")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrDirectoryNotFound))
	})

	t.Run("missing device id", func(t *testing.T) {
		dir := setupStorage(t)
		_, err := execute(t, "-d", dir)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("bad output format", func(t *testing.T) {
		dir := setupStorage(t)
		_, err := execute(t, "-d", dir, "-i", "a", "-o", "xml")
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("missing config file", func(t *testing.T) {
		dir := setupStorage(t)
		_, err := execute(t, "-d", dir, "-i", "a", "-c", filepath.Join(dir, "nope.toml"))
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})
}

func TestDevicesCmd(t *testing.T) {
	dir := setupStorage(t)

	out, err := execute(t, "devices", "-d", dir, "-o", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Lamp")
	assert.Contains(t, out, "Plug")
	assert.Contains(t, out, "2 devices, 0 orphan entities, 0 unassigned entities")
	assert.Empty(t, backups(t, dir))
}

func TestConfigCmd(t *testing.T) {
	dir := setupStorage(t)
	cfgFile := filepath.Join(dir, "..", "hasscleanup.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("[registry]\nindent = 2\nmissing_field = \"skip\"\n"), 0644))

	t.Run("toml", func(t *testing.T) {
		out, err := execute(t, "config", "-c", cfgFile, "-d", dir)
		require.NoError(t, err)

		var cfg config.Config
		require.NoError(t, toml.Unmarshal([]byte(out), &cfg))
		assert.Equal(t, dir, cfg.Directory)
		assert.Equal(t, 2, cfg.Registry.Indent)
		assert.Equal(t, "skip", cfg.Registry.MissingField)
		assert.True(t, cfg.Backup.Enabled)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := execute(t, "config", "-c", cfgFile, "--format", "yaml")
		require.NoError(t, err)

		var cfg config.Config
		require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
		assert.Equal(t, "core.device_registry", cfg.Registry.DeviceFile)
		assert.Equal(t, 2, cfg.Registry.Indent)
	})

	t.Run("defaults", func(t *testing.T) {
		out, err := execute(t, "config", "--defaults")
		require.NoError(t, err)
		assert.Equal(t, config.DefaultsContent(), out)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := execute(t, "config", "-c", cfgFile, "--format", "ini")
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestCompletionCmd(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "hasscleanup")
		})
	}

	t.Run("unsupported shell", func(t *testing.T) {
		_, err := execute(t, "completion", "tcsh")
		assert.Error(t, err)
	})
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hasscleanup version dev")

	out, err = execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "Commit: unknown")
}

func TestHelpTopics(t *testing.T) {
	setupStorage(t)

	out, err := execute(t, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "backups")
	assert.Contains(t, out, "--dry-run")

	out, err = execute(t, "help", "backups")
	require.NoError(t, err)
	assert.Contains(t, out, "core.device_registry.1700000000.bak")
	assert.Contains(t, out, "A run that writes nothing makes no backup.")

	_, err = execute(t, "help", "nosuch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown help topic "nosuch"`)
}

func TestRun_RendersErrors(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		dir := setupStorage(t)
		missing := filepath.Join(dir, "nope")
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		code := run([]string{"-i", "a", "-d", missing, "-o", "json"}, stdout, stderr)

		assert.Equal(t, 1, code)
		assert.Empty(t, stdout.String())
		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(stderr.Bytes(), &got), stderr.String())
		assert.Equal(t, "DIRECTORY_NOT_FOUND", got["code"])
		assert.Equal(t, map[string]interface{}{"directory": missing}, got["details"])
		assert.Contains(t, got["error"], "can't find dir")
	})

	t.Run("text", func(t *testing.T) {
		dir := setupStorage(t)
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		code := run([]string{"-i", "a", "-d", filepath.Join(dir, "nope"), "-o", "text"}, stdout, stderr)

		assert.Equal(t, 1, code)
		assert.True(t, strings.HasPrefix(stderr.String(), "Error: [DIRECTORY_NOT_FOUND] can't find dir"))
	})

	t.Run("config failure falls back to the raw flag", func(t *testing.T) {
		dir := setupStorage(t)
		stderr := &bytes.Buffer{}

		code := run([]string{"-d", dir, "-i", "a", "-o", "json", "-c", filepath.Join(dir, "nope.toml")}, &bytes.Buffer{}, stderr)

		assert.Equal(t, 1, code)
		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(stderr.Bytes(), &got), stderr.String())
		assert.Equal(t, "CONFIG_LOAD", got["code"])
	})

	t.Run("success", func(t *testing.T) {
		dir := setupStorage(t)
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		code := run([]string{"-i", "zzz", "-d", dir, "-o", "text"}, stdout, stderr)

		assert.Equal(t, 0, code)
		assert.Empty(t, stderr.String())
		assert.Equal(t, "Device ID zzz not found. Not writing to disk\n", stdout.String())
	})
}

func TestRootCmd_FlagCompletion(t *testing.T) {
	cmd := NewRootCmd()

	directory := cmd.PersistentFlags().Lookup("directory")
	require.NotNil(t, directory)
	_, ok := directory.Annotations[cobra.BashCompSubdirsInDir]
	assert.True(t, ok, "directory completes to directories")

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, []string{"toml", "yaml", "yml"}, configFlag.Annotations[cobra.BashCompFilenameExt])
}
