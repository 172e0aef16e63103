// pkg/cleaner/run_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: afero MemMapFs, real OS filesystem
// PURPOSE: Test the full removal flow and its on-disk effects

package cleaner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/hasscleanup/pkg/errors"
	"github.com/arthur-debert/hasscleanup/pkg/registry"
)

func TestRun_RemovesDeviceAndEntities(t *testing.T) {
	mem := newStorage(t, scenarioDevices, scenarioEntities)

	result, err := Run(testOptions(mem, testConfig("a")))
	require.NoError(t, err)

	assert.Equal(t, StatusRemoved, result.Status)
	assert.Equal(t, 2, result.EntitiesRemoved)
	assert.Equal(t, 1, result.DevicesRemoved)
	assert.Equal(t, "Device ID a removed from 1 device and 2 entities", result.Message())
	assert.Equal(t, []string{
		filepath.Join(storageDir, registry.EntityRegistryFile),
		filepath.Join(storageDir, registry.DeviceRegistryFile),
	}, result.Written)
	assert.Len(t, result.Backups, 2)

	devices, err := registry.ParseDeviceRegistry(registry.DeviceRegistryFile, []byte(readFile(t, mem, registry.DeviceRegistryFile)), registry.MissingFieldFail)
	require.NoError(t, err)
	require.Len(t, devices.Devices, 1)
	assert.Equal(t, "b", devices.Devices[0].ID)

	entities, err := registry.ParseEntityRegistry(registry.EntityRegistryFile, []byte(readFile(t, mem, registry.EntityRegistryFile)), registry.MissingFieldFail)
	require.NoError(t, err)
	require.Len(t, entities.Entities, 1)
	assert.Equal(t, "b", entities.Entities[0].DeviceID)

	assert.Equal(t, scenarioDevices, readFile(t, mem, "core.device_registry.1700000000.bak"))
	assert.Equal(t, scenarioEntities, readFile(t, mem, "core.entity_registry.1700000000.bak"))
}

func TestRun_NotFoundWritesNothing(t *testing.T) {
	for _, dryRun := range []bool{false, true} {
		t.Run(map[bool]string{false: "real", true: "dry"}[dryRun], func(t *testing.T) {
			mem := newStorage(t, scenarioDevices, scenarioEntities)
			before := snapshot(t, mem)
			cfg := testConfig("zzz")
			cfg.DryRun = dryRun

			result, err := Run(testOptions(mem, cfg))
			require.NoError(t, err)

			assert.Equal(t, StatusNotFound, result.Status)
			assert.Equal(t, 0, result.Total())
			assert.Empty(t, result.Written)
			assert.Empty(t, result.Backups)
			assert.Equal(t, "Device ID zzz not found. Not writing to disk", result.Message())
			assert.Equal(t, before, snapshot(t, mem))
		})
	}
}

func TestRun_DryRunLeavesFilesIdentical(t *testing.T) {
	mem := newStorage(t, scenarioDevices, scenarioEntities)
	before := snapshot(t, mem)
	cfg := testConfig("a")
	cfg.DryRun = true

	result, err := Run(testOptions(mem, cfg))
	require.NoError(t, err)

	assert.Equal(t, StatusDryRun, result.Status)
	assert.True(t, result.DryRun)
	assert.Equal(t, 2, result.EntitiesRemoved)
	assert.Equal(t, 1, result.DevicesRemoved)
	assert.Contains(t, result.Message(), "Dry run")
	assert.Equal(t, before, snapshot(t, mem), "dry run must not create or modify files")
}

func TestRun_SkipBackup(t *testing.T) {
	mem := newStorage(t, scenarioDevices, scenarioEntities)
	cfg := testConfig("a")
	cfg.Backup.Enabled = false

	result, err := Run(testOptions(mem, cfg))
	require.NoError(t, err)

	assert.Empty(t, result.Backups)
	files := snapshot(t, mem)
	assert.Len(t, files, 2, "no backup files expected")
}

func TestRun_OnlyChangedRegistryIsWritten(t *testing.T) {
	// Entities reference a device that is already gone from the device registry.
	mem := newStorage(t, scenarioDevices, `{"data": {"entities": [{"device_id": "ghost"}, {"device_id": "a"}]}}`)
	cfg := testConfig("ghost")
	cfg.Backup.Enabled = false

	result, err := Run(testOptions(mem, cfg))
	require.NoError(t, err)

	assert.Equal(t, StatusRemoved, result.Status)
	assert.Equal(t, Removal{EntitiesRemoved: 1}, result.Removal)
	assert.Equal(t, []string{filepath.Join(storageDir, registry.EntityRegistryFile)}, result.Written)
	assert.Equal(t, scenarioDevices, readFile(t, mem, registry.DeviceRegistryFile))
}

func TestRun_NullDeviceIDsSurvive(t *testing.T) {
	mem := newStorage(t, scenarioDevices, `{"data": {"entities": [{"entity_id": "sun.sun", "device_id": null}, {"device_id": "a"}]}}`)
	cfg := testConfig("a")

	_, err := Run(testOptions(mem, cfg))
	require.NoError(t, err)

	entities, err := registry.ParseEntityRegistry(registry.EntityRegistryFile, []byte(readFile(t, mem, registry.EntityRegistryFile)), registry.MissingFieldFail)
	require.NoError(t, err)
	require.Len(t, entities.Entities, 1)
	assert.Equal(t, "sun.sun", entities.Entities[0].EntityID)
}

func TestRun_SkipPolicyKeepsIncompleteRecords(t *testing.T) {
	mem := newStorage(t, `{"data": {"devices": [{"name": "legacy"}, {"id": "a"}]}}`, scenarioEntities)
	cfg := testConfig("a")
	cfg.Registry.MissingField = string(registry.MissingFieldSkip)

	result, err := Run(testOptions(mem, cfg))
	require.NoError(t, err)
	assert.Equal(t, 1, result.DevicesRemoved)

	assert.Contains(t, readFile(t, mem, registry.DeviceRegistryFile), `"legacy"`)
}

func TestRun_Errors(t *testing.T) {
	t.Run("no device id", func(t *testing.T) {
		_, err := Run(testOptions(newStorage(t, scenarioDevices, scenarioEntities), testConfig("")))
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("missing directory", func(t *testing.T) {
		cfg := testConfig("a")
		cfg.Directory = "/missing"
		_, err := Run(testOptions(newStorage(t, scenarioDevices, scenarioEntities), cfg))
		assert.True(t, errors.IsErrorCode(err, errors.ErrDirectoryNotFound))
	})

	t.Run("malformed json writes nothing", func(t *testing.T) {
		mem := newStorage(t, "not json", scenarioEntities)
		before := snapshot(t, mem)

		_, err := Run(testOptions(mem, testConfig("a")))
		assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedJSON))
		assert.Equal(t, before, snapshot(t, mem))
	})
}

func TestRun_OSFilesystem(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, registry.DeviceRegistryFile), []byte(scenarioDevices), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, registry.EntityRegistryFile), []byte(scenarioEntities), 0600))
	cfg := testConfig("b")
	cfg.Directory = dir

	result, err := Run(Options{Config: cfg, Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	assert.Equal(t, Removal{EntitiesRemoved: 1, DevicesRemoved: 1}, result.Removal)

	info, err := os.Stat(filepath.Join(dir, registry.DeviceRegistryFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "file mode is preserved")

	backup, err := os.ReadFile(filepath.Join(dir, "core.device_registry.1700000000.bak"))
	require.NoError(t, err)
	assert.Equal(t, scenarioDevices, string(backup))
}
