package cleaner

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/hasscleanup/pkg/config"
	"github.com/arthur-debert/hasscleanup/pkg/filesystem"
	"github.com/arthur-debert/hasscleanup/pkg/registry"
)

const storageDir = "/config/.storage"

var fixedNow = time.Unix(1700000000, 0)

const scenarioDevices = `{"version": 1, "data": {"devices": [{"id": "a"}, {"id": "b"}]}}`

const scenarioEntities = `{"version": 1, "data": {"entities": [{"device_id": "a"}, {"device_id": "a"}, {"device_id": "b"}]}}`

func testConfig(deviceID string) *config.Config {
	return &config.Config{
		Directory: storageDir,
		DeviceID:  deviceID,
		Backup:    config.BackupConfig{Enabled: true},
		Registry: config.RegistryConfig{
			DeviceFile:   registry.DeviceRegistryFile,
			EntityFile:   registry.EntityRegistryFile,
			Indent:       4,
			MissingField: string(registry.MissingFieldFail),
		},
		Output: config.OutputConfig{Format: "text"},
	}
}

// newStorage creates a MemMapFs holding the two registries
func newStorage(t *testing.T, devices, entities string) afero.Fs {
	t.Helper()
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll(storageDir, 0755))
	require.NoError(t, afero.WriteFile(mem, filepath.Join(storageDir, registry.DeviceRegistryFile), []byte(devices), 0644))
	require.NoError(t, afero.WriteFile(mem, filepath.Join(storageDir, registry.EntityRegistryFile), []byte(entities), 0644))
	return mem
}

func testOptions(mem afero.Fs, cfg *config.Config) Options {
	return Options{
		Config:     cfg,
		FileSystem: filesystem.NewAferoFS(mem),
		Now:        func() time.Time { return fixedNow },
	}
}

func readFile(t *testing.T, mem afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(mem, filepath.Join(storageDir, name))
	require.NoError(t, err)
	return string(data)
}

// snapshot returns every file in the storage dir keyed by name
func snapshot(t *testing.T, mem afero.Fs) map[string]string {
	t.Helper()
	entries, err := afero.ReadDir(mem, storageDir)
	require.NoError(t, err)
	files := make(map[string]string, len(entries))
	for _, e := range entries {
		files[e.Name()] = readFile(t, mem, e.Name())
	}
	return files
}
