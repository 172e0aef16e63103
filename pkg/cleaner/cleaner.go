package cleaner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/hasscleanup/pkg/config"
	"github.com/arthur-debert/hasscleanup/pkg/errors"
	"github.com/arthur-debert/hasscleanup/pkg/filesystem"
	"github.com/arthur-debert/hasscleanup/pkg/logging"
	"github.com/arthur-debert/hasscleanup/pkg/registry"
)

// Options configures a Cleaner
type Options struct {
	// Config is the resolved run configuration. Required.
	Config *config.Config
	// FileSystem is the filesystem to use (optional, defaults to OS filesystem)
	FileSystem filesystem.FS
	// Now supplies the backup timestamp (optional, defaults to time.Now)
	Now func() time.Time
}

// Removal counts the records dropped by RemoveDevice
type Removal struct {
	EntitiesRemoved int `json:"entities_removed"`
	DevicesRemoved  int `json:"devices_removed"`
}

// Total is the number of records removed across both registries
func (r Removal) Total() int {
	return r.EntitiesRemoved + r.DevicesRemoved
}

// Cleaner holds the two registries of one storage directory
type Cleaner struct {
	cfg *config.Config
	fs  filesystem.FS
	now func() time.Time
	log zerolog.Logger

	devices  *registry.DeviceRegistry
	entities *registry.EntityRegistry
}

// New creates a Cleaner. Nothing is read until Validate or Load.
func New(opts Options) (*Cleaner, error) {
	if opts.Config == nil {
		return nil, errors.New(errors.ErrInternal, "cleaner requires a config")
	}
	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Cleaner{
		cfg: opts.Config,
		fs:  fsys,
		now: now,
		log: logging.GetLogger("cleaner").With().
			Str("run_id", uuid.New().String()).
			Str("directory", opts.Config.Directory).
			Logger(),
	}, nil
}

// Path returns the location of a registry file inside the storage directory
func (c *Cleaner) Path(name string) string {
	return filepath.Join(c.cfg.Directory, name)
}

func (c *Cleaner) registryFiles() []string {
	return []string{c.cfg.Registry.DeviceFile, c.cfg.Registry.EntityFile}
}

// Validate checks that the storage directory and both registry files exist
func (c *Cleaner) Validate() error {
	info, err := c.fs.Stat(c.cfg.Directory)
	if err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrDirectoryNotFound, "can't find dir %s", c.cfg.Directory).
			WithDetail("directory", c.cfg.Directory)
	}

	var missing []string
	for _, name := range c.registryFiles() {
		info, err := c.fs.Stat(c.Path(name))
		if err != nil || !info.Mode().IsRegular() {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.Newf(errors.ErrMissingConfigFile, "can't find conffiles in %s: %v", c.cfg.Directory, missing).
			WithDetail("directory", c.cfg.Directory).
			WithDetail("missing", missing)
	}
	return nil
}

// Load reads and parses both registries
func (c *Cleaner) Load() error {
	done := logging.LogOperationStart(c.log, "load")
	defer done()

	policy := c.cfg.MissingFieldPolicy()

	raw, err := c.read(c.cfg.Registry.DeviceFile)
	if err != nil {
		return err
	}
	devices, err := registry.ParseDeviceRegistry(c.cfg.Registry.DeviceFile, raw, policy)
	if err != nil {
		return err
	}

	raw, err = c.read(c.cfg.Registry.EntityFile)
	if err != nil {
		return err
	}
	entities, err := registry.ParseEntityRegistry(c.cfg.Registry.EntityFile, raw, policy)
	if err != nil {
		return err
	}

	c.devices, c.entities = devices, entities
	c.log.Info().
		Int("devices", len(devices.Devices)).
		Int("entities", len(entities.Entities)).
		Msg("Registries loaded")
	return nil
}

func (c *Cleaner) read(name string) ([]byte, error) {
	path := c.Path(name)
	raw, err := c.fs.ReadFile(path)
	if err == nil {
		return raw, nil
	}
	code := errors.ErrFileAccess
	if os.IsNotExist(err) {
		code = errors.ErrFileNotFound
	}
	return nil, errors.Wrapf(err, code, "failed to read %s", path).WithDetail("file", name)
}

// Devices returns the loaded device registry, or nil before Load
func (c *Cleaner) Devices() *registry.DeviceRegistry {
	return c.devices
}

// Entities returns the loaded entity registry, or nil before Load
func (c *Cleaner) Entities() *registry.EntityRegistry {
	return c.entities
}

// RemoveDevice drops the device with id deviceID and every entity whose
// device_id points at it. Entities are removed before the device.
func (c *Cleaner) RemoveDevice(deviceID string) (Removal, error) {
	if deviceID == "" {
		return Removal{}, errors.New(errors.ErrInvalidInput, "device id must not be empty")
	}
	if c.devices == nil || c.entities == nil {
		return Removal{}, errors.New(errors.ErrInternal, "registries are not loaded")
	}

	devIdxs := registry.FindMatchingIndices(c.devices.Devices, deviceID, registry.DeviceIDField, true)
	entIdxs := registry.FindMatchingIndices(c.entities.Entities, deviceID, registry.EntityDeviceField, false)

	var removal Removal
	c.entities.Entities, removal.EntitiesRemoved = registry.RemoveByIndices(c.entities.Entities, entIdxs, "Entities")
	c.devices.Devices, removal.DevicesRemoved = registry.RemoveByIndices(c.devices.Devices, devIdxs, "Devices")

	c.log.Info().
		Str("device_id", deviceID).
		Int("entities_removed", removal.EntitiesRemoved).
		Int("devices_removed", removal.DevicesRemoved).
		Msg("Removal computed")
	return removal, nil
}

// Persist writes the named registry back to its file, replacing it
// atomically. It returns the path written.
func (c *Cleaner) Persist(name string) (string, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case c.devices == nil || c.entities == nil:
		return "", errors.New(errors.ErrInternal, "registries are not loaded")
	case name == c.cfg.Registry.DeviceFile:
		data, err = c.devices.Encode(c.cfg.Registry.Indent)
	case name == c.cfg.Registry.EntityFile:
		data, err = c.entities.Encode(c.cfg.Registry.Indent)
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown registry %q", name)
	}
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "failed to encode %s", name)
	}

	if c.cfg.Debug {
		c.log.Debug().Str("file", name).Msg(string(data))
	}

	path := c.Path(name)
	if err := filesystem.WriteFileAtomic(c.fs, path, data); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path).WithDetail("file", name)
	}
	c.log.Info().Str("path", path).Int("bytes", len(data)).Msg("Registry written")
	return path, nil
}

// Backup copies both registry files to <name>.<unix-timestamp>.bak next to
// the originals and returns the backup paths.
func (c *Cleaner) Backup() ([]string, error) {
	ts := c.now().Unix()
	var backups []string
	for _, name := range c.registryFiles() {
		src := c.Path(name)
		dst := fmt.Sprintf("%s.%d.bak", src, ts)
		if err := filesystem.CopyFile(c.fs, src, dst); err != nil {
			return backups, errors.Wrapf(err, errors.ErrBackup, "failed to back up %s", src).WithDetail("file", name)
		}
		c.log.Info().Str("source", src).Str("backup", dst).Msg("Backup created")
		backups = append(backups, dst)
	}
	return backups, nil
}
