package config

import (
	"strings"

	"github.com/arthur-debert/hasscleanup/pkg/errors"
	"github.com/arthur-debert/hasscleanup/pkg/registry"
)

// Config is the resolved configuration for one run
type Config struct {
	Directory string `koanf:"directory" toml:"directory" yaml:"directory"`
	DeviceID  string `koanf:"device_id" toml:"device_id" yaml:"device_id"`
	DryRun    bool   `koanf:"dry_run" toml:"dry_run" yaml:"dry_run"`
	Debug     bool   `koanf:"debug" toml:"debug" yaml:"debug"`

	Backup   BackupConfig   `koanf:"backup" toml:"backup" yaml:"backup"`
	Registry RegistryConfig `koanf:"registry" toml:"registry" yaml:"registry"`
	Output   OutputConfig   `koanf:"output" toml:"output" yaml:"output"`
}

// BackupConfig controls the pre-write backup copies
type BackupConfig struct {
	Enabled bool `koanf:"enabled" toml:"enabled" yaml:"enabled"`
}

// RegistryConfig names the registry files and how they are read and written
type RegistryConfig struct {
	DeviceFile   string `koanf:"device_file" toml:"device_file" yaml:"device_file"`
	EntityFile   string `koanf:"entity_file" toml:"entity_file" yaml:"entity_file"`
	Indent       int    `koanf:"indent" toml:"indent" yaml:"indent"`
	MissingField string `koanf:"missing_field" toml:"missing_field" yaml:"missing_field"`
}

// OutputConfig selects how results are rendered
type OutputConfig struct {
	Format string `koanf:"format" toml:"format" yaml:"format"`
}

// MaxIndent bounds registry.indent
const MaxIndent = 8

var outputFormats = []string{"auto", "term", "terminal", "text", "plain", "json"}

// MissingFieldPolicy returns the parsed registry.missing_field value
func (c *Config) MissingFieldPolicy() registry.MissingFieldPolicy {
	p, err := registry.ParseMissingFieldPolicy(c.Registry.MissingField)
	if err != nil {
		return registry.MissingFieldFail
	}
	return p
}

// Validate checks value ranges. It does not touch the filesystem.
func (c *Config) Validate() error {
	if c.Directory == "" {
		c.Directory = "."
	}
	c.DeviceID = strings.TrimSpace(c.DeviceID)

	if c.Registry.DeviceFile == "" || c.Registry.EntityFile == "" {
		return errors.New(errors.ErrConfigValid, "registry file names must not be empty")
	}
	if c.Registry.DeviceFile == c.Registry.EntityFile {
		return errors.Newf(errors.ErrConfigValid, "device and entity registry are the same file %q", c.Registry.DeviceFile)
	}
	if c.Registry.Indent < 0 || c.Registry.Indent > MaxIndent {
		return errors.Newf(errors.ErrConfigValid, "registry.indent must be between 0 and %d, got %d", MaxIndent, c.Registry.Indent)
	}
	if _, err := registry.ParseMissingFieldPolicy(c.Registry.MissingField); err != nil {
		return err
	}

	format := strings.ToLower(c.Output.Format)
	valid := format == ""
	for _, f := range outputFormats {
		if f == format {
			valid = true
			break
		}
	}
	if !valid {
		return errors.Newf(errors.ErrInvalidInput, "unknown output format %q", c.Output.Format)
	}
	return nil
}
