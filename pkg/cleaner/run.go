package cleaner

import (
	"fmt"

	"github.com/arthur-debert/hasscleanup/pkg/errors"
)

// Status is the outcome of a run that did not fail
type Status string

const (
	// StatusRemoved means records were removed and written
	StatusRemoved Status = "removed"
	// StatusNotFound means nothing referenced the device; nothing was written
	StatusNotFound Status = "not_found"
	// StatusDryRun means records matched but the run was dry
	StatusDryRun Status = "dry_run"
)

// Result reports what a run did
type Result struct {
	DeviceID  string `json:"device_id"`
	Directory string `json:"directory"`
	Status    Status `json:"status"`
	DryRun    bool   `json:"dry_run"`
	Removal
	Written []string `json:"written"`
	Backups []string `json:"backups"`
}

// Message is the one-line human summary of the result
func (r *Result) Message() string {
	switch r.Status {
	case StatusNotFound:
		return fmt.Sprintf("Device ID %s not found. Not writing to disk", r.DeviceID)
	case StatusDryRun:
		return fmt.Sprintf("Dry run - device ID %s would be removed from %d device and %d entities. No changes to conf.",
			r.DeviceID, r.DevicesRemoved, r.EntitiesRemoved)
	default:
		return fmt.Sprintf("Device ID %s removed from %d device and %d entities",
			r.DeviceID, r.DevicesRemoved, r.EntitiesRemoved)
	}
}

// Run removes opts.Config.DeviceID from the registries in
// opts.Config.Directory. Errors are fatal for the run; a device that is not
// referenced anywhere is reported through Result.Status, not as an error.
func Run(opts Options) (*Result, error) {
	c, err := New(opts)
	if err != nil {
		return nil, err
	}
	cfg := c.cfg
	if cfg.DeviceID == "" {
		return nil, errors.New(errors.ErrInvalidInput, "a device id is required")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.Load(); err != nil {
		return nil, err
	}

	removal, err := c.RemoveDevice(cfg.DeviceID)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DeviceID:  cfg.DeviceID,
		Directory: cfg.Directory,
		DryRun:    cfg.DryRun,
		Removal:   removal,
		Written:   []string{},
		Backups:   []string{},
	}

	switch {
	case removal.Total() == 0:
		result.Status = StatusNotFound
		return result, nil
	case cfg.DryRun:
		result.Status = StatusDryRun
		c.log.Info().Msg("Dry run mode - no files were written")
		return result, nil
	}

	if cfg.Backup.Enabled {
		backups, err := c.Backup()
		if err != nil {
			return nil, err
		}
		result.Backups = backups
	} else {
		c.log.Warn().Msg("Backups disabled, registries will be overwritten in place")
	}

	if removal.EntitiesRemoved > 0 {
		path, err := c.Persist(cfg.Registry.EntityFile)
		if err != nil {
			return nil, err
		}
		result.Written = append(result.Written, path)
	}
	if removal.DevicesRemoved > 0 {
		path, err := c.Persist(cfg.Registry.DeviceFile)
		if err != nil {
			return nil, err
		}
		result.Written = append(result.Written, path)
	}

	result.Status = StatusRemoved
	return result, nil
}
