package cleaner

import "sort"

// DeviceSummary describes one device and how many entities reference it
type DeviceSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	Entities     int    `json:"entities"`
}

// Inventory is a read-only view of a storage directory
type Inventory struct {
	Directory string          `json:"directory"`
	Devices   []DeviceSummary `json:"devices"`
	// Orphans counts entities whose device_id matches no device
	Orphans int `json:"orphan_entities"`
	// Unassigned counts entities with a null device_id
	Unassigned int `json:"unassigned_entities"`
}

// ListDevices loads the registries without modifying them and summarizes
// each device in registry order.
func ListDevices(opts Options) (*Inventory, error) {
	c, err := New(opts)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.Load(); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	inv := &Inventory{Directory: c.cfg.Directory, Devices: []DeviceSummary{}}
	for _, e := range c.entities.Entities {
		if !e.HasDevice() {
			inv.Unassigned++
			continue
		}
		counts[e.DeviceID]++
	}

	known := make(map[string]bool, len(c.devices.Devices))
	for _, d := range c.devices.Devices {
		known[d.ID] = true
		inv.Devices = append(inv.Devices, DeviceSummary{
			ID:           d.ID,
			Name:         d.DisplayName(),
			Manufacturer: d.Manufacturer,
			Model:        d.Model,
			Entities:     counts[d.ID],
		})
	}

	orphanIDs := make([]string, 0)
	for id, n := range counts {
		if !known[id] {
			inv.Orphans += n
			orphanIDs = append(orphanIDs, id)
		}
	}
	if len(orphanIDs) > 0 {
		sort.Strings(orphanIDs)
		c.log.Debug().Strs("device_ids", orphanIDs).Msg("Entities reference unknown devices")
	}
	return inv, nil
}
