package registry

import (
	"fmt"

	"github.com/arthur-debert/hasscleanup/pkg/errors"
	"github.com/arthur-debert/hasscleanup/pkg/logging"
)

// Default registry file names inside a Home Assistant .storage directory
const (
	DeviceRegistryFile = "core.device_registry"
	EntityRegistryFile = "core.entity_registry"
)

// Field and collection names used for matching
const (
	DevicesCollection  = "devices"
	EntitiesCollection = "entities"
	DeviceIDField      = "id"
	EntityDeviceField  = "device_id"
)

// MissingFieldPolicy decides what happens to a record lacking its key field
type MissingFieldPolicy string

const (
	// MissingFieldFail rejects the whole document
	MissingFieldFail MissingFieldPolicy = "fail"
	// MissingFieldSkip keeps the record but never matches it
	MissingFieldSkip MissingFieldPolicy = "skip"
)

// ParseMissingFieldPolicy validates a policy name
func ParseMissingFieldPolicy(s string) (MissingFieldPolicy, error) {
	switch MissingFieldPolicy(s) {
	case MissingFieldFail, MissingFieldSkip:
		return MissingFieldPolicy(s), nil
	case "":
		return MissingFieldFail, nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown missing field policy %q (want fail or skip)", s)
	}
}

// Device is a typed view of one record in data.devices
type Device struct {
	ID           string
	Name         string
	NameByUser   string
	Manufacturer string
	Model        string

	obj *Object
}

// Value returns a string field of the underlying record
func (d Device) Value(field string) (string, bool) {
	return stringValue(d.obj, field)
}

// DisplayName prefers the user-assigned name
func (d Device) DisplayName() string {
	if d.NameByUser != "" {
		return d.NameByUser
	}
	return d.Name
}

// Entity is a typed view of one record in data.entities
type Entity struct {
	EntityID string
	// DeviceID is empty when the entity has no device ("device_id": null)
	DeviceID string
	Platform string

	obj *Object
}

// Value returns a string field of the underlying record
func (e Entity) Value(field string) (string, bool) {
	return stringValue(e.obj, field)
}

// HasDevice reports whether the entity references a device
func (e Entity) HasDevice() bool {
	return e.DeviceID != ""
}

func stringValue(obj *Object, field string) (string, bool) {
	if obj == nil {
		return "", false
	}
	v, present, isNull, err := obj.String(field)
	if err != nil || !present || isNull {
		return "", false
	}
	return v, true
}

// optionalString reads informational fields. Wrong types are ignored.
func optionalString(obj *Object, field string) string {
	v, _ := stringValue(obj, field)
	return v
}

// DeviceRegistry is a loaded core.device_registry document
type DeviceRegistry struct {
	*Document
	Devices []Device
	// Skipped counts records loaded without an id under MissingFieldSkip
	Skipped int
}

// ParseDeviceRegistry parses and validates a device registry
func ParseDeviceRegistry(name string, raw []byte, policy MissingFieldPolicy) (*DeviceRegistry, error) {
	log := logging.GetLogger("registry")

	doc, records, err := parseDocument(name, DevicesCollection, raw)
	if err != nil {
		return nil, err
	}

	reg := &DeviceRegistry{Document: doc, Devices: make([]Device, 0, len(records))}
	for i, obj := range records {
		id, present, isNull, err := obj.String(DeviceIDField)
		if err != nil {
			return nil, schemaError(name, fmt.Sprintf("device %d: %v", i, err)).WithDetail("index", i)
		}
		if !present || isNull {
			if policy != MissingFieldSkip {
				return nil, schemaError(name, fmt.Sprintf("device %d has no %q field", i, DeviceIDField)).WithDetail("index", i)
			}
			log.Warn().Str("file", name).Int("index", i).Msg("Device has no id, it will never match")
			reg.Skipped++
		}
		reg.Devices = append(reg.Devices, Device{
			ID:           id,
			Name:         optionalString(obj, "name"),
			NameByUser:   optionalString(obj, "name_by_user"),
			Manufacturer: optionalString(obj, "manufacturer"),
			Model:        optionalString(obj, "model"),
			obj:          obj,
		})
	}
	return reg, nil
}

// Encode serializes the registry with its current devices
func (r *DeviceRegistry) Encode(indent int) ([]byte, error) {
	objs := make([]*Object, len(r.Devices))
	for i, d := range r.Devices {
		objs[i] = d.obj
	}
	return r.encode(objs, indent)
}

// EntityRegistry is a loaded core.entity_registry document
type EntityRegistry struct {
	*Document
	Entities []Entity
	// Skipped counts records loaded without a device_id key under MissingFieldSkip
	Skipped int
}

// ParseEntityRegistry parses and validates an entity registry. A null
// device_id is valid; only an absent key is subject to policy.
func ParseEntityRegistry(name string, raw []byte, policy MissingFieldPolicy) (*EntityRegistry, error) {
	log := logging.GetLogger("registry")

	doc, records, err := parseDocument(name, EntitiesCollection, raw)
	if err != nil {
		return nil, err
	}

	reg := &EntityRegistry{Document: doc, Entities: make([]Entity, 0, len(records))}
	for i, obj := range records {
		deviceID, present, _, err := obj.String(EntityDeviceField)
		if err != nil {
			return nil, schemaError(name, fmt.Sprintf("entity %d: %v", i, err)).WithDetail("index", i)
		}
		if !present {
			if policy != MissingFieldSkip {
				return nil, schemaError(name, fmt.Sprintf("entity %d has no %q field", i, EntityDeviceField)).WithDetail("index", i)
			}
			log.Warn().Str("file", name).Int("index", i).Msg("Entity has no device_id, it will never match")
			reg.Skipped++
		}
		reg.Entities = append(reg.Entities, Entity{
			EntityID: optionalString(obj, "entity_id"),
			DeviceID: deviceID,
			Platform: optionalString(obj, "platform"),
			obj:      obj,
		})
	}
	return reg, nil
}

// Encode serializes the registry with its current entities
func (r *EntityRegistry) Encode(indent int) ([]byte, error) {
	objs := make([]*Object, len(r.Entities))
	for i, e := range r.Entities {
		objs[i] = e.obj
	}
	return r.encode(objs, indent)
}
