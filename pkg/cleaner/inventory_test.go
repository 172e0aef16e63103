package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDevices(t *testing.T) {
	devices := `{"data": {"devices": [
		{"id": "a", "name": "Hue", "name_by_user": "Kitchen", "manufacturer": "Philips", "model": "LCT001"},
		{"id": "b", "name": "Plug"}
	]}}`
	entities := `{"data": {"entities": [
		{"device_id": "a"}, {"device_id": "a"}, {"device_id": "ghost"}, {"device_id": null}
	]}}`
	mem := newStorage(t, devices, entities)
	before := snapshot(t, mem)

	inv, err := ListDevices(testOptions(mem, testConfig("")))
	require.NoError(t, err)

	assert.Equal(t, storageDir, inv.Directory)
	assert.Equal(t, []DeviceSummary{
		{ID: "a", Name: "Kitchen", Manufacturer: "Philips", Model: "LCT001", Entities: 2},
		{ID: "b", Name: "Plug", Entities: 0},
	}, inv.Devices)
	assert.Equal(t, 1, inv.Orphans)
	assert.Equal(t, 1, inv.Unassigned)
	assert.Equal(t, before, snapshot(t, mem), "listing never writes")
}
