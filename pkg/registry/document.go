package registry

import (
	"encoding/json"
	"fmt"

	"github.com/arthur-debert/hasscleanup/pkg/errors"
)

// Document is a registry file: a top-level object whose "data" object holds
// one collection of records. Everything outside that collection is carried
// through unchanged.
type Document struct {
	// Name is the registry file name, e.g. core.device_registry
	Name string
	// Collection is the key of the record array inside "data"
	Collection string

	root *Object
	data *Object
}

// parseDocument validates the envelope of a registry and returns its records
func parseDocument(name, collection string, raw []byte) (*Document, []*Object, error) {
	if !json.Valid(raw) {
		var probe interface{}
		err := json.Unmarshal(raw, &probe)
		return nil, nil, errors.Wrapf(err, errors.ErrMalformedJSON, "failed to parse %s", name).
			WithDetail("file", name)
	}

	root, err := ParseObject(raw)
	if err != nil {
		return nil, nil, schemaError(name, "top level is not a JSON object").WithDetail("cause", err.Error())
	}

	dataRaw, ok := root.Get("data")
	if !ok {
		return nil, nil, schemaError(name, `missing "data" object`)
	}
	data, err := ParseObject(dataRaw)
	if err != nil {
		return nil, nil, schemaError(name, `"data" is not a JSON object`)
	}

	collRaw, ok := data.Get(collection)
	if !ok {
		return nil, nil, schemaError(name, fmt.Sprintf("missing \"data.%s\" array", collection))
	}
	var items []json.RawMessage
	if err := json.Unmarshal(collRaw, &items); err != nil {
		return nil, nil, schemaError(name, fmt.Sprintf("\"data.%s\" is not an array", collection))
	}

	records := make([]*Object, 0, len(items))
	for i, item := range items {
		obj, err := ParseObject(item)
		if err != nil {
			return nil, nil, schemaError(name, fmt.Sprintf("record %d in data.%s is not a JSON object", i, collection)).
				WithDetail("index", i)
		}
		records = append(records, obj)
	}

	return &Document{Name: name, Collection: collection, root: root, data: data}, records, nil
}

// encode rebuilds the document around records and pretty-prints it
func (d *Document) encode(records []*Object, indent int) ([]byte, error) {
	arr, err := encodeArray(records)
	if err != nil {
		return nil, err
	}
	d.data.Set(d.Collection, arr)

	data, err := d.data.MarshalJSON()
	if err != nil {
		return nil, err
	}
	d.root.Set("data", data)

	compact, err := d.root.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return indentJSON(compact, indent)
}

func schemaError(name, msg string) *errors.CleanupError {
	return errors.Newf(errors.ErrSchema, "%s: %s", name, msg).WithDetail("file", name)
}
