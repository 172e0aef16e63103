package registry

import (
	"bytes"
	"encoding/json"
	"strings"
)

// encodeArray joins the encoded objects into a JSON array
func encodeArray(objs []*Object) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, obj := range objs {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := obj.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// indentJSON pretty-prints compact JSON with indent spaces per level.
// json.Indent is used instead of json.MarshalIndent so string contents
// are not re-escaped.
func indentJSON(compact []byte, indent int) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", strings.Repeat(" ", indent)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
