package cli

import (
	"bytes"
	"encoding/json"
	"strings"

	"serveradmin/dataset"
)

// FormatServer returns the attributes of server as a tab separated line.
func FormatServer(server *dataset.Object, attributeIDs []string) string {
	values := make([]string, len(attributeIDs))
	for i, attributeID := range attributeIDs {
		value, ok := server.Get(attributeID)
		switch {
		case !ok:
			values[i] = "{N/A}"
		case value == nil:
			values[i] = "{none}"
		case value == true:
			values[i] = "{true}"
		case value == false:
			values[i] = "{false}"
		default:
			values[i] = dataset.Format(value)
		}
	}
	return strings.Join(values, "\t")
}

// Record is one server in JSON output. Keys keep the order of the
// printed attributes.
type Record struct {
	keys   []string
	values map[string]interface{}
}

// FormatServerJSON returns the attributes of server for JSON output.
// Attributes that were not fetched are null, multi attributes are lists.
func FormatServerJSON(server *dataset.Object, attributeIDs []string) Record {
	r := Record{values: make(map[string]interface{}, len(attributeIDs))}
	for _, attributeID := range attributeIDs {
		if _, seen := r.values[attributeID]; !seen {
			r.keys = append(r.keys, attributeID)
		}
		value, _ := server.Get(attributeID)
		r.values[attributeID] = dataset.Plain(value)
	}
	return r
}

// Get returns the value of the attribute.
func (r Record) Get(attributeID string) interface{} {
	return r.values[attributeID]
}

// MarshalJSON writes the record as an object.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
