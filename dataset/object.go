package dataset

import (
	"encoding/json"
	"sort"
)

// Intrinsic attributes every object has.
const (
	ObjectIDAttribute   = "object_id"
	HostnameAttribute   = "hostname"
	ServertypeAttribute = "servertype"
)

// Object is one inventory record restricted to the fetched attributes. It
// remembers the values it was loaded with to compute its changes.
type Object struct {
	attrs    map[string]interface{}
	original map[string]interface{}
}

// NewObject returns an object holding attrs, which counts as unchanged.
func NewObject(attrs map[string]interface{}) *Object {
	o := &Object{attrs: make(map[string]interface{}, len(attrs))}
	for k, v := range attrs {
		o.attrs[k] = v
	}
	o.MarkClean()
	return o
}

// ObjectID returns the object's id, or 0 if it was not fetched.
func (o *Object) ObjectID() int64 {
	switch id := o.attrs[ObjectIDAttribute].(type) {
	case int64:
		return id
	case float64:
		return int64(id)
	}
	return 0
}

// Get returns the value of the attribute and whether it was fetched.
func (o *Object) Get(attributeID string) (interface{}, bool) {
	v, ok := o.attrs[attributeID]
	return v, ok
}

// Has reports whether the attribute was fetched.
func (o *Object) Has(attributeID string) bool {
	_, ok := o.attrs[attributeID]
	return ok
}

// Multi returns the attribute if it is a multi attribute.
func (o *Object) Multi(attributeID string) (*MultiAttr, bool) {
	m, ok := o.attrs[attributeID].(*MultiAttr)
	return m, ok
}

// Keys returns the fetched attribute ids, sorted.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.attrs))
	for k := range o.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set changes a fetched attribute. A multi attribute is replaced by the
// single value.
func (o *Object) Set(attributeID string, value interface{}) error {
	current, ok := o.attrs[attributeID]
	if !ok {
		return NewError("Attribute %s was not fetched", attributeID)
	}
	if attributeID == ObjectIDAttribute {
		return NewError("Attribute %s is read-only", attributeID)
	}
	if multi, ok := current.(*MultiAttr); ok {
		if _, ok := value.(*MultiAttr); ok {
			o.attrs[attributeID] = value
			return nil
		}
		multi.Clear()
		if value != nil {
			multi.Add(value)
		}
		return nil
	}
	if _, ok := value.(*MultiAttr); ok {
		return NewError("Attribute %s is not a multi attribute", attributeID)
	}
	o.attrs[attributeID] = value
	return nil
}

// Changes returns what changed since the object was loaded or last marked
// clean, keyed by attribute id.
func (o *Object) Changes() map[string]AttributeChange {
	changes := make(map[string]AttributeChange)
	for k, v := range o.attrs {
		old := o.original[k]
		if multi, ok := v.(*MultiAttr); ok {
			oldMulti, _ := old.(*MultiAttr)
			add := multi.Difference(oldMulti)
			var remove []interface{}
			if oldMulti != nil {
				remove = oldMulti.Difference(multi)
			}
			if len(add) > 0 || len(remove) > 0 {
				if remove == nil {
					remove = []interface{}{}
				}
				changes[k] = AttributeChange{Action: ActionMulti, Add: add, Remove: remove}
			}
			continue
		}
		if !Equal(old, v) {
			changes[k] = AttributeChange{Action: ActionUpdate, Old: old, New: v}
		}
	}
	return changes
}

// Dirty reports whether the object has uncommitted changes.
func (o *Object) Dirty() bool {
	return len(o.Changes()) > 0
}

// MarkClean makes the current values the baseline for Changes.
func (o *Object) MarkClean() {
	o.original = make(map[string]interface{}, len(o.attrs))
	for k, v := range o.attrs {
		if multi, ok := v.(*MultiAttr); ok {
			v = multi.Copy()
		}
		o.original[k] = v
	}
}

// MarshalJSON writes the object as a plain JSON object.
func (o *Object) MarshalJSON() ([]byte, error) {
	plain := make(map[string]interface{}, len(o.attrs))
	for k, v := range o.attrs {
		plain[k] = Plain(v)
	}
	return json.Marshal(plain)
}

// UnmarshalJSON reads a plain JSON object; lists become multi attributes.
func (o *Object) UnmarshalJSON(data []byte) error {
	raw, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	fields, ok := raw.(map[string]interface{})
	if !ok {
		return NewError("Expected a JSON object")
	}
	attrs := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if attrs[k], err = Normalize(v); err != nil {
			return err
		}
	}
	*o = *NewObject(attrs)
	return nil
}
