package dataset

import (
	"encoding/json"
	"sort"
)

// MultiAttr holds the values of an attribute that may have many values per
// object. Values are kept unique by their canonical form.
type MultiAttr struct {
	values map[string]interface{}
}

// NewMultiAttr returns a MultiAttr holding the given values.
func NewMultiAttr(values ...interface{}) *MultiAttr {
	m := &MultiAttr{values: make(map[string]interface{}, len(values))}
	for _, v := range values {
		m.Add(v)
	}
	return m
}

// Add adds the value unless an equal one is present.
func (m *MultiAttr) Add(value interface{}) {
	if m.values == nil {
		m.values = make(map[string]interface{})
	}
	key := Format(value)
	if _, ok := m.values[key]; !ok {
		m.values[key] = value
	}
}

// Remove removes the value if present.
func (m *MultiAttr) Remove(value interface{}) {
	delete(m.values, Format(value))
}

// Contains reports whether an equal value is present.
func (m *MultiAttr) Contains(value interface{}) bool {
	_, ok := m.values[Format(value)]
	return ok
}

// Clear removes all values.
func (m *MultiAttr) Clear() {
	m.values = make(map[string]interface{})
}

// Len returns the number of values.
func (m *MultiAttr) Len() int {
	return len(m.values)
}

// Strings returns the canonical forms of all values, sorted.
func (m *MultiAttr) Strings() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns all values ordered by their canonical form.
func (m *MultiAttr) Values() []interface{} {
	values := make([]interface{}, 0, len(m.values))
	for _, k := range m.Strings() {
		values = append(values, m.values[k])
	}
	return values
}

// Copy returns an independent copy.
func (m *MultiAttr) Copy() *MultiAttr {
	return NewMultiAttr(m.Values()...)
}

// Difference returns the values of m missing from other.
func (m *MultiAttr) Difference(other *MultiAttr) []interface{} {
	diff := []interface{}{}
	for _, v := range m.Values() {
		if other == nil || !other.Contains(v) {
			diff = append(diff, v)
		}
	}
	return diff
}

// MarshalJSON writes the sorted list of values.
func (m *MultiAttr) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Values())
}
