package query

import (
	"encoding/json"

	"serveradmin/dataset"
)

// Encode returns the wire form of a filter: the plain value for equality,
// otherwise an object with the function name as its only key.
func Encode(f Filter) interface{} {
	switch f := f.(type) {
	case *Equals:
		return f.Value
	case *Any:
		return map[string]interface{}{f.Name(): encodeAll(f.Filters)}
	case *All:
		return map[string]interface{}{f.Name(): encodeAll(f.Filters)}
	case *Not:
		return map[string]interface{}{f.Name(): Encode(f.Filter)}
	case *Regexp:
		return map[string]interface{}{f.Name(): f.Pattern}
	case *StartsWith:
		return map[string]interface{}{f.Name(): f.Value}
	case *Contains:
		return map[string]interface{}{f.Name(): f.Value}
	case *Comparison:
		return map[string]interface{}{f.Name(): f.Value}
	case *Empty:
		return map[string]interface{}{f.Name(): nil}
	}
	return nil
}

func encodeAll(filters []Filter) []interface{} {
	encoded := make([]interface{}, 0, len(filters))
	for _, f := range filters {
		encoded = append(encoded, Encode(f))
	}
	return encoded
}

// Decode builds a filter from its wire form as decoded by dataset.DecodeJSON.
func Decode(raw interface{}) (Filter, error) {
	object, ok := raw.(map[string]interface{})
	if !ok {
		value, err := dataset.Normalize(raw)
		if err != nil {
			return nil, err
		}
		if _, multi := value.(*dataset.MultiAttr); multi {
			return nil, errorf("Filter values cannot be lists")
		}
		return &Equals{Value: value}, nil
	}
	if len(object) != 1 {
		return nil, errorf("Filter objects must have exactly one function")
	}

	for name, arg := range object {
		if !functions[name] {
			return nil, errorf("Unknown function %s", name)
		}
		var args []Filter
		switch name {
		case "Any", "All":
			list, ok := arg.([]interface{})
			if !ok {
				return nil, errorf("%s takes a list", name)
			}
			for _, item := range list {
				f, err := Decode(item)
				if err != nil {
					return nil, err
				}
				args = append(args, f)
			}
		case "Empty":
		default:
			f, err := Decode(arg)
			if err != nil {
				return nil, err
			}
			args = append(args, f)
		}
		return newFunction(name, args)
	}
	return nil, errorf("Empty filter")
}

// MarshalJSON writes the filters keyed by attribute id.
func (f Filters) MarshalJSON() ([]byte, error) {
	encoded := make(map[string]interface{}, len(f))
	for k, v := range f {
		encoded[k] = Encode(v)
	}
	return json.Marshal(encoded)
}

// UnmarshalJSON reads filters keyed by attribute id.
func (f *Filters) UnmarshalJSON(data []byte) error {
	raw, err := dataset.DecodeJSON(data)
	if err != nil {
		return err
	}
	object, ok := raw.(map[string]interface{})
	if !ok {
		return errorf("Filters must be an object")
	}
	filters := make(Filters, len(object))
	for k, v := range object {
		if k == "" {
			return errorf("Empty attribute name")
		}
		if filters[k], err = Decode(v); err != nil {
			return err
		}
	}
	*f = filters
	return nil
}
