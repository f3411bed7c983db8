// Package dataset holds the value model shared by the inventory server and
// its API clients: objects, multi attributes and the changes committed back.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format returns the canonical string form of an attribute value.
func Format(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case string:
		return v
	case *MultiAttr:
		return strings.Join(v.Strings(), " ")
	default:
		return fmt.Sprint(v)
	}
}

// Equal reports whether two values have the same canonical form.
func Equal(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Format(a) == Format(b)
}

// Compare orders two values. Nil sorts first, numbers compare numerically
// and everything else by canonical form.
func Compare(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	as, bs := Format(a), Format(b)
	af, aErr := strconv.ParseFloat(as, 64)
	bf, bErr := strconv.ParseFloat(bs, 64)
	if aErr == nil && bErr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(as, bs)
}

// Normalize converts a value decoded from JSON into the value model:
// integral numbers become int64, other numbers float64 and lists a MultiAttr.
func Normalize(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil, bool, string, int64, *MultiAttr:
		return v, nil
	case int:
		return int64(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, NewError("Invalid number %s", v)
		}
		return f, nil
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int64(v), nil
		}
		return v, nil
	case []interface{}:
		multi := NewMultiAttr()
		for _, item := range v {
			n, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			if _, nested := n.(*MultiAttr); nested {
				return nil, NewError("Multi attributes cannot be nested")
			}
			multi.Add(n)
		}
		return multi, nil
	default:
		return nil, NewError("Unsupported value %v of type %T", v, v)
	}
}

// Plain converts a value into something encoding/json writes in the wire
// format, turning a MultiAttr into its sorted list.
func Plain(value interface{}) interface{} {
	if multi, ok := value.(*MultiAttr); ok {
		return multi.Values()
	}
	return value
}

// DecodeJSON decodes data keeping numbers exact, then normalizes the result.
func DecodeJSON(data []byte) (interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw interface{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
