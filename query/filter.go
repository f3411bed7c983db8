// Package query implements the filters used to select inventory objects,
// the free-text syntax to write them and their JSON wire form.
package query

import (
	"regexp"
	"strings"

	"serveradmin/dataset"
)

// A Filter decides whether an attribute value is selected.
type Filter interface {
	// Matches reports whether value is selected by the filter.
	Matches(value interface{}) bool

	// Name is the function name of the filter in the query syntax and on
	// the wire. Equality has no name.
	Name() string
}

// Filters maps attribute ids to the filter applied to them. An object is
// selected when every filter matches.
type Filters map[string]Filter

// Matches reports whether every filter matches the attribute values
// returned by get.
func (f Filters) Matches(get func(attributeID string) (interface{}, bool)) bool {
	for attributeID, filter := range f {
		value, ok := get(attributeID)
		if !ok {
			value = nil
		}
		if !filter.Matches(value) {
			return false
		}
	}
	return true
}

// AttributeIDs returns the filtered attribute ids.
func (f Filters) AttributeIDs() []string {
	ids := make([]string, 0, len(f))
	for k := range f {
		ids = append(ids, k)
	}
	return ids
}

// anyElement applies test to the value, or to each element of a multi
// attribute until one passes.
func anyElement(value interface{}, test func(interface{}) bool) bool {
	if value == nil {
		return false
	}
	if multi, ok := value.(*dataset.MultiAttr); ok {
		for _, v := range multi.Values() {
			if test(v) {
				return true
			}
		}
		return false
	}
	return test(value)
}

// Equals selects values equal to Value.
type Equals struct {
	Value interface{}
}

func (e *Equals) Matches(value interface{}) bool {
	if e.Value == nil {
		return isEmpty(value)
	}
	return anyElement(value, func(v interface{}) bool {
		return dataset.Equal(v, e.Value)
	})
}

func (e *Equals) Name() string { return "" }

// Any selects values matched by at least one of its filters.
type Any struct {
	Filters []Filter
}

func (a *Any) Matches(value interface{}) bool {
	for _, f := range a.Filters {
		if f.Matches(value) {
			return true
		}
	}
	return false
}

func (a *Any) Name() string { return "Any" }

// All selects values matched by all of its filters.
type All struct {
	Filters []Filter
}

func (a *All) Matches(value interface{}) bool {
	for _, f := range a.Filters {
		if !f.Matches(value) {
			return false
		}
	}
	return true
}

func (a *All) Name() string { return "All" }

// Not inverts a filter. For multi attributes it selects values where no
// element matches.
type Not struct {
	Filter Filter
}

func (n *Not) Matches(value interface{}) bool {
	return !n.Filter.Matches(value)
}

func (n *Not) Name() string { return "Not" }

// Regexp selects values whose canonical form matches the pattern.
type Regexp struct {
	Pattern string
	re      *regexp.Regexp
}

// NewRegexp compiles the pattern into a filter.
func NewRegexp(pattern string) (*Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Regexp{Pattern: pattern, re: re}, nil
}

func (r *Regexp) Matches(value interface{}) bool {
	return anyElement(value, func(v interface{}) bool {
		return r.re.MatchString(dataset.Format(v))
	})
}

func (r *Regexp) Name() string { return "Regexp" }

// StartsWith selects values with the given prefix.
type StartsWith struct {
	Value interface{}
}

func (s *StartsWith) Matches(value interface{}) bool {
	prefix := dataset.Format(s.Value)
	return anyElement(value, func(v interface{}) bool {
		return strings.HasPrefix(dataset.Format(v), prefix)
	})
}

func (s *StartsWith) Name() string { return "StartsWith" }

// Contains selects values containing the given string.
type Contains struct {
	Value interface{}
}

func (c *Contains) Matches(value interface{}) bool {
	part := dataset.Format(c.Value)
	return anyElement(value, func(v interface{}) bool {
		return strings.Contains(dataset.Format(v), part)
	})
}

func (c *Contains) Name() string { return "Contains" }

// Comparison selects values ordered against Value. Numbers are compared
// numerically, everything else lexically.
type Comparison struct {
	Function string
	Value    interface{}
}

func (c *Comparison) Matches(value interface{}) bool {
	return anyElement(value, func(v interface{}) bool {
		cmp := dataset.Compare(v, c.Value)
		switch c.Function {
		case "GreaterThan":
			return cmp > 0
		case "GreaterThanOrEquals":
			return cmp >= 0
		case "LessThan":
			return cmp < 0
		case "LessThanOrEquals":
			return cmp <= 0
		}
		return false
	})
}

func (c *Comparison) Name() string { return c.Function }

// Empty selects missing values and empty multi attributes.
type Empty struct{}

func (e *Empty) Matches(value interface{}) bool {
	return isEmpty(value)
}

func (e *Empty) Name() string { return "Empty" }

func isEmpty(value interface{}) bool {
	if value == nil {
		return true
	}
	if multi, ok := value.(*dataset.MultiAttr); ok {
		return multi.Len() == 0
	}
	return false
}

var functions = map[string]bool{
	"Any":                 true,
	"All":                 true,
	"Not":                 true,
	"Regexp":              true,
	"StartsWith":          true,
	"Contains":            true,
	"GreaterThan":         true,
	"GreaterThanOrEquals": true,
	"LessThan":            true,
	"LessThanOrEquals":    true,
	"Empty":               true,
}

var comparisons = map[string]bool{
	"GreaterThan":         true,
	"GreaterThanOrEquals": true,
	"LessThan":            true,
	"LessThanOrEquals":    true,
}

// newFunction builds the named filter from its already parsed arguments.
func newFunction(name string, args []Filter) (Filter, error) {
	if !functions[name] {
		return nil, errorf("Unknown function %s", name)
	}
	switch name {
	case "Any":
		return &Any{Filters: args}, nil
	case "All":
		return &All{Filters: args}, nil
	case "Not":
		if len(args) != 1 {
			return nil, errorf("Not takes exactly one argument")
		}
		return &Not{Filter: args[0]}, nil
	case "Empty":
		if len(args) != 0 {
			return nil, errorf("Empty takes no arguments")
		}
		return &Empty{}, nil
	}

	if len(args) != 1 {
		return nil, errorf("%s takes exactly one argument", name)
	}
	eq, ok := args[0].(*Equals)
	if !ok {
		return nil, errorf("%s takes a plain value", name)
	}
	switch {
	case name == "Regexp":
		re, err := NewRegexp(dataset.Format(eq.Value))
		if err != nil {
			return nil, errorf("Invalid regexp %q: %v", dataset.Format(eq.Value), err)
		}
		return re, nil
	case name == "StartsWith":
		return &StartsWith{Value: eq.Value}, nil
	case name == "Contains":
		return &Contains{Value: eq.Value}, nil
	case comparisons[name]:
		return &Comparison{Function: name, Value: eq.Value}, nil
	}
	return nil, errorf("Unknown function %s", name)
}
