package query

import (
	"fmt"
	"strings"
	"unicode"

	"serveradmin/dataset"
)

// ParseError is returned for malformed queries.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

func errorf(format string, args ...interface{}) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}

const hostnameRegexpChars = `*?+^$[]{}|\`

// Parse turns a query like `web0* servertype=vm os=Any(stretch buster)` into
// filters. Bare terms select hostnames; terms that look like regular
// expressions match the whole hostname.
func Parse(query string) (Filters, error) {
	p := &parser{input: []rune(query)}
	filters := Filters{}
	hostnames := []Filter{}

	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		attributeID, filter, err := p.term()
		if err != nil {
			return nil, err
		}
		if attributeID == "" {
			hostnames = append(hostnames, filter)
			continue
		}
		addFilter(filters, attributeID, filter)
	}

	switch len(hostnames) {
	case 0:
	case 1:
		addFilter(filters, dataset.HostnameAttribute, hostnames[0])
	default:
		addFilter(filters, dataset.HostnameAttribute, &Any{Filters: hostnames})
	}

	if len(filters) == 0 {
		return nil, errorf("Empty query")
	}
	return filters, nil
}

// addFilter combines repeated attributes into All.
func addFilter(filters Filters, attributeID string, filter Filter) {
	existing, ok := filters[attributeID]
	if !ok {
		filters[attributeID] = filter
		return
	}
	if all, ok := existing.(*All); ok {
		all.Filters = append(all.Filters, filter)
		return
	}
	filters[attributeID] = &All{Filters: []Filter{existing, filter}}
}

type parser struct {
	input []rune
	pos   int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.pos++
	}
}

// term parses `attr=value` or a bare hostname term, in which case the
// returned attribute id is empty.
func (p *parser) term() (string, Filter, error) {
	switch c := p.peek(); {
	case c == '"' || c == '\'':
		s, err := p.quoted()
		if err != nil {
			return "", nil, err
		}
		return "", &Equals{Value: s}, nil
	case c == ')':
		return "", nil, errorf("Unbalanced parentheses")
	case c == '=':
		return "", nil, errorf("Empty attribute name")
	}

	word := p.word(true)
	switch p.peek() {
	case '=':
		p.pos++
		if c := p.peek(); p.eof() || unicode.IsSpace(c) || c == ')' {
			return "", nil, errorf("Missing value for attribute %s", word)
		}
		filter, err := p.value()
		if err != nil {
			return "", nil, err
		}
		return word, filter, nil
	case '(':
		p.pos++
		filter, err := p.call(word)
		return "", filter, err
	}
	return "", hostnameFilter(word), nil
}

// value parses a plain word, a quoted string or a function call.
func (p *parser) value() (Filter, error) {
	switch c := p.peek(); {
	case c == '"' || c == '\'':
		s, err := p.quoted()
		if err != nil {
			return nil, err
		}
		return &Equals{Value: s}, nil
	}

	word := p.word(false)
	if p.peek() == '(' {
		p.pos++
		return p.call(word)
	}
	if word == "" {
		return nil, errorf("Unbalanced parentheses")
	}
	return &Equals{Value: word}, nil
}

// call parses the arguments of a function whose opening parenthesis was
// consumed.
func (p *parser) call(name string) (Filter, error) {
	if name == "" {
		return nil, errorf("Unbalanced parentheses")
	}
	if !functions[name] {
		return nil, errorf("Unknown function %s", name)
	}
	args := []Filter{}
	for {
		p.skipSpace()
		if p.eof() {
			return nil, errorf("Unbalanced parentheses")
		}
		if p.peek() == ')' {
			p.pos++
			return newFunction(name, args)
		}
		arg, err := p.value()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
}

// word reads until whitespace or a parenthesis, and in attribute position
// also until '='.
func (p *parser) word(attribute bool) string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if unicode.IsSpace(c) || c == '(' || c == ')' || (attribute && c == '=') {
			break
		}
		p.pos++
	}
	return string(p.input[start:p.pos])
}

func (p *parser) quoted() (string, error) {
	quote := p.peek()
	p.pos++
	var b strings.Builder
	for !p.eof() {
		c := p.peek()
		p.pos++
		switch {
		case c == '\\' && !p.eof():
			b.WriteRune(p.peek())
			p.pos++
		case c == quote:
			return b.String(), nil
		default:
			b.WriteRune(c)
		}
	}
	return "", errorf("Unbalanced quotes")
}

func hostnameFilter(term string) Filter {
	if !strings.ContainsAny(term, hostnameRegexpChars) {
		return &Equals{Value: term}
	}
	pattern := term
	if !strings.HasPrefix(pattern, "^") {
		pattern = "^" + pattern
	}
	if !strings.HasSuffix(pattern, "$") {
		pattern += "$"
	}
	re, err := NewRegexp(pattern)
	if err != nil {
		// Not a usable regexp after all, so match it literally.
		return &Equals{Value: term}
	}
	return re
}
