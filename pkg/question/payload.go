package question

import (
	"net/url"
	"strings"
)

// Field is a single name/value pair of a submission payload.
type Field struct {
	Name  string
	Value string
}

// Payload is the flat, ordered submission body.
type Payload []Field

// Get returns the value stored under name.
func (p Payload) Get(name string) (string, bool) {
	for _, field := range p {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// Names lists field names in payload order.
func (p Payload) Names() []string {
	out := make([]string, len(p))
	for i, field := range p {
		out[i] = field.Name
	}
	return out
}

// Map returns the payload as a plain map.
func (p Payload) Map() map[string]string {
	out := make(map[string]string, len(p))
	for _, field := range p {
		out[field.Name] = field.Value
	}
	return out
}

// Values converts the payload into url.Values for form encoding.
func (p Payload) Values() url.Values {
	out := make(url.Values, len(p))
	for _, field := range p {
		out.Set(field.Name, field.Value)
	}
	return out
}

// Merge returns a copy of base with fields applied. Empty names are ignored;
// later fields win on name collisions and keep the position of the field they
// replace.
func Merge(base Payload, fields ...Field) Payload {
	out := make(Payload, 0, len(base)+len(fields))
	index := make(map[string]int, len(base)+len(fields))
	apply := func(field Field) {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return
		}
		if pos, ok := index[name]; ok {
			out[pos].Value = field.Value
			return
		}
		index[name] = len(out)
		out = append(out, Field{Name: name, Value: field.Value})
	}
	for _, field := range base {
		apply(field)
	}
	for _, field := range fields {
		apply(field)
	}
	return out
}
