package query

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Location provides the address of the current page
type Location interface {
	Href() string
}

// StaticLocation is a Location with a fixed address
type StaticLocation string

// Href returns the address
func (l StaticLocation) Href() string {
	return string(l)
}

// Param is a single query parameter. Present is false when the fragment had
// no value segment at all.
type Param struct {
	Name    string
	Value   string
	Present bool
}

// Params is an ordered collection of query parameters keyed by name
type Params struct {
	params []Param
	index  map[string]int
}

// NewParams creates an empty parameter collection
func NewParams() *Params {
	return &Params{
		index: make(map[string]int),
	}
}

// Parse extracts the parameters from href.
// An address without '?' or starting with '?' yields an empty collection.
func Parse(href string) *Params {
	params := NewParams()

	i := strings.Index(href, "?")
	if i <= 0 {
		return params
	}

	for _, fragment := range strings.Split(href[i+1:], "&") {
		name, value, found := strings.Cut(fragment, "=")
		if !found {
			params.set(Param{Name: strings.TrimSpace(name)})
			continue
		}
		params.set(Param{
			Name:    strings.TrimSpace(name),
			Value:   strings.TrimSpace(value),
			Present: true,
		})
	}

	return params
}

// FromLocation parses the parameters of the page at loc
func FromLocation(loc Location) *Params {
	return Parse(loc.Href())
}

// set stores p, keeping the position of an earlier parameter with the same name
func (p *Params) set(param Param) {
	if i, exists := p.index[param.Name]; exists {
		p.params[i] = param
		return
	}
	p.index[param.Name] = len(p.params)
	p.params = append(p.params, param)
}

// Get returns the value for name. ok is false when the name is missing or
// its value is absent.
func (p *Params) Get(name string) (string, bool) {
	i, exists := p.index[name]
	if !exists {
		return "", false
	}
	param := p.params[i]
	return param.Value, param.Present
}

// Has reports whether name appeared in the query, with or without a value
func (p *Params) Has(name string) bool {
	_, exists := p.index[name]
	return exists
}

// Len returns the number of distinct names
func (p *Params) Len() int {
	return len(p.params)
}

// Names returns the parameter names in order of first appearance
func (p *Params) Names() []string {
	names := make([]string, 0, len(p.params))
	for _, param := range p.params {
		names = append(names, param.Name)
	}
	return names
}

// All returns a copy of the parameters in order
func (p *Params) All() []Param {
	out := make([]Param, len(p.params))
	copy(out, p.params)
	return out
}

// MarshalJSON encodes the parameters as an ordered JSON object. Absent values
// are encoded as null.
func (p *Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, param := range p.params {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(param.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if !param.Present {
			buf.WriteString("null")
			continue
		}
		value, err := json.Marshal(param.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
