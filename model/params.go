package model

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ParameterMap holds the externalised parameters of an integration flow.
// It is immutable once constructed.
type ParameterMap struct {
	vals map[string]string
}

// NewParameterMap creates a ParameterMap holding a copy of vals.
func NewParameterMap(vals map[string]string) ParameterMap {
	c := make(map[string]string, len(vals))
	maps.Copy(c, vals)
	return ParameterMap{vals: c}
}

// Lookup returns the value stored under key and whether the key exists.
// An empty value is a valid value.
func (p ParameterMap) Lookup(key string) (string, bool) {
	v, ok := p.vals[key]
	return v, ok
}

// Len returns the number of parameters.
func (p ParameterMap) Len() int {
	return len(p.vals)
}

// Keys returns the parameter keys in sorted order.
func (p ParameterMap) Keys() []string {
	keys := maps.Keys(p.vals)
	slices.Sort(keys)
	return keys
}
