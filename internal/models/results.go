package models

import (
	"math"
	"sort"
)

// Results is the named table of scalars and arrays returned to the host.
type Results struct {
	Scalars map[string]float64   `json:"scalars" yaml:"scalars"`
	Arrays  map[string][]float64 `json:"arrays,omitempty" yaml:"arrays,omitempty"`
}

// NewResults creates an empty result table.
func NewResults() Results {
	return Results{
		Scalars: make(map[string]float64),
		Arrays:  make(map[string][]float64),
	}
}

// Array returns an array and whether it was assigned.
func (r Results) Array(name string) ([]float64, bool) {
	v, ok := r.Arrays[name]
	return v, ok
}

// ScalarNames returns scalar names in sorted order.
func (r Results) ScalarNames() []string {
	names := make([]string, 0, len(r.Scalars))
	for k := range r.Scalars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ArrayNames returns array names in sorted order.
func (r Results) ArrayNames() []string {
	names := make([]string, 0, len(r.Arrays))
	for k := range r.Arrays {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Finite returns a copy of Scalars with NaN and ±Inf removed; JSON cannot
// encode them.
func (r Results) Finite() map[string]float64 {
	out := make(map[string]float64, len(r.Scalars))
	for k, v := range r.Scalars {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[k] = v
	}
	return out
}
