// Package levpartflip is the public entry point of the partnership-flip
// cash-flow engine. Hosts pass flat named parameters, using the same keys
// as scenario files, and an annual net energy series starting at year 1.
package levpartflip

import (
	"fjacquet/levpartflip/internal/engine"
	"fjacquet/levpartflip/internal/models"
	"fjacquet/levpartflip/internal/scenario"
)

// Results is the named table of scalars and cf_ arrays a run produces.
type Results = models.Results

// Run validates params, fills defaults for missing keys and evaluates the
// project. energy holds kWh per year for years 1..analysis_years.
func Run(params map[string]float64, energy []float64) (Results, error) {
	p, err := scenario.FromMap(params)
	if err != nil {
		return Results{}, err
	}
	out, err := engine.Run(p, energy)
	if err != nil {
		return Results{}, err
	}
	return out.Results(), nil
}

// Defaults returns the default value of every accepted parameter.
func Defaults() map[string]float64 {
	return scenario.Defaults()
}

// Keys returns every accepted parameter name in sorted order.
func Keys() []string {
	return scenario.Keys()
}
