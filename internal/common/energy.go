package common

import (
	"fmt"
	"sort"
)

// EnergyRecord is one row of an annual energy CSV.
type EnergyRecord struct {
	Year   int     `csv:"year"`
	Energy float64 `csv:"energy_kwh"`
}

// EnergySeries orders records by year and checks that they cover 1..n
// without gaps. The result is indexed from year 1.
func EnergySeries(records []EnergyRecord) ([]float64, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("energy CSV has no rows")
	}
	sorted := append([]EnergyRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	out := make([]float64, len(sorted))
	for i, r := range sorted {
		if r.Year != i+1 {
			return nil, fmt.Errorf("energy CSV: expected year %d, found %d", i+1, r.Year)
		}
		out[i] = r.Energy
	}
	return out, nil
}
