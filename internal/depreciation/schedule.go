// Package depreciation provides the fixed half-year convention depreciation
// tables used by the cash-flow ledger.
package depreciation

import (
	"fmt"
	"strings"
)

// Class identifies a depreciation schedule. The numeric values match the
// host codes (0=5yr MACRS ... 5=39yr SL) and must stay stable.
type Class int

const (
	MACRS5 Class = iota
	MACRS15
	SL5
	SL15
	SL20
	SL39
)

// factors holds the fraction of depreciable basis recognized in years 1..n.
// All tables use the half-year placed-in-service convention.
var factors = map[Class][]float64{
	MACRS5: {0.2000, 0.3200, 0.1920, 0.1152, 0.1152, 0.0576},
	MACRS15: {
		0.0500, 0.0950, 0.0855, 0.0770, 0.0693, 0.0623, 0.0590, 0.0590,
		0.0591, 0.0590, 0.0591, 0.0590, 0.0591, 0.0590, 0.0591, 0.0295,
	},
	SL5: {0.1000, 0.2000, 0.2000, 0.2000, 0.2000, 0.1000},
	SL15: {
		0.0333, 0.0667, 0.0667, 0.0667, 0.0667, 0.0667, 0.0667, 0.0666,
		0.0667, 0.0666, 0.0667, 0.0666, 0.0667, 0.0666, 0.0667, 0.0333,
	},
	SL20: sl20(),
	SL39: sl39(),
}

func sl20() []float64 {
	f := make([]float64, 21)
	for i := range f {
		f[i] = 0.05
	}
	f[0], f[20] = 0.025, 0.025
	return f
}

// sl39 uses 1/39 per full year; the rounded 0.0256 table leaves 0.16% of
// basis unrecovered.
func sl39() []float64 {
	f := make([]float64, 40)
	for i := range f {
		f[i] = 0.025641
	}
	f[0], f[39] = 0.012821, 0.012821
	return f
}

var names = map[Class]string{
	MACRS5:  "macrs_5",
	MACRS15: "macrs_15",
	SL5:     "sl_5",
	SL15:    "sl_15",
	SL20:    "sl_20",
	SL39:    "sl_39",
}

// Classes returns every schedule class in host-code order.
func Classes() []Class {
	return []Class{MACRS5, MACRS15, SL5, SL15, SL20, SL39}
}

// String returns the snake_case key used in parameter names.
func (c Class) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// Valid reports whether c is one of the six known classes.
func (c Class) Valid() bool {
	_, ok := factors[c]
	return ok
}

// ParseClass accepts either the key ("macrs_5") or the host code ("0").
func ParseClass(s string) (Class, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, n := range names {
		if n == s || fmt.Sprint(int(c)) == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown depreciation class %q", s)
}

// NaturalLength is the number of years with a nonzero factor.
func NaturalLength(c Class) int {
	return len(mustTable(c))
}

// Factors returns a slice indexed by year (0..years). Index 0 is always zero
// and years past the schedule's natural length receive 0.
func Factors(c Class, years int) []float64 {
	table := mustTable(c)
	out := make([]float64, years+1)
	for i := 1; i <= years && i <= len(table); i++ {
		out[i] = table[i-1]
	}
	return out
}

// Factor returns the fraction for a single year, 0 outside 1..NaturalLength.
func Factor(c Class, year int) float64 {
	table := mustTable(c)
	if year < 1 || year > len(table) {
		return 0
	}
	return table[year-1]
}

func mustTable(c Class) []float64 {
	table, ok := factors[c]
	if !ok {
		panic(fmt.Sprintf("depreciation: unknown schedule class %d", int(c)))
	}
	return table
}
