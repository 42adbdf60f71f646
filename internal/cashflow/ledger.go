// Package cashflow builds the year-indexed ledger of a partnership-flip
// project. Rows are written by named pipeline stages in dependency order and
// the ledger is sealed before it is reported.
package cashflow

import (
	"fmt"
)

// Ledger is a table of rows indexed by year 0..Years.
//
// Every row is written exactly once. Reading a row that no stage has written
// yet is a programming error and panics, which keeps stage ordering honest.
type Ledger struct {
	years   int
	values  [rowCount][]float64
	written [rowCount]bool
	sealed  bool
}

// NewLedger returns an empty ledger covering years 0..years.
func NewLedger(years int) *Ledger {
	return &Ledger{years: years}
}

// Years is the analysis horizon N.
func (l *Ledger) Years() int {
	return l.years
}

// Set stores values as row r. values must hold Years()+1 entries.
func (l *Ledger) Set(r Row, values []float64) {
	if l.Sealed() {
		panic(fmt.Sprintf("cashflow: write to %s after seal", r))
	}
	if r < 0 || r >= rowCount {
		panic(fmt.Sprintf("cashflow: unknown %s", r))
	}
	if l.Has(r) {
		panic(fmt.Sprintf("cashflow: %s written twice", r))
	}
	if len(values) != l.years+1 {
		panic(fmt.Sprintf("cashflow: %s has %d values, want %d", r, len(values), l.years+1))
	}
	l.values[r] = values
	l.written[r] = true
}

// Get returns row r. The slice is owned by the ledger.
func (l *Ledger) Get(r Row) []float64 {
	if r < 0 || r >= rowCount || !l.written[r] {
		panic(fmt.Sprintf("cashflow: %s read before it was written", r))
	}
	return l.values[r]
}

// At returns row r in year y.
func (l *Ledger) At(r Row, y int) float64 {
	return l.Get(r)[y]
}

// Has reports whether row r has been written.
func (l *Ledger) Has(r Row) bool {
	return r >= 0 && r < rowCount && l.written[r]
}

// Seal freezes the ledger. Subsequent writes panic.
func (l *Ledger) Seal() {
	l.sealed = true
}

// Sealed reports whether Seal has been called.
func (l *Ledger) Sealed() bool {
	return l.sealed
}

// Rows lists the written rows in reporting order.
func (l *Ledger) Rows() []Row {
	out := make([]Row, 0, rowCount)
	for r := Row(0); r < rowCount; r++ {
		if l.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Arrays copies every written row into a map keyed by ArrayName.
func (l *Ledger) Arrays() map[string][]float64 {
	out := make(map[string][]float64, rowCount)
	for _, r := range l.Rows() {
		out[r.ArrayName()] = append([]float64(nil), l.values[r]...)
	}
	return out
}

// zeros allocates a row for this ledger.
func (l *Ledger) zeros() []float64 {
	return make([]float64, l.years+1)
}

// sum adds rows element-wise.
func (l *Ledger) sum(rows ...Row) []float64 {
	out := l.zeros()
	for _, r := range rows {
		for y, v := range l.Get(r) {
			out[y] += v
		}
	}
	return out
}
