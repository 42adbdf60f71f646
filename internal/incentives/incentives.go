// Package incentives computes cash incentives and tax credits and the basis
// reductions investment tax credits impose on depreciation.
package incentives

import (
	"math"

	"fjacquet/levpartflip/internal/finance"
	"fjacquet/levpartflip/internal/models"
)

// Inputs are the ledger values the incentive rows depend on.
type Inputs struct {
	Years     int
	Installed float64   // pre-financing installed cost
	Nameplate float64   // kW
	Energy    []float64 // kWh, indexed by year
}

// Result holds one row per incentive, each indexed by year 0..Years.
type Result struct {
	IBIAmount  map[models.Source][]float64
	IBIPercent map[models.Source][]float64
	IBITotal   []float64

	CBI      map[models.Source][]float64
	CBITotal []float64

	PBI      map[models.Source][]float64
	PBITotal []float64

	PTC map[models.Jurisdiction][]float64
}

// Compute fills every cash incentive and production credit row. IBI and CBI
// are received in year 1.
func Compute(in Inputs, terms models.Incentives) Result {
	n := in.Years + 1
	r := Result{
		IBIAmount:  make(map[models.Source][]float64),
		IBIPercent: make(map[models.Source][]float64),
		IBITotal:   make([]float64, n),
		CBI:        make(map[models.Source][]float64),
		CBITotal:   make([]float64, n),
		PBI:        make(map[models.Source][]float64),
		PBITotal:   make([]float64, n),
		PTC:        make(map[models.Jurisdiction][]float64),
	}

	for _, src := range models.Sources() {
		amt, per := make([]float64, n), make([]float64, n)
		cbi, pbi := make([]float64, n), make([]float64, n)

		if in.Years >= 1 {
			ibi := terms.IBI[src]
			amt[1] = ibi.Amount
			per[1] = capped(in.Installed*ibi.Percent/100, ibi.Max)

			c := terms.CBI[src]
			cbi[1] = capped(c.PerWatt*in.Nameplate*1000, c.Max)
		}

		p := terms.PBI[src]
		for y := 1; y <= in.Years && y <= p.Term; y++ {
			pbi[y] = in.Energy[y] * finance.Escalate(p.PerKWh, p.Escalation/100, y)
		}

		for y := 0; y < n; y++ {
			r.IBITotal[y] += amt[y] + per[y]
			r.CBITotal[y] += cbi[y]
			r.PBITotal[y] += pbi[y]
		}
		r.IBIAmount[src], r.IBIPercent[src] = amt, per
		r.CBI[src], r.PBI[src] = cbi, pbi
	}

	for _, j := range models.Jurisdictions() {
		ptc := make([]float64, n)
		c := terms.PTC[j]
		for y := 1; y <= in.Years && y <= c.Term; y++ {
			ptc[y] = in.Energy[y] * finance.Escalate(c.PerKWh, c.Escalation/100, y)
		}
		r.PTC[j] = ptc
	}
	return r
}

// Taxable returns the incentive income taxable in j for each year.
func (r Result) Taxable(terms models.Incentives, j models.Jurisdiction) []float64 {
	out := make([]float64, len(r.IBITotal))
	for _, src := range models.Sources() {
		ibi, cbi, pbi := terms.IBI[src], terms.CBI[src], terms.PBI[src]
		for y := range out {
			if ibi.Taxable.In(j) {
				out[y] += r.IBIAmount[src][y] + r.IBIPercent[src][y]
			}
			if cbi.Taxable.In(j) {
				out[y] += r.CBI[src][y]
			}
			if pbi.Taxable.In(j) {
				out[y] += r.PBI[src][y]
			}
		}
	}
	return out
}

// Cash returns the incentive cash received each year.
func (r Result) Cash() []float64 {
	out := make([]float64, len(r.IBITotal))
	for y := range out {
		out[y] = r.IBITotal[y] + r.CBITotal[y] + r.PBITotal[y]
	}
	return out
}

// capped limits v to max; max <= 0 means unlimited.
func capped(v, max float64) float64 {
	if max > 0 {
		return math.Min(v, max)
	}
	return v
}
