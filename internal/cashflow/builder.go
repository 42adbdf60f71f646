package cashflow

import (
	"fmt"

	"fjacquet/levpartflip/internal/costs"
	"fjacquet/levpartflip/internal/debt"
	"fjacquet/levpartflip/internal/incentives"
	"fjacquet/levpartflip/internal/models"
)

// Inputs is everything one ledger build needs.
type Inputs struct {
	Params models.Params
	Energy []float64 // kWh for years 1..N, Energy[0] is year 1
	Price  float64   // first-year PPA price, cents/kWh
	Costs  costs.Summary
}

// Summary holds the scalars established while building the ledger.
type Summary struct {
	Financing        costs.Financing
	Debt             debt.Sizing
	DSRA             float64 // debt service reserve funded at closing
	TotalInstalled   float64 // installed cost plus financing and reserves
	Equity           float64 // TotalInstalled less debt
	DepreciableBasis float64
	MinDSCR          float64
	ITC              map[models.Jurisdiction]incentives.ITC
}

// Builder carries the ledger and intermediate results between stages.
type Builder struct {
	In      Inputs
	Ledger  *Ledger
	Summary Summary

	incentiveResult incentives.Result
}

// Stage is one named step of the ledger pipeline.
type Stage struct {
	Name string
	Run  func(*Builder) error
}

// Stages returns the pipeline in execution order.
func Stages() []Stage {
	return []Stage{
		{Name: "revenue", Run: (*Builder).revenue},
		{Name: "operating_expenses", Run: (*Builder).operatingExpenses},
		{Name: "debt", Run: (*Builder).debt},
		{Name: "incentives", Run: (*Builder).incentives},
		{Name: "depreciation", Run: (*Builder).depreciation},
		{Name: "taxes", Run: (*Builder).taxes},
		{Name: "after_tax", Run: (*Builder).afterTax},
		{Name: "payback", Run: (*Builder).payback},
	}
}

// Build runs every stage and returns the unsealed ledger. The partnership
// rows are left for the flip solver, which seals the ledger.
func Build(in Inputs) (*Ledger, Summary, error) {
	if n := in.Params.AnalysisYears; len(in.Energy) < n {
		return nil, Summary{}, fmt.Errorf("energy series has %d years, need %d", len(in.Energy), n)
	}
	b := &Builder{
		In:     in,
		Ledger: NewLedger(in.Params.AnalysisYears),
	}
	for _, s := range Stages() {
		if err := s.Run(b); err != nil {
			return nil, Summary{}, fmt.Errorf("stage %s: %w", s.Name, err)
		}
	}
	return b.Ledger, b.Summary, nil
}

// years is a shorthand for the horizon.
func (b *Builder) years() int {
	return b.Ledger.Years()
}
