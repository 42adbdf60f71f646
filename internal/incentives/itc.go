package incentives

import (
	"fjacquet/levpartflip/internal/depreciation"
	"fjacquet/levpartflip/internal/models"
)

// BasisReductionFraction is the share of a claimed ITC deducted from the
// depreciable basis of the classes that generated it.
const BasisReductionFraction = 0.5

// ITC is the investment tax credit of one jurisdiction.
type ITC struct {
	EligibleBasis float64
	Amount        float64 // fixed-amount credit
	Percent       float64 // percent-of-basis credit after the cap
	Reduction     map[depreciation.Class]float64
}

// Total is the credit claimed in year 1.
func (c ITC) Total() float64 {
	return c.Amount + c.Percent
}

// AllocateITC computes the state and federal ITC against basis and spreads
// each credit's basis reduction over its eligible classes in proportion to
// their allocation. A jurisdiction with no eligible class gets no reduction.
func AllocateITC(basis float64, terms models.DepreciationTerms, credits map[models.Jurisdiction]models.InvestmentCredit) map[models.Jurisdiction]ITC {
	out := make(map[models.Jurisdiction]ITC, 2)
	for _, j := range models.Jurisdictions() {
		eligibleAlloc := 0.0
		for _, c := range depreciation.Classes() {
			if terms.Treatment[c].For(j).ITC {
				eligibleAlloc += terms.Allocation[c]
			}
		}

		credit := credits[j]
		itc := ITC{
			EligibleBasis: basis * eligibleAlloc / 100,
			Amount:        credit.Amount,
			Reduction:     make(map[depreciation.Class]float64),
		}
		itc.Percent = capped(itc.EligibleBasis*credit.Percent/100, credit.Max)

		if eligibleAlloc > 0 {
			for _, c := range depreciation.Classes() {
				if terms.Treatment[c].For(j).ITC && terms.Allocation[c] > 0 {
					itc.Reduction[c] = BasisReductionFraction * itc.Total() * terms.Allocation[c] / eligibleAlloc
				}
			}
		}
		out[j] = itc
	}
	return out
}
