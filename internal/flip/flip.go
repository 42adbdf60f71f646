// Package flip locates the year the tax investor reaches its target return
// and solves for the PPA price that puts the flip in a requested year.
package flip

import (
	"math"

	"fjacquet/levpartflip/internal/cashflow"
	"fjacquet/levpartflip/internal/finance"
	"fjacquet/levpartflip/internal/models"
)

// Terms are the partnership terms in fractional units.
type Terms struct {
	InvestorEquity float64 // investor share of year-0 equity
	PreFlipShare   float64
	PostFlipShare  float64
	TargetRate     float64
	TargetYear     int
	DiscountRate   float64 // nominal rate for the sponsor NPV
}

// TermsFrom converts the percent-based equity structure. nominalDiscount is
// in percent.
func TermsFrom(eq models.EquityStructure, nominalDiscount float64) Terms {
	return Terms{
		InvestorEquity: eq.TaxInvestorEquity / 100,
		PreFlipShare:   eq.PreFlipShare / 100,
		PostFlipShare:  eq.PostFlipShare / 100,
		TargetRate:     eq.ReturnTarget / 100,
		TargetYear:     eq.ReturnTargetYear,
		DiscountRate:   nominalDiscount / 100,
	}
}

// State is the outcome of a scan.
type State struct {
	Year          int // 0 when the target is never reached
	Reached       bool
	PreFlipShare  float64
	PostFlipShare float64
	InvestorIRR   float64
	SponsorIRR    float64
	SponsorNPV    float64
}

// Scan walks the after-tax cash flow forward, splits it between tax investor
// and sponsor, and writes the partnership rows into l. The flip happens in the
// first year whose cumulative investor NPV at the target rate is non-negative;
// later years use the post-flip share.
func Scan(l *cashflow.Ledger, t Terms) State {
	n := l.Years()
	after := l.Get(cashflow.RowAfterTaxCashFlow)

	share := make([]float64, n+1)
	investor := make([]float64, n+1)
	sponsor := make([]float64, n+1)
	cumNPV := make([]float64, n+1)
	cumIRR := make([]float64, n+1)

	share[0] = t.InvestorEquity
	investor[0] = after[0] * t.InvestorEquity
	sponsor[0] = after[0] - investor[0]
	cumNPV[0] = investor[0]

	st := State{PreFlipShare: t.PreFlipShare, PostFlipShare: t.PostFlipShare}
	df := 1.0
	for y := 1; y <= n; y++ {
		share[y] = t.PreFlipShare
		if st.Reached {
			share[y] = t.PostFlipShare
		}
		investor[y] = after[y] * share[y]
		sponsor[y] = after[y] - investor[y]

		df /= 1 + t.TargetRate
		cumNPV[y] = cumNPV[y-1] + investor[y]*df
		if irr := finance.IRR(investor[:y+1]); !math.IsNaN(irr) {
			cumIRR[y] = irr * 100
		}

		if !st.Reached && cumNPV[y] >= 0 {
			st.Reached = true
			st.Year = y
		}
	}

	l.Set(cashflow.RowTaxInvestorShare, scale(share, 100))
	l.Set(cashflow.RowTaxInvestorAfterTaxCashFlow, investor)
	l.Set(cashflow.RowTaxInvestorCumulativeNPV, cumNPV)
	l.Set(cashflow.RowTaxInvestorCumulativeIRR, cumIRR)
	l.Set(cashflow.RowSponsorAfterTaxCashFlow, sponsor)

	st.InvestorIRR = finance.IRR(investor)
	st.SponsorIRR = finance.IRR(sponsor)
	st.SponsorNPV = finance.NPV(t.DiscountRate, sponsor)
	return st
}

// TargetNPV is the investor's cumulative NPV at the target rate through the
// target year, with every year at the pre-flip share. While operating-year
// flows are positive it is non-negative exactly when Scan would flip no later
// than the target year.
func TargetNPV(after []float64, t Terms) float64 {
	npv := after[0] * t.InvestorEquity
	df := 1.0
	for y := 1; y <= t.TargetYear && y < len(after); y++ {
		df /= 1 + t.TargetRate
		npv += after[y] * t.PreFlipShare * df
	}
	return npv
}

func scale(v []float64, k float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x * k
	}
	return out
}
