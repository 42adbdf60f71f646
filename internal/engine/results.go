package engine

import (
	"math"

	"fjacquet/levpartflip/internal/cashflow"
	"fjacquet/levpartflip/internal/finance"
	"fjacquet/levpartflip/internal/models"
)

// Results flattens the outcome into the named table reported to the host.
// Rates of return are in percent; undefined ones are NaN.
func (o *Outcome) Results() models.Results {
	r := models.NewResults()
	s := o.Summary
	l := o.Ledger
	set := func(name string, v float64) { r.Scalars[name] = v }

	set("cost_contingency", o.Costs.Contingency)
	set("cost_hard", o.Costs.Hard)
	set("cost_soft", o.Costs.Soft)
	set("cost_salestax", o.Costs.SalesTax)
	set("cost_installed", o.Costs.Installed)
	set("cost_installedperwatt", o.Costs.PerWatt)
	set("discount_nominal", o.NominalDiscount)
	set("prop_tax_assessed_value", l.At(cashflow.RowPropertyTaxAssessedValue, 1))

	set("ppa_price", o.Price)
	set("size_of_debt", s.Debt.Principal)
	set("size_of_equity", s.Equity)
	set("cost_financing", s.Financing.Total())
	set("cost_installed_total", s.TotalInstalled)
	set("dscr_min", s.MinDSCR)
	set("debt_binding_year", float64(s.Debt.BindingYear))
	set("dsra_initial", s.DSRA)

	set("flip_year", float64(o.Flip.Year))
	set("flip_reached", boolFloat(o.Flip.Reached))
	set("tax_investor_irr", percent(o.Flip.InvestorIRR))
	set("sponsor_irr", percent(o.Flip.SponsorIRR))
	set("sponsor_npv", o.Flip.SponsorNPV)

	rate := o.NominalDiscount / 100
	after := l.Get(cashflow.RowAfterTaxCashFlow)
	set("after_tax_npv", finance.NPV(rate, after))
	set("after_tax_irr", percent(finance.IRR(after)))
	set("payback", finance.Payback(l.Get(cashflow.RowPaybackWithExpenses)))
	set("discounted_payback", discountedPayback(l.Get(cashflow.RowDiscountedCumulativePayback)))

	lcoeNom, lcoeReal := o.lcoe()
	set("lcoe_nom", lcoeNom)
	set("lcoe_real", lcoeReal)

	r.Arrays = l.Arrays()
	return r
}

// lcoe levelizes the net equity cost of energy over discounted generation,
// in cents/kWh. Generation is discounted at the nominal rate for the nominal
// figure and at the real rate for the real one.
func (o *Outcome) lcoe() (nominal, inflationAdjusted float64) {
	l := o.Ledger
	cost := -finance.NPV(o.NominalDiscount/100, l.Get(cashflow.RowAfterTaxNetEquityCostFlow))
	energy := l.Get(cashflow.RowEnergyNet)
	nomEnergy := finance.NPVFromYearOne(o.NominalDiscount/100, energy)
	realEnergy := finance.NPVFromYearOne(o.Params.DiscountReal/100, energy)
	return cost / nomEnergy * 100, cost / realEnergy * 100
}

// discountedPayback reads the crossing year off the cumulative discounted row.
func discountedPayback(cumulative []float64) float64 {
	flows := make([]float64, len(cumulative))
	prev := 0.0
	for i, c := range cumulative {
		flows[i] = c - prev
		prev = c
	}
	return finance.Payback(flows)
}

func percent(rate float64) float64 {
	if math.IsNaN(rate) {
		return rate
	}
	return rate * 100
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
