package cashflow

import (
	"math"

	"fjacquet/levpartflip/internal/costs"
	"fjacquet/levpartflip/internal/debt"
	"fjacquet/levpartflip/internal/depreciation"
	"fjacquet/levpartflip/internal/finance"
	"fjacquet/levpartflip/internal/incentives"
	"fjacquet/levpartflip/internal/models"
)

func (b *Builder) revenue() error {
	l, n := b.Ledger, b.years()
	esc := 0.0
	if b.In.Params.PPA != nil {
		esc = b.In.Params.PPA.PriceEscalation() / 100
	}

	energy, price, value := l.zeros(), l.zeros(), l.zeros()
	for y := 1; y <= n; y++ {
		energy[y] = b.In.Energy[y-1]
		price[y] = finance.Escalate(b.In.Price, esc, y)
		value[y] = energy[y] * price[y] / 100
	}
	l.Set(RowEnergyNet, energy)
	l.Set(RowPPAPrice, price)
	l.Set(RowEnergyValue, value)
	return nil
}

func (b *Builder) operatingExpenses() error {
	l, n := b.Ledger, b.years()
	p := b.In.Params
	ops := p.Operations
	installed := b.In.Costs.Installed
	infl := p.Inflation / 100
	omEsc := (1+infl)*(1+ops.Escalation/100) - 1
	energy := l.Get(RowEnergyNet)

	fixed, production, capacity, fuel := l.zeros(), l.zeros(), l.zeros(), l.zeros()
	assessed, propTax, insurance := l.zeros(), l.zeros(), l.zeros()
	for y := 1; y <= n; y++ {
		fixed[y] = finance.Escalate(ops.FixedAnnual, omEsc, y)
		production[y] = finance.Escalate(ops.ProductionPerMWh*energy[y]/1000, omEsc, y)
		capacity[y] = finance.Escalate(ops.CapacityPerKW*p.Nameplate, omEsc, y)
		fuel[y] = finance.Escalate(ops.FuelAnnual, omEsc, y)

		assessed[y] = finance.Escalate(installed*ops.PropTaxCostAssessed/100, -ops.PropTaxAssessedDecline/100, y)
		propTax[y] = assessed[y] * ops.PropertyTaxRate / 100
		insurance[y] = finance.Escalate(installed*ops.InsuranceRate/100, infl, y)
	}
	l.Set(RowOMFixedExpense, fixed)
	l.Set(RowOMProductionExpense, production)
	l.Set(RowOMCapacityExpense, capacity)
	l.Set(RowOMFuelExpense, fuel)
	l.Set(RowPropertyTaxAssessedValue, assessed)
	l.Set(RowPropertyTaxExpense, propTax)
	l.Set(RowInsuranceExpense, insurance)

	opex := l.sum(RowOMFixedExpense, RowOMProductionExpense, RowOMCapacityExpense,
		RowOMFuelExpense, RowPropertyTaxExpense, RowInsuranceExpense)
	l.Set(RowOperatingExpenses, opex)
	l.Set(RowDeductibleExpenses, append([]float64(nil), opex...))

	funding, release, balance := b.equipmentReserves()
	l.Set(RowReserveEquipFunding, funding)
	l.Set(RowReserveEquipRelease, release)
	l.Set(RowReserveEquipBalance, balance)

	value := l.Get(RowEnergyValue)
	cfads := l.zeros()
	for y := 1; y <= n; y++ {
		cfads[y] = value[y] - opex[y] - funding[y]
	}
	l.Set(RowCashAvailableForDebt, cfads)
	return nil
}

// equipmentReserves accrues each account evenly between replacements and
// spends the whole balance in every year that is a multiple of its frequency.
// Years after the last replacement inside the horizon are not funded.
func (b *Builder) equipmentReserves() (funding, release, balance []float64) {
	l, n := b.Ledger, b.years()
	p := b.In.Params
	watts := p.Nameplate * 1000
	infl := p.Inflation / 100

	funding, release, balance = l.zeros(), l.zeros(), l.zeros()
	for _, acct := range p.Reserves.Accounts {
		if acct.Frequency <= 0 || acct.CostPerWatt <= 0 {
			continue
		}
		last := n / acct.Frequency * acct.Frequency
		bal := 0.0
		for y := 1; y <= last; y++ {
			f := finance.Escalate(acct.CostPerWatt*watts, infl, y) / float64(acct.Frequency)
			funding[y] += f
			bal += f
			if y%acct.Frequency == 0 {
				release[y] += bal
				bal = 0
			}
			balance[y] += bal
		}
	}
	return funding, release, balance
}

func (b *Builder) debt() error {
	l, n := b.Ledger, b.years()
	p := b.In.Params
	cfads := l.Get(RowCashAvailableForDebt)
	fin := costs.FinancingCosts(b.In.Costs.Installed, p.Construction, p.Closing)

	// The loan never exceeds what the project costs before its reserve, so
	// equity funds at least the DSRA.
	terms := debt.Terms{
		Tenor:         p.Term.Tenor,
		Rate:          p.Term.InterestRate / 100,
		TargetDSCR:    p.Term.DSCR,
		ReserveMonths: p.Term.ReserveMonths,
		MaxPrincipal:  b.In.Costs.Installed + fin.Total(),
	}
	sizing, err := debt.Size(cfads, terms)
	if err != nil {
		return err
	}
	sch := debt.Amortize(sizing, terms.Rate, n)
	dsra := debt.ServiceReserve(sizing, terms, cfads, sch.Payment)

	l.Set(RowDebtBalance, sch.Balance)
	l.Set(RowDebtPaymentInterest, sch.Interest)
	l.Set(RowDebtPaymentPrincipal, sch.Principal)
	l.Set(RowDebtPaymentTotal, sch.Payment)
	l.Set(RowDSCR, debt.Coverage(cfads, sch.Payment))
	l.Set(RowReserveDebtFunding, dsra.Funding)
	l.Set(RowReserveDebtDraw, dsra.Draw)
	l.Set(RowReserveDebtRelease, dsra.Release)
	l.Set(RowReserveDebtBalance, dsra.Balance)

	working := p.Closing.WorkingReserve
	omBalance, omRelease := l.zeros(), l.zeros()
	for y := 0; y < n; y++ {
		omBalance[y] = working
	}
	omRelease[n] = working
	l.Set(RowReserveOMBalance, omBalance)
	l.Set(RowReserveOMRelease, omRelease)

	equip := l.Get(RowReserveEquipBalance)
	interest := l.zeros()
	for y := 1; y <= n; y++ {
		interest[y] = p.Operations.ReservesInterest / 100 * (dsra.Balance[y-1] + omBalance[y-1] + equip[y-1])
	}
	l.Set(RowReserveInterest, interest)

	total := b.In.Costs.Installed + fin.Total() + dsra.Funding[0]
	b.Summary.Financing = fin
	b.Summary.Debt = sizing
	b.Summary.DSRA = dsra.Funding[0]
	b.Summary.TotalInstalled = total
	b.Summary.Equity = total - sizing.Principal
	b.Summary.MinDSCR = debt.MinCoverage(cfads, sch.Payment)
	return nil
}

func (b *Builder) incentives() error {
	l, n := b.Ledger, b.years()
	p := b.In.Params

	res := incentives.Compute(incentives.Inputs{
		Years:     n,
		Installed: b.In.Costs.Installed,
		Nameplate: p.Nameplate,
		Energy:    l.Get(RowEnergyNet),
	}, p.Incentives)
	b.incentiveResult = res

	for _, src := range models.Sources() {
		l.Set(ibiAmtRows[src], res.IBIAmount[src])
		l.Set(ibiPerRows[src], res.IBIPercent[src])
		l.Set(cbiRows[src], res.CBI[src])
		l.Set(pbiRows[src], res.PBI[src])
	}
	l.Set(RowIBITotal, res.IBITotal)
	l.Set(RowCBITotal, res.CBITotal)
	l.Set(RowPBITotal, res.PBITotal)

	basis := b.In.Costs.Installed + b.Summary.Financing.Depreciable()
	b.Summary.DepreciableBasis = basis
	b.Summary.ITC = incentives.AllocateITC(basis, p.Depreciation, p.Incentives.ITC)

	for _, j := range models.Jurisdictions() {
		rows := jurisdictionRows[j]
		itc := b.Summary.ITC[j]
		amt, per, total := l.zeros(), l.zeros(), l.zeros()
		if n >= 1 {
			amt[1], per[1], total[1] = itc.Amount, itc.Percent, itc.Total()
		}
		l.Set(rows.PTC, res.PTC[j])
		l.Set(rows.ITCAmt, amt)
		l.Set(rows.ITCPer, per)
		l.Set(rows.ITCTotal, total)
	}
	return nil
}

func (b *Builder) depreciation() error {
	l, n := b.Ledger, b.years()
	terms := b.In.Params.Depreciation
	basis := b.Summary.DepreciableBasis
	release := l.Get(RowReserveEquipRelease)

	for _, j := range models.Jurisdictions() {
		depr := l.zeros()
		reduction := b.Summary.ITC[j].Reduction
		for _, c := range depreciation.Classes() {
			alloc := terms.Allocation[c]
			if alloc <= 0 {
				continue
			}
			classBasis := basis*alloc/100 - reduction[c]
			if classBasis <= 0 {
				continue
			}
			bonus := 0.0
			if terms.Treatment[c].For(j).Bonus {
				bonus = classBasis * terms.Bonus[j] / 100
			}
			if n >= 1 {
				depr[1] += bonus
			}
			f := depreciation.Factors(c, n)
			for y := 1; y <= n; y++ {
				depr[y] += (classBasis - bonus) * f[y]
			}
		}

		// replacements are placed in service in the release year
		cls := b.In.Params.Reserves.Depreciation[j]
		for r := 1; r <= n; r++ {
			if release[r] == 0 {
				continue
			}
			f := depreciation.Factors(cls, n-r+1)
			for k := 1; r+k-1 <= n; k++ {
				depr[r+k-1] += release[r] * f[k]
			}
		}

		sched := l.zeros()
		if basis > 0 {
			for y := range sched {
				sched[y] = depr[y] / basis * 100
			}
		}
		rows := jurisdictionRows[j]
		l.Set(rows.DeprSched, sched)
		l.Set(rows.Depreciation, depr)
	}
	return nil
}

func (b *Builder) taxes() error {
	l, n := b.Ledger, b.years()
	p := b.In.Params
	revenue := l.Get(RowEnergyValue)
	interestIncome := l.Get(RowReserveInterest)
	deductible := l.Get(RowDeductibleExpenses)
	debtInterest := l.Get(RowDebtPaymentInterest)

	for _, j := range models.Jurisdictions() {
		rows := jurisdictionRows[j]
		rate := p.Tax.FederalRate / 100
		if j == models.State {
			rate = p.Tax.StateRate / 100
		}
		depr := l.Get(rows.Depreciation)
		itc := l.Get(rows.ITCTotal)
		ptc := l.Get(rows.PTC)
		taxableIncentives := b.incentiveResult.Taxable(p.Incentives, j)

		income, withIncentives, savings := l.zeros(), l.zeros(), l.zeros()
		for y := 1; y <= n; y++ {
			income[y] = revenue[y] + interestIncome[y] - deductible[y] - debtInterest[y] - depr[y]
			withIncentives[y] = income[y] + taxableIncentives[y]
			if j == models.Federal {
				// state tax is deductible federally
				withIncentives[y] += l.At(RowStaTaxSavings, y)
			}
			savings[y] = -withIncentives[y]*rate + itc[y] + ptc[y]
		}
		l.Set(rows.TaxableIncome, income)
		l.Set(rows.IncentiveIncome, withIncentives)
		l.Set(rows.Savings, savings)
	}
	l.Set(RowStaAndFedTaxSavings, l.sum(RowStaTaxSavings, RowFedTaxSavings))
	return nil
}

func (b *Builder) afterTax() error {
	l, n := b.Ledger, b.years()
	cfads := l.Get(RowCashAvailableForDebt)
	payment := l.Get(RowDebtPaymentTotal)
	cash := b.incentiveResult.Cash()
	interest := l.Get(RowReserveInterest)
	draw := l.Get(RowReserveDebtDraw)
	dsraRelease := l.Get(RowReserveDebtRelease)
	omRelease := l.Get(RowReserveOMRelease)
	savings := l.Get(RowStaAndFedTaxSavings)
	value := l.Get(RowEnergyValue)

	pretax, after, net := l.zeros(), l.zeros(), l.zeros()
	pretax[0] = -b.Summary.Equity
	after[0] = pretax[0]
	net[0] = after[0]
	for y := 1; y <= n; y++ {
		pretax[y] = cfads[y] - payment[y] + cash[y] + interest[y] + draw[y] + dsraRelease[y] + omRelease[y]
		after[y] = pretax[y] + savings[y]
		net[y] = after[y] - value[y]
	}
	l.Set(RowPretaxCashFlow, pretax)
	l.Set(RowAfterTaxCashFlow, after)
	l.Set(RowAfterTaxNetEquityCostFlow, net)
	return nil
}

func (b *Builder) payback() error {
	l, n := b.Ledger, b.years()
	after := l.Get(RowAfterTaxCashFlow)
	opex := l.Get(RowOperatingExpenses)
	rate := costs.NominalDiscount(b.In.Params.Inflation, b.In.Params.DiscountReal) / 100

	with := append([]float64(nil), after...)
	without, discounted := l.zeros(), l.zeros()
	without[0] = after[0]
	for y := 1; y <= n; y++ {
		without[y] = after[y] + opex[y]
	}
	for y := 0; y <= n; y++ {
		discounted[y] = after[y] / math.Pow(1+rate, float64(y))
	}

	l.Set(RowPaybackWithExpenses, with)
	l.Set(RowCumulativePaybackWithExpenses, finance.Cumulative(with))
	l.Set(RowPaybackWithoutExpenses, without)
	l.Set(RowCumulativePaybackWithoutExpenses, finance.Cumulative(without))
	l.Set(RowDiscountedCumulativePayback, finance.Cumulative(discounted))
	return nil
}
