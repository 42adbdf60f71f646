// Package costs aggregates capital cost components into installed cost.
package costs

import "fjacquet/levpartflip/internal/models"

// Summary is the pre-financing cost roll-up.
type Summary struct {
	Contingency float64
	Hard        float64 // equipment + BOP + network + contingency
	SoftPreTax  float64 // developer + land + other
	SalesTax    float64
	Soft        float64 // SoftPreTax + SalesTax
	Installed   float64 // Hard + Soft
	PerWatt     float64 // $/W; non-finite when nameplate is zero
}

// RollUp computes the cost summary. Nameplate is in kW.
func RollUp(in models.CostInputs, salesTaxRate, nameplate float64) Summary {
	direct := in.GenEquip + in.BOP + in.Network
	contingency := direct * in.ContingencyPct / 100

	hard := direct + contingency
	softPreTax := in.Developer + in.LandImprove + in.Other
	salesTax := (hard + softPreTax) * in.PercentTaxable / 100 * salesTaxRate / 100
	soft := softPreTax + salesTax

	installed := hard + soft
	return Summary{
		Contingency: contingency,
		Hard:        hard,
		SoftPreTax:  softPreTax,
		SalesTax:    salesTax,
		Soft:        soft,
		Installed:   installed,
		PerWatt:     installed / (nameplate * 1000),
	}
}

// NominalDiscount combines inflation and the real discount rate, all in percent.
func NominalDiscount(inflation, real float64) float64 {
	return ((1+inflation/100)*(1+real/100) - 1) * 100
}

// Financing holds up-front financing costs added on top of installed cost.
type Financing struct {
	ConstructionInterest float64
	UpfrontFee           float64
	DebtClosing          float64
	EquityClosing        float64
	WorkingReserve       float64
}

// Depreciable is the part of financing cost capitalized into depreciable basis.
func (f Financing) Depreciable() float64 {
	return f.ConstructionInterest + f.UpfrontFee + f.DebtClosing + f.EquityClosing
}

// Total is every up-front financing cost, reserves included.
func (f Financing) Total() float64 {
	return f.Depreciable() + f.WorkingReserve
}

// FinancingCosts estimates construction-period costs assuming the installed
// cost is drawn evenly, so the average outstanding balance is half of it.
func FinancingCosts(installed float64, c models.Construction, cl models.Closing) Financing {
	months := float64(c.PeriodMonths)
	return Financing{
		ConstructionInterest: installed * c.InterestRate / 100 * months / 12 / 2,
		UpfrontFee:           installed * c.UpfrontFee / 100,
		DebtClosing:          cl.DebtClosing,
		EquityClosing:        cl.EquityClosing,
		WorkingReserve:       cl.WorkingReserve,
	}
}
