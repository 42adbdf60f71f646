package costs

import (
	"math"
	"testing"

	"fjacquet/levpartflip/internal/models"

	"github.com/stretchr/testify/assert"
)

func exampleInputs() models.CostInputs {
	return models.CostInputs{
		GenEquip:       24_000_000,
		BOP:            8_000_000,
		Network:        3_500_000,
		ContingencyPct: 1,
		Developer:      2_000_000,
		LandImprove:    200_000,
		Other:          75_000,
		PercentTaxable: 100,
	}
}

func TestRollUp_ReferenceScenario(t *testing.T) {
	s := RollUp(exampleInputs(), 5, 10_000)

	assert.InDelta(t, 355_000, s.Contingency, 1e-6)
	assert.InDelta(t, 35_855_000, s.Hard, 1e-6)
	assert.InDelta(t, 2_275_000, s.SoftPreTax, 1e-6)
	assert.InDelta(t, 1_906_500, s.SalesTax, 1e-6)
	assert.InDelta(t, 4_181_500, s.Soft, 1e-6)
	assert.InDelta(t, 40_036_500, s.Installed, 1e-6)
	assert.InDelta(t, 4.00365, s.PerWatt, 1e-9)
}

func TestRollUp_InstalledEqualsHardPlusSoft(t *testing.T) {
	cases := []models.CostInputs{
		{},
		exampleInputs(),
		{GenEquip: 1.5e7, ContingencyPct: 12.5, Other: 33_333.33, PercentTaxable: 40},
		{BOP: 1, Network: 2, Developer: 3, LandImprove: 4, PercentTaxable: 100, ContingencyPct: 100},
	}

	for _, in := range cases {
		for _, rate := range []float64{0, 5, 8.875} {
			s := RollUp(in, rate, 2500)
			assert.Equal(t, s.Hard+s.Soft, s.Installed)
			assert.GreaterOrEqual(t, s.Installed, 0.0)
		}
	}
}

func TestRollUp_PerWattScalesInversely(t *testing.T) {
	small := RollUp(exampleInputs(), 5, 10_000)
	large := RollUp(exampleInputs(), 5, 20_000)

	assert.InDelta(t, small.PerWatt/2, large.PerWatt, 1e-12)
	assert.Equal(t, small.Installed, large.Installed)
}

func TestRollUp_ZeroNameplate(t *testing.T) {
	s := RollUp(exampleInputs(), 5, 0)
	assert.True(t, math.IsInf(s.PerWatt, 1))
	assert.InDelta(t, 40_036_500, s.Installed, 1e-6)
}

func TestNominalDiscount(t *testing.T) {
	assert.InDelta(t, 9.675, NominalDiscount(2.5, 7), 1e-9)
	assert.InDelta(t, 0, NominalDiscount(0, 0), 1e-12)
}

func TestFinancingCosts(t *testing.T) {
	f := FinancingCosts(40_000_000,
		models.Construction{PeriodMonths: 10, InterestRate: 4, UpfrontFee: 1},
		models.Closing{DebtClosing: 250_000, EquityClosing: 100_000, WorkingReserve: 150_000},
	)

	assert.InDelta(t, 40_000_000*0.04*10/12/2, f.ConstructionInterest, 1e-6)
	assert.InDelta(t, 400_000, f.UpfrontFee, 1e-6)
	assert.InDelta(t, f.ConstructionInterest+400_000+350_000, f.Depreciable(), 1e-6)
	assert.InDelta(t, f.Depreciable()+150_000, f.Total(), 1e-6)
}
