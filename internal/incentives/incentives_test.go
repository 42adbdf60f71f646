package incentives

import (
	"testing"

	"fjacquet/levpartflip/internal/depreciation"
	"fjacquet/levpartflip/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInputs() Inputs {
	return Inputs{
		Years:     4,
		Installed: 10_000_000,
		Nameplate: 2_000,
		Energy:    []float64{0, 1e6, 1e6, 1e6, 1e6},
	}
}

func TestCompute_InvestmentAndCapacity(t *testing.T) {
	terms := models.Incentives{
		IBI: map[models.Source]models.InvestmentIncentive{
			models.SourceFederal: {Amount: 50_000},
			models.SourceState:   {Percent: 10, Max: 600_000},
			models.SourceUtility: {Percent: 2},
		},
		CBI: map[models.Source]models.CapacityIncentive{
			models.SourceUtility: {PerWatt: 0.1, Max: 150_000},
			models.SourceOther:   {PerWatt: 0.05},
		},
	}

	r := Compute(testInputs(), terms)

	assert.Equal(t, 50_000.0, r.IBIAmount[models.SourceFederal][1])
	assert.Equal(t, 600_000.0, r.IBIPercent[models.SourceState][1])
	assert.InDelta(t, 200_000, r.IBIPercent[models.SourceUtility][1], 1e-9)
	assert.InDelta(t, 850_000, r.IBITotal[1], 1e-9)
	assert.Equal(t, 0.0, r.IBITotal[0])
	assert.Equal(t, 0.0, r.IBITotal[2])

	assert.Equal(t, 150_000.0, r.CBI[models.SourceUtility][1])
	assert.InDelta(t, 100_000, r.CBI[models.SourceOther][1], 1e-9)
	assert.InDelta(t, 250_000, r.CBITotal[1], 1e-9)
}

func TestCompute_ProductionBasedTermAndEscalation(t *testing.T) {
	terms := models.Incentives{
		PBI: map[models.Source]models.ProductionIncentive{
			models.SourceState: {PerKWh: 0.01, Term: 2, Escalation: 10},
		},
		PTC: map[models.Jurisdiction]models.ProductionCredit{
			models.Federal: {PerKWh: 0.02, Term: 3},
		},
	}

	r := Compute(testInputs(), terms)

	pbi := r.PBI[models.SourceState]
	assert.InDelta(t, 10_000, pbi[1], 1e-9)
	assert.InDelta(t, 11_000, pbi[2], 1e-9)
	assert.Equal(t, 0.0, pbi[3])
	assert.Equal(t, pbi, r.PBITotal)

	ptc := r.PTC[models.Federal]
	assert.InDelta(t, 20_000, ptc[3], 1e-9)
	assert.Equal(t, 0.0, ptc[4])
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, r.PTC[models.State])
}

func TestResult_TaxableAndCash(t *testing.T) {
	terms := models.Incentives{
		IBI: map[models.Source]models.InvestmentIncentive{
			models.SourceUtility: {Amount: 1000, Taxable: models.Taxable{Federal: true, State: true}},
		},
		CBI: map[models.Source]models.CapacityIncentive{
			models.SourceState: {PerWatt: 0.001, Taxable: models.Taxable{Federal: true}},
		},
		PBI: map[models.Source]models.ProductionIncentive{
			models.SourceOther: {PerKWh: 0.001, Term: 1},
		},
	}

	r := Compute(testInputs(), terms)

	assert.InDelta(t, 3000, r.Taxable(terms, models.Federal)[1], 1e-9)
	assert.InDelta(t, 1000, r.Taxable(terms, models.State)[1], 1e-9)
	assert.InDelta(t, 4000, r.Cash()[1], 1e-9)
}

func TestAllocateITC(t *testing.T) {
	terms := models.DepreciationTerms{
		Allocation: map[depreciation.Class]float64{
			depreciation.MACRS5: 90,
			depreciation.SL15:   5,
			depreciation.SL39:   5,
		},
		Treatment: map[depreciation.Class]models.ClassTreatment{
			depreciation.MACRS5: {Federal: models.Capability{ITC: true}, State: models.Capability{ITC: true}},
			depreciation.SL15:   {Federal: models.Capability{ITC: true}},
		},
	}
	credits := map[models.Jurisdiction]models.InvestmentCredit{
		models.Federal: {Percent: 30},
		models.State:   {Percent: 10, Max: 500_000, Amount: 20_000},
	}

	itc := AllocateITC(10_000_000, terms, credits)

	fed := itc[models.Federal]
	assert.InDelta(t, 9_500_000, fed.EligibleBasis, 1e-6)
	assert.InDelta(t, 2_850_000, fed.Total(), 1e-6)
	assert.InDelta(t, 0.5*2_850_000*90/95, fed.Reduction[depreciation.MACRS5], 1e-6)
	assert.InDelta(t, 0.5*2_850_000*5/95, fed.Reduction[depreciation.SL15], 1e-6)
	_, ok := fed.Reduction[depreciation.SL39]
	assert.False(t, ok)

	sta := itc[models.State]
	assert.InDelta(t, 9_000_000, sta.EligibleBasis, 1e-6)
	assert.Equal(t, 500_000.0, sta.Percent)
	assert.Equal(t, 520_000.0, sta.Total())
	assert.InDelta(t, 260_000, sta.Reduction[depreciation.MACRS5], 1e-6)
}

func TestAllocateITC_NoEligibleClass(t *testing.T) {
	terms := models.DepreciationTerms{
		Allocation: map[depreciation.Class]float64{depreciation.MACRS5: 100},
	}
	itc := AllocateITC(1e6, terms, map[models.Jurisdiction]models.InvestmentCredit{
		models.Federal: {Percent: 30, Amount: 1000},
	})

	fed := itc[models.Federal]
	require.NotNil(t, fed.Reduction)
	assert.Equal(t, 0.0, fed.EligibleBasis)
	assert.Equal(t, 1000.0, fed.Total())
	assert.Empty(t, fed.Reduction)
}
