package flip

import (
	"errors"
	"math"
	"testing"

	"fjacquet/levpartflip/internal/cashflow"
	"fjacquet/levpartflip/internal/modelerror"
	"fjacquet/levpartflip/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerWith(after []float64) *cashflow.Ledger {
	l := cashflow.NewLedger(len(after) - 1)
	l.Set(cashflow.RowAfterTaxCashFlow, after)
	return l
}

func level(first, each float64, years int) []float64 {
	out := make([]float64, years+1)
	out[0] = first
	for y := 1; y <= years; y++ {
		out[y] = each
	}
	return out
}

var testTerms = Terms{
	InvestorEquity: 1,
	PreFlipShare:   1,
	PostFlipShare:  0.1,
	TargetRate:     0.1,
	TargetYear:     5,
	DiscountRate:   0.08,
}

func TestTermsFrom(t *testing.T) {
	tt := TermsFrom(models.EquityStructure{
		TaxInvestorEquity: 98, PreFlipShare: 98, PostFlipShare: 15,
		ReturnTarget: 11, ReturnTargetYear: 11,
	}, 9.675)
	assert.InDelta(t, 0.98, tt.InvestorEquity, 1e-12)
	assert.InDelta(t, 0.15, tt.PostFlipShare, 1e-12)
	assert.InDelta(t, 0.11, tt.TargetRate, 1e-12)
	assert.Equal(t, 11, tt.TargetYear)
	assert.InDelta(t, 0.09675, tt.DiscountRate, 1e-12)
}

func TestScan_FlipYearAndShares(t *testing.T) {
	l := ledgerWith(level(-100, 30, 8))
	st := Scan(l, testTerms)

	require.True(t, st.Reached)
	assert.Equal(t, 5, st.Year)

	share := l.Get(cashflow.RowTaxInvestorShare)
	for y := 1; y <= 5; y++ {
		assert.Equal(t, 100.0, share[y], "year %d", y)
	}
	for y := 6; y <= 8; y++ {
		assert.InDelta(t, 10.0, share[y], 1e-12, "year %d", y)
	}

	assert.InDelta(t, 3, l.At(cashflow.RowTaxInvestorAfterTaxCashFlow, 6), 1e-12)
	assert.InDelta(t, 27, l.At(cashflow.RowSponsorAfterTaxCashFlow, 6), 1e-12)
	assert.Equal(t, 0.0, l.At(cashflow.RowSponsorAfterTaxCashFlow, 0))

	npv := l.Get(cashflow.RowTaxInvestorCumulativeNPV)
	assert.Less(t, npv[4], 0.0)
	assert.GreaterOrEqual(t, npv[5], 0.0)
	for y := 1; y < len(npv); y++ {
		assert.GreaterOrEqual(t, npv[y], npv[y-1], "cumulative npv decreased in year %d", y)
	}

	irr := l.Get(cashflow.RowTaxInvestorCumulativeIRR)
	assert.Equal(t, 0.0, irr[0])
	assert.InDelta(t, -70, irr[1], 1e-6)
	assert.Greater(t, irr[5], 10.0)
	assert.False(t, math.IsNaN(st.InvestorIRR))
}

func TestScan_NotReached(t *testing.T) {
	l := ledgerWith(level(-100, 1, 4))
	st := Scan(l, testTerms)

	assert.False(t, st.Reached)
	assert.Equal(t, 0, st.Year)
	for _, s := range l.Get(cashflow.RowTaxInvestorShare)[1:] {
		assert.Equal(t, 100.0, s)
	}
}

func TestTargetNPV_MatchesScan(t *testing.T) {
	after := level(-100, 30, 8)
	l := ledgerWith(after)
	Scan(l, testTerms)

	assert.InDelta(t, l.At(cashflow.RowTaxInvestorCumulativeNPV, 5), TargetNPV(after, testTerms), 1e-9)
}

func TestSolvePrice(t *testing.T) {
	price, err := SolvePrice(func(p float64) (float64, error) { return p*10 - 55, nil }, DefaultBounds())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, price, 5.5)
	assert.InDelta(t, 5.5, price, 5.5*1e-6)
}

func TestSolvePrice_BracketsAboveInitialUpper(t *testing.T) {
	price, err := SolvePrice(func(p float64) (float64, error) { return p - 37, nil }, DefaultBounds())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, price, 37.0)
	assert.InDelta(t, 37, price, 37*1e-6)
}

func TestSolvePrice_DebtInfeasibleCountsAsBelowTarget(t *testing.T) {
	eval := func(p float64) (float64, error) {
		if p < 3 {
			return 0, &modelerror.DebtSizingError{TargetDSCR: 1.3, Year: 1, CFADS: -1}
		}
		return p - 4, nil
	}
	price, err := SolvePrice(eval, DefaultBounds())
	require.NoError(t, err)
	assert.InDelta(t, 4, price, 4*1e-6)
}

func TestSolvePrice_Failures(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		_, err := SolvePrice(func(float64) (float64, error) { return -1, nil }, DefaultBounds())
		require.Error(t, err)
		assert.True(t, errors.Is(err, modelerror.ErrNoConvergence))

		var conv *modelerror.ConvergenceError
		require.True(t, errors.As(err, &conv))
		assert.LessOrEqual(t, conv.Upper, DefaultBounds().MaxUpper)
	})

	t.Run("iteration cap", func(t *testing.T) {
		b := DefaultBounds()
		b.MaxIter = 5
		_, err := SolvePrice(func(p float64) (float64, error) { return p - 5.123, nil }, b)
		assert.True(t, errors.Is(err, modelerror.ErrNoConvergence))
	})

	t.Run("evaluation error propagates", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := SolvePrice(func(float64) (float64, error) { return 0, boom }, DefaultBounds())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("lower bound already exceeds target", func(t *testing.T) {
		_, err := SolvePrice(func(float64) (float64, error) { return 1, nil }, DefaultBounds())
		require.Error(t, err)
		assert.True(t, errors.Is(err, modelerror.ErrNoConvergence))
		assert.Contains(t, err.Error(), "target met at lower price bound")
	})

	t.Run("lower bound hits target exactly", func(t *testing.T) {
		price, err := SolvePrice(func(p float64) (float64, error) { return -p, nil }, DefaultBounds())
		require.NoError(t, err)
		assert.Equal(t, 0.0, price)
	})
}
