package flip

import (
	"errors"
	"math"

	"fjacquet/levpartflip/internal/modelerror"
)

// Bounds controls the PPA price search. Prices are in cents/kWh.
type Bounds struct {
	Lower     float64
	Upper     float64 // first upper bracket, doubled until the target is met
	MaxUpper  float64
	Tolerance float64 // relative width of the final bracket
	MaxIter   int
}

// DefaultBounds returns the search settings used when none are configured.
func DefaultBounds() Bounds {
	return Bounds{
		Lower:     0,
		Upper:     10,
		MaxUpper:  10_000,
		Tolerance: 1e-6,
		MaxIter:   200,
	}
}

// Evaluator returns the target NPV for a trial first-year price. A positive
// value means the price is high enough.
type Evaluator func(price float64) (float64, error)

// SolvePrice finds the lowest price at which eval is non-negative. The upper
// bracket is doubled until the target is met, then bisected. The returned
// price is always the upper end of the final bracket so the target is met.
// Trial prices for which debt sizing fails count as below target. A target
// already exceeded at the lower bound cannot be hit exactly and is reported
// as a convergence failure.
func SolvePrice(eval Evaluator, b Bounds) (float64, error) {
	iter := 0
	value := func(price float64) (float64, error) {
		iter++
		v, err := eval(price)
		if errors.Is(err, modelerror.ErrDebtInfeasible) {
			return math.Inf(-1), nil
		}
		if err != nil {
			return 0, err
		}
		if math.IsNaN(v) {
			return 0, &modelerror.NonFiniteError{Output: "target npv", Value: v}
		}
		return v, nil
	}
	meets := func(price float64) (bool, error) {
		v, err := value(price)
		return v >= 0, err
	}

	lo, hi := b.Lower, b.Upper
	if hi <= lo {
		hi = lo + 1
	}

	v, err := value(lo)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return lo, nil
	}
	if v > 0 {
		return 0, &modelerror.ConvergenceError{
			Iterations: iter, Lower: lo, Upper: lo,
			Reason: "target met at lower price bound",
		}
	}

	for {
		ok, err := meets(hi)
		if err != nil {
			return 0, err
		}
		if ok {
			break
		}
		if iter >= b.MaxIter || hi*2 > b.MaxUpper {
			return 0, &modelerror.ConvergenceError{
				Iterations: iter, Lower: lo, Upper: hi,
				Reason: "target return not reached at the highest price tried",
			}
		}
		lo, hi = hi, hi*2
	}

	for hi-lo > b.Tolerance*math.Abs(hi) {
		if iter >= b.MaxIter {
			return 0, &modelerror.ConvergenceError{
				Iterations: iter, Lower: lo, Upper: hi,
				Reason: "bracket did not narrow to tolerance",
			}
		}
		mid := lo + (hi-lo)/2
		ok, err := meets(mid)
		if err != nil {
			return 0, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, nil
}
