// Package finance holds the time-value-of-money primitives shared by the
// debt, ledger and flip packages. Rates are fractions, not percents.
package finance

import "math"

// LevelPaymentFactor returns the annual payment per unit of principal for a
// fully amortizing level-payment loan.
func LevelPaymentFactor(rate float64, years int) float64 {
	if years <= 0 {
		return 0
	}
	if rate == 0 {
		return 1 / float64(years)
	}
	return rate / (1 - math.Pow(1+rate, -float64(years)))
}

// Escalate returns base × (1+rate)^(year-1); year 1 is unescalated.
func Escalate(base, rate float64, year int) float64 {
	return base * math.Pow(1+rate, float64(year-1))
}

// NPV discounts flows[t] by (1+rate)^t, t starting at 0.
func NPV(rate float64, flows []float64) float64 {
	npv := 0.0
	df := 1.0
	for _, cf := range flows {
		npv += cf * df
		df /= 1 + rate
	}
	return npv
}

// NPVFromYearOne discounts flows[1..] starting with one full period of
// discounting, ignoring flows[0].
func NPVFromYearOne(rate float64, flows []float64) float64 {
	if len(flows) < 2 {
		return 0
	}
	return NPV(rate, flows[1:]) / (1 + rate)
}

const (
	irrLower   = -0.99
	irrUpper   = 10.0
	irrTol     = 1e-10
	irrMaxIter = 300
)

// IRR returns the internal rate of return of flows using bisection on NPV.
// It returns NaN when the flows do not change sign over the search interval.
func IRR(flows []float64) float64 {
	lo, hi := irrLower, irrUpper
	flo, fhi := NPV(lo, flows), NPV(hi, flows)
	if math.IsNaN(flo) || math.IsNaN(fhi) || flo*fhi > 0 {
		return math.NaN()
	}
	if flo == 0 {
		return lo
	}
	if fhi == 0 {
		return hi
	}
	for i := 0; i < irrMaxIter && hi-lo > irrTol; i++ {
		mid := (lo + hi) / 2
		fm := NPV(mid, flows)
		if fm == 0 {
			return mid
		}
		if (fm > 0) == (flo > 0) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// Payback returns the fractional year at which the running sum of flows
// first becomes non-negative, interpolating within the crossing year.
// NaN means the cumulative total never recovers.
func Payback(flows []float64) float64 {
	cum := 0.0
	for t, cf := range flows {
		prev := cum
		cum += cf
		if t == 0 {
			if cum >= 0 {
				return 0
			}
			continue
		}
		if cum >= 0 {
			if cf == 0 {
				return float64(t)
			}
			return float64(t-1) + (-prev)/cf
		}
	}
	return math.NaN()
}

// Cumulative returns running totals of flows.
func Cumulative(flows []float64) []float64 {
	out := make([]float64, len(flows))
	sum := 0.0
	for i, v := range flows {
		sum += v
		out[i] = sum
	}
	return out
}
