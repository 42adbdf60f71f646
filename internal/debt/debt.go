// Package debt sizes a level-payment term loan against a minimum debt
// service coverage ratio and builds its amortization schedule.
package debt

import (
	"math"

	"fjacquet/levpartflip/internal/finance"
	"fjacquet/levpartflip/internal/modelerror"
)

// Terms are the loan terms in fractional units.
type Terms struct {
	Tenor         int
	Rate          float64 // fraction
	TargetDSCR    float64
	ReserveMonths int
	MaxPrincipal  float64 // project cost the loan may not exceed; 0 means uncapped
}

// Sizing is the outcome of Size.
type Sizing struct {
	Principal   float64
	Payment     float64 // level annual payment
	BindingYear int     // year whose coverage equals the target; 0 when no debt or cost capped
	Tenor       int     // effective tenor after capping at the horizon
	CostCapped  bool    // principal limited by MaxPrincipal rather than coverage
}

// Size returns the largest principal whose level payment is covered at least
// TargetDSCR times in every year of the tenor. cfads is indexed by year and
// cfads[0] is ignored.
//
// Coverage in year y is cfads[y] / (P × a), so each year bounds the principal
// at cfads[y] / (DSCR × a) and the tightest bound wins. A positive
// MaxPrincipal bounds it as well, leaving every year above the target.
func Size(cfads []float64, t Terms) (Sizing, error) {
	tenor := t.Tenor
	if horizon := len(cfads) - 1; tenor > horizon {
		tenor = horizon
	}
	if tenor <= 0 {
		return Sizing{}, nil
	}
	if t.TargetDSCR <= 0 {
		return Sizing{}, &modelerror.DebtSizingError{TargetDSCR: t.TargetDSCR}
	}

	factor := finance.LevelPaymentFactor(t.Rate, tenor)
	principal := math.Inf(1)
	binding := 0
	for y := 1; y <= tenor; y++ {
		if cfads[y] <= 0 {
			return Sizing{}, &modelerror.DebtSizingError{TargetDSCR: t.TargetDSCR, Year: y, CFADS: cfads[y]}
		}
		if p := cfads[y] / t.TargetDSCR / factor; p < principal {
			principal = p
			binding = y
		}
	}

	capped := t.MaxPrincipal > 0 && principal > t.MaxPrincipal
	if capped {
		principal, binding = t.MaxPrincipal, 0
	}

	return Sizing{
		Principal:   principal,
		Payment:     principal * factor,
		BindingYear: binding,
		Tenor:       tenor,
		CostCapped:  capped,
	}, nil
}

// Schedule is the amortization of a sized loan over the analysis horizon.
type Schedule struct {
	Balance   []float64
	Interest  []float64
	Principal []float64
	Payment   []float64
}

// Amortize builds the schedule for years 0..years. Balance[0] is the
// principal drawn at closing.
func Amortize(s Sizing, rate float64, years int) Schedule {
	sch := Schedule{
		Balance:   make([]float64, years+1),
		Interest:  make([]float64, years+1),
		Principal: make([]float64, years+1),
		Payment:   make([]float64, years+1),
	}
	sch.Balance[0] = s.Principal
	for y := 1; y <= years; y++ {
		prev := sch.Balance[y-1]
		if y > s.Tenor || prev <= 0 {
			continue
		}
		interest := prev * rate
		principal := s.Payment - interest
		if y == s.Tenor {
			principal = prev
		}
		sch.Interest[y] = interest
		sch.Principal[y] = principal
		sch.Payment[y] = interest + principal
		sch.Balance[y] = prev - principal
	}
	return sch
}

// Coverage returns cfads[y] / payment[y], or 0 in years without debt service.
func Coverage(cfads, payment []float64) []float64 {
	out := make([]float64, len(cfads))
	for y := 1; y < len(cfads) && y < len(payment); y++ {
		if payment[y] > 0 {
			out[y] = cfads[y] / payment[y]
		}
	}
	return out
}

// MinCoverage is the lowest coverage over years with debt service, or NaN if
// there is none.
func MinCoverage(cfads, payment []float64) float64 {
	min := math.NaN()
	for y := 1; y < len(cfads) && y < len(payment); y++ {
		if payment[y] <= 0 {
			continue
		}
		c := cfads[y] / payment[y]
		if math.IsNaN(min) || c < min {
			min = c
		}
	}
	return min
}

// Reserve tracks the debt service reserve account.
type Reserve struct {
	Funding []float64 // year 0 deposit
	Draw    []float64
	Release []float64
	Balance []float64
}

// ServiceReserve funds ReserveMonths of payment up front, draws it only when
// cfads falls short of the payment, and releases the remainder in the final
// year of the tenor.
func ServiceReserve(s Sizing, t Terms, cfads, payment []float64) Reserve {
	years := len(cfads) - 1
	r := Reserve{
		Funding: make([]float64, years+1),
		Draw:    make([]float64, years+1),
		Release: make([]float64, years+1),
		Balance: make([]float64, years+1),
	}
	if s.Tenor == 0 || t.ReserveMonths <= 0 {
		return r
	}
	r.Funding[0] = s.Payment * float64(t.ReserveMonths) / 12
	r.Balance[0] = r.Funding[0]
	for y := 1; y <= years; y++ {
		bal := r.Balance[y-1]
		if shortfall := payment[y] - cfads[y]; shortfall > 0 && bal > 0 {
			r.Draw[y] = math.Min(shortfall, bal)
			bal -= r.Draw[y]
		}
		if y == s.Tenor {
			r.Release[y] = bal
			bal = 0
		}
		r.Balance[y] = bal
	}
	return r
}
