// Package engine runs one partnership-flip analysis: cost roll-up, ledger
// build, optional PPA price solve and the final flip scan.
package engine

import (
	"fmt"
	"math"
	"time"

	"fjacquet/levpartflip/internal/cashflow"
	"fjacquet/levpartflip/internal/costs"
	"fjacquet/levpartflip/internal/flip"
	"fjacquet/levpartflip/internal/logging"
	"fjacquet/levpartflip/internal/modelerror"
	"fjacquet/levpartflip/internal/models"
)

// Engine evaluates scenarios. It holds no per-run state and is safe for
// concurrent use.
type Engine struct {
	logger logging.Logger
	bounds flip.Bounds
}

// Option customizes an Engine.
type Option func(*Engine)

// WithBounds overrides the PPA price search settings.
func WithBounds(b flip.Bounds) Option {
	return func(e *Engine) {
		e.bounds = b
	}
}

// New creates an Engine. A nil logger discards output.
func New(logger logging.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = logging.Discard()
	}
	e := &Engine{logger: logger, bounds: flip.DefaultBounds()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run evaluates p with the default engine.
func Run(p models.Params, energy []float64) (*Outcome, error) {
	return New(nil).Run(p, energy)
}

// Outcome is everything a run produced. The ledger is sealed.
type Outcome struct {
	Params          models.Params
	Costs           costs.Summary
	NominalDiscount float64 // percent
	Price           float64 // first-year PPA price, cents/kWh
	Iterations      int     // ledger builds spent solving the price; 0 when specified
	Ledger          *cashflow.Ledger
	Summary         cashflow.Summary
	Flip            flip.State
}

// Run validates the inputs, determines the PPA price and builds the final
// sealed ledger.
func (e *Engine) Run(p models.Params, energy []float64) (*Outcome, error) {
	start := time.Now()
	if err := validate(p, energy); err != nil {
		return nil, err
	}

	summary := costs.RollUp(p.Costs, p.SalesTaxRate, p.Nameplate)
	if math.IsNaN(summary.PerWatt) || math.IsInf(summary.PerWatt, 0) {
		return nil, &modelerror.DegenerateInputError{
			Field: "system_capacity", Value: p.Nameplate,
			Reason: "installed cost per watt is undefined",
		}
	}
	nominal := costs.NominalDiscount(p.Inflation, p.DiscountReal)
	terms := flip.TermsFrom(p.Equity, nominal)

	in := cashflow.Inputs{Params: p, Energy: energy, Costs: summary}
	log := e.logger.WithField(logging.FieldMode, models.Describe(p.PPA))

	out := &Outcome{Params: p, Costs: summary, NominalDiscount: nominal}
	switch ppa := p.PPA.(type) {
	case models.PPASpecified:
		in.Price = ppa.Price
	case models.PPASolved:
		terms.TargetYear = ppa.TargetYear
		terms.TargetRate = ppa.TargetReturn / 100

		eval := func(price float64) (float64, error) {
			out.Iterations++
			trial := in
			trial.Price = price
			l, _, err := cashflow.Build(trial)
			if err != nil {
				return 0, err
			}
			return flip.TargetNPV(l.Get(cashflow.RowAfterTaxCashFlow), terms), nil
		}
		price, err := flip.SolvePrice(eval, e.bounds)
		if err != nil {
			log.WithError(err).Error("PPA price search failed",
				logging.F(logging.FieldIterations, out.Iterations))
			return nil, fmt.Errorf("solve ppa price: %w", err)
		}
		in.Price = price
		log.Debug("PPA price solved",
			logging.F(logging.FieldPPAPrice, price),
			logging.F(logging.FieldIterations, out.Iterations))
	}
	out.Price = in.Price

	l, s, err := cashflow.Build(in)
	if err != nil {
		return nil, fmt.Errorf("build ledger: %w", err)
	}
	out.Ledger, out.Summary = l, s
	out.Flip = flip.Scan(l, terms)
	l.Seal()

	if s.Debt.CostCapped {
		log.Info("Debt capped at project cost",
			logging.F(logging.FieldDebt, s.Debt.Principal),
			logging.F(logging.FieldPPAPrice, out.Price))
	}
	if !out.Flip.Reached {
		log.Warn("Tax investor never reaches the target return",
			logging.F(logging.FieldTargetYear, terms.TargetYear),
			logging.F(logging.FieldPPAPrice, out.Price))
	}
	if err := out.checkFinite(); err != nil {
		return nil, err
	}

	log.Debug("Run complete",
		logging.F(logging.FieldPPAPrice, out.Price),
		logging.F(logging.FieldDebt, s.Debt.Principal),
		logging.F(logging.FieldBindingYear, s.Debt.BindingYear),
		logging.F(logging.FieldFlipYear, out.Flip.Year),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return out, nil
}

func validate(p models.Params, energy []float64) error {
	n := p.AnalysisYears
	if n < 1 {
		return &modelerror.DegenerateInputError{Field: "analysis_years", Value: float64(n), Reason: "must be at least 1"}
	}
	if !(p.Nameplate > 0) {
		return &modelerror.DegenerateInputError{Field: "system_capacity", Value: p.Nameplate, Reason: "must be positive"}
	}
	if len(energy) < n {
		return &modelerror.DegenerateInputError{
			Field: "energy_net", Value: float64(len(energy)),
			Reason: fmt.Sprintf("need %d annual values", n),
		}
	}
	for y, v := range energy[:n] {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &modelerror.DegenerateInputError{
				Field: "energy_net", Value: v,
				Reason: fmt.Sprintf("year %d is not a finite number", y+1),
			}
		}
	}
	switch ppa := p.PPA.(type) {
	case models.PPASpecified:
	case models.PPASolved:
		if ppa.TargetYear < 1 || ppa.TargetYear > n {
			return &modelerror.DegenerateInputError{
				Field: "return_target_year", Value: float64(ppa.TargetYear),
				Reason: fmt.Sprintf("target year must fall within 1..%d", n),
			}
		}
	default:
		return &modelerror.DegenerateInputError{Field: "ppa_soln_mode", Value: math.NaN(), Reason: "PPA mode not set"}
	}
	return nil
}

// checkFinite rejects a ledger or headline number that went non-finite.
// Rates of return and payback may legitimately be undefined and are exempt.
func (o *Outcome) checkFinite() error {
	for _, r := range o.Ledger.Rows() {
		for _, v := range o.Ledger.Get(r) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &modelerror.NonFiniteError{Output: r.ArrayName(), Value: v}
			}
		}
	}
	res := o.Results()
	for _, name := range requiredFinite {
		if v := res.Scalars[name]; math.IsNaN(v) || math.IsInf(v, 0) {
			return &modelerror.NonFiniteError{Output: name, Value: v}
		}
	}
	return nil
}

var requiredFinite = []string{
	"cost_installed", "cost_installedperwatt", "cost_installed_total",
	"ppa_price", "size_of_debt", "size_of_equity", "after_tax_npv",
}
