// Package modelerror defines the failure conditions a financial run can report.
package modelerror

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateInput marks arithmetic that cannot produce a meaningful result
	// (zero nameplate, empty energy series).
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrNonFinite marks a computed value that is NaN or infinite.
	ErrNonFinite = errors.New("non-finite result")

	// ErrNoConvergence marks a root-find that exhausted its iteration budget.
	ErrNoConvergence = errors.New("solver did not converge")

	// ErrDebtInfeasible marks a DSCR target no positive loan can satisfy.
	ErrDebtInfeasible = errors.New("debt sizing infeasible")
)

// DegenerateInputError represents an input that makes the model undefined
type DegenerateInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate input %s=%g: %s", e.Field, e.Value, e.Reason)
}

func (e *DegenerateInputError) Unwrap() error {
	return ErrDegenerateInput
}

// NonFiniteError represents an output that evaluated to NaN or ±Inf
type NonFiniteError struct {
	Output string
	Value  float64
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("output %s is not finite (%v)", e.Output, e.Value)
}

func (e *NonFiniteError) Unwrap() error {
	return ErrNonFinite
}

// ConvergenceError represents a PPA price search that ran out of iterations
// or could not bracket a solution.
type ConvergenceError struct {
	Iterations int
	Lower      float64
	Upper      float64
	Reason     string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("ppa price search failed after %d iterations in [%g, %g]: %s",
		e.Iterations, e.Lower, e.Upper, e.Reason)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNoConvergence
}

// DebtSizingError represents a year whose cash available for debt service
// cannot support any positive payment at the target coverage.
type DebtSizingError struct {
	TargetDSCR float64
	Year       int
	CFADS      float64
}

func (e *DebtSizingError) Error() string {
	if e.Year == 0 {
		return fmt.Sprintf("debt sizing infeasible: target DSCR %g must be positive", e.TargetDSCR)
	}
	return fmt.Sprintf("debt sizing infeasible: year %d cash available for debt service is %.2f (target DSCR %g)",
		e.Year, e.CFADS, e.TargetDSCR)
}

func (e *DebtSizingError) Unwrap() error {
	return ErrDebtInfeasible
}

// ScenarioError represents a scenario file that could not be loaded or run
type ScenarioError struct {
	Path string
	Err  error
}

func (e *ScenarioError) Error() string {
	return fmt.Sprintf("scenario %s: %v", e.Path, e.Err)
}

func (e *ScenarioError) Unwrap() error {
	return e.Err
}
