package modelerror

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDegenerateInputError(t *testing.T) {
	err := &DegenerateInputError{Field: "system_nameplate", Value: 0, Reason: "must be positive"}

	assert.Equal(t, "degenerate input system_nameplate=0: must be positive", err.Error())
	assert.True(t, errors.Is(err, ErrDegenerateInput))
	assert.False(t, errors.Is(err, ErrNoConvergence))
}

func TestNonFiniteError(t *testing.T) {
	err := &NonFiniteError{Output: "cost_installedperwatt", Value: math.Inf(1)}

	assert.Equal(t, "output cost_installedperwatt is not finite (+Inf)", err.Error())
	assert.True(t, errors.Is(err, ErrNonFinite))
}

func TestConvergenceError(t *testing.T) {
	err := &ConvergenceError{Iterations: 200, Lower: 1, Upper: 2, Reason: "tolerance not reached"}

	assert.Equal(t, "ppa price search failed after 200 iterations in [1, 2]: tolerance not reached", err.Error())
	assert.True(t, errors.Is(err, ErrNoConvergence))
}

func TestDebtSizingError(t *testing.T) {
	tests := []struct {
		name     string
		err      *DebtSizingError
		expected string
	}{
		{
			name:     "non-positive target",
			err:      &DebtSizingError{TargetDSCR: 0},
			expected: "debt sizing infeasible: target DSCR 0 must be positive",
		},
		{
			name:     "negative cash year",
			err:      &DebtSizingError{TargetDSCR: 1.5, Year: 3, CFADS: -1250.5},
			expected: "debt sizing infeasible: year 3 cash available for debt service is -1250.50 (target DSCR 1.5)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.True(t, errors.Is(tt.err, ErrDebtInfeasible))
		})
	}
}

func TestScenarioError_Unwrap(t *testing.T) {
	inner := &DebtSizingError{TargetDSCR: 1.3, Year: 1, CFADS: -5}
	err := fmt.Errorf("batch: %w", &ScenarioError{Path: "a.yaml", Err: inner})

	var sizing *DebtSizingError
	assert.True(t, errors.As(err, &sizing))
	assert.Equal(t, 1, sizing.Year)
	assert.True(t, errors.Is(err, ErrDebtInfeasible))

	var scen *ScenarioError
	assert.True(t, errors.As(err, &scen))
	assert.Equal(t, "a.yaml", scen.Path)
}
