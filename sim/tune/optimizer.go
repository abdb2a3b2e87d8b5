package tune

import (
	"fmt"
	"math"
)

// Optimizer proposes new parameter values from observed signals.
//
// The set of implementations is closed: GridSearch and GradientDescent.
type Optimizer interface {
	// Solve advances the optimization by one observation and reports whether
	// every parameter is converged (or the search budget is spent).
	Solve(params []*TunableParameter) bool
	// Reset discards all per-parameter state.
	Reset()
	// Name identifies the solver in logs and traces.
	Name() string

	// begin resets the solver and positions params for the first evaluation.
	begin(params []*TunableParameter)
}

// Schedule maps an iteration count to a value, used for step sizes that change
// as an optimization proceeds.
type Schedule interface {
	Value(iteration uint64) float64
}

// Constant is a Schedule returning the same value for every iteration.
type Constant float64

// Value implements Schedule.
func (c Constant) Value(uint64) float64 { return float64(c) }

// Ramp holds A until TStart, moves linearly to B over TRamp iterations, then
// holds B.
type Ramp struct {
	A      float64
	B      float64
	TStart uint64
	TRamp  uint64
}

// Value implements Schedule.
func (r Ramp) Value(iteration uint64) float64 {
	if iteration < r.TStart {
		return r.A
	}
	if r.TRamp == 0 || iteration >= r.TStart+r.TRamp {
		return r.B
	}
	frac := float64(iteration-r.TStart) / float64(r.TRamp)
	return r.A + frac*(r.B-r.A)
}

// ValidateSchedule returns an error if s is nil or produces non-finite values
// at its endpoints.
func ValidateSchedule(s Schedule) error {
	if s == nil {
		return fmt.Errorf("%w: schedule is required", ErrInvalidConfig)
	}
	if r, ok := s.(Ramp); ok {
		for _, v := range []float64{r.A, r.B} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: ramp endpoints must be finite, got (%v, %v)", ErrInvalidConfig, r.A, r.B)
			}
		}
		return nil
	}
	v := s.Value(0)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: schedule value must be finite, got %v", ErrInvalidConfig, v)
	}
	return nil
}
