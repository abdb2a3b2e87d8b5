package tune

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constSignal(y float64) func(float64) *float64 {
	return func(float64) *float64 { return ptr(y) }
}

func TestGradientDescent_WithinTolerance_ConvergesOnFirstCall(t *testing.T) {
	// GIVEN target=0, alpha=0.5, no kappa, tol=1e-5 and a constant y=0
	gd, err := NewGradientDescent(GradientConfig{Alpha: Constant(0.5), Tol: 1e-5, Maximize: true})
	require.NoError(t, err)
	x := 0.3
	p := newVarTunable(t, &x, constSignal(0), 0, Domain{Low: 0, High: 1})

	// WHEN solved once
	done := gd.Solve([]*TunableParameter{p})

	// THEN it is converged and x is untouched
	assert.True(t, done)
	assert.Equal(t, 0.3, x)
}

func TestGradientDescent_MaxDelta_BoundsStep(t *testing.T) {
	// GIVEN alpha=1, max_delta=0.01 and a raw gradient of 1000
	maxDelta := 0.01
	gd, err := NewGradientDescent(GradientConfig{Alpha: Constant(1.0), Tol: 1e-5, MaxDelta: &maxDelta, Maximize: true})
	require.NoError(t, err)
	x := 0.0
	p := newVarTunable(t, &x, constSignal(1000), 0, Domain{Low: 0, High: 1})

	// WHEN solved once
	done := gd.Solve([]*TunableParameter{p})

	// THEN x moved by exactly max_delta along the gradient
	assert.False(t, done)
	assert.Equal(t, 0.01, x)
}

func TestGradientDescent_Minimize_StepsAgainstGradient(t *testing.T) {
	maxDelta := 0.01
	gd, err := NewGradientDescent(GradientConfig{Alpha: Constant(1.0), Tol: 1e-5, MaxDelta: &maxDelta, Maximize: false})
	require.NoError(t, err)
	x := 0.5
	p := newVarTunable(t, &x, constSignal(1000), 0, Domain{Low: 0, High: 1})

	gd.Solve([]*TunableParameter{p})

	assert.InDelta(t, 0.49, x, 1e-12)
}

func TestGradientDescent_NoObservation_SkipsRound(t *testing.T) {
	// GIVEN a signal with no observation
	gd, err := NewGradientDescent(DefaultGradientConfig())
	require.NoError(t, err)
	x := 0.2
	p := newVarTunable(t, &x, func(float64) *float64 { return nil }, 0, Domain{Low: 0, High: 1})

	// WHEN solved
	done := gd.Solve([]*TunableParameter{p})

	// THEN nothing changes and it is not converged
	assert.False(t, done)
	assert.Equal(t, 0.2, x)
}

func TestGradientDescent_NoObservation_LeavesNoHistory(t *testing.T) {
	// GIVEN kappa=[0.5], alpha=0.1, no step cap and a signal missing on the first call
	gd, err := NewGradientDescent(GradientConfig{Alpha: Constant(0.1), Kappa: []float64{0.5}, Tol: 1e-5, Maximize: true})
	require.NoError(t, err)
	observed := false
	x := 0.0
	p := newVarTunable(t, &x, func(float64) *float64 {
		if !observed {
			return nil
		}
		return ptr(1)
	}, 0, Domain{Low: 0, High: 10})
	params := []*TunableParameter{p}

	// WHEN a skipped round is followed by an observed one
	gd.Solve(params)
	assert.Equal(t, 0.0, x)
	observed = true
	gd.Solve(params)

	// THEN the step carries no momentum from the skipped round
	assert.InDelta(t, 0.1, x, 1e-12)
}

func TestGradientDescent_Kappa_BlendsPastGradients(t *testing.T) {
	// GIVEN kappa=[0.5], alpha=0.1, no step cap, constant error 1
	gd, err := NewGradientDescent(GradientConfig{Alpha: Constant(0.1), Kappa: []float64{0.5}, Tol: 1e-5, Maximize: true})
	require.NoError(t, err)
	x := 0.0
	p := newVarTunable(t, &x, constSignal(1), 0, Domain{Low: 0, High: 10})
	params := []*TunableParameter{p}

	// WHEN solved three times
	gd.Solve(params) // grad = 1
	assert.InDelta(t, 0.1, x, 1e-12)
	gd.Solve(params) // grad = 1 + 0.5*1
	assert.InDelta(t, 0.25, x, 1e-12)
	gd.Solve(params) // history holds one entry only
	assert.InDelta(t, 0.4, x, 1e-12)
}

func TestGradientDescent_Kappa_WeightsMostRecentFirst(t *testing.T) {
	// GIVEN kappa=[1, 0] and errors 1, 2, 4 over three calls
	gd, err := NewGradientDescent(GradientConfig{Alpha: Constant(1), Kappa: []float64{1, 0}, Tol: 1e-5, Maximize: true})
	require.NoError(t, err)
	errs := []float64{1, 2, 4}
	call := 0
	x := 0.0
	p := newVarTunable(t, &x, func(float64) *float64 { return ptr(errs[call]) }, 0, Domain{Low: 0, High: 100})
	params := []*TunableParameter{p}

	gd.Solve(params) // +1
	call++
	gd.Solve(params) // +2+1
	call++
	gd.Solve(params) // +4+2

	assert.InDelta(t, 10.0, x, 1e-12)
}

func TestGradientDescent_LargeStep_ClampedIntoDomain(t *testing.T) {
	gd, err := NewGradientDescent(GradientConfig{Alpha: Constant(1), Tol: 1e-5, Maximize: true})
	require.NoError(t, err)
	x := 0.5
	p := newVarTunable(t, &x, constSignal(50), 0, Domain{Low: 0, High: 1})

	gd.Solve([]*TunableParameter{p})

	assert.Equal(t, 1.0, x)
}

func TestGradientDescent_MultipleParameters_ConvergedOnlyWhenAll(t *testing.T) {
	gd, err := NewGradientDescent(GradientConfig{Alpha: Constant(0.1), Tol: 1e-3, Maximize: true})
	require.NoError(t, err)
	a, b := 0.5, 0.5
	pa := newVarTunable(t, &a, constSignal(0), 0, Domain{Low: 0, High: 1})
	pb := newVarTunable(t, &b, constSignal(1), 0, Domain{Low: 0, High: 1})

	assert.False(t, gd.Solve([]*TunableParameter{pa, pb}))
	assert.Equal(t, 0.5, a, "converged parameter must not move")
	assert.InDelta(t, 0.6, b, 1e-12, "unconverged parameter still updates in the same call")
	assert.True(t, gd.Solve([]*TunableParameter{pa}))
}

func TestGradientDescent_RampAlpha_UsesIterationCount(t *testing.T) {
	// GIVEN alpha ramping from 1 to 0 over 2 iterations
	gd, err := NewGradientDescent(GradientConfig{Alpha: Ramp{A: 1, B: 0, TStart: 0, TRamp: 2}, Tol: 1e-5, Maximize: true})
	require.NoError(t, err)
	x := 0.0
	p := newVarTunable(t, &x, constSignal(1), 0, Domain{Low: 0, High: 10})
	params := []*TunableParameter{p}

	gd.Solve(params) // alpha 1
	gd.Solve(params) // alpha 0.5
	gd.Solve(params) // alpha 0

	assert.InDelta(t, 1.5, x, 1e-12)

	// WHEN reset the schedule restarts
	gd.Reset()
	gd.Solve(params)
	assert.InDelta(t, 2.5, x, 1e-12)
}

func TestRamp_Value(t *testing.T) {
	r := Ramp{A: 0.1, B: 0.5, TStart: 10, TRamp: 4}
	assert.Equal(t, 0.1, r.Value(0))
	assert.Equal(t, 0.1, r.Value(9))
	assert.InDelta(t, 0.2, r.Value(11), 1e-12)
	assert.Equal(t, 0.5, r.Value(14))
	assert.Equal(t, 0.5, r.Value(1000))
	assert.Equal(t, 0.5, Ramp{A: 0.1, B: 0.5, TStart: 3}.Value(3), "zero-length ramp jumps to B")
}

func TestValidateGradientConfig(t *testing.T) {
	neg := -0.1
	tests := []struct {
		name    string
		mutate  func(*GradientConfig)
		wantErr bool
	}{
		{"default", func(*GradientConfig) {}, false},
		{"nil kappa", func(c *GradientConfig) { c.Kappa = nil }, false},
		{"nil max delta", func(c *GradientConfig) { c.MaxDelta = nil }, false},
		{"nil alpha", func(c *GradientConfig) { c.Alpha = nil }, true},
		{"NaN alpha", func(c *GradientConfig) { c.Alpha = Constant(math.NaN()) }, true},
		{"infinite ramp", func(c *GradientConfig) { c.Alpha = Ramp{A: 0, B: math.Inf(1)} }, true},
		{"NaN kappa", func(c *GradientConfig) { c.Kappa = []float64{0.3, math.NaN()} }, true},
		{"negative tol", func(c *GradientConfig) { c.Tol = -1 }, true},
		{"negative max delta", func(c *GradientConfig) { c.MaxDelta = &neg }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultGradientConfig()
			tt.mutate(&cfg)
			err := ValidateGradientConfig(cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewGradientDescent_CopiesConfigSlices(t *testing.T) {
	cfg := DefaultGradientConfig()
	gd, err := NewGradientDescent(cfg)
	require.NoError(t, err)

	cfg.Kappa[0] = 99
	*cfg.MaxDelta = 99

	assert.Equal(t, 0.33, gd.Config().Kappa[0])
	assert.Equal(t, 0.05, *gd.Config().MaxDelta)
}
