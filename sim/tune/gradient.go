package tune

import (
	"fmt"
	"math"
)

// GradientConfig configures GradientDescent.
type GradientConfig struct {
	// Alpha scales each step. Default: Constant(0.01).
	Alpha Schedule
	// Kappa weights the most recent past gradients, most recent first, added to
	// the current one to damp oscillation. Nil disables blending.
	// Default: (0.33, 0.165).
	Kappa []float64
	// Tol is the absolute tolerance on |y - target| for convergence.
	// Default: 1e-5.
	Tol float64
	// MaxDelta caps the magnitude of a single step. Nil means no cap.
	// Default: 0.05.
	MaxDelta *float64
	// Maximize moves x along +grad (true) or -grad (false). Default: true.
	Maximize bool
}

// DefaultGradientConfig returns the settings used by the buffer tuner.
func DefaultGradientConfig() GradientConfig {
	maxDelta := 0.05
	return GradientConfig{
		Alpha:    Constant(0.01),
		Kappa:    []float64{0.33, 0.165},
		Tol:      1e-5,
		MaxDelta: &maxDelta,
		Maximize: true,
	}
}

// ValidateGradientConfig returns an error if the config is invalid.
func ValidateGradientConfig(cfg GradientConfig) error {
	if err := ValidateSchedule(cfg.Alpha); err != nil {
		return fmt.Errorf("alpha: %w", err)
	}
	for i, k := range cfg.Kappa {
		if math.IsNaN(k) || math.IsInf(k, 0) {
			return fmt.Errorf("%w: kappa[%d] must be finite, got %v", ErrInvalidConfig, i, k)
		}
	}
	if cfg.Tol < 0 || math.IsNaN(cfg.Tol) {
		return fmt.Errorf("%w: tol must be non-negative, got %v", ErrInvalidConfig, cfg.Tol)
	}
	if cfg.MaxDelta != nil && (*cfg.MaxDelta <= 0 || math.IsNaN(*cfg.MaxDelta)) {
		return fmt.Errorf("%w: max_delta must be positive, got %v", ErrInvalidConfig, *cfg.MaxDelta)
	}
	return nil
}

// GradientDescent nudges each parameter by alpha times a blended error signal.
//
// The raw gradient is y - target. The applied gradient adds the last len(Kappa)
// raw gradients weighted by Kappa, which acts as momentum against noisy
// throughput samples. Steps are clipped to MaxDelta and the result is clamped
// into the parameter's domain before it is written.
type GradientDescent struct {
	config    GradientConfig
	states    map[*TunableParameter]*gradientState
	iteration uint64
}

type gradientState struct {
	history []float64 // raw gradients, most recent first
}

// NewGradientDescent validates cfg and returns a GradientDescent.
func NewGradientDescent(cfg GradientConfig) (*GradientDescent, error) {
	if err := ValidateGradientConfig(cfg); err != nil {
		return nil, err
	}
	cfg.Kappa = append([]float64(nil), cfg.Kappa...)
	if cfg.MaxDelta != nil {
		md := *cfg.MaxDelta
		cfg.MaxDelta = &md
	}
	return &GradientDescent{
		config: cfg,
		states: make(map[*TunableParameter]*gradientState),
	}, nil
}

// Config returns the solver configuration.
func (gd *GradientDescent) Config() GradientConfig { return gd.config }

// Name implements Optimizer.
func (gd *GradientDescent) Name() string { return "gradient-descent" }

// Reset implements Optimizer.
func (gd *GradientDescent) Reset() {
	gd.states = make(map[*TunableParameter]*gradientState)
	gd.iteration = 0
}

func (gd *GradientDescent) begin([]*TunableParameter) {
	gd.Reset()
}

// Solve implements Optimizer.
func (gd *GradientDescent) Solve(params []*TunableParameter) bool {
	alpha := gd.config.Alpha.Value(gd.iteration)
	done := true
	for _, p := range params {
		if !gd.solveOne(p, alpha) {
			done = false
		}
	}
	gd.iteration++
	return done
}

func (gd *GradientDescent) solveOne(p *TunableParameter, alpha float64) bool {
	y := p.Y()
	if y == nil {
		return false
	}
	st, ok := gd.states[p]
	if !ok {
		st = &gradientState{}
		gd.states[p] = st
	}
	x := p.X()

	raw := *y - p.Target()
	if math.Abs(raw) < gd.config.Tol {
		return true
	}

	grad := raw
	for i, k := range gd.config.Kappa {
		if i >= len(st.history) {
			break
		}
		grad += k * st.history[i]
	}
	if n := len(gd.config.Kappa); n > 0 {
		st.history = append([]float64{raw}, st.history...)
		if len(st.history) > n {
			st.history = st.history[:n]
		}
	}

	step := alpha * grad
	if md := gd.config.MaxDelta; md != nil {
		step = math.Max(-*md, math.Min(*md, step))
	}
	if !gd.config.Maximize {
		step = -step
	}
	p.SetX(p.Clamp(x + step))
	return false
}
