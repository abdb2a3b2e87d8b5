package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mdtune/nlist-tune/sim"
	"github.com/mdtune/nlist-tune/sim/trace"
	"github.com/mdtune/nlist-tune/sim/tune"
)

// Solver names accepted by --solver and tuner.solver.
const (
	SolverGrid     = "grid"
	SolverGradient = "gradient"
)

// RunConfig is the full configuration of one `run` invocation.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type RunConfig struct {
	Engine sim.EngineConfig  `yaml:"engine"`
	Tuner  TunerConfig       `yaml:"tuner"`
	Steps  uint64            `yaml:"steps"` // timesteps per run
	Runs   int               `yaml:"runs"`  // number of consecutive runs
	Trace  trace.TraceConfig `yaml:"trace"`
}

// TunerConfig selects and configures the buffer tuner.
type TunerConfig struct {
	Solver        string          `yaml:"solver"`
	MaximumBuffer float64         `yaml:"maximum_buffer"`
	Period        uint64          `yaml:"period"` // act every Period timesteps
	Grid          tune.GridConfig `yaml:"grid"`
	Gradient      GradientSpec    `yaml:"gradient"`
}

// GradientSpec is the YAML form of tune.GradientConfig. AlphaRamp, when set,
// replaces the constant Alpha.
type GradientSpec struct {
	Alpha     float64   `yaml:"alpha"`
	AlphaRamp *RampSpec `yaml:"alpha_ramp,omitempty"`
	Kappa     []float64 `yaml:"kappa"`
	Tol       float64   `yaml:"tol"`
	MaxDelta  *float64  `yaml:"max_delta"` // null disables the step cap
	Maximize  bool      `yaml:"maximize"`
}

// RampSpec is the YAML form of tune.Ramp.
type RampSpec struct {
	A      float64 `yaml:"a"`
	B      float64 `yaml:"b"`
	TStart uint64  `yaml:"t_start"`
	TRamp  uint64  `yaml:"t_ramp"`
}

// DefaultRunConfig returns the configuration used when no file is given.
func DefaultRunConfig() RunConfig {
	gd := tune.DefaultGradientConfig()
	return RunConfig{
		Engine: sim.DefaultEngineConfig(),
		Tuner: TunerConfig{
			Solver:        SolverGrid,
			MaximumBuffer: 1.0,
			Period:        100,
			Grid:          tune.DefaultGridConfig(),
			Gradient: GradientSpec{
				Alpha:    float64(gd.Alpha.(tune.Constant)),
				Kappa:    gd.Kappa,
				Tol:      gd.Tol,
				MaxDelta: gd.MaxDelta,
				Maximize: gd.Maximize,
			},
		},
		Steps: 1000,
		Runs:  1,
		Trace: trace.TraceConfig{Level: trace.TraceLevelNone},
	}
}

// LoadRunConfig decodes the YAML file at path over DefaultRunConfig.
// Unknown keys are errors.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading run config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	return cfg, nil
}

// GradientConfig converts the YAML form into a tune.GradientConfig.
func (g GradientSpec) GradientConfig() tune.GradientConfig {
	var alpha tune.Schedule = tune.Constant(g.Alpha)
	if g.AlphaRamp != nil {
		alpha = tune.Ramp{A: g.AlphaRamp.A, B: g.AlphaRamp.B, TStart: g.AlphaRamp.TStart, TRamp: g.AlphaRamp.TRamp}
	}
	return tune.GradientConfig{
		Alpha:    alpha,
		Kappa:    g.Kappa,
		Tol:      g.Tol,
		MaxDelta: g.MaxDelta,
		Maximize: g.Maximize,
	}
}

// ValidateRunConfig returns an error if the config is invalid.
func ValidateRunConfig(cfg RunConfig) error {
	if err := sim.ValidateEngineConfig(cfg.Engine); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if cfg.Steps == 0 {
		return fmt.Errorf("steps must be > 0")
	}
	if cfg.Runs < 1 {
		return fmt.Errorf("runs must be >= 1, got %d", cfg.Runs)
	}
	if cfg.Tuner.Period == 0 {
		return fmt.Errorf("tuner.period must be > 0")
	}
	if !trace.IsValidTraceLevel(string(cfg.Trace.Level)) {
		return fmt.Errorf("unknown trace level %q", cfg.Trace.Level)
	}
	switch cfg.Tuner.Solver {
	case SolverGrid:
		if err := tune.ValidateGridConfig(cfg.Tuner.Grid); err != nil {
			return fmt.Errorf("tuner.grid: %w", err)
		}
	case SolverGradient:
		if err := tune.ValidateGradientConfig(cfg.Tuner.Gradient.GradientConfig()); err != nil {
			return fmt.Errorf("tuner.gradient: %w", err)
		}
	default:
		return fmt.Errorf("unknown solver %q (want %s or %s)", cfg.Tuner.Solver, SolverGrid, SolverGradient)
	}
	return nil
}

// newBufferTuner builds the configured tuner for nl.
func newBufferTuner(nl tune.NeighborList, cfg TunerConfig) (*tune.NeighborListBuffer, error) {
	if cfg.Solver == SolverGradient {
		return tune.WithGradientDescent(nl, cfg.MaximumBuffer, cfg.Gradient.GradientConfig())
	}
	return tune.WithGrid(nl, cfg.MaximumBuffer, cfg.Grid)
}
