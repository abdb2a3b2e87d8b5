package tune

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// GridConfig configures GridSearch.
type GridConfig struct {
	// NBins is the number of equally spaced points per round, both domain
	// ends included. Must be >= 2. Default: 5.
	NBins int `yaml:"n_bins"`
	// NRounds is the number of refinement passes. Must be >= 1. Default: 1.
	NRounds int `yaml:"n_rounds"`
	// Maximize selects the largest observed signal as best (true) or the
	// smallest (false). Default: true.
	Maximize bool `yaml:"maximize"`
}

// DefaultGridConfig returns the grid used by the buffer tuner.
func DefaultGridConfig() GridConfig {
	return GridConfig{NBins: 5, NRounds: 1, Maximize: true}
}

// ValidateGridConfig returns an error if the config is invalid.
func ValidateGridConfig(cfg GridConfig) error {
	if cfg.NBins < 2 {
		return fmt.Errorf("%w: n_bins must be >= 2, got %d", ErrInvalidConfig, cfg.NBins)
	}
	if cfg.NRounds < 1 {
		return fmt.Errorf("%w: n_rounds must be >= 1, got %d", ErrInvalidConfig, cfg.NRounds)
	}
	return nil
}

// GridSearch evaluates one candidate per Solve call over a uniform grid and
// refines the grid around the best point for NRounds passes.
//
// The candidate evaluated by a call is the parameter's current value: each call
// pairs the observed signal with it, then moves the parameter to the next
// candidate. Round k+1 spans one grid spacing either side of round k's best
// point, intersected with the parameter's domain. When the last round ends the
// parameter is left at the best point seen in any round.
type GridSearch struct {
	config GridConfig
	states map[*TunableParameter]*gridState
}

type gridState struct {
	points []float64
	xs     []float64
	ys     []float64
	round  int
	done   bool

	hasBest bool
	bestX   float64
	bestY   float64
}

// NewGridSearch validates cfg and returns a GridSearch.
func NewGridSearch(cfg GridConfig) (*GridSearch, error) {
	if err := ValidateGridConfig(cfg); err != nil {
		return nil, err
	}
	return &GridSearch{
		config: cfg,
		states: make(map[*TunableParameter]*gridState),
	}, nil
}

// Config returns the solver configuration.
func (g *GridSearch) Config() GridConfig { return g.config }

// Name implements Optimizer.
func (g *GridSearch) Name() string { return "grid" }

// Reset implements Optimizer.
func (g *GridSearch) Reset() {
	g.states = make(map[*TunableParameter]*gridState)
}

func (g *GridSearch) begin(params []*TunableParameter) {
	g.Reset()
	for _, p := range params {
		g.start(p)
	}
}

// Solve implements Optimizer.
func (g *GridSearch) Solve(params []*TunableParameter) bool {
	done := true
	for _, p := range params {
		if !g.solveOne(p) {
			done = false
		}
	}
	return done
}

// Points returns the candidates of the parameter's current round, or nil if
// the search has not started for it.
func (g *GridSearch) Points(p *TunableParameter) []float64 {
	st, ok := g.states[p]
	if !ok {
		return nil
	}
	return append([]float64(nil), st.points...)
}

func (g *GridSearch) start(p *TunableParameter) *gridState {
	st := &gridState{points: g.span(p.Domain())}
	g.states[p] = st
	p.SetX(p.Clamp(st.points[0]))
	return st
}

func (g *GridSearch) span(d Domain) []float64 {
	return floats.Span(make([]float64, g.config.NBins), d.Low, d.High)
}

func (g *GridSearch) solveOne(p *TunableParameter) bool {
	st, ok := g.states[p]
	if !ok {
		g.start(p)
		return false
	}
	if st.done {
		return true
	}
	y := p.Y()
	if y == nil {
		return false
	}

	st.xs = append(st.xs, p.X())
	st.ys = append(st.ys, *y)
	if len(st.ys) < len(st.points) {
		p.SetX(p.Clamp(st.points[len(st.ys)]))
		return false
	}

	best := g.bestIndex(st.ys)
	if !st.hasBest || g.better(st.ys[best], st.bestY) {
		st.hasBest = true
		st.bestX = st.xs[best]
		st.bestY = st.ys[best]
	}

	st.round++
	if st.round >= g.config.NRounds {
		st.done = true
		p.SetX(p.Clamp(st.bestX))
		return true
	}

	spacing := (st.points[len(st.points)-1] - st.points[0]) / float64(g.config.NBins-1)
	d := p.Domain()
	next := Domain{
		Low:  math.Max(d.Low, st.xs[best]-spacing),
		High: math.Min(d.High, st.xs[best]+spacing),
	}
	if next.Low > next.High {
		next = d
	}
	st.points = g.span(next)
	st.xs = st.xs[:0]
	st.ys = st.ys[:0]
	p.SetX(p.Clamp(st.points[0]))
	return false
}

func (g *GridSearch) bestIndex(ys []float64) int {
	if g.config.Maximize {
		return floats.MaxIdx(ys)
	}
	return floats.MinIdx(ys)
}

func (g *GridSearch) better(a, b float64) bool {
	if g.config.Maximize {
		return a > b
	}
	return a < b
}
