package tune

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/mdtune/nlist-tune/sim/trace"
)

// MinimumBuffer is the fixed lower bound of the tuned buffer domain.
const MinimumBuffer = 0.0

// NeighborList is the buffer surface of the host neighbor list.
type NeighborList interface {
	Buffer() float64
	SetBuffer(buffer float64) error
}

// NeighborListBuffer tunes a neighbor list's buffer to maximize TPS.
//
// Lifecycle: Detached -> Attached(untuned) -> Attached(tuned). Attach always
// starts an untuned session with a fresh estimator; tuned is sticky until the
// next Attach. The neighbor list and solver are set-once while attached.
type NeighborListBuffer struct {
	nlist         NeighborList
	solver        Optimizer
	maximumBuffer float64
	trace         *trace.TuneTrace

	// Session state, valid only while attached.
	sim       Simulation
	estimator *ThroughputEstimator
	tunable   *TunableParameter

	tuned          bool
	hasBest        bool
	bestTPS        float64 // scaled by TPSScale
	bestBufferSize float64
	lastTPS        float64 // natural units
}

// NewNeighborListBuffer creates a detached tuner.
func NewNeighborListBuffer(nlist NeighborList, solver Optimizer, maximumBuffer float64) (*NeighborListBuffer, error) {
	if nlist == nil {
		return nil, fmt.Errorf("%w: neighbor list is required", ErrInvalidConfig)
	}
	if solver == nil {
		return nil, fmt.Errorf("%w: solver is required", ErrInvalidConfig)
	}
	if err := validateMaximumBuffer(maximumBuffer); err != nil {
		return nil, err
	}
	return &NeighborListBuffer{
		nlist:         nlist,
		solver:        solver,
		maximumBuffer: maximumBuffer,
	}, nil
}

// WithGrid creates a tuner driven by a GridSearch.
func WithGrid(nlist NeighborList, maximumBuffer float64, cfg GridConfig) (*NeighborListBuffer, error) {
	solver, err := NewGridSearch(cfg)
	if err != nil {
		return nil, err
	}
	return NewNeighborListBuffer(nlist, solver, maximumBuffer)
}

// WithGradientDescent creates a tuner driven by a GradientDescent.
func WithGradientDescent(nlist NeighborList, maximumBuffer float64, cfg GradientConfig) (*NeighborListBuffer, error) {
	solver, err := NewGradientDescent(cfg)
	if err != nil {
		return nil, err
	}
	return NewNeighborListBuffer(nlist, solver, maximumBuffer)
}

func validateMaximumBuffer(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < MinimumBuffer {
		return fmt.Errorf("%w: maximum_buffer must be finite and >= %v, got %v", ErrInvalidConfig, MinimumBuffer, v)
	}
	return nil
}

// NeighborList returns the tuned neighbor list.
func (t *NeighborListBuffer) NeighborList() NeighborList { return t.nlist }

// SetNeighborList replaces the neighbor list. Fails while attached.
func (t *NeighborListBuffer) SetNeighborList(nlist NeighborList) error {
	if t.Attached() {
		return fmt.Errorf("set neighbor list: %w", ErrAttached)
	}
	if nlist == nil {
		return fmt.Errorf("%w: neighbor list is required", ErrInvalidConfig)
	}
	t.nlist = nlist
	return nil
}

// Solver returns the optimizer.
func (t *NeighborListBuffer) Solver() Optimizer { return t.solver }

// SetSolver replaces the optimizer. Fails while attached.
func (t *NeighborListBuffer) SetSolver(solver Optimizer) error {
	if t.Attached() {
		return fmt.Errorf("set solver: %w", ErrAttached)
	}
	if solver == nil {
		return fmt.Errorf("%w: solver is required", ErrInvalidConfig)
	}
	t.solver = solver
	return nil
}

// MaximumBuffer returns the upper bound of the buffer domain.
func (t *NeighborListBuffer) MaximumBuffer() float64 { return t.maximumBuffer }

// SetMaximumBuffer changes the upper bound. While attached the live domain is
// narrowed at once and the current buffer is pulled into it.
func (t *NeighborListBuffer) SetMaximumBuffer(v float64) error {
	if err := validateMaximumBuffer(v); err != nil {
		return err
	}
	t.maximumBuffer = v
	if t.Attached() {
		if err := t.tunable.SetDomain(Domain{Low: MinimumBuffer, High: v}); err != nil {
			return err
		}
		t.tunable.SetX(t.tunable.Clamp(t.tunable.X()))
	}
	return nil
}

// SetTrace installs a trace that receives one record per Act. Nil disables.
func (t *NeighborListBuffer) SetTrace(tt *trace.TuneTrace) { t.trace = tt }

// Attached reports whether the tuner is bound to a simulation.
func (t *NeighborListBuffer) Attached() bool { return t.sim != nil }

// Attach binds the tuner to sim and starts an untuned session.
func (t *NeighborListBuffer) Attach(sim Simulation) error {
	if sim == nil {
		return fmt.Errorf("%w: simulation is required", ErrInvalidConfig)
	}
	if t.Attached() {
		return fmt.Errorf("attach: %w", ErrAttached)
	}
	estimator := NewThroughputEstimator(sim)
	tunable, err := NewTunableParameter(TunableDefinition{
		GetX:   t.nlist.Buffer,
		SetX:   t.setBuffer,
		GetY:   estimator.Sample,
		Target: 0,
		Domain: Domain{Low: MinimumBuffer, High: t.maximumBuffer},
	})
	if err != nil {
		return fmt.Errorf("attach: %w", err)
	}

	t.sim = sim
	t.estimator = estimator
	t.tunable = tunable
	t.tuned = false
	t.hasBest = false
	t.bestTPS = 0
	t.bestBufferSize = 0
	t.lastTPS = 0

	tunable.SetX(tunable.Clamp(tunable.X()))
	t.solver.begin([]*TunableParameter{tunable})
	logrus.Debugf("[tick %07d] %s buffer tuner attached, domain=(%v, %v), buffer=%v",
		sim.Timestep(), t.solver.Name(), MinimumBuffer, t.maximumBuffer, tunable.X())
	return nil
}

// Detach drops the session. Tuned state and best values stay readable until
// the next Attach.
func (t *NeighborListBuffer) Detach() {
	t.sim = nil
	t.estimator = nil
	t.tunable = nil
}

// Act runs one tuning step. It is a no-op when detached or already tuned.
func (t *NeighborListBuffer) Act(timestep uint64) {
	if !t.Attached() || t.tuned {
		return
	}

	before := t.tunable.X()
	y := t.tunable.Y()
	improved := false
	if y != nil && (!t.hasBest || *y > t.bestTPS) {
		t.hasBest = true
		t.bestTPS = *y
		t.bestBufferSize = before
		improved = true
	}

	t.tuned = t.solver.Solve([]*TunableParameter{t.tunable})

	var tps *float64
	if y != nil {
		t.lastTPS = *y * TPSScale
		v := t.lastTPS
		tps = &v
		logrus.Debugf("[tick %07d] buffer %.5f -> %.5f, tps=%.2f, best=%.5f@%.2f",
			timestep, before, t.tunable.X(), t.lastTPS, t.bestBufferSize, t.MaxTPS())
	} else {
		logrus.Debugf("[tick %07d] no throughput observation, buffer %.5f -> %.5f",
			timestep, before, t.tunable.X())
	}
	if t.tuned {
		logrus.Infof("[tick %07d] buffer tuning complete (%s): buffer=%.5f, best=%.5f at %.2f TPS",
			timestep, t.solver.Name(), t.tunable.X(), t.bestBufferSize, t.MaxTPS())
	}

	t.trace.Record(trace.TuneRecord{
		Timestep:     timestep,
		Solver:       t.solver.Name(),
		BufferBefore: before,
		BufferAfter:  t.tunable.X(),
		TPS:          tps,
		Improved:     improved,
		Tuned:        t.tuned,
	})
}

func (t *NeighborListBuffer) setBuffer(v float64) {
	if err := t.nlist.SetBuffer(v); err != nil {
		logrus.Warnf("buffer tuner: rejected buffer %v: %v", v, err)
	}
}

// Tuned reports whether the solver has converged in the current session.
func (t *NeighborListBuffer) Tuned() bool { return t.tuned }

// MaxTPS is the best throughput observed this session, in timesteps per second.
func (t *NeighborListBuffer) MaxTPS() float64 { return t.bestTPS * TPSScale }

// LastTPS is the most recent throughput observation, in timesteps per second.
func (t *NeighborListBuffer) LastTPS() float64 { return t.lastTPS }

// BestBufferSize is the buffer at which MaxTPS was observed. ok is false until
// the first observation of the session.
func (t *NeighborListBuffer) BestBufferSize() (buffer float64, ok bool) {
	return t.bestBufferSize, t.hasBest
}
