package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

var (
	// ErrStarted is returned when a setting that is fixed at the first run is
	// changed afterwards.
	ErrStarted = errors.New("simulation has already run")
	// ErrNoNeighborList is returned by Run before a neighbor list is set.
	ErrNoNeighborList = errors.New("simulation has no neighbor list")
	// ErrNeighborListSet is returned when a second neighbor list is added.
	ErrNeighborListSet = errors.New("simulation already has a neighbor list")
	// ErrNilNeighborList is returned when a nil neighbor list is added.
	ErrNilNeighborList = errors.New("neighbor list is required")
)

// Simulation is a synthetic molecular-dynamics engine. It advances timesteps,
// charges each one a virtual wall-clock cost from CostModel, and runs its
// tuners on their triggers after every step.
//
// Walltime is virtual, so runs with the same seed and config are
// reproducible bit-for-bit.
type Simulation struct {
	Operations Operations

	config  EngineConfig
	cost    CostModel
	rng     *PartitionedRNG
	nlist   *NeighborList
	started bool

	timestep        uint64
	initialTimestep uint64
	walltime        float64

	// maximum displacement accumulated since the last list build
	drift    float64
	rebuilds int
}

// NewSimulation validates cfg and creates a Simulation at timestep 0.
func NewSimulation(cfg EngineConfig) (*Simulation, error) {
	if err := ValidateEngineConfig(cfg); err != nil {
		return nil, err
	}
	s := &Simulation{
		config: cfg,
		cost:   NewCostModel(cfg),
		rng:    NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
	}
	s.Operations.sim = s
	return s, nil
}

// Config returns the engine configuration.
func (s *Simulation) Config() EngineConfig { return s.config }

// Timestep returns the current timestep.
func (s *Simulation) Timestep() uint64 { return s.timestep }

// SetTimestep sets the starting timestep. Allowed only before the first run.
func (s *Simulation) SetTimestep(timestep uint64) error {
	if s.started {
		return fmt.Errorf("set timestep: %w", ErrStarted)
	}
	s.timestep = timestep
	s.initialTimestep = timestep
	return nil
}

// InitialTimestep returns the timestep at which the latest run started.
func (s *Simulation) InitialTimestep() uint64 { return s.initialTimestep }

// Walltime returns the virtual seconds elapsed since the latest run started.
func (s *Simulation) Walltime() float64 { return s.walltime }

// TPS returns the average timesteps per second of the latest run.
func (s *Simulation) TPS() float64 {
	if s.walltime <= 0 {
		return 0
	}
	return float64(s.timestep-s.initialTimestep) / s.walltime
}

// Rebuilds returns the total number of neighbor-list builds.
func (s *Simulation) Rebuilds() int { return s.rebuilds }

// NeighborList returns the simulation's neighbor list, or nil.
func (s *Simulation) NeighborList() *NeighborList { return s.nlist }

// SetNeighborList installs the single neighbor list of the simulation.
func (s *Simulation) SetNeighborList(nl *NeighborList) error {
	if nl == nil {
		return fmt.Errorf("set neighbor list: %w", ErrNilNeighborList)
	}
	if s.nlist != nil {
		return ErrNeighborListSet
	}
	s.nlist = nl
	return nil
}

// Run advances the simulation by steps timesteps. Each call starts a new run:
// walltime restarts at zero and the initial timestep moves to the current one.
func (s *Simulation) Run(steps uint64) error {
	if s.nlist == nil {
		return ErrNoNeighborList
	}
	if !s.started {
		// the list is built once before the first step
		s.rebuilds++
		s.nlist.built()
	}
	s.started = true
	s.initialTimestep = s.timestep
	s.walltime = 0
	if err := s.Operations.attachAll(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	logrus.Debugf("[tick %07d] run started for %d steps, buffer=%.5f", s.timestep, steps, s.nlist.Buffer())

	for i := uint64(0); i < steps; i++ {
		s.step()
		s.Operations.act(s.timestep)
	}
	logrus.Debugf("[tick %07d] run finished, walltime=%.4fs, tps=%.2f, rebuilds=%d",
		s.timestep, s.walltime, s.TPS(), s.rebuilds)
	return nil
}

func (s *Simulation) step() {
	rList := s.nlist.RList()
	cost := s.cost.StepCost(rList)

	moveRNG := s.rng.ForSubsystem(SubsystemDisplacement)
	s.drift += s.config.Displacement * (0.5 + moveRNG.Float64())
	if s.nlist.NeedsRebuild() || 2*s.drift >= s.nlist.Buffer() {
		cost += s.cost.RebuildCost(rList)
		s.drift = 0
		s.rebuilds++
		s.nlist.built()
	}

	s.walltime += cost * jitterFactor(s.rng.ForSubsystem(SubsystemWalltime), s.config.Jitter)
	s.timestep++
}

// jitterFactor returns a multiplicative noise factor, floored at 0.1 so that
// every step costs some time.
func jitterFactor(rng *rand.Rand, jitter float64) float64 {
	if jitter == 0 {
		return 1
	}
	return math.Max(0.1, 1+jitter*rng.NormFloat64())
}
