package tune

// TPSScale divides the raw timesteps-per-second signal so gradients stay in a
// range convenient for GradientDescent. Values reported by the controller are
// multiplied back by it.
const TPSScale = 1000.0

// Simulation is the clock surface the tuner reads from the host engine.
type Simulation interface {
	// Timestep is the current step of the simulation.
	Timestep() uint64
	// Walltime is the wall-clock time in seconds since the latest run started.
	Walltime() float64
	// InitialTimestep is the timestep at the start of the latest run.
	InitialTimestep() uint64
}

// ThroughputEstimator computes scaled TPS over the interval between two
// consecutive samples of a running simulation.
//
// A value is produced only when the interval is genuine: the two samples must
// belong to the same run, or the previous sample must have been taken exactly at
// the end of the prior run (contiguous runs).
type ThroughputEstimator struct {
	sim Simulation

	initialTimestep uint64
	hasBaseline     bool
	lastTimestep    uint64
	lastWalltime    float64
	lastTPS         *float64
}

// NewThroughputEstimator creates an estimator whose baseline is the current
// simulation clock.
func NewThroughputEstimator(sim Simulation) *ThroughputEstimator {
	return &ThroughputEstimator{
		sim:             sim,
		initialTimestep: sim.InitialTimestep(),
		hasBaseline:     true,
		lastTimestep:    sim.Timestep(),
		lastWalltime:    sim.Walltime(),
	}
}

// Sample returns the scaled TPS since the previous sample, or nil when no
// throughput can be computed this tick.
func (e *ThroughputEstimator) Sample() *float64 {
	timestep := e.sim.Timestep()
	if e.hasBaseline && timestep == e.lastTimestep {
		return e.lastTPS
	}

	if start := e.sim.InitialTimestep(); start > e.initialTimestep {
		e.initialTimestep = start
		// A baseline equal to the new start means the previous sample closed the
		// last run and the interval is still contiguous.
		if !e.hasBaseline || e.lastTimestep != start {
			e.reset()
			return nil
		}
		// Walltime restarts with each run.
		e.lastWalltime = 0
	}

	walltime := e.sim.Walltime()
	var tps *float64
	if e.hasBaseline && timestep > e.lastTimestep {
		deltaW := walltime - e.lastWalltime
		if deltaW > 0 {
			v := float64(timestep-e.lastTimestep) / (TPSScale * deltaW)
			tps = &v
		}
	}

	e.lastTPS = tps
	e.hasBaseline = true
	e.lastTimestep = timestep
	e.lastWalltime = walltime
	return tps
}

// reset forgets the baseline so the next sample starts a fresh interval.
func (e *ThroughputEstimator) reset() {
	e.hasBaseline = false
	e.lastTimestep = 0
	e.lastWalltime = 0
	e.lastTPS = nil
}
