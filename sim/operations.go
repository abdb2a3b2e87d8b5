package sim

import (
	"errors"
	"fmt"

	"github.com/mdtune/nlist-tune/sim/tune"
)

// ErrDuplicateTuner is returned when a tuner is added twice.
var ErrDuplicateTuner = errors.New("tuner already added")

// Tuner is an operation that adjusts simulation parameters while it runs.
type Tuner interface {
	Attached() bool
	Attach(sim tune.Simulation) error
	Detach()
	Act(timestep uint64)
}

type scheduledTuner struct {
	tuner   Tuner
	trigger Trigger
}

// Operations holds the tuners of a Simulation in insertion order.
type Operations struct {
	sim    *Simulation
	tuners []scheduledTuner
}

// AddTuner schedules tuner on trigger. If the simulation has already run,
// the tuner attaches immediately.
func (o *Operations) AddTuner(tuner Tuner, trigger Trigger) error {
	if tuner == nil || trigger == nil {
		return fmt.Errorf("add tuner: tuner and trigger are required")
	}
	for _, st := range o.tuners {
		if st.tuner == tuner {
			return ErrDuplicateTuner
		}
	}
	if o.sim != nil && o.sim.started {
		if err := tuner.Attach(o.sim); err != nil {
			return fmt.Errorf("add tuner: %w", err)
		}
	}
	o.tuners = append(o.tuners, scheduledTuner{tuner: tuner, trigger: trigger})
	return nil
}

// RemoveTuner detaches and removes tuner. It reports whether tuner was present.
func (o *Operations) RemoveTuner(tuner Tuner) bool {
	for i, st := range o.tuners {
		if st.tuner == tuner {
			st.tuner.Detach()
			o.tuners = append(o.tuners[:i], o.tuners[i+1:]...)
			return true
		}
	}
	return false
}

// Tuners returns the scheduled tuners in insertion order.
func (o *Operations) Tuners() []Tuner {
	out := make([]Tuner, len(o.tuners))
	for i, st := range o.tuners {
		out[i] = st.tuner
	}
	return out
}

// attachAll attaches every tuner that is not yet bound to the simulation.
func (o *Operations) attachAll() error {
	for _, st := range o.tuners {
		if st.tuner.Attached() {
			continue
		}
		if err := st.tuner.Attach(o.sim); err != nil {
			return err
		}
	}
	return nil
}

func (o *Operations) act(timestep uint64) {
	for _, st := range o.tuners {
		if st.trigger.Compute(timestep) {
			st.tuner.Act(timestep)
		}
	}
}
