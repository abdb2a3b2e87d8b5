package sim

// Trigger decides on which timesteps an operation runs.
type Trigger interface {
	Compute(timestep uint64) bool
}

// Periodic fires on timesteps where (timestep - Phase) is a multiple of
// Period, starting at Phase. A zero Period never fires.
type Periodic struct {
	Period uint64
	Phase  uint64
}

// Compute implements Trigger.
func (p Periodic) Compute(timestep uint64) bool {
	if p.Period == 0 || timestep < p.Phase {
		return false
	}
	return (timestep-p.Phase)%p.Period == 0
}
