package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mdtune/nlist-tune/sim/tune"
)

// recordingTuner records lifecycle calls made by the simulation.
type recordingTuner struct {
	sim      tune.Simulation
	attaches int
	detaches int
	acted    []uint64
}

func (r *recordingTuner) Attached() bool { return r.sim != nil }

func (r *recordingTuner) Attach(sim tune.Simulation) error {
	r.sim = sim
	r.attaches++
	return nil
}

func (r *recordingTuner) Detach() {
	r.sim = nil
	r.detaches++
}

func (r *recordingTuner) Act(timestep uint64) { r.acted = append(r.acted, timestep) }

// newTestSimulation returns a deterministic simulation with a neighbor list
// at the given buffer.
func newTestSimulation(t *testing.T, buffer float64) *Simulation {
	t.Helper()
	cfg := DefaultEngineConfig()
	cfg.Jitter = 0
	cfg.Buffer = buffer
	s, err := NewSimulation(cfg)
	require.NoError(t, err)
	nl, err := NewNeighborList(cfg.RCut, cfg.Buffer)
	require.NoError(t, err)
	require.NoError(t, s.SetNeighborList(nl))
	return s
}
