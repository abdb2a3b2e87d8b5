package tune

import (
	"errors"
	"testing"
)

// fakeSim is a hand-driven simulation clock.
type fakeSim struct {
	timestep uint64
	initial  uint64
	walltime float64
}

func (f *fakeSim) Timestep() uint64        { return f.timestep }
func (f *fakeSim) Walltime() float64       { return f.walltime }
func (f *fakeSim) InitialTimestep() uint64 { return f.initial }

func (f *fakeSim) advance(steps uint64, seconds float64) {
	f.timestep += steps
	f.walltime += seconds
}

// startRun begins a new run at the current timestep, resetting walltime.
func (f *fakeSim) startRun() {
	f.initial = f.timestep
	f.walltime = 0
}

// fakeNList records buffer writes and rejects negative buffers.
type fakeNList struct {
	buffer float64
	writes []float64
}

func (n *fakeNList) Buffer() float64 { return n.buffer }

func (n *fakeNList) SetBuffer(v float64) error {
	if v < 0 {
		return errors.New("buffer must be non-negative")
	}
	n.buffer = v
	n.writes = append(n.writes, v)
	return nil
}

func ptr(v float64) *float64 { return &v }

// newVarTunable binds a tunable to *x with signal f(x).
func newVarTunable(t *testing.T, x *float64, f func(float64) *float64, target float64, d Domain) *TunableParameter {
	t.Helper()
	p, err := NewTunableParameter(TunableDefinition{
		GetX:   func() float64 { return *x },
		SetX:   func(v float64) { *x = v },
		GetY:   func() *float64 { return f(*x) },
		Target: target,
		Domain: d,
	})
	if err != nil {
		t.Fatalf("NewTunableParameter: %v", err)
	}
	return p
}
