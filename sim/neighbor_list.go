package sim

import (
	"errors"
	"fmt"
	"math"
)

// ErrNegativeBuffer is returned when a buffer below zero is requested.
var ErrNegativeBuffer = errors.New("neighbor list buffer must be non-negative")

// NeighborList holds the pair cutoff and the skin buffer added to it.
// Pairs within RCut+Buffer are listed; the list is rebuilt once any particle
// may have moved more than Buffer/2 since the last build, and on the first
// step after the buffer changes.
type NeighborList struct {
	rCut   float64
	buffer float64
	dirty  bool // buffer changed since the last build
}

// NewNeighborList creates a NeighborList.
func NewNeighborList(rCut, buffer float64) (*NeighborList, error) {
	if rCut <= 0 || math.IsNaN(rCut) || math.IsInf(rCut, 0) {
		return nil, fmt.Errorf("r_cut must be finite and > 0, got %v", rCut)
	}
	nl := &NeighborList{rCut: rCut}
	if err := nl.SetBuffer(buffer); err != nil {
		return nil, err
	}
	return nl, nil
}

// RCut returns the pair cutoff.
func (nl *NeighborList) RCut() float64 { return nl.rCut }

// Buffer returns the skin buffer.
func (nl *NeighborList) Buffer() float64 { return nl.buffer }

// SetBuffer changes the skin buffer. A new value forces a rebuild on the
// next step.
func (nl *NeighborList) SetBuffer(buffer float64) error {
	if buffer < 0 || math.IsNaN(buffer) || math.IsInf(buffer, 0) {
		return fmt.Errorf("%w, got %v", ErrNegativeBuffer, buffer)
	}
	if buffer != nl.buffer {
		nl.buffer = buffer
		nl.dirty = true
	}
	return nil
}

// NeedsRebuild reports whether the buffer changed since the last build.
func (nl *NeighborList) NeedsRebuild() bool { return nl.dirty }

// built marks the list as current.
func (nl *NeighborList) built() { nl.dirty = false }

// RList returns the listing radius RCut+Buffer.
func (nl *NeighborList) RList() float64 { return nl.rCut + nl.buffer }
