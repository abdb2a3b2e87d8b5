package sim

import "math"

// CostModel estimates per-step wall-clock cost from the listing radius.
//
// Neighbors per particle grow with the listed sphere volume, so both pair
// evaluation and list rebuilds scale with (RCut+Buffer)^3. A larger buffer
// makes each step dearer but rebuilds rarer; throughput peaks in between.
type CostModel struct {
	numParticles float64
	density      float64
	pairCost     float64
	rebuildCost  float64
}

// NewCostModel creates a CostModel from cfg.
func NewCostModel(cfg EngineConfig) CostModel {
	return CostModel{
		numParticles: float64(cfg.NumParticles),
		density:      cfg.Density,
		pairCost:     cfg.PairCost,
		rebuildCost:  cfg.RebuildCost,
	}
}

// ListedPairs returns the number of listed pairs for radius rList.
func (m CostModel) ListedPairs(rList float64) float64 {
	perParticle := m.density * 4.0 / 3.0 * math.Pi * rList * rList * rList
	return m.numParticles * perParticle
}

// StepCost returns the seconds spent evaluating forces for one step.
func (m CostModel) StepCost(rList float64) float64 {
	return m.ListedPairs(rList) * m.pairCost
}

// RebuildCost returns the seconds spent rebuilding the list once.
func (m CostModel) RebuildCost(rList float64) float64 {
	return m.ListedPairs(rList) * m.rebuildCost
}
