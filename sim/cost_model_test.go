package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCostModel_ListedPairs_ScalesWithCubeOfRadius(t *testing.T) {
	m := NewCostModel(DefaultEngineConfig())
	ratio := m.ListedPairs(2) / m.ListedPairs(1)
	assert.InDelta(t, 8.0, ratio, 1e-9)
}

func TestCostModel_StepAndRebuildCost(t *testing.T) {
	cfg := EngineConfig{NumParticles: 100, Density: 1, PairCost: 1e-6, RebuildCost: 1e-5}
	m := NewCostModel(cfg)
	pairs := 100 * 4.0 / 3.0 * math.Pi
	assert.InDelta(t, pairs, m.ListedPairs(1), 1e-9)
	assert.InDelta(t, pairs*1e-6, m.StepCost(1), 1e-12)
	assert.InDelta(t, pairs*1e-5, m.RebuildCost(1), 1e-12)
}
