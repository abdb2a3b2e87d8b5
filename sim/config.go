package sim

import (
	"fmt"
	"math"
)

// EngineConfig groups the synthetic engine's cost-model parameters.
type EngineConfig struct {
	NumParticles int     `yaml:"num_particles"` // must be > 0
	Density      float64 `yaml:"density"`       // particles per unit volume (must be > 0)
	RCut         float64 `yaml:"r_cut"`         // pair potential cutoff (must be > 0)
	Buffer       float64 `yaml:"buffer"`        // initial neighbor-list buffer (>= 0)
	Displacement float64 `yaml:"displacement"`  // mean max particle displacement per step (> 0)
	PairCost     float64 `yaml:"pair_cost"`     // seconds per listed pair per step (> 0)
	RebuildCost  float64 `yaml:"rebuild_cost"`  // seconds per listed pair per rebuild (>= 0)
	Jitter       float64 `yaml:"jitter"`        // relative stddev of step time noise (0 = deterministic)
	Seed         int64   `yaml:"seed"`
}

// DefaultEngineConfig returns a Lennard-Jones-like liquid whose throughput
// peaks near a buffer of 0.4.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		NumParticles: 10000,
		Density:      0.85,
		RCut:         2.5,
		Buffer:       0.4,
		Displacement: 0.005,
		PairCost:     1e-9,
		RebuildCost:  2e-8,
		Jitter:       0.02,
		Seed:         42,
	}
}

// ValidateEngineConfig returns an error if the config is invalid.
func ValidateEngineConfig(cfg EngineConfig) error {
	if cfg.NumParticles <= 0 {
		return fmt.Errorf("num_particles must be > 0, got %d", cfg.NumParticles)
	}
	positive := []struct {
		name  string
		value float64
	}{
		{"density", cfg.Density},
		{"r_cut", cfg.RCut},
		{"displacement", cfg.Displacement},
		{"pair_cost", cfg.PairCost},
	}
	for _, p := range positive {
		if p.value <= 0 || math.IsNaN(p.value) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%s must be finite and > 0, got %v", p.name, p.value)
		}
	}
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"buffer", cfg.Buffer},
		{"rebuild_cost", cfg.RebuildCost},
		{"jitter", cfg.Jitter},
	}
	for _, p := range nonNegative {
		if p.value < 0 || math.IsNaN(p.value) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%s must be finite and >= 0, got %v", p.name, p.value)
		}
	}
	return nil
}
