// Package trace provides per-tick recording of tuner decisions.
// This package has no dependencies on sim/ or sim/tune/ — it stores pure data types.
package trace

// TuneRecord captures one tuner invocation.
type TuneRecord struct {
	Timestep     uint64   `yaml:"timestep"`
	Solver       string   `yaml:"solver"`
	BufferBefore float64  `yaml:"buffer_before"`
	BufferAfter  float64  `yaml:"buffer_after"`
	TPS          *float64 `yaml:"tps,omitempty"` // natural units; nil when no observation was available
	Improved     bool     `yaml:"improved"`
	Tuned        bool     `yaml:"tuned"`
}
