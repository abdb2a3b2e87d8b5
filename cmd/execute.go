package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/mdtune/nlist-tune/sim"
	"github.com/mdtune/nlist-tune/sim/metrics"
	"github.com/mdtune/nlist-tune/sim/trace"
	"github.com/mdtune/nlist-tune/sim/tune"
)

// RunResult holds the state of a finished tuning run.
type RunResult struct {
	Simulation *sim.Simulation
	Tuner      *tune.NeighborListBuffer
	Trace      *trace.TuneTrace
	Registry   *prometheus.Registry
}

// RunSummary is the JSON report printed after a run.
type RunSummary struct {
	Solver      string              `json:"solver"`
	Tuned       bool                `json:"tuned"`
	FinalBuffer float64             `json:"final_buffer"`
	BestBuffer  *float64            `json:"best_buffer,omitempty"`
	MaxTPS      float64             `json:"max_tps"`
	LastTPS     float64             `json:"last_tps"`
	Timesteps   uint64              `json:"timesteps"`
	Rebuilds    int                 `json:"rebuilds"`
	Trace       *trace.TraceSummary `json:"trace,omitempty"`
}

// execute builds the engine and tuner from cfg and runs cfg.Runs runs.
func execute(cfg RunConfig) (*RunResult, error) {
	s, err := sim.NewSimulation(cfg.Engine)
	if err != nil {
		return nil, err
	}
	nl, err := sim.NewNeighborList(cfg.Engine.RCut, cfg.Engine.Buffer)
	if err != nil {
		return nil, err
	}
	if err := s.SetNeighborList(nl); err != nil {
		return nil, err
	}

	tuner, err := newBufferTuner(nl, cfg.Tuner)
	if err != nil {
		return nil, fmt.Errorf("creating tuner: %w", err)
	}
	tt := trace.NewTuneTrace(cfg.Trace)
	tuner.SetTrace(tt)
	if err := s.Operations.AddTuner(tuner, sim.Periodic{Period: cfg.Tuner.Period}); err != nil {
		return nil, err
	}

	for i := 0; i < cfg.Runs; i++ {
		if err := s.Run(cfg.Steps); err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
		logrus.Infof("[tick %07d] run %d done: buffer=%.5f, tps=%.2f, tuned=%v",
			s.Timestep(), i, nl.Buffer(), s.TPS(), tuner.Tuned())
	}

	reg := prometheus.NewRegistry()
	if err := reg.Register(metrics.NewTunerCollector("nlist", tuner)); err != nil {
		return nil, fmt.Errorf("registering tuner collector: %w", err)
	}
	return &RunResult{Simulation: s, Tuner: tuner, Trace: tt, Registry: reg}, nil
}

// Summary reports the final tuner and engine state.
func (r *RunResult) Summary() RunSummary {
	summary := RunSummary{
		Solver:      r.Tuner.Solver().Name(),
		Tuned:       r.Tuner.Tuned(),
		FinalBuffer: r.Simulation.NeighborList().Buffer(),
		MaxTPS:      r.Tuner.MaxTPS(),
		LastTPS:     r.Tuner.LastTPS(),
		Timesteps:   r.Simulation.Timestep(),
		Rebuilds:    r.Simulation.Rebuilds(),
	}
	if best, ok := r.Tuner.BestBufferSize(); ok {
		summary.BestBuffer = &best
	}
	if r.Trace.Enabled() {
		summary.Trace = trace.Summarize(r.Trace)
	}
	return summary
}

// Print writes the summary as indented JSON.
func (r *RunResult) Print(w io.Writer) error {
	data, err := json.MarshalIndent(r.Summary(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "=== Tuning Summary ===\n%s\n", data)
	return err
}

// WriteTrace writes the trace as YAML to path. Empty path is a no-op.
func (r *RunResult) WriteTrace(path string) error {
	if path == "" {
		return nil
	}
	data, err := yaml.Marshal(r.Trace)
	if err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteMetrics writes the tuner gauges in Prometheus text format to path.
// Empty path is a no-op.
func (r *RunResult) WriteMetrics(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := metrics.WriteText(f, r.Registry); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
