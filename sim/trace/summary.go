package trace

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TraceSummary aggregates statistics from a TuneTrace.
type TraceSummary struct {
	TotalTicks    int
	ObservedTicks int
	GapTicks      int // ticks where the estimator had no throughput
	MeanTPS       float64
	StdDevTPS     float64
	MaxTPS        float64
	BestBuffer    float64
	Tuned         bool
	TunedAt       uint64 // timestep of the first record with Tuned set; valid if Tuned
}

// Summarize computes aggregate statistics from a TuneTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(tt *TuneTrace) *TraceSummary {
	summary := &TraceSummary{}
	if tt == nil {
		return summary
	}

	summary.TotalTicks = len(tt.Records)
	tps := make([]float64, 0, len(tt.Records))
	for _, r := range tt.Records {
		if r.TPS == nil {
			summary.GapTicks++
		} else {
			tps = append(tps, *r.TPS)
			if len(tps) == 1 || *r.TPS > summary.MaxTPS {
				summary.MaxTPS = *r.TPS
				summary.BestBuffer = r.BufferBefore
			}
		}
		if r.Tuned && !summary.Tuned {
			summary.Tuned = true
			summary.TunedAt = r.Timestep
		}
	}
	summary.ObservedTicks = len(tps)

	if len(tps) > 0 {
		summary.MeanTPS = stat.Mean(tps, nil)
	}
	if len(tps) > 1 {
		summary.StdDevTPS = stat.StdDev(tps, nil)
		if math.IsNaN(summary.StdDevTPS) {
			summary.StdDevTPS = 0
		}
	}

	return summary
}
