package trace

import (
	"math"
	"testing"
)

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalTicks != 0 || summary.ObservedTicks != 0 || summary.Tuned {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	tt := NewTuneTrace(TraceConfig{Level: TraceLevelTicks})

	// WHEN summarized
	summary := Summarize(tt)

	// THEN all counts are zero
	if summary.TotalTicks != 0 || summary.GapTicks != 0 {
		t.Errorf("expected 0 ticks, got total=%d gaps=%d", summary.TotalTicks, summary.GapTicks)
	}
	if summary.MeanTPS != 0 || summary.StdDevTPS != 0 || summary.MaxTPS != 0 {
		t.Error("expected 0 TPS statistics")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with one observation gap
	tt := NewTuneTrace(TraceConfig{Level: TraceLevelTicks})
	tt.Record(TuneRecord{Timestep: 10, BufferBefore: 0.0, TPS: ptr(1000)})
	tt.Record(TuneRecord{Timestep: 20, BufferBefore: 0.2})
	tt.Record(TuneRecord{Timestep: 30, BufferBefore: 0.4, TPS: ptr(3000)})
	tt.Record(TuneRecord{Timestep: 40, BufferBefore: 0.6, TPS: ptr(2000), Tuned: true})

	// WHEN summarized
	summary := Summarize(tt)

	// THEN counts match
	if summary.TotalTicks != 4 {
		t.Errorf("expected 4 ticks, got %d", summary.TotalTicks)
	}
	if summary.ObservedTicks != 3 {
		t.Errorf("expected 3 observed ticks, got %d", summary.ObservedTicks)
	}
	if summary.GapTicks != 1 {
		t.Errorf("expected 1 gap tick, got %d", summary.GapTicks)
	}
	if !summary.Tuned || summary.TunedAt != 40 {
		t.Errorf("expected tuned at 40, got tuned=%v at %d", summary.Tuned, summary.TunedAt)
	}
}

func TestSummarize_TPSStatistics_MeanStdDevMax(t *testing.T) {
	// GIVEN records with known throughput
	tt := NewTuneTrace(TraceConfig{Level: TraceLevelTicks})
	tt.Record(TuneRecord{Timestep: 1, BufferBefore: 0.1, TPS: ptr(1000)})
	tt.Record(TuneRecord{Timestep: 2, BufferBefore: 0.2, TPS: ptr(3000)})
	tt.Record(TuneRecord{Timestep: 3, BufferBefore: 0.3, TPS: ptr(2000)})

	// WHEN summarized
	summary := Summarize(tt)

	// THEN mean = 2000, sample stddev = 1000, best buffer = 0.2
	if math.Abs(summary.MeanTPS-2000) > 1e-9 {
		t.Errorf("expected mean 2000, got %v", summary.MeanTPS)
	}
	if math.Abs(summary.StdDevTPS-1000) > 1e-9 {
		t.Errorf("expected stddev 1000, got %v", summary.StdDevTPS)
	}
	if summary.MaxTPS != 3000 {
		t.Errorf("expected max 3000, got %v", summary.MaxTPS)
	}
	if summary.BestBuffer != 0.2 {
		t.Errorf("expected best buffer 0.2, got %v", summary.BestBuffer)
	}
}
