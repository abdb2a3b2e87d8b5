// Package metrics exports buffer-tuner state as Prometheus gauges.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "nlist_tune"

// TunerState is the read-only view of a buffer tuner that the collector
// exports. *tune.NeighborListBuffer satisfies it.
type TunerState interface {
	Tuned() bool
	LastTPS() float64
	MaxTPS() float64
	MaximumBuffer() float64
	BestBufferSize() (float64, bool)
}

// TunerCollector is a prometheus.Collector reading tuner state at scrape time.
type TunerCollector struct {
	name  string
	state TunerState

	tuned         *prometheus.Desc
	lastTPS       *prometheus.Desc
	maxTPS        *prometheus.Desc
	bestBuffer    *prometheus.Desc
	maximumBuffer *prometheus.Desc
}

// NewTunerCollector creates a collector labelled tuner=name.
func NewTunerCollector(name string, state TunerState) *TunerCollector {
	labels := prometheus.Labels{"tuner": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", metric), help, nil, labels)
	}
	return &TunerCollector{
		name:          name,
		state:         state,
		tuned:         desc("tuned", "1 once the solver has converged in the current session."),
		lastTPS:       desc("last_tps", "Most recent throughput observation in timesteps per second."),
		maxTPS:        desc("max_tps", "Best throughput observed in the current session."),
		bestBuffer:    desc("best_buffer", "Buffer at which max_tps was observed."),
		maximumBuffer: desc("maximum_buffer", "Upper bound of the tuned buffer domain."),
	}
}

// Describe implements prometheus.Collector.
func (c *TunerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.tuned
	ch <- c.lastTPS
	ch <- c.maxTPS
	ch <- c.bestBuffer
	ch <- c.maximumBuffer
}

// Collect implements prometheus.Collector. best_buffer is omitted until the
// first observation.
func (c *TunerCollector) Collect(ch chan<- prometheus.Metric) {
	tuned := 0.0
	if c.state.Tuned() {
		tuned = 1
	}
	ch <- prometheus.MustNewConstMetric(c.tuned, prometheus.GaugeValue, tuned)
	ch <- prometheus.MustNewConstMetric(c.lastTPS, prometheus.GaugeValue, c.state.LastTPS())
	ch <- prometheus.MustNewConstMetric(c.maxTPS, prometheus.GaugeValue, c.state.MaxTPS())
	if best, ok := c.state.BestBufferSize(); ok {
		ch <- prometheus.MustNewConstMetric(c.bestBuffer, prometheus.GaugeValue, best)
	}
	ch <- prometheus.MustNewConstMetric(c.maximumBuffer, prometheus.GaugeValue, c.state.MaximumBuffer())
}

// WriteText gathers g and writes every family in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
