// Package sim provides a synthetic molecular-dynamics host engine for the
// neighbor-list buffer tuner.
//
// # Reading Guide
//
//   - simulation.go: Simulation owns the timestep/walltime clock, the run loop
//     and the singleton components (one neighbor list per simulation)
//   - cost_model.go: the per-step wall-clock cost as a function of buffer size
//   - neighbor_list.go: NeighborList, the buffer the tuner reads and writes
//   - operations.go, trigger.go: tuners scheduled on trigger ticks
//
// # Architecture
//
// The tuner itself lives in sim/tune and only sees the narrow tune.Simulation
// and tune.NeighborList interfaces, both implemented here. Decision traces are
// pure data in sim/trace; Prometheus export of tuner state is in sim/metrics.
//
// Walltime is virtual: each step advances it by the cost model's estimate, with
// optional seeded jitter, so runs are reproducible for a given seed.
package sim
