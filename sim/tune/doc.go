// Package tune provides the online autotuner for the neighbor-list buffer.
//
// # Reading Guide
//
//   - estimator.go: ThroughputEstimator turns the host's (timestep, walltime)
//     clock into a TPS signal, tolerating restarts and stale ticks
//   - tunable.go: TunableParameter binds one scalar to a domain and a signal
//   - optimizer.go, grid.go, gradient.go: the Optimizer interface and its two
//     solvers (GridSearch, GradientDescent)
//   - nlist_buffer.go: NeighborListBuffer, the controller the host invokes on
//     every trigger tick
//
// # Threading
//
// Nothing in this package is safe for concurrent use. The host loop calls Act
// synchronously between steps; the controller is the only writer of the
// neighbor-list buffer while a tuning session is attached.
package tune
