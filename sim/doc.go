// Package sim provides the discrete-event engine for the off-ramp simulator.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - simulator.go: virtual clock, event queue and the Process contract
//   - ramp.go: the bounded lane resource with first-come-first-served admission
//   - vehicle.go and generator.go: the two kinds of process
//   - runner.go: building and running one scenario
//
// # Scheduling
//
// Execution is single-threaded and cooperative. A process suspends by
// scheduling its own resumption (Simulator.Schedule) or by queueing on the
// Ramp; events with equal timestamps fire in the order they were scheduled,
// so identical configs produce identical runs.
//
// Sub-packages:
//   - sim/trace/: per-run vehicle and lane occupancy records
//   - sim/record/: SQLite export of scenario results
package sim
