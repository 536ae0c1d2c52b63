// Package sim provides the discrete-event simulation engine for single-server
// queues with Poisson arrivals (M/M/1 and M/D/1).
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - event.go / event_queue.go: Arrival and Departure events and the
//     deterministic schedule that orders them (time → kind → insertion order)
//   - queue.go: per-replication queue state and its time-weighted statistics
//   - simulator.go: the replication loop and the sweep over arrival rates
//
// # Estimation
//
// Each replication integrates the number-in-system curve over [0, clock] and
// applies Little's Law, W = L / lambda. Service rate is fixed at 1, so the
// closed-form mean time in system is 1/(1-lambda) (see result.go).
//
// # Determinism
//
// A Simulator owns one Stream. All replications of all rates draw from it in
// a fixed order: every replication of the first rate, then the next rate, and
// so on. The same seed therefore reproduces the same results. Parallel mode
// derives an independent Stream per replication through PartitionedRNG.
package sim
