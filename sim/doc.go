// Package sim provides the discrete-event simulation kernel for plant-sim.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - event.go: Event and the EventQueue, ordered by (time, insertion sequence)
//   - simulator.go: the virtual clock, Schedule, and the event loop up to a horizon
//   - resource.go: capacity-limited resources with FIFO wait queues and scoped acquisition
//   - process.go: cooperative processes written as chains of continuations
//
// # Execution model
//
// The kernel is single-threaded and cooperative. A process runs until it
// suspends, either on Timeout or on a contended Acquire; suspending hands a
// continuation to the scheduler, which resumes it at the right virtual time.
// Events at equal times are dispatched in insertion order, so a run is fully
// deterministic for a fixed sequence of random draws.
//
// # Errors
//
// Invalid parameters return a ConfigError (errors.Is(err, ErrConfig)).
// Broken kernel guarantees panic with an InvariantViolation, which
// Simulator.Run recovers and returns (errors.Is(err, ErrInvariant)).
//
// The plant model lives in sim/plant, the replication driver in
// sim/replication, output adapters in sim/report and decision traces in
// sim/trace.
package sim
