// Package batch expands payloads into task grids and aggregates their outcomes.
//
// Each payload carries two ordered dimension sequences (periods and items)
// plus an opaque shared context. Generate enumerates the Cartesian product in
// row-major order, assigning each combination a fixed result-slot index. The
// Aggregator executes one payload's grid through the executor pool and reduces
// the results to a PayloadOutcome; the Orchestrator runs all payloads of a
// batch concurrently, isolates payload-level faults as synthetic failed
// outcomes, and reduces everything into a single Outcome with multi-status
// semantics: HTTP 200 when every payload succeeded, 207 when some failed.
// Per-task and per-payload failures are data in the reduction, never errors
// crossing the batch boundary.
package batch
