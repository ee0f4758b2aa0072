// Package executor provides a bounded-concurrency execution engine for ordered task sequences.
//
// The package implements a worker pool where workers claim task indices from a
// shared atomic cursor. Each task carries a fixed result-slot index, and its
// result is always written at that slot regardless of completion order.
//
// # Key Properties
//
//   - At most min(limit, len(tasks)) tasks execute concurrently
//   - Every task index is claimed exactly once; result slots are written exactly once
//   - Task failures (errors and panics) are isolated in their result slot
//   - The result slice always has the same length and order as the task slice
//   - Run returns only after every worker has drained the cursor
//
// # Basic Usage
//
// Create a pool and run a task sequence:
//
//	pool, err := executor.NewPool(5, logger)
//	if err != nil {
//	    return err
//	}
//
//	results := pool.Run(ctx, tasks)
//	failed := executor.CountFailed(results)
//
// # Progress Reporting
//
// Track execution progress with a callback:
//
//	results := pool.RunWithProgress(ctx, tasks, func(completed, total int) {
//	    fmt.Printf("Progress: %d/%d\n", completed, total)
//	})
package executor
