package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrInvalidLimit indicates a worker limit below 1.
// A limit this low invalidates every execution plan, so it is rejected
// outright rather than silently reinterpreted.
var ErrInvalidLimit = errors.New("concurrency limit must be at least 1")

// Task is one deferred unit of work with a fixed result-slot index.
// The index is assigned at creation and never changes; the result for
// this task is always written at the slot with the same index.
type Task struct {
	// Index is the task's position in the generated sequence
	Index int

	// Run is the deferred operation to execute
	// Returns the result value and any error encountered
	Run func(ctx context.Context) (interface{}, error)
}

// Result represents the outcome of executing a task
type Result struct {
	// Index matches the index of the task that produced this result
	Index int

	// Value contains the successful result data (nil if an error occurred)
	Value interface{}

	// Err contains any error that occurred during execution (nil if successful)
	Err error

	// Duration is how long the task took to execute
	Duration time.Duration
}

// Pool executes ordered task sequences with bounded concurrency.
// Workers claim task indices from a shared atomic cursor, so no two
// workers ever process the same index and every index is processed
// exactly once. Result slots are disjoint across workers and need no
// synchronization. A Pool holds no per-run state and is safe for
// concurrent Run calls.
type Pool struct {
	// limit is the maximum number of concurrently active tasks
	limit int

	// logger for structured logging
	logger *slog.Logger
}

// NewPool creates a worker pool with the given concurrency limit.
// Returns ErrInvalidLimit if limit is below 1.
func NewPool(limit int, logger *slog.Logger) (*Pool, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidLimit, limit)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Pool{
		limit:  limit,
		logger: logger,
	}, nil
}

// Limit returns the pool's concurrency limit
func (p *Pool) Limit() int {
	return p.limit
}

// Run executes all tasks and returns one result per task, at the slot
// matching the task's index, regardless of completion order. Task
// failures are recorded in their result slots and never abort the run
// or any sibling task. Run returns only after every worker has drained
// the cursor (full join).
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	return p.RunWithProgress(ctx, tasks, nil)
}

// RunWithProgress runs all tasks with progress reporting.
// The progressFn callback is called after each task completes with
// (completed, total) counts.
func (p *Pool) RunWithProgress(ctx context.Context, tasks []Task, progressFn func(completed, total int)) []Result {
	total := len(tasks)
	if total == 0 {
		p.logger.Debug("no tasks to execute")
		return []Result{}
	}

	// Never spawn workers that would have nothing to claim
	workers := p.limit
	if workers > total {
		workers = total
	}

	p.logger.Debug("starting task execution",
		"workers", workers,
		"tasks", total)

	startTime := time.Now()

	results := make([]Result, total)

	// Shared cursor from which workers claim task indices.
	// Add(1)-1 is an atomic fetch-and-increment: every index is claimed
	// at most once, with no locks on the result slice.
	var cursor atomic.Int64
	var completed atomic.Int32

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for {
				index := int(cursor.Add(1)) - 1
				if index >= total {
					p.logger.Debug("worker finished (no more tasks)", "worker_id", workerID)
					return
				}

				results[index] = p.runTask(ctx, tasks[index])

				done := completed.Add(1)
				p.logger.Debug("task completed",
					"worker_id", workerID,
					"index", index,
					"success", results[index].Err == nil,
					"progress", fmt.Sprintf("%d/%d", done, total))

				if progressFn != nil {
					progressFn(int(done), total)
				}
			}
		}(w)
	}

	wg.Wait()

	summary := Summarize(results)
	p.logger.Info("task execution completed",
		"total", summary.Total,
		"successful", summary.Successful,
		"failed", summary.Failed,
		"duration", time.Since(startTime))

	return results
}

// runTask executes a single task and returns its result.
// Any panic raised by the operation is converted into a failed result
// with a human-readable reason, even when the panic value carries none.
func (p *Pool) runTask(ctx context.Context, task Task) (res Result) {
	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Index:    task.Index,
				Err:      panicError(r),
				Duration: time.Since(startTime),
			}
			p.logger.Warn("task panicked",
				"index", task.Index,
				"error", res.Err)
		}
	}()

	if task.Run == nil {
		return Result{
			Index:    task.Index,
			Err:      fmt.Errorf("task %d has no operation", task.Index),
			Duration: time.Since(startTime),
		}
	}

	value, err := task.Run(ctx)
	duration := time.Since(startTime)

	if err != nil {
		p.logger.Warn("task failed",
			"index", task.Index,
			"error", err,
			"duration", duration)
	} else {
		p.logger.Debug("task succeeded",
			"index", task.Index,
			"duration", duration)
	}

	return Result{
		Index:    task.Index,
		Value:    value,
		Err:      err,
		Duration: duration,
	}
}

// panicError converts a recovered panic value into an error
func panicError(r interface{}) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("task panicked: %w", err)
	}
	msg := fmt.Sprintf("%v", r)
	if msg == "" {
		return errors.New("task panicked")
	}
	return fmt.Errorf("task panicked: %s", msg)
}
