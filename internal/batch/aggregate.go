package batch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aryankumar/gridrun/internal/executor"
)

// ErrNoRunFunc indicates an aggregator built without a task operation
var ErrNoRunFunc = errors.New("no task operation configured")

// Aggregator runs one payload's task grid through the worker pool and
// reduces the results into a single PayloadOutcome.
type Aggregator struct {
	// pool executes the payload's tasks with the configured limit.
	// The pool is stateless per run and shared across payloads.
	pool *executor.Pool

	// run is the deferred operation bound into every generated task
	run RunFunc

	// logger for structured logging
	logger *slog.Logger
}

// NewAggregator creates a payload aggregator.
// Returns executor.ErrInvalidLimit if limit is below 1.
func NewAggregator(limit int, run RunFunc, logger *slog.Logger) (*Aggregator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := executor.NewPool(limit, logger)
	if err != nil {
		return nil, err
	}

	return &Aggregator{
		pool:   pool,
		run:    run,
		logger: logger,
	}, nil
}

// RunPayload expands the payload into tasks, executes them, and reduces
// the results into an outcome. The reduction itself is a pure count over
// materialized results and cannot fail; the returned error covers only
// faults in building the task sequence.
func (a *Aggregator) RunPayload(ctx context.Context, index int, p Payload) (PayloadOutcome, error) {
	if a.run == nil {
		return PayloadOutcome{}, ErrNoRunFunc
	}

	tasks := Generate(p, a.run)

	a.logger.Debug("running payload",
		"index", index,
		"name", p.Name,
		"periods", len(p.Periods),
		"items", len(p.Items),
		"tasks", len(tasks))

	results := a.pool.Run(ctx, tasks)
	failed := executor.CountFailed(results)

	outcome := PayloadOutcome{
		Index:  index,
		Name:   p.Name,
		OK:     failed == 0,
		Total:  len(results),
		Failed: failed,
	}

	a.logger.Debug("payload completed",
		"index", index,
		"name", p.Name,
		"total", outcome.Total,
		"failed", outcome.Failed)

	return outcome, nil
}
