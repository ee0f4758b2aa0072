package batch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// PayloadRunner aggregates one payload into an outcome.
// The error return covers faults in the aggregation step itself, not
// individual task failures (those are already counted in the outcome).
type PayloadRunner interface {
	RunPayload(ctx context.Context, index int, p Payload) (PayloadOutcome, error)
}

// Orchestrator fans a batch of payloads out across concurrent
// aggregations and reduces everything into one Outcome. Payload-level
// faults are isolated: a payload whose aggregation fails becomes a
// synthetic failed outcome and never disturbs its siblings. The
// orchestrator itself never raises a fault outward.
type Orchestrator struct {
	// runner aggregates individual payloads
	runner PayloadRunner

	// logger for structured logging
	logger *slog.Logger
}

// NewOrchestrator creates a batch orchestrator with a default aggregator
// running at the given concurrency limit.
// Returns executor.ErrInvalidLimit if limit is below 1.
func NewOrchestrator(limit int, run RunFunc, logger *slog.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	agg, err := NewAggregator(limit, run, logger)
	if err != nil {
		return nil, err
	}

	return NewOrchestratorWithRunner(agg, logger), nil
}

// NewOrchestratorWithRunner creates an orchestrator with a custom payload runner
func NewOrchestratorWithRunner(runner PayloadRunner, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		runner: runner,
		logger: logger,
	}
}

// Run aggregates every payload concurrently and reduces the outcomes.
// This layer has no concurrency cap of its own; the worker pool's limit
// is the only throttle, applied independently inside each payload.
// Outcome slots are indexed by payload position, so the final sequence
// matches input order regardless of completion order.
func (o *Orchestrator) Run(ctx context.Context, payloads []Payload) Outcome {
	o.logger.Info("starting batch", "payloads", len(payloads))
	startTime := time.Now()

	outcomes := make([]PayloadOutcome, len(payloads))

	var wg sync.WaitGroup
	for i, p := range payloads {
		wg.Add(1)
		go func(index int, p Payload) {
			defer wg.Done()
			outcomes[index] = o.runOne(ctx, index, p)
		}(i, p)
	}
	wg.Wait()

	successCount := 0
	for _, po := range outcomes {
		if po.OK {
			successCount++
		}
	}
	failCount := len(outcomes) - successCount

	statusCode := http.StatusOK
	if failCount > 0 {
		statusCode = http.StatusMultiStatus
	}

	o.logger.Info("batch completed",
		"payloads", len(outcomes),
		"successful", successCount,
		"failed", failCount,
		"status", statusCode,
		"duration", time.Since(startTime))

	return Outcome{
		SuccessCount: successCount,
		FailCount:    failCount,
		Payloads:     outcomes,
		StatusCode:   statusCode,
	}
}

// runOne aggregates a single payload, converting aggregation errors and
// panics into a synthetic failed outcome so the batch always completes.
func (o *Orchestrator) runOne(ctx context.Context, index int, p Payload) (outcome PayloadOutcome) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("payload aggregation panicked",
				"index", index,
				"name", p.Name,
				"error", r)
			outcome = syntheticFailure(index, p, fmt.Sprintf("aggregation panicked: %v", r))
		}
	}()

	outcome, err := o.runner.RunPayload(ctx, index, p)
	if err != nil {
		o.logger.Error("payload aggregation failed",
			"index", index,
			"name", p.Name,
			"error", err)
		return syntheticFailure(index, p, err.Error())
	}

	return outcome
}

// syntheticFailure builds the outcome recorded for a payload whose
// aggregation step failed outright.
func syntheticFailure(index int, p Payload, reason string) PayloadOutcome {
	if reason == "" {
		reason = "payload aggregation failed"
	}
	return PayloadOutcome{
		Index:  index,
		Name:   p.Name,
		OK:     false,
		Reason: reason,
	}
}
