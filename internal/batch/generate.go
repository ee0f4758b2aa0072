package batch

import (
	"context"

	"github.com/aryankumar/gridrun/internal/executor"
)

// Generate expands a payload's dimensions into an ordered task sequence.
// Enumeration is row-major: the outer loop runs over periods, the inner
// loop over items, so task index i*len(items)+j corresponds to the
// combination (periods[i], items[j]). The index is a pure function of
// input order and never depends on execution timing.
//
// An empty periods or items sequence yields an empty task sequence.
func Generate(p Payload, run RunFunc) []executor.Task {
	tasks := make([]executor.Task, 0, len(p.Periods)*len(p.Items))

	for i, period := range p.Periods {
		for j, item := range p.Items {
			period, item := period, item
			tasks = append(tasks, executor.Task{
				Index: i*len(p.Items) + j,
				Run: func(ctx context.Context) (interface{}, error) {
					return run(ctx, period, item, p.Context)
				},
			})
		}
	}

	return tasks
}
