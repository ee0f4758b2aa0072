package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPool(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		wantErr bool
	}{
		{
			name:    "positive limit",
			limit:   5,
			wantErr: false,
		},
		{
			name:    "limit of one",
			limit:   1,
			wantErr: false,
		},
		{
			name:    "zero limit is invalid",
			limit:   0,
			wantErr: true,
		},
		{
			name:    "negative limit is invalid",
			limit:   -5,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewPool(tt.limit, nil)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidLimit) {
					t.Errorf("expected ErrInvalidLimit, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if pool.Limit() != tt.limit {
				t.Errorf("expected limit %d, got %d", tt.limit, pool.Limit())
			}
		})
	}
}

func TestPool_Run(t *testing.T) {
	tests := []struct {
		name         string
		limit        int
		tasks        []Task
		checkResults func(t *testing.T, results []Result)
	}{
		{
			name:  "single task",
			limit: 1,
			tasks: []Task{
				{
					Index: 0,
					Run: func(ctx context.Context) (interface{}, error) {
						return "result0", nil
					},
				},
			},
			checkResults: func(t *testing.T, results []Result) {
				if results[0].Err != nil {
					t.Errorf("expected no error, got %v", results[0].Err)
				}
				if results[0].Index != 0 {
					t.Errorf("expected index 0, got %d", results[0].Index)
				}
				if results[0].Value != "result0" {
					t.Errorf("expected result0, got %v", results[0].Value)
				}
			},
		},
		{
			name:  "more tasks than workers",
			limit: 2,
			tasks: makeTasks(6, nil),
			checkResults: func(t *testing.T, results []Result) {
				if CountSuccessful(results) != 6 {
					t.Errorf("expected 6 successful results, got %d", CountSuccessful(results))
				}
			},
		},
		{
			name:  "mixed success and failure",
			limit: 2,
			tasks: []Task{
				{Index: 0, Run: func(ctx context.Context) (interface{}, error) { return "ok", nil }},
				{Index: 1, Run: func(ctx context.Context) (interface{}, error) { return nil, errors.New("boom") }},
				{Index: 2, Run: func(ctx context.Context) (interface{}, error) { return "ok", nil }},
			},
			checkResults: func(t *testing.T, results []Result) {
				if CountSuccessful(results) != 2 {
					t.Errorf("expected 2 successful, got %d", CountSuccessful(results))
				}
				if CountFailed(results) != 1 {
					t.Errorf("expected 1 failed, got %d", CountFailed(results))
				}
				if results[1].Err == nil || results[1].Err.Error() != "boom" {
					t.Errorf("expected boom at slot 1, got %v", results[1].Err)
				}
			},
		},
		{
			name:  "task with no operation",
			limit: 1,
			tasks: []Task{
				{Index: 0, Run: nil},
			},
			checkResults: func(t *testing.T, results []Result) {
				if results[0].Err == nil {
					t.Error("expected error for task with no operation")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewPool(tt.limit, slog.Default())
			if err != nil {
				t.Fatalf("failed to create pool: %v", err)
			}

			results := pool.Run(context.Background(), tt.tasks)

			if len(results) != len(tt.tasks) {
				t.Errorf("expected %d results, got %d", len(tt.tasks), len(results))
			}

			if tt.checkResults != nil {
				tt.checkResults(t, results)
			}
		})
	}
}

func TestPool_Run_Empty(t *testing.T) {
	pool, err := NewPool(5, slog.Default())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	results := pool.Run(context.Background(), nil)

	if len(results) != 0 {
		t.Errorf("expected 0 results for empty task sequence, got %d", len(results))
	}
}

func TestPool_Run_SlotIdentity(t *testing.T) {
	// Later-indexed tasks finish before earlier-indexed ones; result slots
	// must still match task indices.
	pool, err := NewPool(4, slog.Default())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	taskCount := 8
	tasks := make([]Task, 0, taskCount)
	for i := 0; i < taskCount; i++ {
		index := i
		tasks = append(tasks, Task{
			Index: index,
			Run: func(ctx context.Context) (interface{}, error) {
				// Earlier indices sleep longer, forcing out-of-order completion
				time.Sleep(time.Duration(taskCount-index) * 5 * time.Millisecond)
				return fmt.Sprintf("value-%d", index), nil
			},
		})
	}

	results := pool.Run(context.Background(), tasks)

	if len(results) != taskCount {
		t.Fatalf("expected %d results, got %d", taskCount, len(results))
	}

	for i, r := range results {
		if r.Index != i {
			t.Errorf("slot %d holds result with index %d", i, r.Index)
		}
		want := fmt.Sprintf("value-%d", i)
		if r.Value != want {
			t.Errorf("slot %d: expected %q, got %v", i, want, r.Value)
		}
	}
}

func TestPool_Run_ConcurrencyBound(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		taskCount int
		wantPeak  int
	}{
		{
			name:      "limit below task count",
			limit:     2,
			taskCount: 10,
			wantPeak:  2,
		},
		{
			name:      "limit above task count clamps to task count",
			limit:     10,
			taskCount: 3,
			wantPeak:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewPool(tt.limit, slog.Default())
			if err != nil {
				t.Fatalf("failed to create pool: %v", err)
			}

			var active atomic.Int32
			var peak atomic.Int32

			tasks := makeTasks(tt.taskCount, func(ctx context.Context) (interface{}, error) {
				current := active.Add(1)
				for {
					observed := peak.Load()
					if current <= observed || peak.CompareAndSwap(observed, current) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				active.Add(-1)
				return nil, nil
			})

			results := pool.Run(context.Background(), tasks)

			if len(results) != tt.taskCount {
				t.Errorf("expected %d results, got %d", tt.taskCount, len(results))
			}

			if got := int(peak.Load()); got > tt.wantPeak {
				t.Errorf("peak concurrency %d exceeded bound %d", got, tt.wantPeak)
			}
		})
	}
}

func TestPool_Run_FailureIsolation(t *testing.T) {
	pool, err := NewPool(3, slog.Default())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	taskCount := 9
	tasks := make([]Task, 0, taskCount)
	for i := 0; i < taskCount; i++ {
		index := i
		tasks = append(tasks, Task{
			Index: index,
			Run: func(ctx context.Context) (interface{}, error) {
				if index%3 == 0 {
					return nil, fmt.Errorf("failure at %d", index)
				}
				return index, nil
			},
		})
	}

	results := pool.Run(context.Background(), tasks)

	if len(results) != taskCount {
		t.Fatalf("expected %d results, got %d", taskCount, len(results))
	}

	for i, r := range results {
		if i%3 == 0 {
			if r.Err == nil {
				t.Errorf("slot %d: expected failure", i)
			}
		} else {
			if r.Err != nil {
				t.Errorf("slot %d: unexpected error %v", i, r.Err)
			}
		}
	}
}

func TestPool_Run_PanicRecovery(t *testing.T) {
	tests := []struct {
		name        string
		panicValue  interface{}
		errContains string
	}{
		{
			name:        "panic with message",
			panicValue:  "something broke",
			errContains: "something broke",
		},
		{
			name:        "panic with error",
			panicValue:  errors.New("wrapped fault"),
			errContains: "wrapped fault",
		},
		{
			name:        "panic with empty message",
			panicValue:  "",
			errContains: "task panicked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewPool(2, slog.Default())
			if err != nil {
				t.Fatalf("failed to create pool: %v", err)
			}

			tasks := []Task{
				{Index: 0, Run: func(ctx context.Context) (interface{}, error) { return "ok", nil }},
				{Index: 1, Run: func(ctx context.Context) (interface{}, error) { panic(tt.panicValue) }},
				{Index: 2, Run: func(ctx context.Context) (interface{}, error) { return "ok", nil }},
			}

			results := pool.Run(context.Background(), tasks)

			if len(results) != 3 {
				t.Fatalf("expected 3 results, got %d", len(results))
			}

			if results[1].Err == nil {
				t.Fatal("expected error from panicking task")
			}
			if !strings.Contains(results[1].Err.Error(), tt.errContains) {
				t.Errorf("expected error to contain %q, got %q", tt.errContains, results[1].Err.Error())
			}

			// Siblings are unaffected
			if results[0].Err != nil || results[2].Err != nil {
				t.Error("panic in one task affected sibling results")
			}
		})
	}
}

func TestPool_RunWithProgress(t *testing.T) {
	pool, err := NewPool(2, slog.Default())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	taskCount := 5
	tasks := makeTasks(taskCount, func(ctx context.Context) (interface{}, error) {
		time.Sleep(10 * time.Millisecond)
		return "done", nil
	})

	var progressCalls atomic.Int32
	var maxCompleted atomic.Int32
	var progressMu sync.Mutex
	progressUpdates := make([]struct{ completed, total int }, 0)

	progressFn := func(completed, total int) {
		progressCalls.Add(1)

		for {
			current := maxCompleted.Load()
			if int32(completed) <= current {
				break
			}
			if maxCompleted.CompareAndSwap(current, int32(completed)) {
				break
			}
		}

		progressMu.Lock()
		progressUpdates = append(progressUpdates, struct{ completed, total int }{completed, total})
		progressMu.Unlock()
	}

	results := pool.RunWithProgress(context.Background(), tasks, progressFn)

	if len(results) != taskCount {
		t.Errorf("expected %d results, got %d", taskCount, len(results))
	}

	if calls := progressCalls.Load(); calls != int32(taskCount) {
		t.Errorf("expected %d progress calls, got %d", taskCount, calls)
	}

	if maxCompleted.Load() != int32(taskCount) {
		t.Errorf("expected max completed to be %d, got %d", taskCount, maxCompleted.Load())
	}

	progressMu.Lock()
	for i, update := range progressUpdates {
		if update.total != taskCount {
			t.Errorf("progress update %d: expected total %d, got %d", i, taskCount, update.total)
		}
		if update.completed < 1 || update.completed > taskCount {
			t.Errorf("progress update %d: completed %d out of range [1, %d]", i, update.completed, taskCount)
		}
	}
	progressMu.Unlock()
}

func TestPool_Run_Concurrent(t *testing.T) {
	// With 5 workers and 10 tasks of 50ms each, the run should take roughly
	// two batches, not ten sequential slots.
	pool, err := NewPool(5, slog.Default())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	tasks := makeTasks(10, func(ctx context.Context) (interface{}, error) {
		time.Sleep(50 * time.Millisecond)
		return "done", nil
	})

	start := time.Now()
	results := pool.Run(context.Background(), tasks)
	totalDuration := time.Since(start)

	if len(results) != 10 {
		t.Errorf("expected 10 results, got %d", len(results))
	}

	maxExpected := 300 * time.Millisecond
	if totalDuration > maxExpected {
		t.Errorf("execution took too long (%v), expected around 100ms (concurrent), not 500ms (sequential)",
			totalDuration)
	}
}

// makeTasks builds a sequence of tasks with consecutive indices.
// A nil run function defaults to an immediately succeeding operation.
func makeTasks(count int, run func(ctx context.Context) (interface{}, error)) []Task {
	if run == nil {
		run = func(ctx context.Context) (interface{}, error) {
			return "done", nil
		}
	}

	tasks := make([]Task, 0, count)
	for i := 0; i < count; i++ {
		tasks = append(tasks, Task{Index: i, Run: run})
	}
	return tasks
}
