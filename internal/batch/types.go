package batch

import "context"

// Payload is one top-level unit of input, already resolved by event
// normalization: two ordered dimension sequences plus an opaque context
// value passed unchanged to every task the payload expands into.
type Payload struct {
	// Name is an optional label carried through to the outcome
	Name string `json:"name,omitempty"`

	// Periods is the outer dimension of the task grid
	Periods []string `json:"periods"`

	// Items is the inner dimension of the task grid
	Items []string `json:"items"`

	// Context is shared by all of the payload's tasks, never mutated
	Context map[string]interface{} `json:"context,omitempty"`
}

// RunFunc is the deferred operation bound into every generated task.
// It receives one (period, item) combination and the payload's shared context.
type RunFunc func(ctx context.Context, period, item string, shared map[string]interface{}) (interface{}, error)

// PayloadOutcome summarizes the execution of one payload's task grid
type PayloadOutcome struct {
	// Index is the payload's position in the batch input order
	Index int `json:"index"`

	// Name is the payload label, if any
	Name string `json:"name,omitempty"`

	// OK is true when no task in the payload failed
	OK bool `json:"ok"`

	// Total is the number of tasks the payload expanded into
	Total int `json:"total"`

	// Failed is the number of tasks that produced a failure result
	Failed int `json:"failed"`

	// Reason carries the failure message when the payload's aggregation
	// step itself failed (distinct from individual task failures)
	Reason string `json:"reason,omitempty"`
}

// Outcome is the final artifact of one batch invocation
type Outcome struct {
	// SuccessCount is the number of payloads with OK = true
	SuccessCount int `json:"successCount"`

	// FailCount is the number of payloads with OK = false
	FailCount int `json:"failCount"`

	// Payloads holds one outcome per payload, in batch input order
	Payloads []PayloadOutcome `json:"payloads"`

	// StatusCode is 200 for full success, 207 for partial success
	StatusCode int `json:"statusCode"`
}

// OK returns true when every payload in the batch succeeded
func (o Outcome) OK() bool {
	return o.FailCount == 0
}
