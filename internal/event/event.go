// Package event defines the raw triggering event and its normalization into
// resolved batch payloads. All defaulting and validation happens here, so the
// batch core never branches on missing fields.
package event

import (
	"encoding/json"
	"fmt"

	"github.com/aryankumar/gridrun/internal/util"
	"gopkg.in/yaml.v3"
)

// Event is the raw triggering event. Fields on its jobs are loosely
// typed and possibly missing; Normalize resolves them into payloads.
type Event struct {
	// Debug requests the early-exit forward path instead of execution
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`

	// Jobs is the list of raw job descriptors
	Jobs []Job `json:"jobs" yaml:"jobs"`
}

// Job is one raw job descriptor from the event
type Job struct {
	// Name is an optional label carried through to the outcome
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Periods lists explicit period values; when empty, Start/End or the
	// default trailing window apply
	Periods []string `json:"periods,omitempty" yaml:"periods,omitempty"`

	// Start and End bound an inclusive date range (YYYY-MM-DD)
	Start string `json:"start,omitempty" yaml:"start,omitempty"`
	End   string `json:"end,omitempty" yaml:"end,omitempty"`

	// Items lists explicit item codes; when empty, ItemSet is resolved
	// through the reference-data service
	Items []string `json:"items,omitempty" yaml:"items,omitempty"`

	// ItemSet names a code set to resolve when Items is empty
	ItemSet string `json:"itemSet,omitempty" yaml:"itemSet,omitempty"`

	// Context is opaque and passed unchanged to every task
	Context map[string]interface{} `json:"context,omitempty" yaml:"context,omitempty"`
}

// Parse decodes an event from JSON or YAML bytes
func Parse(data []byte) (*Event, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", util.ErrMalformedEvent)
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err == nil {
		return &ev, nil
	}

	// Not JSON; YAML is the other accepted encoding
	if err := yaml.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrMalformedEvent, err)
	}

	return &ev, nil
}
