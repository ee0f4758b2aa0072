package output

import (
	"encoding/json"
	"io"

	"github.com/aryankumar/gridrun/internal/batch"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// Format outputs a single data item as JSON
func (f *JSONFormatter) Format(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FormatBatch outputs a batch outcome as JSON. The outcome already
// carries JSON tags matching the HTTP response body, so the CLI and the
// server emit the same document.
func (f *JSONFormatter) FormatBatch(w io.Writer, outcome batch.Outcome) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(outcome)
}
