package output

import (
	"io"

	"github.com/aryankumar/gridrun/internal/batch"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	options *Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(opts *Options) *YAMLFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &YAMLFormatter{
		options: opts,
	}
}

// Format outputs a single data item as YAML
func (f *YAMLFormatter) Format(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(data)
}

// FormatBatch outputs a batch outcome as YAML
func (f *YAMLFormatter) FormatBatch(w io.Writer, outcome batch.Outcome) error {
	// Convert to a YAML-friendly structure
	payloads := make([]map[string]interface{}, len(outcome.Payloads))

	for i, po := range outcome.Payloads {
		item := map[string]interface{}{
			"index":  po.Index,
			"name":   po.Name,
			"total":  po.Total,
			"failed": po.Failed,
		}

		if po.OK {
			item["status"] = "success"
		} else {
			item["status"] = "failed"
			if po.Reason != "" {
				item["reason"] = po.Reason
			}
		}

		payloads[i] = item
	}

	doc := map[string]interface{}{
		"successCount": outcome.SuccessCount,
		"failCount":    outcome.FailCount,
		"statusCode":   outcome.StatusCode,
		"payloads":     payloads,
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(doc)
}
