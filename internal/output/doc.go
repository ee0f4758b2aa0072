// Package output provides formatters for displaying batch results.
//
// The package supports multiple output formats (table, JSON, YAML) and provides
// a unified interface for formatting both arbitrary data and batch outcomes.
//
// # Basic Usage
//
//	// Create a table formatter
//	formatter := output.NewFormatter(output.FormatTable)
//
//	// Format single data item
//	data := map[string]interface{}{"key": "value"}
//	formatter.Format(os.Stdout, data)
//
//	// Format a batch outcome
//	formatter.FormatBatch(os.Stdout, outcome)
//
// # Options
//
// Formatters can be configured with functional options:
//
//	formatter := output.NewFormatter(
//	    output.FormatTable,
//	    output.WithNoColor(true),
//	    output.WithWide(true),
//	)
//
// The table formatter renders borderless, tab-separated tables with one
// row per payload and a summary line. Wide mode adds a REASON column for
// payloads whose aggregation failed outright. Colors are automatically
// enabled for TTY outputs and disabled for pipes and redirects.
package output
