package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aryankumar/gridrun/internal/batch"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter formats output as a table (kubectl-style)
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	table := f.createTable(w)

	// Handle different data types
	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(table, v)
	case []map[string]interface{}:
		return f.formatMapSlice(table, v)
	case string:
		fmt.Fprintln(w, v)
		return nil
	default:
		// Fallback to simple string representation
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatBatch outputs a batch outcome as a table, one row per payload
func (f *TableFormatter) FormatBatch(w io.Writer, outcome batch.Outcome) error {
	if len(outcome.Payloads) == 0 {
		fmt.Fprintln(w, "No payloads")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)

	table := f.createTable(w)

	headers := []string{"PAYLOAD", "STATUS", "TOTAL", "FAILED"}
	if f.options.Wide {
		headers = append(headers, "REASON")
	}

	if !f.options.NoHeaders {
		if colors.Disabled {
			table.SetHeader(headers)
		} else {
			coloredHeaders := make([]string, len(headers))
			for i, h := range headers {
				coloredHeaders[i] = colors.Header(h)
			}
			table.SetHeader(coloredHeaders)
		}
	}

	for _, po := range outcome.Payloads {
		table.Append(f.formatPayloadRow(po, colors))
	}

	table.Render()

	f.printSummary(w, outcome, colors)

	return nil
}

// formatPayloadRow formats a single payload outcome as a table row
func (f *TableFormatter) formatPayloadRow(po batch.PayloadOutcome, colors *ColorScheme) []string {
	name := po.Name
	if name == "" {
		name = fmt.Sprintf("payload-%d", po.Index)
	}
	if !colors.Disabled {
		name = colors.PayloadName(name)
	}

	status := "Success"
	if !po.OK {
		status = "Failed"
	}
	if !colors.Disabled {
		status = colors.StatusColor(!po.OK)(status)
	}

	total := strconv.Itoa(po.Total)
	failed := strconv.Itoa(po.Failed)
	if !colors.Disabled {
		total = colors.Count(total)
		if po.Failed > 0 {
			failed = colors.Error(failed)
		} else {
			failed = colors.Count(failed)
		}
	}

	row := []string{name, status, total, failed}

	if f.options.Wide {
		reason := po.Reason
		if len(reason) > 50 {
			reason = reason[:47] + "..."
		}
		row = append(row, reason)
	}

	return row
}

// formatMap formats a map as a two-column table (key-value pairs)
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	for k, v := range data {
		table.Append([]string{k, fmt.Sprintf("%v", v)})
	}

	table.Render()
	return nil
}

// formatMapSlice formats a slice of maps as a table
func (f *TableFormatter) formatMapSlice(table *tablewriter.Table, data []map[string]interface{}) error {
	if len(data) == 0 {
		return nil
	}

	// Extract headers from the first map
	var headers []string
	for k := range data[0] {
		headers = append(headers, strings.ToUpper(k))
	}

	if !f.options.NoHeaders {
		table.SetHeader(headers)
	}

	for _, item := range data {
		var row []string
		for _, h := range headers {
			key := strings.ToLower(h)
			row = append(row, fmt.Sprintf("%v", item[key]))
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

// createTable creates a new table with kubectl-style configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	// kubectl-style configuration
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t") // Tab-separated like kubectl
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints a summary line under the table
func (f *TableFormatter) printSummary(w io.Writer, outcome batch.Outcome, colors *ColorScheme) {
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	successText := fmt.Sprintf("%d successful", outcome.SuccessCount)
	if !colors.Disabled {
		successText = colors.Success(successText)
	}

	failedText := fmt.Sprintf("%d failed", outcome.FailCount)
	if !colors.Disabled && outcome.FailCount > 0 {
		failedText = colors.Error(failedText)
	}

	statusText := fmt.Sprintf("status=%d", outcome.StatusCode)
	if !colors.Disabled {
		statusText = colors.Count(statusText)
	}

	fmt.Fprintf(w, "%s, %s, %s\n", successText, failedText, statusText)
}
