package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aryankumar/gridrun/internal/batch"
	"github.com/aryankumar/gridrun/internal/util"
)

const dateLayout = "2006-01-02"

// maxRangeDays bounds an explicit start/end range so a typo in a year
// cannot expand into millions of tasks
const maxRangeDays = 366

// CodeSource resolves a named code set into an ordered code list
type CodeSource interface {
	Codes(ctx context.Context, set string) ([]string, error)
}

// Normalizer resolves raw events into batch payloads, filling default
// periods and resolving item code sets.
type Normalizer struct {
	// codes resolves item sets via the reference-data service
	codes CodeSource

	// windowDays is the size of the default trailing period window
	windowDays int

	// now is injectable for tests
	now func() time.Time

	// logger for structured logging
	logger *slog.Logger
}

// NewNormalizer creates an event normalizer
func NewNormalizer(codes CodeSource, windowDays int, logger *slog.Logger) *Normalizer {
	if windowDays < 1 {
		windowDays = 7
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Normalizer{
		codes:      codes,
		windowDays: windowDays,
		now:        time.Now,
		logger:     logger,
	}
}

// Normalize resolves every raw job into a payload. Jobs that cannot be
// resolved are reported together; a single bad job fails the whole
// normalization, since an unresolvable event has no meaningful partial
// execution plan.
func (n *Normalizer) Normalize(ctx context.Context, ev *Event) ([]batch.Payload, error) {
	if ev == nil {
		return nil, fmt.Errorf("%w: no event", util.ErrMalformedEvent)
	}

	payloads := make([]batch.Payload, 0, len(ev.Jobs))
	var errs util.MultiError

	for i, job := range ev.Jobs {
		name := job.Name
		if name == "" {
			name = fmt.Sprintf("job-%d", i)
		}

		payload, err := n.resolve(ctx, name, job)
		if err != nil {
			errs.Add(util.WrapJobError(name, err))
			continue
		}

		payloads = append(payloads, payload)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	n.logger.Debug("normalized event", "jobs", len(ev.Jobs), "payloads", len(payloads))

	return payloads, nil
}

// resolve turns one raw job into a fully-resolved payload
func (n *Normalizer) resolve(ctx context.Context, name string, job Job) (batch.Payload, error) {
	periods, err := n.resolvePeriods(job)
	if err != nil {
		return batch.Payload{}, err
	}

	items, err := n.resolveItems(ctx, job)
	if err != nil {
		return batch.Payload{}, err
	}

	return batch.Payload{
		Name:    name,
		Periods: periods,
		Items:   items,
		Context: job.Context,
	}, nil
}

// resolvePeriods picks explicit periods, expands a start/end range, or
// falls back to the default trailing window.
func (n *Normalizer) resolvePeriods(job Job) ([]string, error) {
	if len(job.Periods) > 0 {
		return job.Periods, nil
	}

	if job.Start != "" || job.End != "" {
		return expandRange(job.Start, job.End)
	}

	return n.defaultWindow(), nil
}

// resolveItems picks explicit items or resolves the named code set
func (n *Normalizer) resolveItems(ctx context.Context, job Job) ([]string, error) {
	if len(job.Items) > 0 {
		return job.Items, nil
	}

	if job.ItemSet == "" {
		return nil, util.NewValidationError("items", nil, "either items or itemSet must be provided")
	}

	if n.codes == nil {
		return nil, fmt.Errorf("no reference-data source configured for item set %q", job.ItemSet)
	}

	codes, err := n.codes.Codes(ctx, job.ItemSet)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve item set %q: %w", job.ItemSet, err)
	}

	return codes, nil
}

// defaultWindow produces the trailing window ending yesterday
func (n *Normalizer) defaultWindow() []string {
	end := n.now().AddDate(0, 0, -1)

	periods := make([]string, 0, n.windowDays)
	for i := n.windowDays - 1; i >= 0; i-- {
		periods = append(periods, end.AddDate(0, 0, -i).Format(dateLayout))
	}

	return periods
}

// expandRange expands an inclusive start/end date range into daily periods
func expandRange(start, end string) ([]string, error) {
	if start == "" || end == "" {
		return nil, util.NewValidationError("start/end", nil, "both start and end must be provided")
	}

	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, util.NewValidationError("start", start, "must be a YYYY-MM-DD date")
	}

	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil, util.NewValidationError("end", end, "must be a YYYY-MM-DD date")
	}

	if endDate.Before(startDate) {
		return nil, util.NewValidationError("end", end, "must not precede start")
	}

	days := int(endDate.Sub(startDate).Hours()/24) + 1
	if days > maxRangeDays {
		return nil, util.NewValidationError("end", end,
			fmt.Sprintf("range spans %d days, maximum is %d", days, maxRangeDays))
	}

	periods := make([]string, 0, days)
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		periods = append(periods, d.Format(dateLayout))
	}

	return periods, nil
}
