package batch

import (
	"context"
	"path/filepath"
	"time"
)

// WorkItem is one source file plus the paths derived from it.
// Source is the item's identity within a run.
type WorkItem struct {
	Source  string
	Outputs []string
}

// Name returns the base name of the source path.
func (w WorkItem) Name() string {
	return filepath.Base(w.Source)
}

// Result is what a transform returns for one item.
type Result struct {
	Output string
	Err    error
}

// Success reports a finished item and the path it produced.
func Success(output string) Result {
	return Result{Output: output}
}

// Failure reports a failed item.
func Failure(err error) Result {
	return Result{Err: err}
}

// OK reports whether the result is a success.
func (r Result) OK() bool {
	return r.Err == nil
}

// LogFunc lets a transform emit sub-item log lines.
type LogFunc func(message string)

// Transform processes a single work item. It must not panic for ordinary
// failures; the runner recovers panics anyway.
type Transform func(ctx context.Context, item WorkItem, log LogFunc) Result

// Outcome records what happened to one attempted item.
type Outcome struct {
	Item     WorkItem
	Output   string
	Err      error
	Duration time.Duration
}

// OK reports whether the item succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Report is the aggregate state of one run. Outcomes hold attempted items
// in enumeration order.
type Report struct {
	RunID     string
	Total     int
	Completed int
	Succeeded int
	Failed    int
	Cancelled bool
	Outcomes  []Outcome
}

// Summary converts the report into a completion signal.
func (r *Report) Summary() Summary {
	return Summary{
		RunID:     r.RunID,
		Total:     r.Total,
		Completed: r.Completed,
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
		Cancelled: r.Cancelled,
	}
}

// Summary is delivered once with OnComplete. Err is set only when the run
// could not start at all.
type Summary struct {
	RunID     string
	Total     int
	Completed int
	Succeeded int
	Failed    int
	Cancelled bool
	Err       error
}

// Percent computes round(100*completed/total) with halves rounded up.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*completed + total) / (2 * total)
}
