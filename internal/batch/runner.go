package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ALi-ather/Video-Text-Translator/internal/logging"
)

// DefaultEmptyMessage is logged when a run has nothing to do.
const DefaultEmptyMessage = "No files found to process."

// Runner drives work items through a transform and reports to a sink.
// With Workers <= 1 items run strictly one after another.
type Runner struct {
	Workers int
	Logger  *logging.Logger

	// EmptyMessage is the single log line of an empty run.
	EmptyMessage string
	// DoneMessage, when set, is logged after the last item of a run that
	// was not cancelled.
	DoneMessage string
}

// run holds the mutable state of one Run call.
type run struct {
	sink   Sink
	logger *logging.Logger
	total  int

	// mu serializes sink calls and report updates
	mu        sync.Mutex
	completed int
	results   []*Outcome
}

// Run processes items and returns the final report. It never returns early
// because of a failed item. Cancellation of ctx stops new items from
// starting; the item in flight finishes. A run whose context is done by the
// end is reported as cancelled even when every item was attempted.
func (r *Runner) Run(ctx context.Context, items []WorkItem, transform Transform, sink Sink) *Report {
	runID := uuid.NewString()
	logger := r.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.With("run_id", runID)

	report := &Report{RunID: runID, Total: len(items)}

	if len(items) == 0 {
		msg := r.EmptyMessage
		if msg == "" {
			msg = DefaultEmptyMessage
		}
		logger.Infow("no work items")
		sink.OnLog(msg)
		sink.OnComplete(report.Summary())
		return report
	}

	st := &run{
		sink:    sink,
		logger:  logger,
		total:   len(items),
		results: make([]*Outcome, len(items)),
	}

	logger.Infow("batch started", "items", len(items), "workers", r.workers())

	if r.workers() == 1 {
		for i := range items {
			if ctx.Err() != nil {
				break
			}
			st.process(ctx, i, items[i], transform)
		}
	} else {
		st.pool(ctx, r.workers(), items, transform)
	}

	for _, outcome := range st.results {
		if outcome == nil {
			continue
		}
		report.Outcomes = append(report.Outcomes, *outcome)
		report.Completed++
		if outcome.OK() {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	if ctx.Err() != nil {
		report.Cancelled = true
		sink.OnLog(fmt.Sprintf("Cancelled after %d of %d files: %v", report.Completed, report.Total, ctx.Err()))
		logger.Infow("batch cancelled", "completed", report.Completed, "total", report.Total)
	} else if r.DoneMessage != "" {
		sink.OnLog(r.DoneMessage)
	}

	logger.Infow("batch finished",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"cancelled", report.Cancelled,
	)
	sink.OnComplete(report.Summary())
	return report
}

// Abort ends a run that could not enumerate its items. It emits exactly one
// completion event carrying err.
func Abort(sink Sink, err error) {
	sink.OnComplete(Summary{Err: err})
}

func (r *Runner) workers() int {
	if r.Workers < 1 {
		return 1
	}
	return r.Workers
}

func (st *run) pool(ctx context.Context, workers int, items []WorkItem, transform Transform) {
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// the item may have been queued just before cancellation
				if ctx.Err() != nil {
					continue
				}
				st.process(ctx, i, items[i], transform)
			}
		}()
	}

feed:
	for i := range items {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
}

func (st *run) process(ctx context.Context, idx int, item WorkItem, transform Transform) {
	st.emitLog(fmt.Sprintf("Processing %s", item.Name()))
	st.logger.Debugw("item started", "item", item.Source)

	start := time.Now()
	res := st.invoke(ctx, item, transform)
	outcome := &Outcome{
		Item:     item,
		Output:   res.Output,
		Err:      res.Err,
		Duration: time.Since(start),
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	st.results[idx] = outcome
	st.completed++

	if outcome.OK() {
		st.sink.OnLog(fmt.Sprintf("Saved %s", outcome.Output))
		st.logger.Infow("item succeeded", "item", item.Source, "output", outcome.Output, "duration", outcome.Duration)
	} else {
		st.sink.OnLog(fmt.Sprintf("Error processing %s: %v", item.Name(), outcome.Err))
		st.logger.Infow("item failed", "item", item.Source, "error", outcome.Err)
	}
	st.sink.OnProgress(Percent(st.completed, st.total))
}

// invoke calls the transform and turns a panic into a failure.
func (st *run) invoke(ctx context.Context, item WorkItem, transform Transform) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Failure(fmt.Errorf("panic: %v", p))
		}
	}()

	return transform(ctx, item, st.emitLog)
}

func (st *run) emitLog(message string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sink.OnLog(message)
}
