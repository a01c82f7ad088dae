package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ALi-ather/Video-Text-Translator/internal/batch"
	"github.com/ALi-ather/Video-Text-Translator/internal/pipeline"
)

// batchJob describes one batch command invocation.
type batchJob struct {
	OutputDir    string
	Workers      int
	FailOnError  bool
	EmptyMessage string
	DoneMessage  string

	// Discover is called once the destination lock is held.
	Discover  func() ([]batch.WorkItem, error)
	Transform batch.Transform

	// Before runs after discovery and before the first item, for log lines
	// such as model loading.
	Before func(sink batch.Sink)
}

// runBatch locks the destination, discovers items and drives them through
// the runner while an observer goroutine renders events.
func runBatch(ctx context.Context, job batchJob, out, errOut io.Writer) (*batch.Report, error) {
	lock, err := pipeline.Lock(job.OutputDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warnw("failed to release output lock", "error", err)
		}
	}()

	channel := batch.NewChannelSink(64)
	var sink batch.Sink = channel
	if verbose {
		sink = batch.MultiSink{channel, batch.LogSink{Logger: logger}}
	}

	obs := newObserver(out, errOut)
	done := make(chan batch.Summary, 1)
	go func() {
		done <- obs.drain(channel.Events())
	}()

	items, err := job.Discover()
	if err != nil && !errors.Is(err, pipeline.ErrNoWorkItems) {
		batch.Abort(sink, err)
		<-done
		return nil, err
	}

	if job.Before != nil && len(items) > 0 {
		job.Before(sink)
	}

	runner := &batch.Runner{
		Workers:      job.Workers,
		Logger:       logger,
		EmptyMessage: job.EmptyMessage,
		DoneMessage:  job.DoneMessage,
	}
	report := runner.Run(ctx, items, job.Transform, sink)
	<-done

	if report.Total > 0 {
		fmt.Fprintln(out, renderSummary(report))
	}

	if report.Cancelled {
		return report, fmt.Errorf("run cancelled: %w", context.Cause(ctx))
	}
	if job.FailOnError && report.Failed > 0 {
		return report, fmt.Errorf("%d of %d files failed", report.Failed, report.Total)
	}
	return report, nil
}
