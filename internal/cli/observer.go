package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/ALi-ather/Video-Text-Translator/internal/batch"
)

// observer is the presentation side of a run. It runs on its own goroutine
// and only learns about the run through sink events.
type observer struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// newObserver prints log lines to out. A progress bar is drawn on barOut
// only when it is a terminal.
func newObserver(out, barOut io.Writer) *observer {
	o := &observer{out: out}
	if isTerminal(barOut) {
		o.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(barOut),
			progressbar.OptionSetDescription("Processing"),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionClearOnFinish(),
		)
	}
	return o
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// drain consumes events until the completion event closes the channel and
// returns the run summary.
func (o *observer) drain(events <-chan batch.Event) batch.Summary {
	var summary batch.Summary
	for event := range events {
		switch event.Type {
		case batch.EventTypeProgress:
			o.progress(event.Percent)
		case batch.EventTypeLog:
			o.log(event.Message)
		case batch.EventTypeComplete:
			summary = event.Summary
		}
	}
	if o.bar != nil {
		_ = o.bar.Finish()
	}
	return summary
}

func (o *observer) progress(percent int) {
	if o.bar != nil {
		_ = o.bar.Set(percent)
	}
}

func (o *observer) log(message string) {
	if o.bar != nil {
		_ = o.bar.Clear()
	}
	fmt.Fprintln(o.out, message)
	if o.bar != nil {
		_ = o.bar.RenderBlank()
	}
}

// renderSummary builds the per-file result table of a finished run.
func renderSummary(report *batch.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"#", "File", "Status", "Result", "Time"})

	for i, outcome := range report.Outcomes {
		status, result := "ok", outcome.Output
		if !outcome.OK() {
			status, result = "failed", outcome.Err.Error()
		}
		tw.AppendRow(table.Row{
			strconv.Itoa(i + 1),
			outcome.Item.Name(),
			status,
			result,
			outcome.Duration.Round(time.Millisecond).String(),
		})
	}

	footer := fmt.Sprintf("%d ok, %d failed", report.Succeeded, report.Failed)
	if skipped := report.Total - report.Completed; skipped > 0 {
		footer += fmt.Sprintf(", %d not started", skipped)
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d files", report.Total), footer, "", ""})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, WidthMax: 60},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
