package batch

import (
	"sync"
	"time"

	"github.com/ALi-ather/Video-Text-Translator/internal/logging"
)

// Sink receives the events of a run.
type Sink interface {
	OnProgress(percent int)
	OnLog(message string)
	OnComplete(summary Summary)
}

// EventType classifies sink events.
type EventType string

const (
	EventTypeProgress EventType = "progress"
	EventTypeLog      EventType = "log"
	EventTypeComplete EventType = "complete"
)

// Event is a sequenced sink call.
type Event struct {
	Seq       int64
	Timestamp time.Time
	Type      EventType
	Percent   int
	Message   string
	Summary   Summary
}

// ChannelSink forwards events over a buffered channel to an observer
// goroutine. The channel is closed after the completion event.
type ChannelSink struct {
	mu     sync.Mutex
	ch     chan Event
	seq    int64
	closed bool
}

// NewChannelSink creates a sink with the given channel buffer.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 0 {
		buffer = 0
	}
	return &ChannelSink{ch: make(chan Event, buffer)}
}

// Events returns the receive side for the observer.
func (s *ChannelSink) Events() <-chan Event {
	return s.ch
}

func (s *ChannelSink) OnProgress(percent int) {
	s.send(Event{Type: EventTypeProgress, Percent: percent}, false)
}

func (s *ChannelSink) OnLog(message string) {
	s.send(Event{Type: EventTypeLog, Message: message}, false)
}

func (s *ChannelSink) OnComplete(summary Summary) {
	s.send(Event{Type: EventTypeComplete, Summary: summary}, true)
}

func (s *ChannelSink) send(event Event, last bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.seq++
	event.Seq = s.seq
	event.Timestamp = time.Now().UTC()
	s.ch <- event

	if last {
		s.closed = true
		close(s.ch)
	}
}

// Recorder keeps every event in memory and supports incremental reads.
type Recorder struct {
	mu      sync.RWMutex
	nextSeq int64
	events  []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnProgress(percent int) {
	r.publish(Event{Type: EventTypeProgress, Percent: percent})
}

func (r *Recorder) OnLog(message string) {
	r.publish(Event{Type: EventTypeLog, Message: message})
}

func (r *Recorder) OnComplete(summary Summary) {
	r.publish(Event{Type: EventTypeComplete, Summary: summary})
}

func (r *Recorder) publish(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSeq++
	event.Seq = r.nextSeq
	event.Timestamp = time.Now().UTC()
	r.events = append(r.events, event)
}

// Since returns events with sequence strictly greater than seq.
func (r *Recorder) Since(seq int64) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Event, 0, len(r.events))
	for _, event := range r.events {
		if event.Seq > seq {
			out = append(out, event)
		}
	}
	return out
}

// Progress returns every progress value in emission order.
func (r *Recorder) Progress() []int {
	var out []int
	for _, event := range r.Since(0) {
		if event.Type == EventTypeProgress {
			out = append(out, event.Percent)
		}
	}
	return out
}

// Logs returns every log message in emission order.
func (r *Recorder) Logs() []string {
	var out []string
	for _, event := range r.Since(0) {
		if event.Type == EventTypeLog {
			out = append(out, event.Message)
		}
	}
	return out
}

// Completions returns the summaries of all completion events.
func (r *Recorder) Completions() []Summary {
	var out []Summary
	for _, event := range r.Since(0) {
		if event.Type == EventTypeComplete {
			out = append(out, event.Summary)
		}
	}
	return out
}

// MultiSink fans every event out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) OnProgress(percent int) {
	for _, s := range m {
		s.OnProgress(percent)
	}
}

func (m MultiSink) OnLog(message string) {
	for _, s := range m {
		s.OnLog(message)
	}
}

func (m MultiSink) OnComplete(summary Summary) {
	for _, s := range m {
		s.OnComplete(summary)
	}
}

// LogSink writes events to a structured logger.
type LogSink struct {
	Logger *logging.Logger
}

func (s LogSink) OnProgress(percent int) {
	s.Logger.Debugw("progress", "percent", percent)
}

func (s LogSink) OnLog(message string) {
	s.Logger.Info(message)
}

func (s LogSink) OnComplete(summary Summary) {
	if summary.Err != nil {
		s.Logger.Errorw("run aborted", "error", summary.Err)
		return
	}
	s.Logger.Infow("run complete",
		"run_id", summary.RunID,
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"cancelled", summary.Cancelled,
	)
}
