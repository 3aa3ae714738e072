package main

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

const progressPollInterval = 100 * time.Millisecond

// batchProgress renders a live tracker for a long-running batch. It polls a
// completion counter instead of receiving events, so the batch code stays
// unaware of the display.
type batchProgress struct {
	writer  progress.Writer
	tracker *progress.Tracker
	poll    func() int64
	stop    chan struct{}
	done    chan struct{}
}

// startBatchProgress begins rendering a tracker that follows poll toward
// total. It returns nil when out is not a terminal; Finish on a nil receiver
// is a no-op, so callers need no guard.
func startBatchProgress(out io.Writer, message string, total int, poll func() int64) *batchProgress {
	if !shouldColorize(out) {
		return nil
	}
	return renderBatchProgress(out, message, total, poll)
}

func renderBatchProgress(out io.Writer, message string, total int, poll func() int64) *batchProgress {
	writer := progress.NewWriter()
	writer.SetOutputWriter(out)
	writer.SetTrackerLength(25)
	writer.SetUpdateFrequency(progressPollInterval)

	tracker := &progress.Tracker{Message: message, Total: int64(total)}
	writer.AppendTracker(tracker)
	go writer.Render()

	p := &batchProgress{
		writer:  writer,
		tracker: tracker,
		poll:    poll,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.follow()
	return p
}

func (p *batchProgress) follow() {
	defer close(p.done)
	ticker := time.NewTicker(progressPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.tracker.SetValue(p.poll())
		}
	}
}

// Finish records the final count, stops rendering, and waits for the last
// frame so later output lands below the bar.
func (p *batchProgress) Finish() {
	if p == nil {
		return
	}
	close(p.stop)
	<-p.done
	p.tracker.SetValue(p.poll())
	p.tracker.MarkAsDone()
	p.writer.Stop()
	for p.writer.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
}
