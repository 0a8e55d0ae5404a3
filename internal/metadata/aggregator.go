package metadata

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/kk-code-lab/carto/internal/fs"
	"github.com/kk-code-lab/carto/internal/task"
)

// SizeState is the lifecycle of a directory size computation.
type SizeState int

const (
	SizeIdle SizeState = iota
	SizeCalculating
	SizeDone
	SizeCancelled
	SizeFailed
)

// Placeholder returns the text shown for a state that carries no number.
func (s SizeState) Placeholder() string {
	switch s {
	case SizeCalculating:
		return "Calculating..."
	case SizeFailed:
		return "Error"
	}
	return "--"
}

// SizeReport is posted by the aggregator when a walk ends.
type SizeReport struct {
	Generation uint64
	Path       string
	State      SizeState
	Bytes      int64
}

// Display renders the report for the size field.
func (r SizeReport) Display() string {
	if r.State == SizeDone {
		return humanize.Bytes(uint64(r.Bytes))
	}
	return r.State.Placeholder()
}

// Aggregator walks one directory tree at a time. Starting a new walk
// cancels the previous one.
type Aggregator struct {
	slot    *task.Slot
	deliver func(SizeReport)
	sum     func(ctx context.Context, root string) (int64, error)
}

// NewAggregator returns an aggregator posting finished walks to deliver.
func NewAggregator(deliver func(SizeReport)) *Aggregator {
	return &Aggregator{
		slot:    task.NewSlot(0),
		deliver: deliver,
		sum:     fs.SumTree,
	}
}

// Start cancels any running walk and begins summing root. The returned
// generation identifies this walk's report.
func (a *Aggregator) Start(root string) uint64 {
	return a.slot.Schedule(func(ctx context.Context, gen uint64) {
		n, err := a.sum(ctx, root)
		report := SizeReport{Generation: gen, Path: root}
		switch {
		case ctx.Err() != nil || errors.Is(err, context.Canceled):
			slog.Debug("folder size cancelled", "path", root)
			report.State = SizeCancelled
		case err != nil:
			slog.Debug("folder size failed", "path", root, "err", err)
			report.State = SizeFailed
		default:
			report.State = SizeDone
			report.Bytes = n
		}
		a.deliver(report)
	})
}

// Cancel stops the running walk, if any.
func (a *Aggregator) Cancel() {
	a.slot.Cancel()
}

// SizeField is the loop-side view of the size value for the panel. It only
// accepts reports for the walk it is waiting on.
type SizeField struct {
	gen   uint64
	path  string
	state SizeState
	bytes int64
}

// Begin marks a walk of path with generation gen as running.
func (f *SizeField) Begin(gen uint64, path string) {
	f.gen, f.path, f.state, f.bytes = gen, path, SizeCalculating, 0
}

// Reset returns the field to the neutral placeholder and forgets the walk.
func (f *SizeField) Reset() {
	f.gen, f.path, f.state, f.bytes = 0, "", SizeIdle, 0
}

// Apply records r if it belongs to the awaited walk.
func (f *SizeField) Apply(r SizeReport) bool {
	if f.state != SizeCalculating || r.Generation != f.gen || r.Path != f.path {
		return false
	}
	f.state, f.bytes = r.State, r.Bytes
	return true
}

// State returns the current state.
func (f *SizeField) State() SizeState { return f.state }

// Path returns the directory being or last measured.
func (f *SizeField) Path() string { return f.path }

// Display renders the field.
func (f *SizeField) Display() string {
	return SizeReport{State: f.state, Bytes: f.bytes}.Display()
}
