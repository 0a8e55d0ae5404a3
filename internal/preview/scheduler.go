package preview

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kk-code-lab/carto/internal/task"
)

// DefaultDebounce is the quiet period before a preview is computed.
const DefaultDebounce = 250 * time.Millisecond

// Result carries a built preview and the generation it was scheduled with.
type Result struct {
	Generation uint64
	Path       string
	Content    Content
}

// Scheduler computes previews off the event loop. Only the most recent
// Schedule call is ever computed; older ones are cancelled, pending or not.
type Scheduler struct {
	slot    *task.Slot
	deliver func(Result)
	build   func(ctx context.Context, path string, opts Options) Content

	mu   sync.Mutex
	opts Options
}

// NewScheduler returns a scheduler that hands finished previews to deliver,
// which typically posts them back onto the event loop.
func NewScheduler(delay time.Duration, opts Options, deliver func(Result)) *Scheduler {
	return &Scheduler{
		slot:    task.NewSlot(delay),
		deliver: deliver,
		build:   Build,
		opts:    opts,
	}
}

// SetOptions replaces the build options for future previews.
func (s *Scheduler) SetOptions(opts Options) {
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()
}

// SetDelay changes the debounce delay.
func (s *Scheduler) SetDelay(d time.Duration) {
	s.slot.SetDelay(d)
}

// Schedule arms a preview of path and returns its generation.
func (s *Scheduler) Schedule(path string) uint64 {
	s.mu.Lock()
	opts := s.opts
	s.mu.Unlock()

	return s.slot.Schedule(func(ctx context.Context, gen uint64) {
		content := s.build(ctx, path, opts)
		if ctx.Err() != nil {
			slog.Debug("preview superseded", "path", path, "generation", gen)
			return
		}
		s.deliver(Result{Generation: gen, Path: path, Content: content})
	})
}

// Cancel drops any pending or running preview.
func (s *Scheduler) Cancel() {
	s.slot.Cancel()
}
