package hours

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kopimi-kafe/backend/internal/domain"
)

const DefaultInterval = time.Minute

// HoursFunc returns the current schedule, or nil when none is configured.
type HoursFunc func() *domain.OperatingHours

// Ticker re-evaluates the status on a fixed interval so that readers see a
// value at most one interval old.
type Ticker struct {
	hours    HoursFunc
	location *time.Location
	interval time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	current Status
	valid   bool
}

func NewTicker(hours HoursFunc, loc *time.Location, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if loc == nil {
		loc = time.Local
	}
	return &Ticker{
		hours:    hours,
		location: loc,
		interval: interval,
		now:      time.Now,
	}
}

// Refresh evaluates the status immediately and returns it.
func (t *Ticker) Refresh() (Status, bool) {
	h := t.hours()

	t.mu.Lock()
	defer t.mu.Unlock()

	if h == nil {
		t.current, t.valid = Status{}, false
		return t.current, false
	}

	prev := t.current
	t.current = Evaluate(*h, t.now().In(t.location))
	t.valid = true
	if t.current.Invalid && !prev.Invalid {
		slog.Warn("operating hours could not be parsed", "status", t.current.Message)
	}
	return t.current, true
}

// Current returns the last evaluated status. The bool is false when no
// operating hours are configured.
func (t *Ticker) Current() (Status, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current, t.valid
}

// Run refreshes the status until ctx is cancelled.
func (t *Ticker) Run(ctx context.Context) {
	t.Refresh()

	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			t.Refresh()
		}
	}
}
