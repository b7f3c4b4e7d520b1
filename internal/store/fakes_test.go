package store

import (
	"context"
	"sync"
	"time"

	"github.com/kopimi-kafe/backend/internal/blobstore"
	"github.com/kopimi-kafe/backend/internal/domain"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs due callbacks on the calling goroutine.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type fakeBackend struct {
	mu       sync.Mutex
	snapshot *domain.Snapshot
	fetchErr error
	saveErr  error
	saves    []*domain.Snapshot

	// when hold is set, Save signals entered and waits for hold to close
	hold    chan struct{}
	entered chan struct{}
}

func (b *fakeBackend) Fetch(context.Context) (*domain.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	if b.snapshot == nil {
		return nil, blobstore.ErrNotFound
	}
	return b.snapshot.Clone(), nil
}

func (b *fakeBackend) Save(_ context.Context, s *domain.Snapshot) error {
	if b.hold != nil {
		b.entered <- struct{}{}
		<-b.hold
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.saves = append(b.saves, s.Clone())
	if b.saveErr != nil {
		return b.saveErr
	}
	b.snapshot = s.Clone()
	return nil
}

func (b *fakeBackend) setSaveErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saveErr = err
}

func (b *fakeBackend) saveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.saves)
}

func (b *fakeBackend) lastSave() *domain.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.saves) == 0 {
		return nil
	}
	return b.saves[len(b.saves)-1]
}

type warnings struct {
	mu   sync.Mutex
	list []Warning
}

func (w *warnings) handle(warning Warning) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.list = append(w.list, warning)
}

func (w *warnings) kinds() []WarningKind {
	w.mu.Lock()
	defer w.mu.Unlock()
	kinds := make([]WarningKind, len(w.list))
	for i, warning := range w.list {
		kinds[i] = warning.Kind
	}
	return kinds
}

// failingKV fails every operation on one key.
type failingKV struct {
	*blobstore.Memory
	key string
	err error
}

func (f *failingKV) Set(ctx context.Context, key string, data []byte) error {
	if key == f.key {
		return f.err
	}
	return f.Memory.Set(ctx, key, data)
}
