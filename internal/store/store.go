// Package store keeps the shop data in memory and mirrors it to durable
// storage. Reads are served from memory. In remote mode every change
// reschedules one debounced write of the whole snapshot. In local mode each
// collection is written through to its own key.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/kopimi-kafe/backend/internal/blobstore"
	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/metrics"
)

const DefaultDebounce = time.Second

type State int

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

type WriteState int

const (
	WriteIdle WriteState = iota
	WriteScheduled
	WriteInFlight
	WriteSucceeded
	WriteFailed
)

func (w WriteState) String() string {
	switch w {
	case WriteScheduled:
		return "scheduled"
	case WriteInFlight:
		return "in_flight"
	case WriteSucceeded:
		return "succeeded"
	case WriteFailed:
		return "failed"
	default:
		return "idle"
	}
}

type Option func(*Store)

func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithWarningHandler receives load and write warnings. The handler may run
// with the store locked and must not call back into it.
func WithWarningHandler(fn func(Warning)) Option {
	return func(s *Store) { s.warn = fn }
}

// WithDefaults sets the snapshot used when nothing is persisted yet or the
// durable copy cannot be read.
func WithDefaults(fn func() *domain.Snapshot) Option {
	return func(s *Store) { s.defaults = fn }
}

type pendingWrite struct {
	seq      uint64
	snapshot *domain.Snapshot
}

type Store struct {
	backend  Backend
	local    blobstore.Store
	clock    Clock
	logger   *slog.Logger
	warn     func(Warning)
	defaults func() *domain.Snapshot
	debounce time.Duration

	loadOnce sync.Once

	mu       sync.RWMutex
	state    State
	snapshot *domain.Snapshot
	seq      uint64

	writer  *Debouncer[pendingWrite]
	writeMu sync.Mutex
	// saved is the newest seq in storage, attempted the newest seq whose save
	// has finished either way, with its error. written is signalled after
	// each save.
	saved      uint64
	attempted  uint64
	attemptErr error
	written    *sync.Cond

	statusMu  sync.Mutex
	lastWrite WriteState
	lastErr   error
}

func newStore(opts []Option) *Store {
	s := &Store{
		clock:    realClock{},
		logger:   slog.Default(),
		debounce: DefaultDebounce,
		snapshot: &domain.Snapshot{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.warn == nil {
		s.warn = s.logWarning
	}
	if s.defaults == nil {
		s.defaults = func() *domain.Snapshot { return domain.DefaultSnapshot(s.clock.Now()) }
	}
	return s
}

// New returns a store that mirrors the whole snapshot to backend.
func New(backend Backend, opts ...Option) *Store {
	s := newStore(opts)
	s.backend = backend
	s.initWriter()
	return s
}

// NewLocal returns a store that keeps each collection under its own key in kv
// and writes changes through synchronously.
func NewLocal(kv blobstore.Store, opts ...Option) *Store {
	s := newStore(opts)
	s.local = kv
	return s
}

func (s *Store) initWriter() {
	s.written = sync.NewCond(&s.writeMu)
	s.writer = NewDebouncer(s.clock, s.debounce, s.write)
}

func (s *Store) logWarning(w Warning) {
	s.logger.Warn("store warning", "kind", w.Kind, "collection", w.Collection, "error", w.Err)
}

// Load reads the durable snapshot once. Later calls return the current
// in-memory snapshot without touching storage. Load never fails: when the
// durable copy is missing the defaults are persisted, when it cannot be read
// the defaults are used and a warning is raised.
func (s *Store) Load(ctx context.Context) *domain.Snapshot {
	s.loadOnce.Do(func() {
		s.mu.Lock()
		s.state = Loading
		s.mu.Unlock()

		var snapshot *domain.Snapshot
		if s.local != nil {
			snapshot = s.loadLocal(ctx)
		} else {
			snapshot = s.loadRemote(ctx)
		}

		s.mu.Lock()
		s.snapshot = snapshot
		s.state = Ready
		s.mu.Unlock()
	})

	return s.Snapshot()
}

func (s *Store) loadRemote(ctx context.Context) *domain.Snapshot {
	snapshot, err := s.backend.Fetch(ctx)
	switch {
	case err == nil:
		metrics.IncStoreLoad("ok")
		if snapshot == nil {
			snapshot = &domain.Snapshot{}
		}
		return snapshot
	case errors.Is(err, blobstore.ErrNotFound):
		metrics.IncStoreLoad("seeded")
		snapshot = s.defaults()
		if err := s.backend.Save(ctx, snapshot); err != nil {
			s.warn(Warning{Kind: KindWriteFailed, Err: err})
		}
		return snapshot
	default:
		metrics.IncStoreLoad("failed")
		s.warn(Warning{Kind: KindLoadFailed, Err: err})
		return s.defaults()
	}
}

func (s *Store) loadLocal(ctx context.Context) *domain.Snapshot {
	snapshot := s.defaults()

	for _, c := range collections {
		data, err := s.local.Get(ctx, c.LocalKey())
		switch {
		case errors.Is(err, blobstore.ErrNotFound):
			if err := s.writeCollection(ctx, snapshot, c); err != nil {
				s.warn(Warning{Kind: KindWriteFailed, Collection: c.Name(), Err: err})
			}
		case err != nil:
			s.warn(Warning{Kind: KindLoadFailed, Collection: c.Name(), Err: err})
		default:
			// a value that fails to decode leaves the default in place
			if err := c.decode(snapshot, data); err != nil {
				s.warn(Warning{Kind: KindLoadFailed, Collection: c.Name(), Err: err})
			}
		}
	}

	metrics.IncStoreLoad("local")
	return snapshot
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsLoading is true until Load has finished.
func (s *Store) IsLoading() bool {
	return s.State() != Ready
}

// Snapshot returns a deep copy of the in-memory snapshot.
func (s *Store) Snapshot() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// Get returns a copy of one collection. Before Load it is the empty value.
func Get[T any](s *Store, key Key[T]) T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return key.clone(key.get(s.snapshot))
}

// Set replaces one collection.
func Set[T any](s *Store, key Key[T], value T) {
	Update(s, key, func(T) T { return value })
}

// Update replaces one collection with fn applied to a copy of its current
// value. Updates before Load are dropped with a KindNotLoaded warning.
func Update[T any](s *Store, key Key[T], fn func(prev T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Ready {
		s.warn(Warning{Kind: KindNotLoaded, Collection: key.Name(), Err: ErrNotLoaded})
		return
	}

	next := key.clone(fn(key.clone(key.get(s.snapshot))))
	key.set(s.snapshot, next)
	s.persistLocked(key)
}

// Mutate applies fn to a copy of the whole snapshot and commits the copy
// unless fn returns an error, in which case nothing changes.
func (s *Store) Mutate(fn func(snapshot *domain.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Ready {
		return ErrNotLoaded
	}

	next := s.snapshot.Clone()
	if err := fn(next); err != nil {
		return err
	}
	s.snapshot = next
	s.persistLocked(collections...)
	return nil
}

// Replace swaps the whole snapshot.
func (s *Store) Replace(snapshot *domain.Snapshot) error {
	return s.Mutate(func(next *domain.Snapshot) error {
		*next = *snapshot.Clone()
		return nil
	})
}

// persistLocked must be called with s.mu held so that writes are scheduled in
// the same order as the changes they carry.
func (s *Store) persistLocked(changed ...collection) {
	if s.local != nil {
		ctx := context.Background()
		for _, c := range changed {
			if err := s.writeCollection(ctx, s.snapshot, c); err != nil {
				s.setWriteState(WriteFailed, err)
				metrics.IncStoreWrite("failed")
				s.warn(Warning{Kind: KindWriteFailed, Collection: c.Name(), Err: err})
				continue
			}
			s.setWriteState(WriteSucceeded, nil)
			metrics.IncStoreWrite("ok")
		}
		return
	}

	s.seq++
	s.writer.Schedule(pendingWrite{seq: s.seq, snapshot: s.snapshot.Clone()})
	metrics.SetPendingWrite(true)
}

func (s *Store) writeCollection(ctx context.Context, snapshot *domain.Snapshot, c collection) error {
	data, err := c.encode(snapshot)
	if err != nil {
		return err
	}
	return s.local.Set(ctx, c.LocalKey(), data)
}

// write runs when the debounce window closes.
func (s *Store) write(p pendingWrite) {
	metrics.SetPendingWrite(false)
	if err := s.save(context.Background(), p); err != nil {
		s.warn(Warning{Kind: KindWriteFailed, Err: err})
	}
}

func (s *Store) save(ctx context.Context, p pendingWrite) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	// a newer snapshot already reached storage
	if p.seq <= s.saved {
		return nil
	}

	defer s.written.Broadcast()

	s.setWriteState(WriteInFlight, nil)
	err := s.backend.Save(ctx, p.snapshot)
	// an older save finishing late must not hide the outcome of a newer one
	if p.seq >= s.attempted {
		s.attempted = p.seq
		s.attemptErr = err
	}
	if err != nil {
		s.setWriteState(WriteFailed, err)
		metrics.IncStoreWrite("failed")
		return err
	}

	s.saved = p.seq
	s.setWriteState(WriteSucceeded, nil)
	metrics.IncStoreWrite("ok")
	return nil
}

// waitWritten blocks until a save carrying seq or a newer change has
// finished and reports whether seq reached storage.
func (s *Store) waitWritten(seq uint64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for s.saved < seq && s.attempted < seq {
		s.written.Wait()
	}
	if s.saved >= seq {
		return nil
	}
	return s.attemptErr
}

func (s *Store) setWriteState(state WriteState, err error) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.lastWrite = state
	s.lastErr = err
}

// WriteState reports the durable write status. A pending debounced write
// takes precedence over the outcome of the previous one.
func (s *Store) WriteState() (WriteState, error) {
	if s.writer != nil && s.writer.Pending() {
		return WriteScheduled, nil
	}
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.lastWrite, s.lastErr
}

// Flush writes a pending snapshot now instead of waiting for the window. It
// returns once every change made before the call is in storage, or with the
// error of the save that should have carried them. A save already taken by
// the timer or by a concurrent Flush is waited for.
func (s *Store) Flush(ctx context.Context) error {
	if s.writer == nil {
		return nil
	}

	s.mu.RLock()
	seq := s.seq
	s.mu.RUnlock()

	if p, ok := s.writer.Flush(); ok {
		metrics.SetPendingWrite(false)
		if err := s.save(ctx, p); err != nil {
			return err
		}
	}
	return s.waitWritten(seq)
}

// Close flushes the pending write and waits for one already in flight. The
// underlying storage is left open.
func (s *Store) Close(ctx context.Context) error {
	err := s.Flush(ctx)
	if s.writer != nil {
		s.writer.Wait()
	}
	return err
}
