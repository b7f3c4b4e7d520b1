package store

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of Schedule calls into a single fire call that
// runs window after the last one, carrying the last scheduled value.
type Debouncer[T any] struct {
	clock  Clock
	window time.Duration
	fire   func(T)

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	pending T
	armed   bool

	// running counts fire calls in progress, idle is signalled when it drops to zero
	running int
	idle    *sync.Cond
}

func NewDebouncer[T any](clock Clock, window time.Duration, fire func(T)) *Debouncer[T] {
	d := &Debouncer[T]{
		clock:  clock,
		window: window,
		fire:   fire,
	}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Schedule replaces any pending value with v and restarts the window.
func (d *Debouncer[T]) Schedule(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = v
	d.armed = true
	d.timer = d.clock.AfterFunc(d.window, func() { d.run(gen) })
}

func (d *Debouncer[T]) run(gen uint64) {
	d.mu.Lock()
	// a timer that lost the race with Stop must not fire a newer value early
	if gen != d.gen || !d.armed {
		d.mu.Unlock()
		return
	}
	v := d.take()
	d.running++
	d.mu.Unlock()

	defer d.done()
	d.fire(v)
}

func (d *Debouncer[T]) done() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running--
	if d.running == 0 {
		d.idle.Broadcast()
	}
}

func (d *Debouncer[T]) take() T {
	var zero T
	v := d.pending
	d.pending = zero
	d.armed = false
	d.timer = nil
	return v
}

// Flush cancels the timer and hands back the pending value, if any, instead
// of firing it.
func (d *Debouncer[T]) Flush() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.armed {
		var zero T
		return zero, false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	return d.take(), true
}

func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

// Wait blocks until fire calls that already started have returned.
func (d *Debouncer[T]) Wait() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.running > 0 {
		d.idle.Wait()
	}
}
