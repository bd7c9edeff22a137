package directory

import (
	"sync"
	"time"
)

// Debouncer collapses a burst of values into one call of fn with the last value, made
// once delay has passed without a new value.
//
// fn runs with the debouncer's lock held, so a value triggered while fn is running is
// applied after it. A superseded timer never calls fn.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(T)
	timer   *time.Timer
	seq     uint64
	value   T
	stopped bool
}

// NewDebouncer creates a Debouncer calling fn after delay of quiet
func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger records v as the latest value and restarts the quiet period
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.seq++
	seq := d.seq
	d.value = v
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// Cancel drops the pending value without calling fn
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
}

// Stop cancels any pending value and ignores later triggers
func (d *Debouncer[T]) Stop() {
	d.Cancel()

	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// A later Trigger or Cancel has superseded this timer
	if seq != d.seq || d.stopped {
		return
	}
	d.fn(d.value)
}
