package cell

import (
	"sync"
	"time"
)

// Dispatcher decides when a cell's notification fan-out runs.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function into a Dispatcher.
type DispatcherFunc func(func())

// Dispatch runs fn using the wrapped function.
func (f DispatcherFunc) Dispatch(fn func()) {
	if f == nil || fn == nil {
		return
	}
	f(fn)
}

// Direct runs notifications immediately in the caller goroutine.
var Direct Dispatcher = DispatcherFunc(func(fn func()) {
	if fn != nil {
		fn()
	}
})

// Debounce coalesces bursts of dispatches into a single delayed run.
//
// Each Dispatch supersedes any pending callback: only the last callback of
// a burst runs, interval after the burst goes quiet. At most one timer is
// live at a time. A zero interval still defers to the timer goroutine
// rather than running synchronously; callers see one scheduling tick of
// latency, never an inline call.
type Debounce struct {
	interval time.Duration

	mu      sync.Mutex
	gen     uint64
	timer   *time.Timer
	pending func()
}

// NewDebounce creates a debouncing dispatcher. Negative intervals are
// treated as zero.
func NewDebounce(interval time.Duration) *Debounce {
	if interval < 0 {
		interval = 0
	}
	return &Debounce{interval: interval}
}

// Interval returns the quiescence period.
func (d *Debounce) Interval() time.Duration {
	if d == nil {
		return 0
	}
	return d.interval
}

// Dispatch schedules fn to run once the interval elapses, cancelling any
// previously scheduled callback.
func (d *Debounce) Dispatch(fn func()) {
	if d == nil || fn == nil {
		return
	}
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = time.AfterFunc(d.interval, func() {
		d.fire(gen)
	})
	d.mu.Unlock()
}

// fire runs the pending callback if it has not been superseded. The
// generation check covers the window where a timer expires concurrently
// with a new Dispatch and Stop arrives too late.
func (d *Debounce) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()
	fn()
}

// Stop cancels the pending callback, if any. It never runs.
func (d *Debounce) Stop() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = nil
	d.mu.Unlock()
}

// Flush runs the pending callback immediately instead of waiting out the
// interval, and reports whether one was pending.
func (d *Debounce) Flush() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}
