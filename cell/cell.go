// Package cell provides a minimal observable value container.
//
// A Cell holds one value and notifies registered observers whenever the
// value is written. Notification timing is a pluggable strategy: the default
// dispatcher runs observers synchronously in the writer's goroutine, while a
// Debounce dispatcher coalesces bursts of writes into a single delayed
// delivery carrying the latest value. Cells holding a List additionally
// notify on in-place edits to the list, without the caller reassigning it.
package cell

import (
	"sync"
	"time"
)

// bindable is implemented by values that route their own in-place mutations
// through the cell storing them (see List).
type bindable interface {
	bind(owner *anchor)
}

// anchor ties a bound value back to its cell's notify path without exposing
// the cell's type parameter. It carries no reverse ownership: the cell owns
// the value, the anchor only routes notifications.
type anchor struct {
	notify func()
}

// Cell holds a value and notifies observers on writes.
type Cell[T any] struct {
	mu         sync.Mutex
	value      T
	observers  []*Observer[T]
	dispatcher Dispatcher
	anchor     *anchor
}

// New creates a cell that notifies observers synchronously on every write.
func New[T any](initial T) *Cell[T] {
	return NewWithDispatcher(initial, Direct)
}

// NewWithDispatcher creates a cell whose notifications run through d.
// A nil dispatcher falls back to Direct.
func NewWithDispatcher[T any](initial T, d Dispatcher) *Cell[T] {
	if d == nil {
		d = Direct
	}
	c := &Cell[T]{value: initial, dispatcher: d}
	c.anchor = &anchor{notify: func() { c.Notify(c.Get()) }}
	c.bindValue(initial)
	return c
}

// NewDebounced creates a cell that coalesces rapid writes, delivering one
// notification with the latest value once writes have been quiet for
// interval.
func NewDebounced[T any](initial T, interval time.Duration) *Cell[T] {
	return NewWithDispatcher(initial, NewDebounce(interval))
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	if c == nil {
		var zero T
		return zero
	}
	c.mu.Lock()
	value := c.value
	c.mu.Unlock()
	return value
}

// Set stores a new value and notifies observers. Values that support
// in-place mutation tracking (List) are bound to this cell before storing;
// binding is idempotent, so writing the same list back is harmless.
func (c *Cell[T]) Set(value T) {
	if c == nil {
		return
	}
	c.bindValue(value)
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
	c.Notify(value)
}

// Update replaces the value using fn.
// fn runs outside the cell lock; Update is not atomic across goroutines.
func (c *Cell[T]) Update(fn func(T) T) {
	if c == nil || fn == nil {
		return
	}
	c.Set(fn(c.Get()))
}

// Subscribe registers o for change notifications and returns an idempotent
// unsubscribe. Subscribing an already-registered observer is a no-op that
// keeps its original position. With WithImmediate, o is invoked once with
// the current value before Subscribe returns.
func (c *Cell[T]) Subscribe(o *Observer[T], opts ...SubscribeOption) func() {
	if c == nil || o == nil {
		return func() {}
	}
	var cfg subscribeConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	c.mu.Lock()
	if !c.containsLocked(o) {
		c.observers = append(c.observers, o)
	}
	c.mu.Unlock()

	if cfg.immediate {
		if recovered := safeCall(o, c.Get()); recovered != nil {
			reportPanic(o.ID(), recovered)
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			c.Unsubscribe(o)
		})
	}
}

// SubscribeFunc registers fn under a fresh observer handle. Each call
// creates a distinct observer, so duplicate suppression does not apply;
// use Subscribe with a shared Observer when it should.
func (c *Cell[T]) SubscribeFunc(fn func(T), opts ...SubscribeOption) func() {
	if c == nil || fn == nil {
		return func() {}
	}
	return c.Subscribe(NewObserver(fn), opts...)
}

// Unsubscribe removes o from the registry. Unknown or already-removed
// observers are ignored.
func (c *Cell[T]) Unsubscribe(o *Observer[T]) {
	if c == nil || o == nil {
		return
	}
	c.mu.Lock()
	for i, cur := range c.observers {
		if cur == o {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
}

// Observers returns the number of registered observers.
func (c *Cell[T]) Observers() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	n := len(c.observers)
	c.mu.Unlock()
	return n
}

// Dispatcher returns the dispatch strategy the cell was built with.
func (c *Cell[T]) Dispatcher() Dispatcher {
	if c == nil {
		return nil
	}
	return c.dispatcher
}

// Notify routes value to every observer through the cell's dispatcher.
// With Direct the fan-out happens before Notify returns; with Debounce it
// is deferred and may be superseded by a later Notify. Set calls this after
// storing; it is exported so bound values and callers can trigger delivery
// of the current value themselves.
func (c *Cell[T]) Notify(value T) {
	if c == nil {
		return
	}
	c.dispatcher.Dispatch(func() {
		c.fanOut(value)
	})
}

// fanOut invokes observers in subscription order over a snapshot of the
// registry, so observers that subscribe or unsubscribe mid-notification
// never cause skips or double calls within the same event. A panicking
// observer does not stop the fan-out; failures are reported once the full
// pass completes.
func (c *Cell[T]) fanOut(value T) {
	c.mu.Lock()
	observers := make([]*Observer[T], len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()

	var failures []panicReport
	for _, o := range observers {
		if recovered := safeCall(o, value); recovered != nil {
			failures = append(failures, panicReport{id: o.ID(), value: recovered})
		}
	}
	for _, f := range failures {
		reportPanic(f.id, f.value)
	}
}

func (c *Cell[T]) containsLocked(o *Observer[T]) bool {
	for _, cur := range c.observers {
		if cur == o {
			return true
		}
	}
	return false
}

func (c *Cell[T]) bindValue(value T) {
	if b, ok := any(value).(bindable); ok {
		b.bind(c.anchor)
	}
}

func safeCall[T any](o *Observer[T], value T) (recovered any) {
	defer func() {
		recovered = recover()
	}()
	o.call(value)
	return nil
}

// SubscribeOption configures a subscription.
type SubscribeOption func(*subscribeConfig)

type subscribeConfig struct {
	immediate bool
}

// WithImmediate invokes the observer once with the current value as soon as
// it is registered.
func WithImmediate() SubscribeOption {
	return func(cfg *subscribeConfig) {
		cfg.immediate = true
	}
}
