package cell

import "github.com/oklog/ulid/v2"

// Observer is an identity handle for a value callback.
//
// Go function values have no reference equality, so cells dedupe
// subscriptions by observer pointer rather than by comparing functions.
// Keep one Observer per logical listener and pass it to every Subscribe and
// Unsubscribe call that should refer to it. The ULID identifies the
// observer in diagnostics such as panic reports.
type Observer[T any] struct {
	id ulid.ULID
	fn func(T)
}

// NewObserver wraps fn in a new observer handle.
func NewObserver[T any](fn func(T)) *Observer[T] {
	return &Observer[T]{id: ulid.Make(), fn: fn}
}

// ID returns the observer's unique id.
func (o *Observer[T]) ID() ulid.ULID {
	if o == nil {
		return ulid.ULID{}
	}
	return o.id
}

func (o *Observer[T]) call(value T) {
	if o == nil || o.fn == nil {
		return
	}
	o.fn(value)
}
