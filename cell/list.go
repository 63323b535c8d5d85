package cell

import (
	"sort"
	"sync"
)

// List is an ordered sequence whose in-place edits notify the cell storing
// it. Storing a list in a cell (at construction or via Set) binds it to
// that cell; every structural mutation afterwards runs the cell's notify
// with the list itself as the value, so callers never need to reassign the
// whole list to publish an edit. Reads (At, Len, Values, IndexFunc) never
// notify.
//
// A list binds at most once. Re-storing it in its own cell is a no-op, and
// storing it in a second cell leaves the first binding in place: mutations
// keep notifying the original owner, never the second cell. Mutating a
// never-stored list edits silently.
type List[T any] struct {
	mu    sync.Mutex
	items []T
	owner *anchor
}

// NewList creates an unbound list holding items.
func NewList[T any](items ...T) *List[T] {
	l := &List[T]{}
	if len(items) > 0 {
		l.items = append([]T(nil), items...)
	}
	return l
}

// bind attaches the list to its first owner. Later binds are no-ops, which
// is what keeps double-instrumentation (and double notification) out.
func (l *List[T]) bind(owner *anchor) {
	if l == nil || owner == nil {
		return
	}
	l.mu.Lock()
	if l.owner == nil {
		l.owner = owner
	}
	l.mu.Unlock()
}

// notify runs the owning cell's notify path outside the list lock, so
// observers may read or mutate the list without deadlocking.
func (l *List[T]) notify() {
	l.mu.Lock()
	owner := l.owner
	l.mu.Unlock()
	if owner != nil && owner.notify != nil {
		owner.notify()
	}
}

// Append adds items at the end.
func (l *List[T]) Append(items ...T) {
	if l == nil || len(items) == 0 {
		return
	}
	l.mu.Lock()
	l.items = append(l.items, items...)
	l.mu.Unlock()
	l.notify()
}

// Pop removes and returns the last element. The ok result is false when the
// list is empty, and an empty list is left untouched and unnotified.
func (l *List[T]) Pop() (T, bool) {
	var zero T
	if l == nil {
		return zero, false
	}
	l.mu.Lock()
	n := len(l.items)
	if n == 0 {
		l.mu.Unlock()
		return zero, false
	}
	value := l.items[n-1]
	l.items[n-1] = zero
	l.items = l.items[:n-1]
	l.mu.Unlock()
	l.notify()
	return value, true
}

// Shift removes and returns the first element.
func (l *List[T]) Shift() (T, bool) {
	var zero T
	if l == nil {
		return zero, false
	}
	l.mu.Lock()
	if len(l.items) == 0 {
		l.mu.Unlock()
		return zero, false
	}
	value := l.items[0]
	copy(l.items, l.items[1:])
	l.items[len(l.items)-1] = zero
	l.items = l.items[:len(l.items)-1]
	l.mu.Unlock()
	l.notify()
	return value, true
}

// Unshift inserts items at the front.
func (l *List[T]) Unshift(items ...T) {
	if l == nil || len(items) == 0 {
		return
	}
	l.mu.Lock()
	l.items = append(append([]T(nil), items...), l.items...)
	l.mu.Unlock()
	l.notify()
}

// Insert inserts items before index i. Indices are clamped to [0, Len].
func (l *List[T]) Insert(i int, items ...T) {
	if l == nil || len(items) == 0 {
		return
	}
	l.mu.Lock()
	i = clamp(i, len(l.items))
	rest := append([]T(nil), l.items[i:]...)
	l.items = append(append(l.items[:i], items...), rest...)
	l.mu.Unlock()
	l.notify()
}

// RemoveAt removes and returns the element at i. Out-of-range indices leave
// the list untouched and report ok false.
func (l *List[T]) RemoveAt(i int) (T, bool) {
	var zero T
	if l == nil {
		return zero, false
	}
	l.mu.Lock()
	if i < 0 || i >= len(l.items) {
		l.mu.Unlock()
		return zero, false
	}
	value := l.items[i]
	copy(l.items[i:], l.items[i+1:])
	l.items[len(l.items)-1] = zero
	l.items = l.items[:len(l.items)-1]
	l.mu.Unlock()
	l.notify()
	return value, true
}

// SetAt replaces the element at i and reports whether i was in range.
func (l *List[T]) SetAt(i int, value T) bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	if i < 0 || i >= len(l.items) {
		l.mu.Unlock()
		return false
	}
	l.items[i] = value
	l.mu.Unlock()
	l.notify()
	return true
}

// Splice removes deleteCount elements starting at start, inserts items in
// their place, and returns the removed elements. Start is clamped to
// [0, Len] and deleteCount to the elements available. A splice that neither
// removes nor inserts does not notify.
func (l *List[T]) Splice(start, deleteCount int, items ...T) []T {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	start = clamp(start, len(l.items))
	if deleteCount < 0 {
		deleteCount = 0
	}
	if deleteCount > len(l.items)-start {
		deleteCount = len(l.items) - start
	}
	if deleteCount == 0 && len(items) == 0 {
		l.mu.Unlock()
		return nil
	}
	removed := append([]T(nil), l.items[start:start+deleteCount]...)
	rest := append([]T(nil), l.items[start+deleteCount:]...)
	l.items = append(append(l.items[:start], items...), rest...)
	l.mu.Unlock()
	l.notify()
	return removed
}

// Sort sorts the list in place using less, keeping equal elements in their
// original order.
func (l *List[T]) Sort(less func(a, b T) bool) {
	if l == nil || less == nil {
		return
	}
	l.mu.Lock()
	sort.SliceStable(l.items, func(i, j int) bool {
		return less(l.items[i], l.items[j])
	})
	l.mu.Unlock()
	l.notify()
}

// Reverse reverses the list in place.
func (l *List[T]) Reverse() {
	if l == nil {
		return
	}
	l.mu.Lock()
	for i, j := 0, len(l.items)-1; i < j; i, j = i+1, j-1 {
		l.items[i], l.items[j] = l.items[j], l.items[i]
	}
	l.mu.Unlock()
	l.notify()
}

// At returns the element at i.
func (l *List[T]) At(i int) (T, bool) {
	var zero T
	if l == nil {
		return zero, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.items) {
		return zero, false
	}
	return l.items[i], true
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	n := len(l.items)
	l.mu.Unlock()
	return n
}

// Values returns a copy of the elements.
func (l *List[T]) Values() []T {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	values := append([]T(nil), l.items...)
	l.mu.Unlock()
	return values
}

// IndexFunc returns the first index satisfying pred, or -1.
func (l *List[T]) IndexFunc(pred func(T) bool) int {
	if l == nil || pred == nil {
		return -1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, value := range l.items {
		if pred(value) {
			return i
		}
	}
	return -1
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
