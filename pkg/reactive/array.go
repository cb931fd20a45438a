package reactive

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// Insert describes items inserted at Index.
type Insert struct {
	Index int
	Items []any
}

// Removal describes items removed starting at Index.
type Removal struct {
	Index int
	Items []any
}

// Move records that the element at Before now sits at After.
type Move struct {
	Before int
	After  int
}

// ArrayListener receives the three kinds of array events as one unit.
type ArrayListener interface {
	Inserted(Insert)
	Removed(Removal)
	Moved([]Move)

	// ID returns a unique identifier used to find the listener on removal.
	ID() uint64
}

// ArrayFuncs adapts three functions to an ArrayListener. Nil functions are skipped.
type ArrayFuncs struct {
	id       uint64
	OnInsert func(Insert)
	OnRemove func(Removal)
	OnChange func([]Move)
}

// NewArrayListener returns an ArrayListener with a fresh identity.
func NewArrayListener(insert func(Insert), remove func(Removal), change func([]Move)) *ArrayFuncs {
	return &ArrayFuncs{id: nextID(), OnInsert: insert, OnRemove: remove, OnChange: change}
}

// Inserted calls OnInsert.
func (f *ArrayFuncs) Inserted(e Insert) {
	if f.OnInsert != nil {
		f.OnInsert(e)
	}
}

// Removed calls OnRemove.
func (f *ArrayFuncs) Removed(e Removal) {
	if f.OnRemove != nil {
		f.OnRemove(e)
	}
}

// Moved calls OnChange.
func (f *ArrayFuncs) Moved(m []Move) {
	if f.OnChange != nil {
		f.OnChange(m)
	}
}

// ID returns the listener identity.
func (f *ArrayFuncs) ID() uint64 { return f.id }

// Array is an observable ordered list.
//
// Mutations emit events only after Observe; ListenItems observes implicitly.
type Array struct {
	mu        sync.RWMutex
	items     []any
	observed  bool
	listeners []ArrayListener
	reg       registry
}

// NewArray creates an Array holding items, each wrapped with From.
func NewArray(items ...any) *Array {
	return &Array{items: wrapAll(items)}
}

// Len returns the number of elements.
func (a *Array) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.items)
}

// At returns the element at i, or nil when out of range.
func (a *Array) At(i int) any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Items returns a copy of the elements.
func (a *Array) Items() []any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return clone(a.items)
}

// Get returns "count" and "length" as the element count and decimal
// indexes as elements. Anything else is nil.
func (a *Array) Get(name string) any {
	switch name {
	case "count", "length":
		return a.Len()
	}
	if i, err := strconv.Atoi(name); err == nil {
		return a.At(i)
	}
	return nil
}

// Listen registers l on the derived "count" property, observing the array
// if needed. No other property of an array is observable.
func (a *Array) Listen(name string, l Listener) error {
	if name != "count" {
		return &NotObservableError{Target: a, Property: name}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observed = true
	a.reg.add(name, l)
	return nil
}

// Remove unregisters l from the named property.
func (a *Array) Remove(name string, l Listener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reg.remove(name, l)
}

// Notify runs the listeners of the named property, newest first.
func (a *Array) Notify(name string) {
	a.mu.RLock()
	listeners := a.reg.snapshot(name)
	a.mu.RUnlock()
	run(listeners)
}

// Observe enables mutation events. It is idempotent.
func (a *Array) Observe() {
	a.mu.Lock()
	a.observed = true
	a.mu.Unlock()
}

// Observed reports whether mutation events are enabled.
func (a *Array) Observed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.observed
}

// ListenItems registers l for insert, remove and change events.
// Listeners run in registration order.
func (a *Array) ListenItems(l ArrayListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observed = true
	a.listeners = append(a.listeners, l)
}

// RemoveItems unregisters l from all three event kinds.
func (a *Array) RemoveItems(l ArrayListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := l.ID()
	for i, existing := range a.listeners {
		if existing.ID() == id {
			a.listeners = append(a.listeners[:i:i], a.listeners[i+1:]...)
			return
		}
	}
}

// Push appends items and returns the new length.
func (a *Array) Push(items ...any) int {
	items = wrapAll(items)
	a.mu.Lock()
	index := len(a.items)
	a.items = append(a.items, items...)
	n := len(a.items)
	a.mu.Unlock()

	if len(items) > 0 {
		a.emitInsert(Insert{Index: index, Items: items})
	}
	return n
}

// Pop removes and returns the last element, or nil when empty.
func (a *Array) Pop() any {
	a.mu.Lock()
	n := len(a.items)
	if n == 0 {
		a.mu.Unlock()
		return nil
	}
	v := a.items[n-1]
	a.items = a.items[:n-1:n-1]
	a.mu.Unlock()

	a.emitRemove(Removal{Index: n - 1, Items: []any{v}})
	return v
}

// Unshift prepends items and returns the new length.
func (a *Array) Unshift(items ...any) int {
	items = wrapAll(items)
	a.mu.Lock()
	a.items = append(clone(items), a.items...)
	n := len(a.items)
	a.mu.Unlock()

	if len(items) > 0 {
		a.emitInsert(Insert{Index: 0, Items: items})
	}
	return n
}

// Shift removes and returns the first element, or nil when empty.
func (a *Array) Shift() any {
	a.mu.Lock()
	if len(a.items) == 0 {
		a.mu.Unlock()
		return nil
	}
	v := a.items[0]
	a.items = clone(a.items[1:])
	a.mu.Unlock()

	a.emitRemove(Removal{Index: 0, Items: []any{v}})
	return v
}

// Reverse reverses the elements in place and returns the array.
func (a *Array) Reverse() *Array {
	a.mu.Lock()
	before := clone(a.items)
	for i, j := 0, len(a.items)-1; i < j; i, j = i+1, j-1 {
		a.items[i], a.items[j] = a.items[j], a.items[i]
	}
	after := clone(a.items)
	a.mu.Unlock()

	a.emitChange(Diff(before, after))
	return a
}

// Sort stably sorts the elements with less and returns the array.
// A nil less orders numbers numerically and everything else by its string form.
func (a *Array) Sort(less func(x, y any) bool) *Array {
	if less == nil {
		less = defaultLess
	}

	a.mu.RLock()
	before := clone(a.items)
	a.mu.RUnlock()

	after := clone(before)
	sort.SliceStable(after, func(i, j int) bool { return less(after[i], after[j]) })

	a.mu.Lock()
	a.items = clone(after)
	a.mu.Unlock()

	a.emitChange(Diff(before, after))
	return a
}

// Splice removes deleteCount elements at start, inserts items there and
// returns the removed elements.
//
// A negative start counts from the end and is clamped at 0; a start past the
// end is clamped to the length. deleteCount is clamped to what is available.
// A removal event, if any, is emitted before the insertion event.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	items = wrapAll(items)

	a.mu.Lock()
	n := len(a.items)
	if start < 0 {
		start = max(n+start, 0)
	} else {
		start = min(start, n)
	}
	deleteCount = max(0, min(deleteCount, n-start))

	removed := clone(a.items[start : start+deleteCount])
	next := make([]any, 0, n-deleteCount+len(items))
	next = append(next, a.items[:start]...)
	next = append(next, items...)
	next = append(next, a.items[start+deleteCount:]...)
	a.items = next
	a.mu.Unlock()

	if len(removed) > 0 {
		a.emitRemove(Removal{Index: start, Items: removed})
	}
	if len(items) > 0 {
		a.emitInsert(Insert{Index: start, Items: items})
	}
	return removed
}

// String implements fmt.Stringer.
func (a *Array) String() string {
	return fmt.Sprint(a.Items())
}

func (a *Array) emitInsert(e Insert) {
	listeners, ok := a.itemListeners()
	if !ok {
		return
	}
	for _, l := range listeners {
		l.Inserted(Insert{Index: e.Index, Items: clone(e.Items)})
	}
	a.Notify("count")
}

func (a *Array) emitRemove(e Removal) {
	listeners, ok := a.itemListeners()
	if !ok {
		return
	}
	for _, l := range listeners {
		l.Removed(Removal{Index: e.Index, Items: clone(e.Items)})
	}
	a.Notify("count")
}

func (a *Array) emitChange(moves []Move) {
	if len(moves) == 0 {
		return
	}
	listeners, ok := a.itemListeners()
	if !ok {
		return
	}
	for _, l := range listeners {
		l.Moved(append([]Move(nil), moves...))
	}
}

// itemListeners snapshots the item listeners; ok is false when unobserved.
func (a *Array) itemListeners() ([]ArrayListener, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.observed {
		return nil, false
	}
	out := make([]ArrayListener, len(a.listeners))
	copy(out, a.listeners)
	return out, true
}

func wrapAll(items []any) []any {
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = From(v)
	}
	return out
}

func clone(items []any) []any {
	out := make([]any, len(items))
	copy(out, items)
	return out
}

func defaultLess(x, y any) bool {
	fx, okx := toFloat(x)
	fy, oky := toFloat(y)
	if okx && oky {
		return fx < fy
	}
	return String(x) < String(y)
}
