package reactive

import "sync/atomic"

// Listener is notified when an observed property changes.
type Listener interface {
	// Notify runs the listener. Listeners re-read current state themselves.
	Notify()

	// ID returns a unique identifier used to find the listener on removal.
	ID() uint64
}

// globalIDCounter is the source of unique listener IDs.
var globalIDCounter uint64

// nextID returns the next unique ID. IDs are never reused.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}

// funcListener adapts a plain function to the Listener interface.
type funcListener struct {
	id uint64
	fn func()
}

// Func wraps fn as a Listener with a fresh identity.
// Two calls with the same function yield two distinct listeners.
func Func(fn func()) Listener {
	return &funcListener{id: nextID(), fn: fn}
}

func (l *funcListener) Notify() { l.fn() }

func (l *funcListener) ID() uint64 { return l.id }

// registry maps property names to listeners, newest first.
// It lives inside the observed value so it is collected with it.
type registry struct {
	props map[string][]Listener
}

// add prepends l to the listeners of prop.
// It reports whether prop had no registry entry before.
func (r *registry) add(prop string, l Listener) bool {
	if r.props == nil {
		r.props = make(map[string][]Listener)
	}
	list, ok := r.props[prop]
	r.props[prop] = append([]Listener{l}, list...)
	return !ok
}

// remove drops the first listener of prop with l's ID.
func (r *registry) remove(prop string, l Listener) {
	list := r.props[prop]
	id := l.ID()
	for i, existing := range list {
		if existing.ID() == id {
			r.props[prop] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// snapshot copies the listeners of prop so they can run without a lock.
func (r *registry) snapshot(prop string) []Listener {
	list := r.props[prop]
	if len(list) == 0 {
		return nil
	}
	out := make([]Listener, len(list))
	copy(out, list)
	return out
}

// has reports whether prop has an entry, even an empty one.
func (r *registry) has(prop string) bool {
	_, ok := r.props[prop]
	return ok
}

// run invokes each listener in order.
func run(listeners []Listener) {
	for _, l := range listeners {
		l.Notify()
	}
}
