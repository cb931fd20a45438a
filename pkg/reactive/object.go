package reactive

import (
	"sort"
	"sync"
)

// Target is anything whose properties can be read and observed.
// *Object and *Array implement it.
type Target interface {
	// Get returns the current value of the named property.
	Get(name string) any

	// Listen registers l on the named property.
	Listen(name string, l Listener) error

	// Remove unregisters l from the named property. Unknown listeners are ignored.
	Remove(name string, l Listener)

	// Notify runs every listener of the named property.
	Notify(name string)
}

// Descriptor describes a property for Define.
//
// A descriptor with Get or Set is an accessor; otherwise Value is stored as a
// plain value. An accessor without Set is read-only: writes through
// Object.Set are ignored.
type Descriptor struct {
	Value any
	Get   func(o *Object) any
	Set   func(o *Object, value any)

	// Fixed marks the property as non-reconfigurable. Fixed properties cannot
	// be observed or redefined.
	Fixed bool
}

// property is the stored form of a Descriptor.
type property struct {
	value    any
	get      func(*Object) any
	set      func(*Object, any)
	accessor bool
	fixed    bool
}

// Object is an observable record with ordered properties.
type Object struct {
	mu    sync.RWMutex
	names []string
	props map[string]*property
	reg   registry
}

// NewObject creates an Object holding fields as plain properties.
// Properties are ordered by name. Nested maps and slices are wrapped with From.
func NewObject(fields map[string]any) *Object {
	o := &Object{props: make(map[string]*property, len(fields))}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		o.names = append(o.names, name)
		o.props[name] = &property{value: From(fields[name])}
	}
	return o
}

// Get returns the value of the named property, or nil when absent.
// Accessor getters run without any lock held.
func (o *Object) Get(name string) any {
	o.mu.RLock()
	p := o.props[name]
	if p == nil {
		o.mu.RUnlock()
		return nil
	}
	if !p.accessor {
		v := p.value
		o.mu.RUnlock()
		return v
	}
	get := p.get
	o.mu.RUnlock()

	if get == nil {
		return nil
	}
	return get(o)
}

// Has reports whether the named property exists.
func (o *Object) Has(name string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.props[name]
	return ok
}

// Keys returns the property names in definition order.
func (o *Object) Keys() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, len(o.names))
	copy(out, o.names)
	return out
}

// Set writes the named property and notifies its listeners.
//
// Absent properties are created as plain values. Writes to accessors call
// the accessor's setter; accessors without a setter ignore the write and do
// not notify.
func (o *Object) Set(name string, value any) {
	value = From(value)

	o.mu.Lock()
	p := o.props[name]
	if p == nil {
		if o.props == nil {
			o.props = make(map[string]*property)
		}
		o.names = append(o.names, name)
		o.props[name] = &property{value: value}
		o.mu.Unlock()
		return
	}
	if !p.accessor {
		p.value = value
		listeners := o.reg.snapshot(name)
		o.mu.Unlock()
		run(listeners)
		return
	}
	set := p.set
	o.mu.Unlock()

	if set == nil {
		return
	}
	set(o, value)
	o.Notify(name)
}

// Define installs or replaces the named property.
// Listeners already registered on the property are kept.
func (o *Object) Define(name string, d Descriptor) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if p := o.props[name]; p != nil && p.fixed {
		return &NotObservableError{Target: o, Property: name}
	}
	if _, ok := o.props[name]; !ok {
		o.names = append(o.names, name)
	}
	if o.props == nil {
		o.props = make(map[string]*property)
	}
	o.props[name] = &property{
		value:    From(d.Value),
		get:      d.Get,
		set:      d.Set,
		accessor: d.Get != nil || d.Set != nil,
		fixed:    d.Fixed,
	}
	return nil
}

// Listen registers l on the named property.
// The first registration requires the property to exist and not be Fixed.
func (o *Object) Listen(name string, l Listener) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.reg.has(name) {
		p := o.props[name]
		if p == nil || p.fixed {
			return &NotObservableError{Target: o, Property: name}
		}
	}
	o.reg.add(name, l)
	return nil
}

// Remove unregisters l from the named property.
func (o *Object) Remove(name string, l Listener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reg.remove(name, l)
}

// Notify runs the listeners of the named property, newest first.
func (o *Object) Notify(name string) {
	o.mu.RLock()
	listeners := o.reg.snapshot(name)
	o.mu.RUnlock()
	run(listeners)
}

// String implements fmt.Stringer. A record formats as "[object Object]",
// the way JavaScript coerces objects to strings.
func (o *Object) String() string {
	return "[object Object]"
}

// Listen registers l on target's property.
func Listen(target Target, prop string, l Listener) error {
	if target == nil {
		return &NotObservableError{Target: target, Property: prop}
	}
	return target.Listen(prop, l)
}

// Remove unregisters l from target's property. A nil target is ignored.
func Remove(target Target, prop string, l Listener) {
	if target != nil {
		target.Remove(prop, l)
	}
}

// Notify runs the listeners of target's property. A nil target is ignored.
func Notify(target Target, prop string) {
	if target != nil {
		target.Notify(prop)
	}
}
