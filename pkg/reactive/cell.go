package reactive

// Cell is a typed view of one property of an Object.
type Cell[T any] struct {
	obj  *Object
	name string
}

// Field returns a Cell for o's named property.
func Field[T any](o *Object, name string) Cell[T] {
	return Cell[T]{obj: o, name: name}
}

// Get returns the property value, or the zero value when it has another type.
func (c Cell[T]) Get() T {
	v, _ := c.obj.Get(c.name).(T)
	return v
}

// Set writes the property and notifies its listeners.
func (c Cell[T]) Set(v T) {
	c.obj.Set(c.name, v)
}

// Watch calls fn with the new value after every change.
// The returned cancel function unregisters it.
func (c Cell[T]) Watch(fn func(T)) (cancel func(), err error) {
	l := Func(func() { fn(c.Get()) })
	if err := c.obj.Listen(c.name, l); err != nil {
		return nil, err
	}
	return func() { c.obj.Remove(c.name, l) }, nil
}
