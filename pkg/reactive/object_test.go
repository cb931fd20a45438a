package reactive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectListen(t *testing.T) {
	o := NewObject(map[string]any{"x": 1})
	var seen any

	require.NoError(t, o.Listen("x", Func(func() { seen = o.Get("x") })))

	o.Set("x", 2)
	assert.Equal(t, 2, seen)
}

func TestObjectNotify(t *testing.T) {
	o := NewObject(map[string]any{"x": 1})
	var seen any

	require.NoError(t, Listen(o, "x", Func(func() { seen = o.Get("x") })))

	Notify(o, "x")
	assert.Equal(t, 1, seen)
}

func TestObjectRemove(t *testing.T) {
	o := NewObject(map[string]any{"x": 1})
	var seen any
	l := Func(func() { seen = o.Get("x") })

	require.NoError(t, o.Listen("x", l))
	o.Set("x", 2)
	Remove(o, "x", l)
	o.Set("x", 3)

	assert.Equal(t, 2, seen)

	// Removing twice is a no-op.
	o.Remove("x", l)
	o.Remove("missing", l)
}

func TestObjectListenerOrder(t *testing.T) {
	o := NewObject(map[string]any{"x": 0})
	var order []string
	for _, name := range []string{"A", "B", "C"} {
		name := name
		require.NoError(t, o.Listen("x", Func(func() { order = append(order, name) })))
	}

	o.Set("x", 1)

	assert.Equal(t, []string{"C", "B", "A"}, order)
}

func TestObjectListenNotObservable(t *testing.T) {
	o := NewObject(map[string]any{"x": 0})
	require.NoError(t, o.Define("fixed", Descriptor{Value: 1, Fixed: true}))

	tests := []struct {
		name string
		prop string
	}{
		{"missing property", "y"},
		{"fixed property", "fixed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := o.Listen(tt.prop, Func(func() {}))
			var target *NotObservableError
			require.True(t, errors.As(err, &target), "expected NotObservableError, got %v", err)
			assert.Equal(t, tt.prop, target.Property)
			assert.Same(t, o, target.Target)
			assert.Equal(t, "F003", target.Code())
		})
	}

	assert.Error(t, Listen(nil, "x", Func(func() {})))
}

func TestObjectAccessorWithSetter(t *testing.T) {
	var stored any = "a"
	o := NewObject(nil)
	require.NoError(t, o.Define("v", Descriptor{
		Get: func(*Object) any { return stored },
		Set: func(_ *Object, v any) { stored = v },
	}))

	calls := 0
	require.NoError(t, o.Listen("v", Func(func() { calls++ })))

	o.Set("v", "b")
	assert.Equal(t, "b", stored)
	assert.Equal(t, "b", o.Get("v"))
	assert.Equal(t, 1, calls)
}

func TestObjectAccessorReadOnly(t *testing.T) {
	o := NewObject(map[string]any{"a": 1, "b": 2})
	require.NoError(t, o.Define("total", Descriptor{
		Get: func(o *Object) any { return o.Get("a").(int) + o.Get("b").(int) },
	}))

	calls := 0
	require.NoError(t, o.Listen("total", Func(func() { calls++ })))

	o.Set("total", 100)
	assert.Equal(t, 3, o.Get("total"))
	assert.Zero(t, calls)

	o.Notify("total")
	assert.Equal(t, 1, calls)
}

func TestObjectDefineFixedTwice(t *testing.T) {
	o := NewObject(nil)
	require.NoError(t, o.Define("k", Descriptor{Value: 1, Fixed: true}))
	assert.Error(t, o.Define("k", Descriptor{Value: 2}))
	assert.Equal(t, 1, o.Get("k"))
}

func TestObjectKeysKeepOrder(t *testing.T) {
	o := NewObject(map[string]any{"b": 1, "a": 2})
	o.Set("c", 3)
	require.NoError(t, o.Define("d", Descriptor{Value: 4}))

	assert.Equal(t, []string{"a", "b", "c", "d"}, o.Keys())
	assert.True(t, o.Has("c"))
	assert.False(t, o.Has("z"))
}

func TestZeroObjectIsUsable(t *testing.T) {
	var o Object
	o.Set("x", 1)
	assert.Equal(t, 1, o.Get("x"))
}

func TestFromWrapsNestedValues(t *testing.T) {
	v := From(map[string]any{
		"user": map[string]any{"name": "Ada"},
		"tags": []any{"a", map[string]any{"k": 1}},
	})

	o, ok := v.(*Object)
	require.True(t, ok)
	user, ok := o.Get("user").(*Object)
	require.True(t, ok)
	assert.Equal(t, "Ada", user.Get("name"))

	tags, ok := o.Get("tags").(*Array)
	require.True(t, ok)
	assert.Equal(t, 2, tags.Len())
	assert.IsType(t, &Object{}, tags.At(1))

	assert.Equal(t, "Ada", Resolve(o, []string{"user", "name"}))
	assert.Equal(t, 2, Resolve(o, []string{"tags", "count"}))
	assert.Nil(t, Resolve(o, []string{"nope", "deeper"}))
}

func TestObjectSetWrapsValues(t *testing.T) {
	o := NewObject(nil)
	o.Set("y", map[string]any{"z": 3})
	assert.Equal(t, 3, Resolve(o, []string{"y", "z"}))
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(false))
	assert.False(t, Truthy(0))
	assert.False(t, Truthy(0.0))
	assert.False(t, Truthy(""))
	assert.True(t, Truthy(true))
	assert.True(t, Truthy(1))
	assert.True(t, Truthy("a"))
	assert.True(t, Truthy(NewObject(nil)))
}

func TestString(t *testing.T) {
	assert.Equal(t, "", String(nil))
	assert.Equal(t, "1", String(1))
	assert.Equal(t, "1.5", String(1.5))
	assert.Equal(t, "2", String(2.0))
	assert.Equal(t, "true", String(true))
	assert.Equal(t, "[object Object]", String(NewObject(map[string]any{"name": "a"})))
}

func TestCell(t *testing.T) {
	o := NewObject(map[string]any{"count": 1})
	count := Field[int](o, "count")

	var seen []int
	cancel, err := count.Watch(func(v int) { seen = append(seen, v) })
	require.NoError(t, err)

	count.Set(2)
	count.Set(3)
	cancel()
	count.Set(4)

	assert.Equal(t, []int{2, 3}, seen)
	assert.Equal(t, 4, count.Get())

	_, err = Field[int](o, "missing").Watch(func(int) {})
	assert.Error(t, err)
}
