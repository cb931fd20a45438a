package script

import (
	"github.com/dop251/goja"

	"github.com/funa-dev/funa/pkg/reactive"
)

// objectProxy exposes a reactive Object as a JavaScript object.
type objectProxy struct {
	e   *Engine
	obj *reactive.Object
}

func (p *objectProxy) Get(key string) goja.Value {
	if !p.obj.Has(key) {
		return nil
	}
	return p.e.toJS(p.obj.Get(key))
}

func (p *objectProxy) Set(key string, val goja.Value) bool {
	p.obj.Set(key, p.e.fromJS(val))
	return true
}

func (p *objectProxy) Has(key string) bool { return p.obj.Has(key) }

func (p *objectProxy) Delete(string) bool { return false }

func (p *objectProxy) Keys() []string { return p.obj.Keys() }

// arrayProxy exposes a reactive Array as a JavaScript array. Writes go
// through Splice and Push so list bindings see every change.
type arrayProxy struct {
	e   *Engine
	arr *reactive.Array
}

func (p *arrayProxy) Len() int { return p.arr.Len() }

func (p *arrayProxy) Get(idx int) goja.Value {
	if idx < 0 || idx >= p.arr.Len() {
		return nil
	}
	return p.e.toJS(p.arr.At(idx))
}

func (p *arrayProxy) Set(idx int, val goja.Value) bool {
	n := p.arr.Len()
	switch {
	case idx >= 0 && idx < n:
		p.arr.Splice(idx, 1, p.e.fromJS(val))
	case idx == n:
		p.arr.Push(p.e.fromJS(val))
	default:
		return false
	}
	return true
}

func (p *arrayProxy) SetLen(n int) bool {
	l := p.arr.Len()
	switch {
	case n < 0:
		return false
	case n < l:
		p.arr.Splice(n, l-n)
	case n > l:
		p.arr.Push(make([]any, n-l)...)
	}
	return true
}

// toJS converts a Go value for the script. Objects and arrays become
// live views.
func (e *Engine) toJS(v any) goja.Value {
	switch x := v.(type) {
	case nil:
		return goja.Null()
	case goja.Value:
		return x
	case *reactive.Object:
		return e.vm.NewDynamicObject(&objectProxy{e: e, obj: x})
	case *reactive.Array:
		return e.vm.NewDynamicArray(&arrayProxy{e: e, arr: x})
	case []any:
		vals := make([]any, len(x))
		for i, item := range x {
			vals[i] = e.toJS(item)
		}
		return e.vm.NewArray(vals...)
	default:
		return e.vm.ToValue(v)
	}
}

// fromJS converts a script value back. Live views unwrap to the values
// they expose.
func (e *Engine) fromJS(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return unwrap(v.Export())
}

func unwrap(v any) any {
	switch x := v.(type) {
	case *objectProxy:
		return x.obj
	case *arrayProxy:
		return x.arr
	case []any:
		for i, item := range x {
			x[i] = unwrap(item)
		}
		return x
	case map[string]any:
		for k, item := range x {
			x[k] = unwrap(item)
		}
		return x
	default:
		return v
	}
}
