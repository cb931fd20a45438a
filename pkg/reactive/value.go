package reactive

import (
	"fmt"
	"reflect"
	"strconv"
)

// From wraps decoded data so it can be observed: map[string]any becomes an
// *Object and []any becomes an *Array, recursively. map[any]any keys are
// converted with fmt. Other values are returned unchanged.
func From(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		return NewObject(vv)
	case map[any]any:
		m := make(map[string]any, len(vv))
		for k, x := range vv {
			m[fmt.Sprint(k)] = x
		}
		return NewObject(m)
	case []any:
		return NewArray(vv...)
	default:
		return v
	}
}

// Lookup reads one property of v. Plain maps are read directly; anything
// that is neither a Target nor a map yields nil.
func Lookup(v any, prop string) any {
	switch vv := v.(type) {
	case nil:
		return nil
	case Target:
		return vv.Get(prop)
	case map[string]any:
		return vv[prop]
	default:
		return nil
	}
}

// Resolve walks path from v with Lookup. An empty path returns v.
func Resolve(v any, path []string) any {
	for _, prop := range path {
		if v == nil {
			return nil
		}
		v = Lookup(v, prop)
	}
	return v
}

// Truthy reports whether v counts as true in a condition.
// nil, false, zero numbers, NaN and the empty string are false.
func Truthy(v any) bool {
	switch vv := v.(type) {
	case nil:
		return false
	case bool:
		return vv
	case string:
		return vv != ""
	}
	if f, ok := toFloat(v); ok {
		return f == f && f != 0
	}
	return true
}

// String formats v for text content. nil formats as the empty string.
func String(v any) string {
	switch vv := v.(type) {
	case nil:
		return ""
	case string:
		return vv
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(vv), 'f', -1, 32)
	case fmt.Stringer:
		return vv.String()
	default:
		return fmt.Sprint(v)
	}
}

// Number converts v to float64 when v is of a numeric kind.
func Number(v any) (float64, bool) { return toFloat(v) }

// toFloat converts numeric kinds to float64.
func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// same reports whether a and b are the same element for reorder matching.
// Comparable values use ==, everything else falls back to reflect.DeepEqual.
func same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
