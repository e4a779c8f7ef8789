package value

import "fmt"

// Is reports whether v holds a foreign value whose payload is of type T
// (spec §4.2 "Type-checked downcast of custom types").
func Is[T any](v Value) bool {
	_, ok := Downcast[T](v)
	return ok
}

// Downcast extracts a foreign value's payload as T, following through a
// shared cell first. It never panics.
func Downcast[T any](v Value) (T, bool) {
	var zero T
	fv, ok := v.AsForeign()
	if !ok {
		return zero, false
	}
	t, ok := fv.Payload().(T)
	return t, ok
}

// Cast is Downcast but panics on mismatch; callers use it only where a
// prior type-check guarantees success (e.g. inside a native fn already
// dispatched on that signature).
func Cast[T any](v Value) T {
	t, ok := Downcast[T](v)
	if !ok {
		panic(fmt.Sprintf("value: cannot cast %s to requested foreign type", v.Kind()))
	}
	return t
}

// TryCast is Downcast with an error instead of a bool, for call sites
// that want to propagate the failure as a werror.Error cause.
func TryCast[T any](v Value) (T, error) {
	t, ok := Downcast[T](v)
	if !ok {
		var zero T
		return zero, fmt.Errorf("value: cannot cast %s to requested foreign type", v.Kind())
	}
	return t, nil
}
