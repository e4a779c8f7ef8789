package engine

import (
	"fmt"
	"reflect"

	"github.com/weavelang/weave/internal/value"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// goToValue converts one Go reflect.Value produced by a host function's
// return into a script Value (spec §6 register_fn: "a registered Go
// function's return value is converted the same way its arguments were").
// Composite Go values convert structurally (slice -> array, map -> map);
// a struct (or pointer to one) is kept as a ForeignValue the script can
// only pass around or hand back to another registered function, not
// introspect; any other kind is an error.
func goToValue(rv reflect.Value) (value.Value, error) {
	if !rv.IsValid() {
		return value.Unit, nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		return value.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.Int(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return value.Float(rv.Float()), nil
	case reflect.String:
		return value.StringFromGo(rv.String()), nil
	case reflect.Slice, reflect.Array:
		arr := value.NewArray()
		for i := 0; i < rv.Len(); i++ {
			ev, err := goToValue(rv.Index(i))
			if err != nil {
				return value.Unit, err
			}
			arr.Push(ev)
		}
		return value.Array(arr), nil
	case reflect.Map:
		m := value.NewMap()
		iter := rv.MapRange()
		for iter.Next() {
			ev, err := goToValue(iter.Value())
			if err != nil {
				return value.Unit, err
			}
			m.Set(fmt.Sprint(iter.Key().Interface()), ev)
		}
		return value.Map(m), nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return value.Unit, nil
		}
		return goToValue(rv.Elem())
	case reflect.Struct:
		return value.Foreign(value.NewForeign(rv.Type().String(), rv.Interface())), nil
	default:
		return value.Unit, fmt.Errorf("engine: cannot convert Go %s to a script value", rv.Kind())
	}
}

// valueToGo converts a script Value into a reflect.Value assignable to
// want, the inverse of goToValue used when marshaling arguments into a
// registered Go function's call (spec §6 register_fn).
func valueToGo(v value.Value, want reflect.Type) (reflect.Value, error) {
	switch want.Kind() {
	case reflect.Bool:
		b, ok := v.AsBool()
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected bool, got %s", v.Kind())
		}
		return reflect.ValueOf(b), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, ok := v.AsInt()
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected int, got %s", v.Kind())
		}
		return reflect.ValueOf(i).Convert(want), nil
	case reflect.Float32, reflect.Float64:
		f, ok := v.AsFloat()
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected float, got %s", v.Kind())
		}
		return reflect.ValueOf(f).Convert(want), nil
	case reflect.String:
		s, ok := v.AsString()
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected string, got %s", v.Kind())
		}
		return reflect.ValueOf(s), nil
	case reflect.Slice:
		a, ok := v.AsArray()
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected array, got %s", v.Kind())
		}
		out := reflect.MakeSlice(want, a.Len(), a.Len())
		for i, e := range a.Each() {
			gv, err := valueToGo(e, want.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(gv)
		}
		return out, nil
	case reflect.Map:
		m, ok := v.AsMap()
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected map, got %s", v.Kind())
		}
		out := reflect.MakeMapWithSize(want, m.Len())
		for _, k := range m.Keys() {
			ev, _ := m.Get(k)
			gv, err := valueToGo(ev, want.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(want.Key()), gv)
		}
		return out, nil
	case reflect.Interface:
		if want.NumMethod() == 0 {
			return reflect.ValueOf(valueToAny(v)), nil
		}
		fv, ok := v.AsForeign()
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected a foreign value implementing %s, got %s", want, v.Kind())
		}
		pv := reflect.ValueOf(fv.Payload())
		if !pv.Type().Implements(want) {
			return reflect.Value{}, fmt.Errorf("foreign value %s does not implement %s", pv.Type(), want)
		}
		return pv, nil
	default:
		fv, ok := v.AsForeign()
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected a foreign %s value, got %s", want, v.Kind())
		}
		pv := reflect.ValueOf(fv.Payload())
		if !pv.Type().AssignableTo(want) {
			return reflect.Value{}, fmt.Errorf("foreign value holds %s, not assignable to %s", pv.Type(), want)
		}
		return pv, nil
	}
}

// valueToAny renders a script Value as a plain Go value (bool, int64,
// float64, string, []any, map[string]any, or a foreign payload), used by
// Result.Value so a host never has to import the internal Dynamic type
// to read an evaluation's result.
func valueToAny(v value.Value) any {
	switch v.Kind() {
	case value.KindUnit:
		return nil
	case value.KindBool:
		b, _ := v.AsBool()
		return b
	case value.KindInt:
		i, _ := v.AsInt()
		return i
	case value.KindFloat, value.KindDecimal:
		f, _ := v.AsFloat()
		return f
	case value.KindChar:
		r, _ := v.AsChar()
		return r
	case value.KindString:
		s, _ := v.AsString()
		return s
	case value.KindArray:
		a, _ := v.AsArray()
		out := make([]any, 0, a.Len())
		for _, e := range a.Each() {
			out = append(out, valueToAny(e))
		}
		return out
	case value.KindMap:
		m, _ := v.AsMap()
		out := make(map[string]any, m.Len())
		for _, k := range m.Keys() {
			e, _ := m.Get(k)
			out[k] = valueToAny(e)
		}
		return out
	case value.KindBlob:
		b, _ := v.AsBlob()
		return b
	case value.KindFnPtr:
		fp, _ := v.AsFnPtr()
		return fp.Name()
	case value.KindTimestamp:
		t, _ := v.AsTimestamp()
		return t
	case value.KindForeign:
		fv, _ := v.AsForeign()
		return fv.Payload()
	default:
		return v.String()
	}
}
