package eval

import (
	"github.com/weavelang/weave/internal/token"
	"github.com/weavelang/weave/internal/value"
	"github.com/weavelang/weave/internal/werror"
)

// iteratorFor produces a pull-based iterator over container for `for`
// loops (spec §4.1). Arrays (which ranges evaluate to), maps (values
// only) and strings (one char per step) are built in; a foreign value is
// looked up by its type name via an IteratorFactory registered on the
// script's own module (Interp.Own) only, not on the resolver's imported
// or global modules (spec §4.2 "custom iterable types").
func (ip *Interp) iteratorFor(container value.Value, pos token.Position) (func() (value.Value, bool), error) {
	switch container.Kind() {
	case value.KindArray:
		arr, _ := container.AsArray()
		i := 0
		return func() (value.Value, bool) {
			if i >= arr.Len() {
				return value.Value{}, false
			}
			v, _ := arr.Get(i)
			i++
			return v, true
		}, nil
	case value.KindMap:
		m, _ := container.AsMap()
		keys := m.Keys()
		i := 0
		return func() (value.Value, bool) {
			if i >= len(keys) {
				return value.Value{}, false
			}
			v, _ := m.Get(keys[i])
			i++
			return v, true
		}, nil
	case value.KindString:
		s, _ := container.AsString()
		runes := []rune(s)
		i := 0
		return func() (value.Value, bool) {
			if i >= len(runes) {
				return value.Value{}, false
			}
			r := runes[i]
			i++
			return value.Char(r), true
		}, nil
	}
	if fv, ok := container.AsForeign(); ok {
		if m, ok := ip.Own.Iterator(fv.TypeName); ok {
			return m(container), nil
		}
	}
	return nil, werror.New(werror.KindTypeMismatch, pos, "type %s is not iterable", container.Kind())
}

// rangeToArray materializes a RangeExpr into an array for contexts that
// need eager enumeration (e.g. array-of-range spread), used by expr.go.
func rangeToArray(from, to int64, inclusive bool) *value.ArrayValue {
	if inclusive {
		to++
	}
	arr := value.NewArray()
	for i := from; i < to; i++ {
		arr.Push(value.Int(i))
	}
	return arr
}
