// Package value implements the CORE value system (spec §3.1, §4.3,
// component C1): a tagged value ("Dynamic") supporting reference-counted
// sharing, interior mutability, and safe downcasting.
//
// Grounded on the teacher's internal/interp/runtime package (primitives.go,
// variant.go, refcount.go): the same constructor-per-kind shape and
// reference-counted wrapper idea, restructured as spec.md's design notes
// require — "the value type is an explicit tagged sum, not a polymorphic
// object" — rather than the teacher's Value-interface-plus-concrete-types
// hierarchy. Scalars are carried inline; only the composite kinds allocate.
package value

import "time"

// Kind discriminates the tagged sum (spec §3.1).
type Kind uint8

const (
	KindUnit Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindChar
	KindString
	KindArray
	KindBlob
	KindMap
	KindFnPtr
	KindTimestamp
	KindForeign
	KindShared
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "()"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindBlob:
		return "blob"
	case KindMap:
		return "map"
	case KindFnPtr:
		return "fn_ptr"
	case KindTimestamp:
		return "timestamp"
	case KindForeign:
		return "foreign"
	case KindShared:
		return "shared"
	default:
		return "unknown"
	}
}

// Access is the read-write/read-only bit carried on every Value (spec
// §3.1: "Read-only is not a type; it is a bit on the value").
type Access uint8

const (
	ReadWrite Access = iota
	ReadOnly
)

// Value is the engine's Dynamic tagged value. Scalars (unit, bool, int,
// float, decimal, char) live in the i/f fields with no allocation; every
// other kind stores its payload in ref.
type Value struct {
	kind   Kind
	access Access
	tag    int32
	i      int64
	f      float64
	ref    any
}

// Unit is the canonical unit value.
var Unit = Value{kind: KindUnit}

func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.i = 1
	}
	return v
}

func Int(i int64) Value     { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func Decimal(f float64) Value { return Value{kind: KindDecimal, f: f} }
func Char(r rune) Value     { return Value{kind: KindChar, i: int64(r)} }
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, ref: t} }

func String(s *InternedString) Value { return Value{kind: KindString, ref: s} }
func StringFromGo(s string) Value    { return Value{kind: KindString, ref: NewInternedString(s)} }

func Array(a *ArrayValue) Value { return Value{kind: KindArray, ref: a} }
func Blob(b []byte) Value       { return Value{kind: KindBlob, ref: b} }
func Map(m *MapValue) Value     { return Value{kind: KindMap, ref: m} }
func FnPointer(fp *FnPtr) Value { return Value{kind: KindFnPtr, ref: fp} }
func Foreign(f *ForeignValue) Value { return Value{kind: KindForeign, ref: f} }

func (v Value) Kind() Kind        { return v.kind }
func (v Value) Tag() int32        { return v.tag }
func (v Value) WithTag(tag int32) Value {
	v.tag = tag
	return v
}
func (v Value) IsReadOnly() bool  { return v.access == ReadOnly }
func (v Value) IsUnit() bool      { return v.kind == KindUnit }

// AsBool returns the underlying bool and whether v actually holds one
// (following through a shared cell).
func (v Value) AsBool() (bool, bool) {
	v = v.readThroughShared()
	if v.kind != KindBool {
		return false, false
	}
	return v.i != 0, true
}

func (v Value) AsInt() (int64, bool) {
	v = v.readThroughShared()
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

func (v Value) AsFloat() (float64, bool) {
	v = v.readThroughShared()
	switch v.kind {
	case KindFloat, KindDecimal:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

func (v Value) AsChar() (rune, bool) {
	v = v.readThroughShared()
	if v.kind != KindChar {
		return 0, false
	}
	return rune(v.i), true
}

// AsString returns the Go string form of a KindString value (following
// through a shared cell).
func (v Value) AsString() (string, bool) {
	v = v.readThroughShared()
	if v.kind != KindString {
		return "", false
	}
	return v.ref.(*InternedString).Value(), true
}

func (v Value) AsArray() (*ArrayValue, bool) {
	v = v.readThroughShared()
	if v.kind != KindArray {
		return nil, false
	}
	return v.ref.(*ArrayValue), true
}

func (v Value) AsBlob() ([]byte, bool) {
	v = v.readThroughShared()
	if v.kind != KindBlob {
		return nil, false
	}
	return v.ref.([]byte), true
}

func (v Value) AsMap() (*MapValue, bool) {
	v = v.readThroughShared()
	if v.kind != KindMap {
		return nil, false
	}
	return v.ref.(*MapValue), true
}

func (v Value) AsFnPtr() (*FnPtr, bool) {
	v = v.readThroughShared()
	if v.kind != KindFnPtr {
		return nil, false
	}
	return v.ref.(*FnPtr), true
}

func (v Value) AsTimestamp() (time.Time, bool) {
	v = v.readThroughShared()
	if v.kind != KindTimestamp {
		return time.Time{}, false
	}
	return v.ref.(time.Time), true
}

// AsForeign returns the ForeignValue wrapper, honoring the borrowed
// generation check (spec §3.1): a stale borrow returns (nil, false).
func (v Value) AsForeign() (*ForeignValue, bool) {
	v = v.readThroughShared()
	if v.kind != KindForeign {
		return nil, false
	}
	fv := v.ref.(*ForeignValue)
	if !fv.alive() {
		return nil, false
	}
	return fv, true
}
