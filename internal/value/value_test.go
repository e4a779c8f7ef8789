package value

import "testing"

func TestScalarRoundTrip(t *testing.T) {
	if b, ok := Bool(true).AsBool(); !ok || !b {
		t.Fatalf("Bool round trip failed: %v %v", b, ok)
	}
	if i, ok := Int(42).AsInt(); !ok || i != 42 {
		t.Fatalf("Int round trip failed: %v %v", i, ok)
	}
	if f, ok := Float(1.5).AsFloat(); !ok || f != 1.5 {
		t.Fatalf("Float round trip failed: %v %v", f, ok)
	}
	if f, ok := Int(3).AsFloat(); !ok || f != 3.0 {
		t.Fatalf("Int->Float widening failed: %v %v", f, ok)
	}
	if c, ok := Char('x').AsChar(); !ok || c != 'x' {
		t.Fatalf("Char round trip failed: %v %v", c, ok)
	}
	if s, ok := StringFromGo("hi").AsString(); !ok || s != "hi" {
		t.Fatalf("String round trip failed: %q %v", s, ok)
	}
}

func TestSharedCellReadThrough(t *testing.T) {
	v := Int(5).IntoShared()
	if v.Kind() != KindShared {
		t.Fatalf("expected KindShared, got %s", v.Kind())
	}
	i, ok := v.AsInt()
	if !ok || i != 5 {
		t.Fatalf("shared read-through failed: %v %v", i, ok)
	}
}

func TestSharedNeverNests(t *testing.T) {
	v := Int(5).IntoShared()
	doubled := v.IntoShared()
	if doubled.ref.(*Shared) != v.ref.(*Shared) {
		t.Fatal("IntoShared on an already-shared value should not re-wrap")
	}
}

func TestSharedWriteVisibleThroughAlias(t *testing.T) {
	v := Int(1).IntoShared()
	alias := v
	v.ref.(*Shared).Write(Int(99))
	i, _ := alias.AsInt()
	if i != 99 {
		t.Fatalf("expected alias to observe write, got %d", i)
	}
}

func TestArrayBasics(t *testing.T) {
	arr := NewArray(Int(1), Int(2), Int(3))
	v := Array(arr)
	a, ok := v.AsArray()
	if !ok || a.Len() != 3 {
		t.Fatalf("expected array of len 3, got %v %v", a, ok)
	}
	a.Push(Int(4))
	if a.Len() != 4 {
		t.Fatal("push did not grow array")
	}
	if _, ok := a.Get(10); ok {
		t.Fatal("expected out-of-range Get to fail")
	}
}

func TestNormalizeIndex(t *testing.T) {
	if i, ok := NormalizeIndex(-1, 3); !ok || i != 2 {
		t.Fatalf("expected -1 to normalize to 2, got %d %v", i, ok)
	}
	if _, ok := NormalizeIndex(-4, 3); ok {
		t.Fatal("expected out-of-range negative index to fail")
	}
}

func TestMapInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("b", Int(2))
	m.Set("a", Int(1))
	m.Set("b", Int(20))
	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("expected insertion order preserved, got %v", keys)
	}
	v, _ := m.Get("b")
	if i, _ := v.AsInt(); i != 20 {
		t.Fatal("expected overwrite to update value in place")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	arr := NewArray(Int(1))
	v := Array(arr)
	clone := v.Clone()
	arr.Push(Int(2))
	ca, _ := clone.AsArray()
	if ca.Len() != 1 {
		t.Fatalf("expected clone to be unaffected by later mutation, got len %d", ca.Len())
	}
}

func TestHashStableAndSelective(t *testing.T) {
	h1, ok1 := Hash(Int(7))
	h2, ok2 := Hash(Int(7))
	if !ok1 || !ok2 || h1 != h2 {
		t.Fatal("expected identical Int values to hash identically")
	}
	if _, ok := Hash(Array(NewArray())); ok {
		t.Fatal("expected arrays to be non-hashable")
	}
}

func TestDisplayArrayCycle(t *testing.T) {
	arr := NewArray(Int(1))
	self := Array(arr).IntoShared()
	arr.Push(self)
	got := Array(arr).String()
	if got == "" {
		t.Fatal("expected non-empty string even with a cycle")
	}
}

func TestDowncastForeign(t *testing.T) {
	type point struct{ X, Y int }
	fv := NewForeign("Point", point{1, 2})
	v := Foreign(fv)
	if !Is[point](v) {
		t.Fatal("expected Is[point] to succeed")
	}
	p, ok := Downcast[point](v)
	if !ok || p.X != 1 || p.Y != 2 {
		t.Fatalf("downcast mismatch: %v %v", p, ok)
	}
	if Is[string](v) {
		t.Fatal("expected Is[string] to fail for a point payload")
	}
}

func TestDeepScanVisitsNestedArray(t *testing.T) {
	inner := NewArray(Int(1), Int(2))
	outer := NewArray(Array(inner))
	count := 0
	DeepScan(Array(outer), func(v Value) bool {
		count++
		return true
	})
	if count < 4 {
		t.Fatalf("expected DeepScan to visit outer+inner+2 ints, got %d visits", count)
	}
}
