package scope

import (
	"testing"

	"github.com/weavelang/weave/internal/value"
)

func TestPushGetByIndex(t *testing.T) {
	s := New()
	idx := s.Push("x", value.Int(5))
	v, ok := s.GetByIndex(idx)
	if !ok {
		t.Fatal("expected GetByIndex to find pushed value")
	}
	if i, _ := v.AsInt(); i != 5 {
		t.Fatalf("got %d, want 5", i)
	}
}

func TestShadowingFindsInnermost(t *testing.T) {
	s := New()
	s.Push("x", value.Int(1))
	s.Push("x", value.Int(2))
	v, idx, ok := s.Get("x")
	if !ok {
		t.Fatal("expected to find x")
	}
	if i, _ := v.AsInt(); i != 2 {
		t.Fatalf("expected innermost shadow (2), got %d", i)
	}
	if idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
}

func TestRewindDiscardsLocals(t *testing.T) {
	s := New()
	s.Push("a", value.Int(1))
	mark := s.Len()
	s.Push("b", value.Int(2))
	s.Rewind(mark)
	if _, _, ok := s.Get("b"); ok {
		t.Fatal("expected b to be discarded after rewind")
	}
	if _, _, ok := s.Get("a"); !ok {
		t.Fatal("expected a to survive rewind")
	}
}

func TestBarrierStopsUpwardSearch(t *testing.T) {
	s := New()
	s.Push("outer", value.Int(1))
	s.PushBarrier()
	s.Push("inner", value.Int(2))
	if _, _, ok := s.Get("outer"); ok {
		t.Fatal("expected barrier to hide outer locals from a call frame")
	}
	if _, _, ok := s.Get("inner"); !ok {
		t.Fatal("expected inner local to be visible")
	}
	s.PopBarrier()
	if _, _, ok := s.Get("outer"); !ok {
		t.Fatal("expected outer local to be visible again once barrier popped")
	}
}

func TestConstIsReadOnly(t *testing.T) {
	s := New()
	idx := s.PushConstant("PI", value.Float(3.14))
	if !s.IsConstAt(idx) {
		t.Fatal("expected PushConstant entry to be marked const")
	}
	v, _ := s.GetByIndex(idx)
	if !v.IsReadOnly() {
		t.Fatal("expected constant value to carry the read-only access bit")
	}
}

func TestShareMakesWritesVisibleThroughAlias(t *testing.T) {
	s := New()
	idx := s.Push("counter", value.Int(0))
	shared := s.Share(idx)
	if !shared.IsShared() {
		t.Fatal("expected Share to wrap the value in a shared cell")
	}
	shared.WriteThrough(value.Int(7))
	v, _ := s.GetByIndex(idx)
	i, ok := v.AsInt()
	if !ok || i != 7 {
		t.Fatalf("expected shared write visible at index, got %d %v", i, ok)
	}
}
