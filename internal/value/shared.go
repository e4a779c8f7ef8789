package value

import "sync"

// Shared is a reference-counted, interior-mutable holder of another Value
// (spec §3.1, §9 "Shared cells replace closure capture and aliasing").
// Grounded on the teacher's internal/interp/runtime/refcount.go: a plain
// sync.RWMutex guards the contents, matching the teacher's own
// stdlib-only, callback-free ref-count manager shape.
type Shared struct {
	mu    sync.RWMutex
	inner Value
	refs  int32
}

func newShared(v Value) *Shared {
	return &Shared{inner: v, refs: 1}
}

func (s *Shared) retain() *Shared {
	s.mu.Lock()
	s.refs++
	s.mu.Unlock()
	return s
}

func (s *Shared) release() {
	s.mu.Lock()
	s.refs--
	s.mu.Unlock()
}

// Read returns a copy of the contained value under a read lock.
func (s *Shared) Read() Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner
}

// Write replaces the contained value under a write lock. Per spec §5, a
// write while a read is outstanding on a single-threaded build would be a
// data-race error in the true Rhai design; Weave's RWMutex makes that
// window safe by blocking instead, which is the stated thread-safe-build
// behavior (spec §5) — acceptable since Weave has no single-threaded
// "unchecked" build variant.
func (s *Shared) Write(v Value) {
	s.mu.Lock()
	s.inner = v
	s.mu.Unlock()
}

func (v Value) readThroughShared() Value {
	if v.kind != KindShared {
		return v
	}
	return v.ref.(*Shared).Read()
}

// IsShared reports whether v is itself a shared cell (as opposed to a
// value merely reachable through one).
func (v Value) IsShared() bool { return v.kind == KindShared }

// WriteThrough replaces the contents of v's shared cell with newVal,
// returning false if v is not itself a shared cell (spec §4.1 "assigning
// to an aliased/captured variable writes through its cell").
func (v Value) WriteThrough(newVal Value) bool {
	if v.kind != KindShared {
		return false
	}
	v.ref.(*Shared).Write(newVal)
	return true
}

// IntoShared wraps v in a shared cell unless it already is one (spec
// §4.3). Shared cells never nest: wrapping a shared value returns it
// unchanged (the "flatten-on-wrap" invariant, spec §3.1).
func (v Value) IntoShared() Value {
	if v.kind == KindShared {
		return v
	}
	return Value{kind: KindShared, ref: newShared(v)}
}

// Flatten extracts the inner value if v is an exclusively-owned shared
// cell, otherwise clones the contents under a read lock (spec §4.3).
func (v Value) Flatten() Value {
	if v.kind != KindShared {
		return v
	}
	s := v.ref.(*Shared)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs <= 1 {
		return s.inner
	}
	return s.inner.Clone()
}

// FlattenClone always clones the contained value, even if v is the sole
// owner (spec §4.3).
func (v Value) FlattenClone() Value {
	if v.kind != KindShared {
		return v.Clone()
	}
	return v.ref.(*Shared).Read().Clone()
}

// Clone produces a read-write copy; composite kinds get their own backing
// storage, scalars copy by value. Constants regain read-only access only
// when looked up again from a scope (spec §4.3).
func (v Value) Clone() Value {
	out := v
	out.access = ReadWrite
	switch v.kind {
	case KindArray:
		out.ref = v.ref.(*ArrayValue).clone()
	case KindMap:
		out.ref = v.ref.(*MapValue).clone()
	case KindShared:
		out.ref = newShared(v.ref.(*Shared).Read().Clone())
	}
	return out
}

// SetAccessMode sets v's access bit and, for arrays/maps, propagates it
// into every element/value so a literal constant becomes deeply read-only
// (spec §4.3).
func (v Value) SetAccessMode(mode Access) Value {
	v.access = mode
	switch v.kind {
	case KindArray:
		arr := v.ref.(*ArrayValue)
		for i := range arr.elems {
			arr.elems[i] = arr.elems[i].SetAccessMode(mode)
		}
	case KindMap:
		m := v.ref.(*MapValue)
		for _, k := range m.keys {
			m.entries[k] = m.entries[k].SetAccessMode(mode)
		}
	}
	return v
}
