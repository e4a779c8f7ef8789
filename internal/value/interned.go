package value

import "sync/atomic"

// InternedString is the backing store for KindString (spec §3.1, §4.3
// component C2). Strings are immutable once created; sharing is by
// pointer, so equality-by-value still requires comparing contents (see
// hash.go), but copying a Value never copies the string bytes.
//
// Grounded on the teacher's internal/interp/runtime/primitives.go string
// handling, restructured around an atomic ref-count instead of the
// teacher's GC-assisted lifetime (Weave has no GC, per spec §9).
type InternedString struct {
	s    string
	refs int32
}

func NewInternedString(s string) *InternedString {
	return &InternedString{s: s, refs: 1}
}

func (is *InternedString) Value() string { return is.s }

func (is *InternedString) Len() int { return len([]rune(is.s)) }

func (is *InternedString) retain() *InternedString {
	atomic.AddInt32(&is.refs, 1)
	return is
}

func (is *InternedString) release() {
	atomic.AddInt32(&is.refs, -1)
}
