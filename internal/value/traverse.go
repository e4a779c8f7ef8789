package value

// Visitor is called once per value reachable from a DeepScan root,
// including the root itself. Returning false stops descending into that
// value's children (but sibling traversal continues).
type Visitor func(v Value) bool

// DeepScan walks v and, for array/map/shared composites, their contents,
// without ever recursing into the same *ArrayValue/*MapValue/*Shared
// twice (spec §4.3 "Deep operations must tolerate cycles introduced by
// shared cells"). It is the basis for the engine's deep-clone and
// deep-equality helpers.
func DeepScan(v Value, visit Visitor) {
	deepScan(v, visit, map[any]bool{})
}

func deepScan(v Value, visit Visitor, seen map[any]bool) {
	if !visit(v) {
		return
	}
	switch v.kind {
	case KindShared:
		s := v.ref.(*Shared)
		if seen[s] {
			return
		}
		seen[s] = true
		deepScan(s.Read(), visit, seen)
	case KindArray:
		arr := v.ref.(*ArrayValue)
		if seen[arr] {
			return
		}
		seen[arr] = true
		for _, e := range arr.elems {
			deepScan(e, visit, seen)
		}
	case KindMap:
		m := v.ref.(*MapValue)
		if seen[m] {
			return
		}
		seen[m] = true
		for _, k := range m.keys {
			deepScan(m.entries[k], visit, seen)
		}
	}
}
