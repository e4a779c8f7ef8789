package value

import "hash/maphash"

var hashSeed = maphash.MakeSeed()

// Hash computes a stable hash for v, returning ok=false for kinds the
// spec declares non-hashable (spec §4.3 "Map keys and set-like usage
// require a hashable value"): arrays, maps, function pointers and
// foreign objects never participate in hashing, since their identity or
// contents can change under them via a shared cell.
//
// Grounded on the same hash/maphash primitive the per-frame resolution
// cache uses (internal/module bloom filter) — justified stdlib-only in
// DESIGN.md, the same reasoning applies here: this is an exact,
// fixed-shape hash over a handful of scalar kinds, not a general-purpose
// hashing library's use case.
func Hash(v Value) (uint64, bool) {
	v = v.readThroughShared()
	var h maphash.Hash
	h.SetSeed(hashSeed)
	switch v.kind {
	case KindUnit:
		h.WriteByte(byte(KindUnit))
	case KindBool:
		h.WriteByte(byte(KindBool))
		h.WriteByte(byte(v.i))
	case KindInt:
		h.WriteByte(byte(KindInt))
		writeInt64(&h, v.i)
	case KindFloat, KindDecimal:
		h.WriteByte(byte(v.kind))
		writeInt64(&h, int64(v.f*1e9))
	case KindChar:
		h.WriteByte(byte(KindChar))
		writeInt64(&h, v.i)
	case KindString:
		h.WriteByte(byte(KindString))
		h.WriteString(v.ref.(*InternedString).Value())
	default:
		return 0, false
	}
	return h.Sum64(), true
}

// IsHashable reports whether v's kind can be used as a map key.
func IsHashable(v Value) bool {
	_, ok := Hash(v)
	return ok
}

func writeInt64(h *maphash.Hash, n int64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(n >> (8 * i))
	}
	h.Write(buf[:])
}
