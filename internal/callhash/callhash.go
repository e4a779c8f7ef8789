// Package callhash computes the 64-bit call-site hashes spec §4.5 requires
// every call site, binary operator, and property access to carry. The
// parser precomputes these at parse time; internal/stdlib (and any other
// native module) must derive the same hash for the same (name, arity) pair
// so dispatch is a single hash-table probe, so both sides import this
// package rather than each rolling their own hash/maphash seed.
package callhash

import "hash/maphash"

// seed is process-global and fixed for the lifetime of the program: two
// calls to FnHash/MethodHash with the same arguments anywhere in the
// process must agree, which a per-package maphash.MakeSeed() call cannot
// guarantee.
var seed = maphash.MakeSeed()

// FnHash is the "script" hash: name + arity, ignoring argument types and
// any receiver (spec §4.5 "one for the script form, no self").
func FnHash(name string, arity int) uint64 {
	return hashOf(name, arity, false)
}

// MethodHash is the "native method" hash: name + arity with an implicit
// leading receiver slot (spec §4.5 "one for the native method form, first
// argument as self"). A free function and a method sharing the same name
// and explicit-argument count resolve through two distinct hashes, so a
// host can register a method-style overload without colliding with a
// free-function one.
func MethodHash(name string, arity int) uint64 {
	return hashOf(name, arity, true)
}

func hashOf(name string, arity int, method bool) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	h.WriteString(name)
	if method {
		arity++
	}
	h.WriteByte(byte(arity))
	return h.Sum64()
}

// PropertyHash derives a call-site hash for a property getter or setter,
// distinguished from a same-named zero/one-arg function by a suffix tag
// (spec §3.3 "getter/setter name pair + pre-computed hashes").
func PropertyHash(name string, isSetter bool) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	h.WriteString(name)
	if isSetter {
		h.WriteString("=set")
	} else {
		h.WriteString("=get")
	}
	return h.Sum64()
}
