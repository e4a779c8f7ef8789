package module

import "hash/maphash"

// Resolver layers module lookup (spec §4.5): an ordered list of imported
// modules, searched in import order, with the global/root module checked
// last. The script's own functions are not part of it; the evaluator
// checks Program.Functions itself. A per-frame cache
// remembers both hits and misses once a hash has been looked up twice,
// gated by a bloom filter so a one-off call site never occupies a cache
// slot.
//
// Grounded on the overall shape of the teacher's MethodRegistry, with
// the bloom filter and cache themselves new infrastructure — justified
// stdlib-only in DESIGN.md: spec.md pins the filter to "a 64-bit bloom
// filter", a fixed, exact, tiny structure not warranting a third-party
// dependency.
type Resolver struct {
	root    *Module
	imports []*Module
	cache   *resolveCache
}

func NewResolver(root *Module) *Resolver {
	return &Resolver{root: root, cache: newResolveCache()}
}

func (r *Resolver) Import(m *Module) { r.imports = append(r.imports, m) }

// Resolve finds the overload set for hash: a cache hit (positive or
// negative) returns immediately; otherwise it walks imports in order,
// then root, and reports the result to the cache (spec §4.5 "the cache
// maps hash -> optional resolution result ... on first encounter of a
// hash the filter is updated but the cache is not; on the second
// encounter the cache is populated" — this defeats one-hit-wonders like a
// literal expression's single hashed operator call, which would
// otherwise occupy a cache slot it's never queried again).
func (r *Resolver) Resolve(hash uint64) ([]*FuncEntry, bool) {
	if entries, ok, cached := r.cache.get(hash); cached {
		return entries, ok
	}

	entries, ok := r.resolve(hash)

	if r.cache.seenBefore(hash) {
		r.cache.put(hash, entries, ok)
	}
	return entries, ok
}

func (r *Resolver) resolve(hash uint64) ([]*FuncEntry, bool) {
	for _, m := range r.imports {
		if entries, ok := m.Lookup(hash); ok {
			return entries, true
		}
	}
	if entries, ok := r.root.Lookup(hash); ok {
		return entries, true
	}
	return nil, false
}

// ResetFrame clears the per-frame cache; call this whenever the active
// call stack frame changes, since the set of reachable modules (and
// hence which hashes are misses) is frame-scoped, not session-global.
func (r *Resolver) ResetFrame() { r.cache.reset() }

// resolveCache is the per-frame resolution cache (spec §4.5): a 64-bit
// bloom filter of hashes seen once, gating a hash -> resolved-entries
// map populated only from the second encounter onward. A hash that
// never recurs within the frame never occupies a cache slot.
type resolveCache struct {
	bits  uint64
	seed  maphash.Seed
	cache map[uint64]cacheEntry
}

type cacheEntry struct {
	entries []*FuncEntry
	ok      bool
}

func newResolveCache() *resolveCache {
	return &resolveCache{seed: maphash.MakeSeed()}
}

func (c *resolveCache) bitFor(hash uint64) uint64 {
	var h maphash.Hash
	h.SetSeed(c.seed)
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(hash >> (8 * i))
	}
	h.Write(buf[:])
	return uint64(1) << (h.Sum64() % 64)
}

// get reports the cached resolution for hash, if any. The third return
// value is whether the cache actually held an entry; ok (the second
// return) is only meaningful when it's true.
func (c *resolveCache) get(hash uint64) (entries []*FuncEntry, ok bool, cached bool) {
	if c.cache == nil {
		return nil, false, false
	}
	e, found := c.cache[hash]
	return e.entries, e.ok, found
}

// seenBefore reports whether hash was already looked up earlier in this
// frame, via the bloom filter, and records the first sighting if not. A
// false positive (a different hash sharing the same bit) only causes a
// hash to get cached one encounter earlier than strictly necessary; a
// false negative — forgetting a real earlier sighting — is not
// permitted, since the filter is only ever OR'd into, never cleared
// except by ResetFrame.
func (c *resolveCache) seenBefore(hash uint64) bool {
	bit := c.bitFor(hash)
	seen := c.bits&bit != 0
	c.bits |= bit
	return seen
}

func (c *resolveCache) put(hash uint64, entries []*FuncEntry, ok bool) {
	if c.cache == nil {
		c.cache = make(map[uint64]cacheEntry)
	}
	c.cache[hash] = cacheEntry{entries: entries, ok: ok}
}

func (c *resolveCache) reset() {
	c.bits = 0
	c.cache = nil
}
