package stdlib

import (
	"strings"

	"github.com/weavelang/weave/internal/callhash"
	"github.com/weavelang/weave/internal/value"
)

// hashOf computes the same call-site hash the parser precomputes (spec
// §4.5: name + arity, ignoring argument types), via the shared
// internal/callhash package, so these built-ins are reachable the same
// way any other module function is — through Resolver.Resolve, not a
// special case in the evaluator.
func hashOf(name string, arity int) uint64 {
	return callhash.FnHash(name, arity)
}

func equalForContains(a, b value.Value) bool {
	if ai, ok := a.AsInt(); ok {
		bi, ok := b.AsInt()
		return ok && ai == bi
	}
	if af, ok := a.AsFloat(); ok {
		bf, ok := b.AsFloat()
		return ok && af == bf
	}
	if as, ok := a.AsString(); ok {
		bs, ok := b.AsString()
		return ok && as == bs
	}
	if ab, ok := a.AsBool(); ok {
		bb, ok := b.AsBool()
		return ok && ab == bb
	}
	return false
}

func stringContains(s, sub string) bool {
	return strings.Contains(s, sub)
}
