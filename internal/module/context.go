package module

import "github.com/weavelang/weave/internal/token"

// CallContext is the NativeCallContext passed to every NativeFn (spec
// §4.2 "Native functions receive a context, not a raw argument slice
// alone"): source position for error reporting, the function name as
// resolved at the call site, and a hook back into the engine for
// functions that need to call back into script code (e.g. a registered
// `sort` taking a comparator FnPtr).
type CallContext struct {
	Pos       token.Position
	FnName    string
	ThisPtr   bool // true if args[0] is the method receiver
	CallFn    func(name string, args []any) (any, error)
	EngineTag string // opaque engine instance id, for diagnostics
}
