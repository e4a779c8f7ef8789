package value

// FnPtr backs KindFnPtr: a symbolic reference to a function by name,
// optionally curried with leading arguments and closed over a set of
// captured variables (spec §4.4 "Function pointers and closures").
//
// Captured variables are always Shared cells by the time they reach here
// — the parser records which outer names a `|params| body` closure
// literal reads (FnExpr.Captures), and evaluating that literal promotes
// each one to a Shared cell in place (scope.Scope.Share, spec §4.4/§9
// "share statement synthesis") before binding it here, so FnPtr itself
// only needs to remember name -> shared Value, never a full scope.
type FnPtr struct {
	name      string
	curry     []Value
	captures  map[string]Value
	anonymous bool
}

func NewFnPtr(name string) *FnPtr {
	return &FnPtr{name: name}
}

func NewAnonymousFnPtr(name string, captures map[string]Value) *FnPtr {
	return &FnPtr{name: name, captures: captures, anonymous: true}
}

func (fp *FnPtr) Name() string { return fp.name }

func (fp *FnPtr) IsAnonymous() bool { return fp.anonymous }

func (fp *FnPtr) Curry() []Value { return fp.curry }

// WithCurry returns a new FnPtr with extra arguments appended to the
// curry list, sharing the same captures (spec §4.4 `Fn.curry`).
func (fp *FnPtr) WithCurry(args ...Value) *FnPtr {
	out := &FnPtr{name: fp.name, captures: fp.captures, anonymous: fp.anonymous}
	out.curry = append(append([]Value{}, fp.curry...), args...)
	return out
}

func (fp *FnPtr) Capture(name string) (Value, bool) {
	v, ok := fp.captures[name]
	return v, ok
}

func (fp *FnPtr) Captures() map[string]Value { return fp.captures }
