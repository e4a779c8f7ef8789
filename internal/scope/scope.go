// Package scope implements the CORE scope system (spec §3.2, §4.1): a
// single flat, ordered stack of (name, access, value) entries rather than
// the teacher's chain of nested Environments. Parser-resolved local
// variable indices (internal/parser, internal/ast.Variable.Index) address
// directly into this stack, so lookups at eval time never walk a chain —
// the index computed during parsing is the variable's offset above the
// active function frame's barrier (see ResolveLocal).
//
// Grounded on the teacher's internal/interp/runtime/environment.go for
// the overall API shape (Get/Set/Define/Has/Range), generalized from a
// nested-map chain to an indexable flat stack per spec §3.2's "Scope is
// a single Vec; nested blocks are expressed as stack-depth slices, not
// separate environments."
package scope

import "github.com/weavelang/weave/internal/value"

// entry is one (name, value) slot on the stack.
type entry struct {
	name     string
	val      value.Value
	isConst  bool
	isAlias  bool // true if val is always read through a Shared cell
}

// Scope is the flat variable stack for one evaluation (spec §3.2). A
// function call pushes a barrier and its own locals on top of the
// caller's; rewinding back to a barrier is how a call returns its frame
// to the pool without walking any parent chain.
type Scope struct {
	entries  []entry
	barriers []int
}

func New() *Scope {
	return &Scope{}
}

// Len returns the number of live entries, including those in enclosing
// (not yet rewound) frames.
func (s *Scope) Len() int { return len(s.entries) }

// Push appends a new read-write variable and returns its index.
func (s *Scope) Push(name string, v value.Value) int {
	s.entries = append(s.entries, entry{name: name, val: v})
	return len(s.entries) - 1
}

// PushConstant appends a new read-only variable and returns its index.
func (s *Scope) PushConstant(name string, v value.Value) int {
	s.entries = append(s.entries, entry{name: name, val: v.SetAccessMode(value.ReadOnly), isConst: true})
	return len(s.entries) - 1
}

// PushAlias pushes a name bound to an existing Shared value without
// retaining an extra reference count of its own name (spec §4.1 "for
// loop counter aliasing", closures sharing a captured variable).
func (s *Scope) PushAlias(name string, shared value.Value) int {
	s.entries = append(s.entries, entry{name: name, val: shared, isAlias: true})
	return len(s.entries) - 1
}

// PushBarrier marks the current top of stack as a frame boundary (spec
// §4.4 "A function call cannot see its caller's locals"). Name lookups
// started below a barrier do not cross it upward when walking from a
// deeper index, matching Get's barrier-respecting search.
func (s *Scope) PushBarrier() {
	s.barriers = append(s.barriers, len(s.entries))
}

// PopBarrier removes the most recently pushed barrier marker without
// touching the entries below or above it.
func (s *Scope) PopBarrier() {
	if len(s.barriers) == 0 {
		return
	}
	s.barriers = s.barriers[:len(s.barriers)-1]
}

// currentBarrier returns the stack index of the innermost barrier, or 0
// if there is none (the whole stack is visible).
func (s *Scope) currentBarrier() int {
	if len(s.barriers) == 0 {
		return 0
	}
	return s.barriers[len(s.barriers)-1]
}

// Rewind truncates the stack back to length n, discarding everything
// pushed since (spec §4.1 "leaving a block rewinds its locals"). Callers
// are responsible for calling this on every exit path of a block,
// including early return/break/throw unwinding.
func (s *Scope) Rewind(n int) {
	s.entries = s.entries[:n]
}

// Get searches from the top of the stack down to (and including) the
// innermost barrier for name, honoring shadowing (the most recently
// pushed match wins). It does not search past a function barrier.
func (s *Scope) Get(name string) (value.Value, int, bool) {
	floor := s.currentBarrier()
	for i := len(s.entries) - 1; i >= floor; i-- {
		if s.entries[i].name == name {
			return s.entries[i].val, i, true
		}
	}
	return value.Value{}, -1, false
}

// ResolveLocal translates a frame-relative local index — what the parser
// actually resolves (spec §4.5 "a small integer depth offset" counted
// from the start of the enclosing function's own locals, not from the
// bottom of the stack) — into the current absolute stack position, by
// adding the active call's barrier floor. A script-level reference (no
// enclosing barrier) has floor 0, so relative and absolute coincide
// there. This indirection is what makes a single resolved index valid at
// every recursion depth: the same source-level local always sits the
// same number of slots above whichever barrier is active when it runs.
func (s *Scope) ResolveLocal(rel int) int {
	return s.currentBarrier() + rel
}

// GetByIndex returns the value at a parser-resolved index directly,
// skipping the name search entirely (the fast path spec §4.5 exists for:
// "resolved local access costs one slice index, not a scan").
func (s *Scope) GetByIndex(i int) (value.Value, bool) {
	if i < 0 || i >= len(s.entries) {
		return value.Value{}, false
	}
	return s.entries[i].val, true
}

// SetByIndex overwrites the value at index i in place. Returns false only
// if i is out of range; it does not check const-ness (callers must check
// IsConstAt before attempting an assignment and raise KindAssignToConst
// themselves).
func (s *Scope) SetByIndex(i int, v value.Value) bool {
	if i < 0 || i >= len(s.entries) {
		return false
	}
	s.entries[i].val = v
	return true
}

// IsConstAt reports whether the entry at index i was declared const.
func (s *Scope) IsConstAt(i int) bool {
	if i < 0 || i >= len(s.entries) {
		return false
	}
	return s.entries[i].isConst
}

// NameAt returns the declared name at index i, for diagnostics.
func (s *Scope) NameAt(i int) string {
	if i < 0 || i >= len(s.entries) {
		return ""
	}
	return s.entries[i].name
}

// Share converts the entry at index i into a Shared cell in place and
// returns the now-shared value, so every alias created afterward
// (closure capture) observes writes through
// the same cell (spec §4.4/§9 "share statement synthesis" — here done
// directly at closure-creation time rather than through a separate AST
// statement, since the capturing FnExpr is the only caller).
func (s *Scope) Share(i int) value.Value {
	if i < 0 || i >= len(s.entries) {
		return value.Value{}
	}
	if !s.entries[i].val.IsShared() {
		s.entries[i].val = s.entries[i].val.IntoShared()
	}
	return s.entries[i].val
}

// Range iterates entries from floor (inclusive) to the current top,
// in push order, stopping early if f returns false. Nothing in the
// evaluator calls it; closure capture goes through Share.
func (s *Scope) Range(floor int, f func(index int, name string, v value.Value) bool) {
	for i := floor; i < len(s.entries); i++ {
		if !f(i, s.entries[i].name, s.entries[i].val) {
			return
		}
	}
}
