package parser

import "github.com/weavelang/weave/internal/ast"

// localScope tracks declared-name-to-slot bookkeeping for ONE isolated
// frame (the top-level script, or a single named function's own body) at
// parse time, so Variable/VarStmt nodes can carry a frame-relative index
// (spec §4.5) instead of forcing every lookup through a runtime name scan.
//
// It is the compile-time mirror of internal/scope.Scope's push/rewind
// discipline: declare() appends exactly the way scope.Push does, and
// rewind() truncates exactly the way eval.evalBlock's
// `defer ip.Scope.Rewind(mark)` does on every block exit — so a relative
// index computed here lands on the identical absolute stack slot the
// evaluator will place that value in, at every recursion depth, because
// each fresh call starts this local segment back at relative 0 (see
// scope.Scope.ResolveLocal).
type localScope struct {
	names  []string
	consts []bool
}

func newLocalScope() *localScope { return &localScope{} }

// mark/rewind bracket one block's lifetime, discarding names declared
// since the matching mark once the block's closing brace is parsed.
func (s *localScope) mark() int { return len(s.names) }

func (s *localScope) rewind(m int) {
	s.names = s.names[:m]
	s.consts = s.consts[:m]
}

// declare records a new local at the next free slot and returns its
// frame-relative index.
func (s *localScope) declare(name string, isConst bool) int {
	s.names = append(s.names, name)
	s.consts = append(s.consts, isConst)
	return len(s.names) - 1
}

// lookup searches from the top down (most recent shadow wins), returning
// the relative index of name if it is declared anywhere in this frame.
func (s *localScope) lookup(name string) (int, bool) {
	for i := len(s.names) - 1; i >= 0; i-- {
		if s.names[i] == name {
			return i, true
		}
	}
	return 0, false
}

func (s *localScope) isConst(name string) bool {
	for i := len(s.names) - 1; i >= 0; i-- {
		if s.names[i] == name {
			return s.consts[i]
		}
	}
	return false
}

// closureFrame is one open `|params| body` being parsed. fn is nil for
// the outermost (non-closure) frame of whatever isolated unit is
// currently being parsed — the script top level, or a named function's
// body, neither of which can capture anything.
//
// varRefs/varDecls collect every Variable/VarStmt this frame resolved to
// one of its OWN slots (as opposed to a capture, which always resolves by
// name). Their Index/LocalIndex is assigned as if this closure had zero
// captures; once the body is fully parsed and fn.Captures is final, every
// collected node is shifted by len(fn.Captures) so captures occupy the
// low slots exactly where callFnPtr places them (spec §4.4 — captures are
// pushed into the callee's frame before its own parameters).
type closureFrame struct {
	fn       *ast.FnExpr
	scope    *localScope
	varRefs  []*ast.Variable
	varDecls []*ast.VarStmt
}

// pushBaseFrame starts a brand new isolated frame stack (fn == nil at
// index 0), used both for the script top level and, independently, for
// each named function body — named functions see none of the enclosing
// lexical scope (spec §4.4 "a function call cannot see its caller's
// locals", which applies at parse time too: a `fn` is never a closure).
func (p *Parser) pushBaseFrame() []*closureFrame {
	saved := p.frames
	p.frames = []*closureFrame{{scope: newLocalScope()}}
	return saved
}

func (p *Parser) popBaseFrame(saved []*closureFrame) {
	p.frames = saved
}

// pushClosureFrame opens a new closure frame nested inside whatever frame
// is currently active, declaring params into its own fresh localScope.
func (p *Parser) pushClosureFrame(fn *ast.FnExpr) {
	ls := newLocalScope()
	for _, param := range fn.Params {
		ls.declare(param, false)
	}
	p.frames = append(p.frames, &closureFrame{fn: fn, scope: ls})
}

// popClosureFrame finalizes the offset patch described on closureFrame
// and pops it off the stack.
func (p *Parser) popClosureFrame() {
	top := p.frames[len(p.frames)-1]
	offset := len(top.fn.Captures)
	for _, v := range top.varRefs {
		v.Index += offset
	}
	for _, d := range top.varDecls {
		d.LocalIndex += offset
	}
	p.frames = p.frames[:len(p.frames)-1]
}

func (p *Parser) inClosure() bool { return len(p.frames) > 1 }

func (p *Parser) topFrame() *closureFrame { return p.frames[len(p.frames)-1] }

// declareLocal declares name in the current frame's own scope and returns
// its (possibly not-yet-offset) relative index, recording the owning
// VarStmt for a later capture-count patch if the current frame is a
// closure.
func (p *Parser) declareLocal(name string, isConst bool, owner *ast.VarStmt) int {
	top := p.topFrame()
	idx := top.scope.declare(name, isConst)
	if top.fn != nil && owner != nil {
		top.varDecls = append(top.varDecls, owner)
	}
	return idx
}

// resolveVariable decides how v.Name resolves: a same-frame local gets a
// frame-relative index (patched at frame-close time if this is a
// closure); a name found in an enclosing frame is a closure capture,
// propagated through every intervening closure's Captures list (spec
// §4.2 "Closures" — transitively, so a closure-within-a-closure can
// re-share a grandparent's local); anything else is left unresolved
// (Index -1) for the evaluator's name/constant fallback chain.
func (p *Parser) resolveVariable(v *ast.Variable) {
	top := len(p.frames) - 1
	if rel, ok := p.frames[top].scope.lookup(v.Name); ok {
		v.Index = rel
		if p.frames[top].fn != nil {
			p.frames[top].varRefs = append(p.frames[top].varRefs, v)
		}
		return
	}
	for j := top - 1; j >= 0; j-- {
		if _, ok := p.frames[j].scope.lookup(v.Name); ok {
			for k := top; k > j; k-- {
				addCapture(p.frames[k].fn, v.Name)
			}
			v.Index = -1
			return
		}
	}
	v.Index = -1
}

// isConstVariable reports whether name resolves, in the current frame,
// to a const local — used to reject `x = ...` against a const at parse
// time as well as at run time.
func (p *Parser) isConstVariable(name string) bool {
	return p.topFrame().scope.isConst(name)
}

func addCapture(fn *ast.FnExpr, name string) {
	for _, c := range fn.Captures {
		if c == name {
			return
		}
	}
	fn.Captures = append(fn.Captures, name)
}
