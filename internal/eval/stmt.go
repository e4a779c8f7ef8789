package eval

import (
	"github.com/weavelang/weave/internal/ast"
	"github.com/weavelang/weave/internal/value"
	"github.com/weavelang/weave/internal/werror"
)

// evalStmt executes one statement, returning the value it would
// contribute if this statement is the last one of a block (spec §4.6
// "blocks are expressions; their value is their last statement's"):
// an ExprStmt's expression value, or the value of the branch a block,
// if, switch or try/catch statement ran. Every other statement kind returns
// value.Unit on success.
func (ip *Interp) evalStmt(s ast.Stmt) (value.Value, error) {
	if err := ip.tick(s.Pos()); err != nil {
		return value.Unit, err
	}
	switch n := s.(type) {
	case *ast.NoopStmt:
		return value.Unit, nil
	case *ast.ExprStmt:
		return ip.evalExpr(n.X)
	case *ast.BlockStmt:
		return ip.evalBlock(n)
	case *ast.VarStmt:
		return value.Unit, ip.evalVarStmt(n)
	case *ast.AssignStmt:
		return value.Unit, ip.evalAssignStmt(n)
	case *ast.IfStmt:
		return ip.evalIfStmt(n)
	case *ast.WhileStmt:
		return value.Unit, ip.evalWhileStmt(n)
	case *ast.DoStmt:
		return value.Unit, ip.evalDoStmt(n)
	case *ast.LoopStmt:
		return value.Unit, ip.evalLoopStmt(n)
	case *ast.ForStmt:
		return value.Unit, ip.evalForStmt(n)
	case *ast.SwitchStmt:
		return ip.evalSwitchStmt(n)
	case *ast.ReturnStmt:
		return value.Unit, ip.evalReturnStmt(n)
	case *ast.ThrowStmt:
		return value.Unit, ip.evalThrowStmt(n)
	case *ast.BreakStmt:
		return value.Unit, werror.LoopBreak(n.Pos(), false, nil)
	case *ast.ContinueStmt:
		return value.Unit, werror.LoopBreak(n.Pos(), true, nil)
	case *ast.TryCatchStmt:
		return ip.evalTryCatchStmt(n)
	case *ast.ImportStmt:
		return value.Unit, ip.evalImportStmt(n)
	case *ast.ExportStmt:
		return value.Unit, nil // resolved at module-assembly time by pkg/engine
	case *ast.FunctionDecl:
		return value.Unit, nil // already indexed into Program.Functions by the parser
	default:
		return value.Unit, unsupported("statement", s.Pos())
	}
}

// evalBlock runs a block's statements in a fresh scope slice, rewinding
// on every exit path — normal fallthrough, an early return/throw, or a
// loop break/continue (spec §4.1 "leaving a block rewinds its locals").
func (ip *Interp) evalBlock(b *ast.BlockStmt) (value.Value, error) {
	mark := ip.Scope.Len()
	defer ip.Scope.Rewind(mark)

	var last value.Value = value.Unit
	for _, stmt := range b.Statements {
		v, err := ip.evalStmt(stmt)
		if err != nil {
			return value.Unit, err
		}
		last = v
	}
	return last, nil
}

// cloneForBinding returns a value safe to drop into a new storage slot —
// a variable's initializer, a plain assignment's RHS, or a call's bound
// parameter. Arrays and maps get their own backing storage so mutating
// through the new slot can't be observed through the value it was bound
// from (spec §3.1/§8 scenario 3: `let b = a; b[0] = 9;` must not move
// `a[0]`). Scalars copy by value already; a Shared cell is left alone,
// since aliasing there is exactly what IntoShared/closure capture asked
// for.
func cloneForBinding(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindArray, value.KindMap:
		return v.Clone()
	default:
		return v
	}
}

func (ip *Interp) evalVarStmt(v *ast.VarStmt) error {
	init := value.Unit
	if v.Init != nil {
		val, err := ip.evalExpr(v.Init)
		if err != nil {
			return err
		}
		init = cloneForBinding(val)
	}
	if max := ip.Limits.MaxLocalVars; max != 0 && ip.Scope.Len() >= max {
		return werror.New(werror.KindTooManyVars, v.Pos(), "variable-in-scope limit (%d) exceeded", max)
	}
	if v.Flags&ast.VarFlagConst != 0 {
		ip.Scope.PushConstant(v.Name, init)
	} else {
		ip.Scope.Push(v.Name, init)
	}
	return nil
}

func (ip *Interp) evalIfStmt(n *ast.IfStmt) (value.Value, error) {
	cond, err := ip.evalExpr(n.Cond)
	if err != nil {
		return value.Unit, err
	}
	b, ok := cond.AsBool()
	if !ok {
		return value.Unit, werror.New(werror.KindTypeMismatch, n.Cond.Pos(), "if condition must be bool, got %s", cond.Kind())
	}
	if b {
		return ip.evalBlock(n.Then)
	}
	if n.Else != nil {
		return ip.evalStmt(n.Else)
	}
	return value.Unit, nil
}

func (ip *Interp) evalWhileStmt(n *ast.WhileStmt) error {
	for {
		cond, err := ip.evalExpr(n.Cond)
		if err != nil {
			return err
		}
		b, ok := cond.AsBool()
		if !ok {
			return werror.New(werror.KindTypeMismatch, n.Cond.Pos(), "while condition must be bool, got %s", cond.Kind())
		}
		if !b {
			return nil
		}
		if _, err := ip.evalBlock(n.Body); err != nil {
			if brk, handled := handleLoopBreak(err); handled {
				if brk {
					return nil
				}
				continue
			}
			return err
		}
	}
}

func (ip *Interp) evalDoStmt(n *ast.DoStmt) error {
	for {
		if _, err := ip.evalBlock(n.Body); err != nil {
			if brk, handled := handleLoopBreak(err); handled {
				if brk {
					return nil
				}
			} else {
				return err
			}
		}
		cond, err := ip.evalExpr(n.Cond)
		if err != nil {
			return err
		}
		b, ok := cond.AsBool()
		if !ok {
			return werror.New(werror.KindTypeMismatch, n.Cond.Pos(), "do/%s condition must be bool, got %s", doKeyword(n), cond.Kind())
		}
		if n.IsUntil {
			b = !b
		}
		if !b {
			return nil
		}
	}
}

func doKeyword(n *ast.DoStmt) string {
	if n.IsUntil {
		return "until"
	}
	return "while"
}

func (ip *Interp) evalLoopStmt(n *ast.LoopStmt) error {
	for {
		if _, err := ip.evalBlock(n.Body); err != nil {
			if brk, handled := handleLoopBreak(err); handled {
				if brk {
					return nil
				}
				continue
			}
			return err
		}
	}
}

// handleLoopBreak inspects err for a KindLoopBreak control-flow error.
// handled reports whether err was such an error at all; brk reports
// whether it was `break` (true) vs `continue` (false) when handled.
func handleLoopBreak(err error) (brk bool, handled bool) {
	we, ok := err.(*werror.Error)
	if !ok || we.Kind != werror.KindLoopBreak {
		return false, false
	}
	return !we.IsContinue(), true
}

func (ip *Interp) evalSwitchStmt(n *ast.SwitchStmt) (value.Value, error) {
	subject, err := ip.evalExpr(n.Subject)
	if err != nil {
		return value.Unit, err
	}
	for _, c := range n.Cases {
		matched, err := ip.switchCaseMatches(c, subject)
		if err != nil {
			return value.Unit, err
		}
		if !matched {
			continue
		}
		if c.Guard != nil {
			g, err := ip.evalExpr(c.Guard)
			if err != nil {
				return value.Unit, err
			}
			b, ok := g.AsBool()
			if !ok || !b {
				continue
			}
		}
		return ip.evalBlock(c.Body)
	}
	if n.Default != nil {
		return ip.evalBlock(n.Default)
	}
	return value.Unit, nil
}

func (ip *Interp) switchCaseMatches(c ast.SwitchCase, subject value.Value) (bool, error) {
	if c.From != nil {
		from, err := ip.evalExpr(c.From)
		if err != nil {
			return false, err
		}
		to, err := ip.evalExpr(c.To)
		if err != nil {
			return false, err
		}
		si, sok := subject.AsInt()
		fi, fok := from.AsInt()
		ti, tok := to.AsInt()
		if !sok || !fok || !tok {
			return false, nil
		}
		return si >= fi && si <= ti, nil
	}
	for _, ve := range c.Values {
		v, err := ip.evalExpr(ve)
		if err != nil {
			return false, err
		}
		if valuesEqual(subject, v) {
			return true, nil
		}
	}
	return false, nil
}

func (ip *Interp) evalForStmt(n *ast.ForStmt) error {
	iterable, err := ip.evalExpr(n.Iterable)
	if err != nil {
		return err
	}
	next, err := ip.iteratorFor(iterable, n.Iterable.Pos())
	if err != nil {
		return err
	}
	counter := int64(0)
	for {
		elem, more := next()
		if !more {
			return nil
		}
		mark := ip.Scope.Len()
		ip.Scope.Push(n.VarName, cloneForBinding(elem))
		if n.CounterName != "" {
			ip.Scope.Push(n.CounterName, value.Int(counter))
		}
		_, err := ip.evalBlock(n.Body)
		ip.Scope.Rewind(mark)
		if err != nil {
			if brk, handled := handleLoopBreak(err); handled {
				if brk {
					return nil
				}
				counter++
				continue
			}
			return err
		}
		counter++
	}
}

func (ip *Interp) evalReturnStmt(n *ast.ReturnStmt) error {
	v := value.Unit
	if n.Value != nil {
		val, err := ip.evalExpr(n.Value)
		if err != nil {
			return err
		}
		v = val
	}
	return werror.Return(n.Pos(), v)
}

func (ip *Interp) evalThrowStmt(n *ast.ThrowStmt) error {
	v := value.Unit
	if n.Value != nil {
		val, err := ip.evalExpr(n.Value)
		if err != nil {
			return err
		}
		v = val
	}
	return werror.Throw(n.Pos(), v)
}

func (ip *Interp) evalTryCatchStmt(n *ast.TryCatchStmt) (value.Value, error) {
	v, err := ip.evalBlock(n.Try)
	if err == nil {
		return v, nil
	}
	we, ok := err.(*werror.Error)
	if !ok || !we.IsRecoverable() {
		return value.Unit, err
	}
	mark := ip.Scope.Len()
	defer ip.Scope.Rewind(mark)
	if n.CatchVar != "" {
		thrown, _ := we.Value().(value.Value)
		ip.Scope.Push(n.CatchVar, cloneForBinding(thrown))
	}
	return ip.evalBlock(n.Catch)
}

func (ip *Interp) evalImportStmt(n *ast.ImportStmt) error {
	return werror.New(werror.KindForbidden, n.Pos(), "import is resolved by the embedding host, not the evaluator")
}
