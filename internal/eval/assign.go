package eval

import (
	"github.com/weavelang/weave/internal/ast"
	"github.com/weavelang/weave/internal/token"
	"github.com/weavelang/weave/internal/value"
	"github.com/weavelang/weave/internal/werror"
)

// compoundOps maps a compound-assignment token to the binary operator it
// desugars to: `x += y` is `x = x + y`. The RHS is evaluated first; the
// LHS expression is then evaluated once to read its current value and
// again by assignTo to locate the slot it writes.
var compoundOps = map[token.Kind]token.Kind{
	token.PLUS_ASSIGN:    token.PLUS,
	token.MINUS_ASSIGN:   token.MINUS,
	token.STAR_ASSIGN:    token.STAR,
	token.SLASH_ASSIGN:   token.SLASH,
	token.PERCENT_ASSIGN: token.PERCENT,
}

func (ip *Interp) evalAssignStmt(n *ast.AssignStmt) error {
	rhs, err := ip.evalExpr(n.RHS)
	if err != nil {
		return err
	}

	if n.Op != token.ASSIGN {
		op, ok := compoundOps[n.Op]
		if !ok {
			return werror.New(werror.KindSystem, n.Pos(), "internal: unknown compound assignment operator %s", n.Op)
		}
		current, err := ip.evalExpr(n.LHS)
		if err != nil {
			return err
		}
		combined, err := applyBuiltinBinary(op, current, rhs, n.Pos())
		if err != nil {
			return err
		}
		rhs = combined
	}

	return ip.assignTo(n.LHS, rhs, n.Pos())
}

// assignTo writes v into the storage location named by target (spec
// §4.1 "assignment targets": a plain variable, an index expression, or
// a property setter).
func (ip *Interp) assignTo(target ast.Expr, v value.Value, pos token.Position) error {
	switch t := target.(type) {
	case *ast.Variable:
		return ip.assignVariable(t, v)
	case *ast.IndexExpr:
		return ip.assignIndex(t, v)
	case *ast.PropertyExpr:
		return ip.assignProperty(t, v)
	default:
		return werror.New(werror.KindInvalidLHS, pos, "cannot assign to %T", target)
	}
}

func (ip *Interp) assignVariable(t *ast.Variable, v value.Value) error {
	idx := -1
	if t.Index >= 0 {
		idx = ip.Scope.ResolveLocal(t.Index)
	} else {
		_, found, ok := ip.Scope.Get(t.Name)
		if !ok {
			return werror.New(werror.KindNotFound, t.Pos(), "undefined variable %q", t.Name)
		}
		idx = found
	}
	if ip.Scope.IsConstAt(idx) {
		return werror.New(werror.KindAssignToConst, t.Pos(), "cannot assign to constant %q", ip.Scope.NameAt(idx))
	}
	current, ok := ip.Scope.GetByIndex(idx)
	if ok && current.IsShared() {
		current.WriteThrough(v)
		return nil
	}
	ip.Scope.SetByIndex(idx, cloneForBinding(v))
	return nil
}

func (ip *Interp) assignIndex(t *ast.IndexExpr, v value.Value) error {
	target, err := ip.evalExpr(t.Target)
	if err != nil {
		return err
	}
	key, err := ip.evalExpr(t.Key)
	if err != nil {
		return err
	}
	switch target.Kind() {
	case value.KindArray:
		arr, _ := target.AsArray()
		i, ok := key.AsInt()
		if !ok {
			return werror.New(werror.KindTypeMismatch, t.Pos(), "array index must be int, got %s", key.Kind())
		}
		idx, inRange := value.NormalizeIndex(int(i), arr.Len())
		if !inRange {
			return werror.New(werror.KindIndexOutOfBounds, t.Pos(), "array index %d out of bounds (len %d)", i, arr.Len())
		}
		arr.Set(idx, cloneForBinding(v))
		return nil
	case value.KindMap:
		m, _ := target.AsMap()
		k, ok := key.AsString()
		if !ok {
			return werror.New(werror.KindTypeMismatch, t.Pos(), "map key must be string, got %s", key.Kind())
		}
		m.Set(k, cloneForBinding(v))
		return nil
	default:
		return werror.New(werror.KindTypeMismatch, t.Pos(), "type %s does not support index assignment", target.Kind())
	}
}

func (ip *Interp) assignProperty(t *ast.PropertyExpr, v value.Value) error {
	target, err := ip.evalExpr(t.Target)
	if err != nil {
		return err
	}
	if entries, ok := ip.Resolver.Resolve(t.SetterHash); ok && len(entries) > 0 {
		_, err := ip.callNative(entries[0], []value.Value{target, v}, t.Pos())
		return err
	}
	if target.Kind() == value.KindMap {
		m, _ := target.AsMap()
		m.Set(t.Name, cloneForBinding(v))
		return nil
	}
	return werror.New(werror.KindNotFound, t.Pos(), "no property setter %q on %s", t.Name, target.Kind())
}
