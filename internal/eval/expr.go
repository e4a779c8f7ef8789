package eval

import (
	"strings"

	"github.com/weavelang/weave/internal/ast"
	"github.com/weavelang/weave/internal/module"
	"github.com/weavelang/weave/internal/token"
	"github.com/weavelang/weave/internal/value"
	"github.com/weavelang/weave/internal/werror"
)

func (ip *Interp) evalExpr(e ast.Expr) (value.Value, error) {
	if err := ip.enterExpr(e.Pos()); err != nil {
		return value.Unit, err
	}
	defer ip.leaveExpr()
	if err := ip.tick(e.Pos()); err != nil {
		return value.Unit, err
	}

	switch n := e.(type) {
	case *ast.UnitLiteral:
		return value.Unit, nil
	case *ast.BoolLiteral:
		return value.Bool(n.Value), nil
	case *ast.IntLiteral:
		return value.Int(n.Value), nil
	case *ast.FloatLiteral:
		return value.Float(n.Value), nil
	case *ast.DecimalLiteral:
		return value.Decimal(n.Value), nil
	case *ast.CharLiteral:
		return value.Char(n.Value), nil
	case *ast.StringLiteral:
		if max := ip.Limits.MaxStringLen; max != 0 && len(n.Value) > max {
			return value.Unit, werror.New(werror.KindForbidden, n.Pos(), "string literal exceeds max length (%d)", max)
		}
		return value.StringFromGo(n.Value), nil
	case *ast.InterpolatedStringExpr:
		return ip.evalInterpolated(n)
	case *ast.ArrayLiteral:
		return ip.evalArrayLiteral(n)
	case *ast.MapLiteral:
		return ip.evalMapLiteral(n)
	case *ast.Variable:
		return ip.evalVariable(n)
	case *ast.IndexExpr:
		return ip.evalIndexExpr(n)
	case *ast.PropertyExpr:
		return ip.evalPropertyExpr(n)
	case *ast.CallExpr:
		return ip.evalCallExpr(n)
	case *ast.MethodCallExpr:
		return ip.evalMethodCallExpr(n)
	case *ast.AndExpr:
		return ip.evalAndExpr(n)
	case *ast.OrExpr:
		return ip.evalOrExpr(n)
	case *ast.CoalesceExpr:
		return ip.evalCoalesceExpr(n)
	case *ast.UnaryExpr:
		operand, err := ip.evalExpr(n.Operand)
		if err != nil {
			return value.Unit, err
		}
		return evalUnary(n.Op, operand, n.Pos())
	case *ast.BinaryExpr:
		left, err := ip.evalExpr(n.Left)
		if err != nil {
			return value.Unit, err
		}
		right, err := ip.evalExpr(n.Right)
		if err != nil {
			return value.Unit, err
		}
		return ip.evalBinary(&BinaryOperands{Op: n.Op, Left: left, Right: right, NativeHash: n.NativeHash, Pos: n.Pos()})
	case *ast.RangeExpr:
		return ip.evalRangeExpr(n)
	case *ast.BlockExpr:
		return ip.evalBlock(n.Body)
	case *ast.FnExpr:
		return ip.evalFnExpr(n)
	case *ast.CustomSyntaxExpr:
		return value.Unit, werror.New(werror.KindForbidden, n.Pos(), "custom syntax %q has no registered handler", n.Keyword)
	default:
		return value.Unit, unsupported("expression", e.Pos())
	}
}

func (ip *Interp) evalInterpolated(n *ast.InterpolatedStringExpr) (value.Value, error) {
	var sb strings.Builder
	for i, chunk := range n.Chunks {
		sb.WriteString(chunk)
		if i < len(n.Exprs) {
			v, err := ip.evalExpr(n.Exprs[i])
			if err != nil {
				return value.Unit, err
			}
			sb.WriteString(v.String())
		}
	}
	if max := ip.Limits.MaxStringLen; max != 0 && sb.Len() > max {
		return value.Unit, werror.New(werror.KindForbidden, n.Pos(), "interpolated string exceeds max length (%d)", max)
	}
	return value.StringFromGo(sb.String()), nil
}

func (ip *Interp) evalArrayLiteral(n *ast.ArrayLiteral) (value.Value, error) {
	elems := make([]value.Value, len(n.Elements))
	for i, e := range n.Elements {
		v, err := ip.evalExpr(e)
		if err != nil {
			return value.Unit, err
		}
		elems[i] = v
	}
	if max := ip.Limits.MaxArrayLen; max != 0 && len(elems) > max {
		return value.Unit, werror.New(werror.KindForbidden, n.Pos(), "array literal exceeds max length (%d)", max)
	}
	return value.Array(value.NewArray(elems...)), nil
}

func (ip *Interp) evalMapLiteral(n *ast.MapLiteral) (value.Value, error) {
	if max := ip.Limits.MaxMapLen; max != 0 && len(n.Entries) > max {
		return value.Unit, werror.New(werror.KindForbidden, n.Pos(), "map literal exceeds max size (%d)", max)
	}
	m := value.NewMap()
	for _, entry := range n.Entries {
		v, err := ip.evalExpr(entry.Value)
		if err != nil {
			return value.Unit, err
		}
		m.Set(entry.Key, v)
	}
	return value.Map(m), nil
}

func (ip *Interp) evalVariable(n *ast.Variable) (value.Value, error) {
	if n.Index >= 0 {
		if v, ok := ip.Scope.GetByIndex(ip.Scope.ResolveLocal(n.Index)); ok {
			return v, nil
		}
	}
	if v, _, ok := ip.Scope.Get(n.Name); ok {
		return v, nil
	}
	if v, ok := ip.Own.Constant(n.Name); ok {
		return v, nil
	}
	return value.Unit, werror.New(werror.KindNotFound, n.Pos(), "undefined variable %q", n.Name)
}

func (ip *Interp) evalIndexExpr(n *ast.IndexExpr) (value.Value, error) {
	target, err := ip.evalExpr(n.Target)
	if err != nil {
		return value.Unit, err
	}
	if n.Optional && target.IsUnit() {
		return value.Unit, nil
	}
	key, err := ip.evalExpr(n.Key)
	if err != nil {
		return value.Unit, err
	}
	return indexGet(target, key, n.Pos())
}

func indexGet(target, key value.Value, pos token.Position) (value.Value, error) {
	switch target.Kind() {
	case value.KindArray:
		arr, _ := target.AsArray()
		i, ok := key.AsInt()
		if !ok {
			return value.Unit, werror.New(werror.KindTypeMismatch, pos, "array index must be int, got %s", key.Kind())
		}
		idx, inRange := value.NormalizeIndex(int(i), arr.Len())
		if !inRange {
			return value.Unit, werror.New(werror.KindIndexOutOfBounds, pos, "array index %d out of bounds (len %d)", i, arr.Len())
		}
		v, _ := arr.Get(idx)
		return v, nil
	case value.KindMap:
		m, _ := target.AsMap()
		k, ok := key.AsString()
		if !ok {
			return value.Unit, werror.New(werror.KindTypeMismatch, pos, "map key must be string, got %s", key.Kind())
		}
		v, ok := m.Get(k)
		if !ok {
			return value.Unit, werror.New(werror.KindIndexOutOfBounds, pos, "map has no key %q", k)
		}
		return v, nil
	case value.KindString:
		s, _ := target.AsString()
		runes := []rune(s)
		i, ok := key.AsInt()
		if !ok {
			return value.Unit, werror.New(werror.KindTypeMismatch, pos, "string index must be int, got %s", key.Kind())
		}
		idx, inRange := value.NormalizeIndex(int(i), len(runes))
		if !inRange {
			return value.Unit, werror.New(werror.KindIndexOutOfBounds, pos, "string index %d out of bounds (len %d)", i, len(runes))
		}
		return value.Char(runes[idx]), nil
	case value.KindBlob:
		b, _ := target.AsBlob()
		i, ok := key.AsInt()
		if !ok {
			return value.Unit, werror.New(werror.KindTypeMismatch, pos, "blob index must be int, got %s", key.Kind())
		}
		idx, inRange := value.NormalizeIndex(int(i), len(b))
		if !inRange {
			return value.Unit, werror.New(werror.KindIndexOutOfBounds, pos, "blob index %d out of bounds (len %d)", i, len(b))
		}
		return value.Int(int64(b[idx])), nil
	default:
		return value.Unit, werror.New(werror.KindTypeMismatch, pos, "type %s is not indexable", target.Kind())
	}
}

// evalPropertyExpr resolves dot access first through a registered native
// property getter, then, for an object map, through a generic field
// read (spec §8 scenario 4: `#{a:1}.a` reads 1; `.b` on a missing key
// raises a KindNotFound the caller can try/catch). Any other target
// kind with no getter is a property-not-found error.
func (ip *Interp) evalPropertyExpr(n *ast.PropertyExpr) (value.Value, error) {
	target, err := ip.evalExpr(n.Target)
	if err != nil {
		return value.Unit, err
	}
	if n.Optional && target.IsUnit() {
		return value.Unit, nil
	}
	if entries, ok := ip.Resolver.Resolve(n.GetterHash); ok && len(entries) > 0 {
		return ip.callNative(entries[0], []value.Value{target}, n.Pos())
	}
	if target.Kind() == value.KindMap {
		m, _ := target.AsMap()
		if v, ok := m.Get(n.Name); ok {
			return v, nil
		}
		return value.Unit, werror.New(werror.KindNotFound, n.Pos(), "map has no property %q", n.Name)
	}
	return value.Unit, werror.New(werror.KindNotFound, n.Pos(), "no property getter %q on %s", n.Name, target.Kind())
}

func (ip *Interp) evalAndExpr(n *ast.AndExpr) (value.Value, error) {
	l, err := ip.evalExpr(n.Left)
	if err != nil {
		return value.Unit, err
	}
	lb, ok := l.AsBool()
	if !ok {
		return value.Unit, werror.New(werror.KindTypeMismatch, n.Left.Pos(), "&& left operand must be bool, got %s", l.Kind())
	}
	if !lb {
		return value.Bool(false), nil
	}
	r, err := ip.evalExpr(n.Right)
	if err != nil {
		return value.Unit, err
	}
	rb, ok := r.AsBool()
	if !ok {
		return value.Unit, werror.New(werror.KindTypeMismatch, n.Right.Pos(), "&& right operand must be bool, got %s", r.Kind())
	}
	return value.Bool(rb), nil
}

func (ip *Interp) evalOrExpr(n *ast.OrExpr) (value.Value, error) {
	l, err := ip.evalExpr(n.Left)
	if err != nil {
		return value.Unit, err
	}
	lb, ok := l.AsBool()
	if !ok {
		return value.Unit, werror.New(werror.KindTypeMismatch, n.Left.Pos(), "|| left operand must be bool, got %s", l.Kind())
	}
	if lb {
		return value.Bool(true), nil
	}
	r, err := ip.evalExpr(n.Right)
	if err != nil {
		return value.Unit, err
	}
	rb, ok := r.AsBool()
	if !ok {
		return value.Unit, werror.New(werror.KindTypeMismatch, n.Right.Pos(), "|| right operand must be bool, got %s", r.Kind())
	}
	return value.Bool(rb), nil
}

func (ip *Interp) evalCoalesceExpr(n *ast.CoalesceExpr) (value.Value, error) {
	l, err := ip.evalExpr(n.Left)
	if err != nil {
		return value.Unit, err
	}
	if !l.IsUnit() {
		return l, nil
	}
	return ip.evalExpr(n.Right)
}

func (ip *Interp) evalRangeExpr(n *ast.RangeExpr) (value.Value, error) {
	from, err := ip.evalExpr(n.From)
	if err != nil {
		return value.Unit, err
	}
	to, err := ip.evalExpr(n.To)
	if err != nil {
		return value.Unit, err
	}
	fi, fok := from.AsInt()
	ti, tok := to.AsInt()
	if !fok || !tok {
		return value.Unit, werror.New(werror.KindTypeMismatch, n.Pos(), "range bounds must be int")
	}
	return value.Array(rangeToArray(fi, ti, n.Inclusive)), nil
}

func (ip *Interp) evalFnExpr(n *ast.FnExpr) (value.Value, error) {
	captures := make(map[string]value.Value, len(n.Captures))
	for _, name := range n.Captures {
		_, idx, ok := ip.Scope.Get(name)
		if !ok {
			return value.Unit, werror.New(werror.KindNotFound, n.Pos(), "closure capture of undefined variable %q", name)
		}
		captures[name] = ip.Scope.Share(idx)
	}
	fp := value.NewAnonymousFnPtr(n.Name, captures)
	return value.FnPointer(fp), nil
}

// callNative invokes a registered native function, wiring a minimal
// CallContext (spec §4.2 "NativeCallContext").
func (ip *Interp) callNative(e *module.FuncEntry, args []value.Value, pos token.Position) (value.Value, error) {
	if e.Native == nil {
		return value.Unit, werror.New(werror.KindSystem, pos, "internal: resolved entry %q has no native body", e.Name)
	}
	ctx := &module.CallContext{
		Pos: pos, FnName: e.Name,
		CallFn: ip.CallFnHook, EngineTag: ip.EngineTag,
	}
	v, err := e.Native(ctx, args)
	if err != nil {
		if _, ok := err.(*werror.Error); ok {
			return value.Unit, err
		}
		return value.Unit, werror.Wrap(werror.KindSystem, pos, err, "native function %q failed", e.Name)
	}
	return v, nil
}
