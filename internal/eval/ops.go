package eval

import (
	"math"

	"github.com/weavelang/weave/internal/token"
	"github.com/weavelang/weave/internal/value"
	"github.com/weavelang/weave/internal/werror"
)

// evalBinary evaluates a non-short-circuiting binary operator. It first
// asks the resolver for a registered overload under the call site's
// native hash (spec §4.5 "operators are ordinary dispatched functions");
// if none is registered, it falls back to the built-in numeric/string
// semantics for the primitive kinds, matching the teacher's
// binary_ops.go fallback-to-builtin-then-overload shape, but in the
// opposite priority order since spec.md requires host overloads to win.
func (ip *Interp) evalBinary(n *BinaryOperands) (value.Value, error) {
	if entries, ok := ip.Resolver.Resolve(n.NativeHash); ok && len(entries) > 0 {
		return ip.callNative(entries[0], []value.Value{n.Left, n.Right}, n.Pos)
	}
	return applyBuiltinBinary(n.Op, n.Left, n.Right, n.Pos)
}

// BinaryOperands carries an already-evaluated left/right pair plus the
// operator metadata evalExpr needs to dispatch a BinaryExpr.
type BinaryOperands struct {
	Op         token.Kind
	Left       value.Value
	Right      value.Value
	NativeHash uint64
	Pos        token.Position
}

func applyBuiltinBinary(op token.Kind, l, r value.Value, pos token.Position) (value.Value, error) {
	switch op {
	case token.PLUS:
		return numericOrStringOp(op, l, r, pos)
	case token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.POW:
		return numericOp(op, l, r, pos)
	case token.EQ:
		return value.Bool(valuesEqual(l, r)), nil
	case token.NEQ:
		return value.Bool(!valuesEqual(l, r)), nil
	case token.LT, token.LTE, token.GT, token.GTE:
		return compareOp(op, l, r, pos)
	case token.BIT_AND, token.BIT_OR, token.BIT_XOR, token.SHL, token.SHR:
		return bitwiseOp(op, l, r, pos)
	default:
		return value.Unit, werror.New(werror.KindNotFound, pos, "no operator overload for %s(%s, %s)", op, l.Kind(), r.Kind())
	}
}

func numericOrStringOp(op token.Kind, l, r value.Value, pos token.Position) (value.Value, error) {
	if l.Kind() == value.KindString || r.Kind() == value.KindString {
		ls, lok := l.AsString()
		rs, rok := r.AsString()
		if lok && rok {
			return value.StringFromGo(ls + rs), nil
		}
		return value.Unit, werror.New(werror.KindTypeMismatch, pos, "cannot apply %s to %s and %s", op, l.Kind(), r.Kind())
	}
	return numericOp(op, l, r, pos)
}

func numericOp(op token.Kind, l, r value.Value, pos token.Position) (value.Value, error) {
	li, lIsInt := l.AsInt()
	ri, rIsInt := r.AsInt()
	if lIsInt && rIsInt {
		return intOp(op, li, ri, pos)
	}
	lf, lok := l.AsFloat()
	rf, rok := r.AsFloat()
	if !lok || !rok {
		return value.Unit, werror.New(werror.KindTypeMismatch, pos, "cannot apply %s to %s and %s", op, l.Kind(), r.Kind())
	}
	return floatOp(op, lf, rf, pos)
}

// intOp implements checked (not wrapping) integer arithmetic (DESIGN.md
// "Open Questions resolved": checked overflow is Weave's default).
func intOp(op token.Kind, l, r int64, pos token.Position) (value.Value, error) {
	switch op {
	case token.PLUS:
		sum := l + r
		if (r > 0 && sum < l) || (r < 0 && sum > l) {
			return value.Unit, werror.New(werror.KindArithmetic, pos, "integer overflow in %d + %d", l, r)
		}
		return value.Int(sum), nil
	case token.MINUS:
		diff := l - r
		if (r < 0 && diff < l) || (r > 0 && diff > l) {
			return value.Unit, werror.New(werror.KindArithmetic, pos, "integer overflow in %d - %d", l, r)
		}
		return value.Int(diff), nil
	case token.STAR:
		if l == 0 || r == 0 {
			return value.Int(0), nil
		}
		prod := l * r
		if prod/r != l || (l == math.MinInt64 && r == -1) {
			return value.Unit, werror.New(werror.KindArithmetic, pos, "integer overflow in %d * %d", l, r)
		}
		return value.Int(prod), nil
	case token.SLASH:
		if r == 0 {
			return value.Unit, werror.New(werror.KindArithmetic, pos, "division by zero")
		}
		return value.Int(l / r), nil
	case token.PERCENT:
		if r == 0 {
			return value.Unit, werror.New(werror.KindArithmetic, pos, "modulo by zero")
		}
		return value.Int(l % r), nil
	case token.POW:
		p, err := intPow(l, r, pos)
		if err != nil {
			return value.Unit, err
		}
		return value.Int(p), nil
	default:
		return value.Unit, werror.New(werror.KindNotFound, pos, "unsupported integer operator %s", op)
	}
}

func intPow(base, exp int64, pos token.Position) (int64, error) {
	if exp < 0 {
		return 0, nil
	}
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		if result == 0 || base == 0 {
			result *= base
			continue
		}
		next := result * base
		if next/base != result || (result == math.MinInt64 && base == -1) {
			return 0, werror.New(werror.KindArithmetic, pos, "integer overflow in %d ** %d", base, exp)
		}
		result = next
	}
	return result, nil
}

func floatOp(op token.Kind, l, r float64, pos token.Position) (value.Value, error) {
	switch op {
	case token.PLUS:
		return value.Float(l + r), nil
	case token.MINUS:
		return value.Float(l - r), nil
	case token.STAR:
		return value.Float(l * r), nil
	case token.SLASH:
		if r == 0 {
			return value.Unit, werror.New(werror.KindArithmetic, pos, "division by zero")
		}
		return value.Float(l / r), nil
	case token.PERCENT:
		if r == 0 {
			return value.Unit, werror.New(werror.KindArithmetic, pos, "modulo by zero")
		}
		return value.Float(floatMod(l, r)), nil
	case token.POW:
		return value.Float(floatPow(l, r)), nil
	default:
		return value.Unit, werror.New(werror.KindNotFound, pos, "unsupported float operator %s", op)
	}
}

func floatMod(l, r float64) float64 {
	q := int64(l / r)
	return l - float64(q)*r
}

func floatPow(base, exp float64) float64 {
	return math.Pow(base, exp)
}

func compareOp(op token.Kind, l, r value.Value, pos token.Position) (value.Value, error) {
	lf, lok := l.AsFloat()
	rf, rok := r.AsFloat()
	if lok && rok {
		switch op {
		case token.LT:
			return value.Bool(lf < rf), nil
		case token.LTE:
			return value.Bool(lf <= rf), nil
		case token.GT:
			return value.Bool(lf > rf), nil
		case token.GTE:
			return value.Bool(lf >= rf), nil
		}
	}
	ls, lsok := l.AsString()
	rs, rsok := r.AsString()
	if lsok && rsok {
		switch op {
		case token.LT:
			return value.Bool(ls < rs), nil
		case token.LTE:
			return value.Bool(ls <= rs), nil
		case token.GT:
			return value.Bool(ls > rs), nil
		case token.GTE:
			return value.Bool(ls >= rs), nil
		}
	}
	return value.Unit, werror.New(werror.KindTypeMismatch, pos, "cannot compare %s and %s", l.Kind(), r.Kind())
}

func bitwiseOp(op token.Kind, l, r value.Value, pos token.Position) (value.Value, error) {
	li, lok := l.AsInt()
	ri, rok := r.AsInt()
	if !lok || !rok {
		return value.Unit, werror.New(werror.KindTypeMismatch, pos, "bitwise %s requires int operands, got %s and %s", op, l.Kind(), r.Kind())
	}
	switch op {
	case token.BIT_AND:
		return value.Int(li & ri), nil
	case token.BIT_OR:
		return value.Int(li | ri), nil
	case token.BIT_XOR:
		return value.Int(li ^ ri), nil
	case token.SHL:
		return value.Int(li << uint(ri)), nil
	case token.SHR:
		return value.Int(li >> uint(ri)), nil
	default:
		return value.Unit, werror.New(werror.KindNotFound, pos, "unsupported bitwise operator %s", op)
	}
}

// evalUnary evaluates unary +/-/!/~  (spec §4.2).
func evalUnary(op token.Kind, v value.Value, pos token.Position) (value.Value, error) {
	switch op {
	case token.UNARY_MINUS, token.MINUS:
		if i, ok := v.AsInt(); ok {
			return value.Int(-i), nil
		}
		if f, ok := v.AsFloat(); ok {
			return value.Float(-f), nil
		}
	case token.UNARY_PLUS, token.PLUS:
		if v.Kind() == value.KindInt || v.Kind() == value.KindFloat {
			return v, nil
		}
	case token.NOT:
		if b, ok := v.AsBool(); ok {
			return value.Bool(!b), nil
		}
	case token.BIT_NOT:
		if i, ok := v.AsInt(); ok {
			return value.Int(^i), nil
		}
	}
	return value.Unit, werror.New(werror.KindTypeMismatch, pos, "cannot apply unary %s to %s", op, v.Kind())
}

// valuesEqual implements spec §4.3's structural equality: scalars by
// value, composites by deep structural comparison, shared cells by
// their current contents (not pointer identity).
func valuesEqual(a, b value.Value) bool {
	a = a.Flatten()
	b = b.Flatten()
	if a.Kind() != b.Kind() {
		if af, aok := a.AsFloat(); aok {
			if bf, bok := b.AsFloat(); bok {
				return af == bf
			}
		}
		return false
	}
	switch a.Kind() {
	case value.KindUnit:
		return true
	case value.KindBool:
		ab, _ := a.AsBool()
		bb, _ := b.AsBool()
		return ab == bb
	case value.KindInt:
		ai, _ := a.AsInt()
		bi, _ := b.AsInt()
		return ai == bi
	case value.KindFloat, value.KindDecimal:
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		return af == bf
	case value.KindChar:
		ac, _ := a.AsChar()
		bc, _ := b.AsChar()
		return ac == bc
	case value.KindString:
		as, _ := a.AsString()
		bs, _ := b.AsString()
		return as == bs
	case value.KindArray:
		aa, _ := a.AsArray()
		ba, _ := b.AsArray()
		if aa.Len() != ba.Len() {
			return false
		}
		for i := 0; i < aa.Len(); i++ {
			av, _ := aa.Get(i)
			bv, _ := ba.Get(i)
			if !valuesEqual(av, bv) {
				return false
			}
		}
		return true
	case value.KindMap:
		am, _ := a.AsMap()
		bm, _ := b.AsMap()
		if am.Len() != bm.Len() {
			return false
		}
		for _, k := range am.Keys() {
			av, _ := am.Get(k)
			bv, ok := bm.Get(k)
			if !ok || !valuesEqual(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
