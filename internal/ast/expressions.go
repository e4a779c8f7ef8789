package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/weavelang/weave/internal/token"
)

// --- literals (spec §3.3, §6 "Literals") --------------------------------

type UnitLiteral struct{ base }
type BoolLiteral struct {
	base
	Value bool
}
type IntLiteral struct {
	base
	Value int64
}
type FloatLiteral struct {
	base
	Value float64
}
type DecimalLiteral struct {
	base
	Value float64
}
type CharLiteral struct {
	base
	Value rune
}
type StringLiteral struct {
	base
	Value string
}

func (*UnitLiteral) exprNode()    {}
func (*BoolLiteral) exprNode()    {}
func (*IntLiteral) exprNode()     {}
func (*FloatLiteral) exprNode()   {}
func (*DecimalLiteral) exprNode() {}
func (*CharLiteral) exprNode()    {}
func (*StringLiteral) exprNode()  {}

func (u *UnitLiteral) String() string    { return "()" }
func (b *BoolLiteral) String() string    { return strconv.FormatBool(b.Value) }
func (i *IntLiteral) String() string     { return strconv.FormatInt(i.Value, 10) }
func (f *FloatLiteral) String() string   { return strconv.FormatFloat(f.Value, 'g', -1, 64) }
func (d *DecimalLiteral) String() string { return strconv.FormatFloat(d.Value, 'g', -1, 64) + "d" }
func (c *CharLiteral) String() string    { return fmt.Sprintf("'%c'", c.Value) }
func (s *StringLiteral) String() string  { return strconv.Quote(s.Value) }

// InterpolatedStringExpr alternates literal-text Chunks with embedded
// expressions: Chunks has len(Exprs)+1 entries.
type InterpolatedStringExpr struct {
	base
	Chunks []string
	Exprs  []Expr
}

func (*InterpolatedStringExpr) exprNode() {}
func (i *InterpolatedStringExpr) String() string {
	var sb strings.Builder
	sb.WriteByte('`')
	for idx, chunk := range i.Chunks {
		sb.WriteString(chunk)
		if idx < len(i.Exprs) {
			sb.WriteString("${")
			sb.WriteString(i.Exprs[idx].String())
			sb.WriteString("}")
		}
	}
	sb.WriteByte('`')
	return sb.String()
}

// --- collection literals ------------------------------------------------

type ArrayLiteral struct {
	base
	Elements []Expr
}

func (*ArrayLiteral) exprNode() {}
func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MapEntry is one `key: value` pair of a map literal.
type MapEntry struct {
	Key   string
	Value Expr
}

type MapLiteral struct {
	base
	Entries []MapEntry
}

func (*MapLiteral) exprNode() {}
func (m *MapLiteral) String() string {
	parts := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		parts[i] = e.Key + ": " + e.Value.String()
	}
	return "#{" + strings.Join(parts, ", ") + "}"
}

// --- variables & paths ---------------------------------------------------

// Variable is an identifier reference. Index is the parser-resolved slot
// offset from the enclosing function frame's barrier (see
// scope.Scope.ResolveLocal); Index == -1
// means the parser could not decide and the evaluator must fall back to a
// name search. Namespace is non-empty for module-qualified references
// (`ns::name`).
type Variable struct {
	base
	Name      string
	Index     int
	Namespace []string
	Hash      uint64
}

func (*Variable) exprNode() {}
func (v *Variable) String() string {
	if len(v.Namespace) > 0 {
		return strings.Join(v.Namespace, "::") + "::" + v.Name
	}
	return v.Name
}

// --- postfix chains: index, property/dot, calls -------------------------

// IndexExpr is `target[key]` or, when Optional is set, `target?[key]`.
type IndexExpr struct {
	base
	Target   Expr
	Key      Expr
	Optional bool
}

func (*IndexExpr) exprNode() {}
func (i *IndexExpr) String() string {
	op := "["
	if i.Optional {
		op = "?["
	}
	return fmt.Sprintf("%s%s%s]", i.Target.String(), op, i.Key.String())
}

// PropertyExpr is `target.name` or, when Optional is set, `target?.name`,
// resolved through a getter/setter name pair with precomputed hashes
// (spec §3.3).
type PropertyExpr struct {
	base
	Target     Expr
	Name       string
	GetterHash uint64
	SetterHash uint64
	Optional   bool
}

func (*PropertyExpr) exprNode() {}
func (p *PropertyExpr) String() string {
	op := "."
	if p.Optional {
		op = "?."
	}
	return p.Target.String() + op + p.Name
}

// CallExpr is a free function call `name(args...)` or, when Namespace is
// set, a module-qualified call. ScriptHash is callhash.FnHash(name, argc)
// and NativeHash is callhash.MethodHash(name, argc); neither includes
// argument types. The evaluator tries both (spec §3.3, §4.5).
type CallExpr struct {
	base
	Name         string
	Args         []Expr
	Namespace    []string
	ScriptHash   uint64
	NativeHash   uint64
	CaptureScope bool
}

func (*CallExpr) exprNode() {}
func (c *CallExpr) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	name := c.Name
	if len(c.Namespace) > 0 {
		name = strings.Join(c.Namespace, "::") + "::" + name
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}

// MethodCallExpr is `target.name(args...)`: Target is evaluated and
// prepended as the receiver argument (spec §3.3 "method call (same but
// with a different hash layout)").
type MethodCallExpr struct {
	base
	Target     Expr
	Name       string
	Args       []Expr
	ScriptHash uint64
	NativeHash uint64
	Optional   bool
}

func (*MethodCallExpr) exprNode() {}
func (m *MethodCallExpr) String() string {
	parts := make([]string, len(m.Args))
	for i, a := range m.Args {
		parts[i] = a.String()
	}
	op := "."
	if m.Optional {
		op = "?."
	}
	return fmt.Sprintf("%s%s%s(%s)", m.Target.String(), op, m.Name, strings.Join(parts, ", "))
}

// --- short-circuit logical operators (lowered at parse time, spec §4.2) --

type AndExpr struct {
	base
	Left, Right Expr
}
type OrExpr struct {
	base
	Left, Right Expr
}
type CoalesceExpr struct {
	base
	Left, Right Expr
}

func (*AndExpr) exprNode()      {}
func (*OrExpr) exprNode()       {}
func (*CoalesceExpr) exprNode() {}

func (a *AndExpr) String() string      { return fmt.Sprintf("(%s && %s)", a.Left, a.Right) }
func (o *OrExpr) String() string       { return fmt.Sprintf("(%s || %s)", o.Left, o.Right) }
func (c *CoalesceExpr) String() string { return fmt.Sprintf("(%s ?? %s)", c.Left, c.Right) }

// --- unary / binary -------------------------------------------------------

type UnaryExpr struct {
	base
	Op      token.Kind
	Operand Expr
}

func (*UnaryExpr) exprNode()   {}
func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.Operand) }

// BinaryExpr is every binary operator that is NOT short-circuiting;
// arithmetic/comparison/bitwise operators are all lowered to a function
// call through the dispatch subsystem (spec §4.5), so BinaryExpr carries
// the same precomputed hashes as CallExpr.
type BinaryExpr struct {
	base
	Op         token.Kind
	Left       Expr
	Right      Expr
	ScriptHash uint64
	NativeHash uint64
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// RangeExpr is `a..b` (exclusive) or, when Inclusive, `a..=b`.
type RangeExpr struct {
	base
	From, To  Expr
	Inclusive bool
}

func (*RangeExpr) exprNode() {}
func (r *RangeExpr) String() string {
	op := ".."
	if r.Inclusive {
		op = "..="
	}
	return fmt.Sprintf("%s%s%s", r.From, op, r.To)
}

// --- blocks-as-expressions & anonymous functions -------------------------

// BlockExpr is a `{ ... }` used where an expression is expected: its value
// is that of its last statement (spec §4.2 "statement-as-expression
// block").
type BlockExpr struct {
	base
	Body *BlockStmt
}

func (*BlockExpr) exprNode()      {}
func (b *BlockExpr) String() string { return b.Body.String() }

// FnExpr is an anonymous function / closure literal `|params| body`. Name
// is synthesized by hashing the parameter list and body (spec §3.3);
// Captures lists the free identifiers the parser found referenced from an
// outer scope; the evaluator (evalFnExpr) promotes each one to a shared
// cell directly when the literal is evaluated — there is no separate
// `Share` statement node (spec §4.2 "Closures").
type FnExpr struct {
	base
	Name     string
	Params   []string
	Body     Stmt
	Captures []string
}

func (*FnExpr) exprNode() {}
func (f *FnExpr) String() string {
	return fmt.Sprintf("|%s| %s", strings.Join(f.Params, ", "), f.Body.String())
}

// CustomSyntaxExpr is a placeholder for a host-registered custom syntax
// extension (spec §6 register_custom_syntax); the parser stores the raw
// captured tokens' literal text and leaves evaluation to the host-supplied
// evaluator callback looked up by Keyword at run time.
type CustomSyntaxExpr struct {
	base
	Keyword string
	Tokens  []string
}

func (*CustomSyntaxExpr) exprNode() {}
func (c *CustomSyntaxExpr) String() string {
	return c.Keyword + "(" + strings.Join(c.Tokens, " ") + ")"
}
