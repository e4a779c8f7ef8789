package eval

import (
	"testing"

	"github.com/weavelang/weave/internal/ast"
	"github.com/weavelang/weave/internal/module"
	"github.com/weavelang/weave/internal/token"
	"github.com/weavelang/weave/internal/value"
)

func newInterp() *Interp {
	root := module.New("")
	own := module.New("")
	program := &ast.Program{Functions: map[uint64]*ast.FunctionDecl{}}
	return New(program, own, root, DefaultLimits())
}

func intLit(n int64) *ast.IntLiteral { return &ast.IntLiteral{Value: n} }

func TestEvalArithmetic(t *testing.T) {
	ip := newInterp()
	expr := &ast.BinaryExpr{Op: token.PLUS, Left: intLit(2), Right: intLit(3)}
	v, err := ip.evalExpr(expr)
	if err != nil {
		t.Fatal(err)
	}
	if i, _ := v.AsInt(); i != 5 {
		t.Fatalf("got %d, want 5", i)
	}
}

func TestEvalIntegerOverflowIsError(t *testing.T) {
	ip := newInterp()
	expr := &ast.BinaryExpr{Op: token.PLUS, Left: intLit(9223372036854775807), Right: intLit(1)}
	_, err := ip.evalExpr(expr)
	if err == nil {
		t.Fatal("expected overflow to produce an error")
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	ip := newInterp()
	expr := &ast.BinaryExpr{Op: token.SLASH, Left: intLit(1), Right: intLit(0)}
	_, err := ip.evalExpr(expr)
	if err == nil {
		t.Fatal("expected division by zero to error")
	}
}

func TestVarStmtAndVariableLookup(t *testing.T) {
	ip := newInterp()
	program := &ast.Program{
		Statements: []ast.Stmt{
			&ast.VarStmt{Name: "x", Init: intLit(10), LocalIndex: -1},
			&ast.ExprStmt{X: &ast.Variable{Name: "x", Index: -1}},
		},
	}
	v, err := ip.Run(program)
	if err != nil {
		t.Fatal(err)
	}
	if i, _ := v.AsInt(); i != 10 {
		t.Fatalf("got %d, want 10", i)
	}
}

func TestConstAssignmentIsRejected(t *testing.T) {
	ip := newInterp()
	if err := ip.evalVarStmt(&ast.VarStmt{Name: "PI", Init: &ast.FloatLiteral{Value: 3.14}, Flags: ast.VarFlagConst}); err != nil {
		t.Fatal(err)
	}
	err := ip.assignTo(&ast.Variable{Name: "PI", Index: -1}, value.Float(1), token.Position{Line: 1, Column: 1})
	if err == nil {
		t.Fatal("expected assignment to a const to fail")
	}
}

func TestIfStmt(t *testing.T) {
	ip := newInterp()
	stmt := &ast.IfStmt{
		Cond: &ast.BoolLiteral{Value: true},
		Then: &ast.BlockStmt{Statements: []ast.Stmt{&ast.ExprStmt{X: intLit(1)}}},
		Else: &ast.BlockStmt{Statements: []ast.Stmt{&ast.ExprStmt{X: intLit(2)}}},
	}
	v, err := ip.evalStmt(stmt)
	if err != nil {
		t.Fatal(err)
	}
	if i, _ := v.AsInt(); i != 1 {
		t.Fatalf("got %d, want 1 (then branch)", i)
	}
}

func TestWhileLoopWithBreak(t *testing.T) {
	ip := newInterp()
	mark := ip.Scope.Len()
	counterIdx := ip.Scope.Push("i", value.Int(0))
	_ = mark
	loop := &ast.WhileStmt{
		Cond: &ast.BoolLiteral{Value: true},
		Body: &ast.BlockStmt{Statements: []ast.Stmt{
			&ast.AssignStmt{Op: token.ASSIGN, LHS: &ast.Variable{Name: "i", Index: counterIdx}, RHS: &ast.BinaryExpr{
				Op: token.PLUS, Left: &ast.Variable{Name: "i", Index: counterIdx}, Right: intLit(1),
			}},
			&ast.IfStmt{
				Cond: &ast.BinaryExpr{Op: token.GTE, Left: &ast.Variable{Name: "i", Index: counterIdx}, Right: intLit(3)},
				Then: &ast.BlockStmt{Statements: []ast.Stmt{&ast.BreakStmt{}}},
			},
		}},
	}
	if err := ip.evalWhileStmt(loop); err != nil {
		t.Fatal(err)
	}
	v, _ := ip.Scope.GetByIndex(counterIdx)
	if i, _ := v.AsInt(); i != 3 {
		t.Fatalf("got %d, want 3", i)
	}
}

func TestForLoopOverArray(t *testing.T) {
	ip := newInterp()
	arr := &ast.ArrayLiteral{Elements: []ast.Expr{intLit(1), intLit(2), intLit(3)}}
	sumIdx := ip.Scope.Push("sum", value.Int(0))
	loop := &ast.ForStmt{
		VarName:  "x",
		Iterable: arr,
		Body: &ast.BlockStmt{Statements: []ast.Stmt{
			&ast.AssignStmt{Op: token.ASSIGN, LHS: &ast.Variable{Name: "sum", Index: sumIdx}, RHS: &ast.BinaryExpr{
				Op: token.PLUS, Left: &ast.Variable{Name: "sum", Index: sumIdx}, Right: &ast.Variable{Name: "x", Index: -1},
			}},
		}},
	}
	if err := ip.evalForStmt(loop); err != nil {
		t.Fatal(err)
	}
	v, _ := ip.Scope.GetByIndex(sumIdx)
	if i, _ := v.AsInt(); i != 6 {
		t.Fatalf("got %d, want 6", i)
	}
}

func TestFunctionCallAndReturn(t *testing.T) {
	double := &ast.FunctionDecl{
		Name:   "double",
		Params: []string{"n"},
		Body: &ast.BlockStmt{Statements: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.BinaryExpr{Op: token.STAR, Left: &ast.Variable{Name: "n", Index: 0}, Right: intLit(2)}},
		}},
		Hash: 42,
	}
	program := &ast.Program{Functions: map[uint64]*ast.FunctionDecl{42: double}}
	ip := New(program, module.New(""), module.New(""), DefaultLimits())

	call := &ast.CallExpr{Name: "double", Args: []ast.Expr{intLit(21)}, ScriptHash: 42}
	v, err := ip.evalExpr(call)
	if err != nil {
		t.Fatal(err)
	}
	if i, _ := v.AsInt(); i != 42 {
		t.Fatalf("got %d, want 42", i)
	}
}

func TestTryCatchCatchesThrow(t *testing.T) {
	ip := newInterp()
	stmt := &ast.TryCatchStmt{
		Try: &ast.BlockStmt{Statements: []ast.Stmt{
			&ast.ThrowStmt{Value: &ast.StringLiteral{Value: "boom"}},
		}},
		CatchVar: "e",
		Catch: &ast.BlockStmt{Statements: []ast.Stmt{
			&ast.ExprStmt{X: &ast.Variable{Name: "e", Index: -1}},
		}},
	}
	if err := ip.evalTryCatchStmt(stmt); err != nil {
		t.Fatal(err)
	}
}

func TestCoalesceExprFallsThroughOnUnit(t *testing.T) {
	ip := newInterp()
	expr := &ast.CoalesceExpr{Left: &ast.UnitLiteral{}, Right: intLit(7)}
	v, err := ip.evalExpr(expr)
	if err != nil {
		t.Fatal(err)
	}
	if i, _ := v.AsInt(); i != 7 {
		t.Fatalf("got %d, want 7", i)
	}
}

func TestStackOverflowOnDeepRecursion(t *testing.T) {
	recur := &ast.FunctionDecl{
		Name:   "recur",
		Params: []string{},
		Body: &ast.BlockStmt{Statements: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.CallExpr{Name: "recur", ScriptHash: 7}},
		}},
		Hash: 7,
	}
	program := &ast.Program{Functions: map[uint64]*ast.FunctionDecl{7: recur}}
	limits := DefaultLimits()
	limits.MaxCallDepth = 10
	ip := New(program, module.New(""), module.New(""), limits)

	_, err := ip.evalExpr(&ast.CallExpr{Name: "recur", ScriptHash: 7})
	if err == nil {
		t.Fatal("expected deep recursion to hit the call-depth limit")
	}
}
