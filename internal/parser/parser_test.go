package parser

import (
	"testing"

	"github.com/weavelang/weave/internal/ast"
)

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	errs := p.Errors()
	if len(errs) == 0 {
		return
	}
	for _, e := range errs {
		t.Errorf("parser error: %s", e)
	}
	t.FailNow()
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"int", "42;"},
		{"hex", "0x2A;"},
		{"octal", "0o52;"},
		{"binary", "0b101010;"},
		{"underscored", "1_000_000;"},
		{"float", "3.5;"},
		{"decimal", "3.5d;"},
		{"char", "'x';"},
		{"string", `"hi";`},
		{"true", "true;"},
		{"false", "false;"},
		{"unit", "();"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, errs := Parse(tt.input)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if len(prog.Statements) != 1 {
				t.Fatalf("got %d statements, want 1", len(prog.Statements))
			}
			if _, ok := prog.Statements[0].(*ast.ExprStmt); !ok {
				t.Fatalf("statement is %T, want *ast.ExprStmt", prog.Statements[0])
			}
		})
	}
}

func TestInterpolatedString(t *testing.T) {
	prog, errs := Parse("`hello ${name}, you are ${age + 1}`;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	stmt := prog.Statements[0].(*ast.ExprStmt)
	e, ok := stmt.X.(*ast.InterpolatedStringExpr)
	if !ok {
		t.Fatalf("expression is %T, want *ast.InterpolatedStringExpr", stmt.X)
	}
	if len(e.Chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(e.Chunks))
	}
	if len(e.Exprs) != 2 {
		t.Fatalf("got %d embedded expressions, want 2", len(e.Exprs))
	}
	if _, ok := e.Exprs[0].(*ast.Variable); !ok {
		t.Errorf("first embedded expr is %T, want *ast.Variable", e.Exprs[0])
	}
	if _, ok := e.Exprs[1].(*ast.BinaryExpr); !ok {
		t.Errorf("second embedded expr is %T, want *ast.BinaryExpr", e.Exprs[1])
	}
}

func TestBinaryPrecedence(t *testing.T) {
	prog, errs := Parse("1 + 2 * 3;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	stmt := prog.Statements[0].(*ast.ExprStmt)
	add, ok := stmt.X.(*ast.BinaryExpr)
	if !ok || add.Op.String() != "+" {
		t.Fatalf("top expr is %#v, want a + BinaryExpr", stmt.X)
	}
	if _, ok := add.Left.(*ast.IntLiteral); !ok {
		t.Errorf("left of + is %T, want *ast.IntLiteral", add.Left)
	}
	mul, ok := add.Right.(*ast.BinaryExpr)
	if !ok || mul.Op.String() != "*" {
		t.Fatalf("right of + is %#v, want a * BinaryExpr", add.Right)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	prog, errs := Parse("2 ** 3 ** 2;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	stmt := prog.Statements[0].(*ast.ExprStmt)
	top, ok := stmt.X.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("top expr is %T, want *ast.BinaryExpr", stmt.X)
	}
	if _, ok := top.Left.(*ast.IntLiteral); !ok {
		t.Errorf("left of outer ** is %T, want *ast.IntLiteral (2)", top.Left)
	}
	if _, ok := top.Right.(*ast.BinaryExpr); !ok {
		t.Errorf("right of outer ** is %T, want nested ** BinaryExpr", top.Right)
	}
}

func TestBitOrVsClosureAmbiguity(t *testing.T) {
	prog, errs := Parse("let x = 1 | 2;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	v := prog.Statements[0].(*ast.VarStmt)
	bin, ok := v.Init.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("init is %T, want *ast.BinaryExpr", v.Init)
	}
	if bin.Op.String() != "|" {
		t.Errorf("op = %s, want |", bin.Op)
	}
}

func TestInOperatorResugarsToContains(t *testing.T) {
	prog, errs := Parse("x in items;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	stmt := prog.Statements[0].(*ast.ExprStmt)
	call, ok := stmt.X.(*ast.CallExpr)
	if !ok || call.Name != "contains" {
		t.Fatalf("expr is %#v, want a contains() CallExpr", stmt.X)
	}
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
	if _, ok := call.Args[0].(*ast.Variable); !ok {
		t.Errorf("first (haystack) arg is %T, want *ast.Variable (items)", call.Args[0])
	}
}

func TestVariableResolutionWithinBlock(t *testing.T) {
	prog, errs := Parse("let x = 1; let y = x + 1;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	y := prog.Statements[1].(*ast.VarStmt)
	bin := y.Init.(*ast.BinaryExpr)
	v, ok := bin.Left.(*ast.Variable)
	if !ok {
		t.Fatalf("left of y's init is %T, want *ast.Variable", bin.Left)
	}
	if v.Index != 0 {
		t.Errorf("x resolved to index %d, want 0", v.Index)
	}
}

func TestBlockRewindReusesSlot(t *testing.T) {
	// Two sibling if-blocks each declare one local; since evalBlock
	// rewinds the scope on every exit, both should resolve to the same
	// relative slot (spec §4.1 "leaving a block rewinds its locals").
	prog, errs := Parse(`
		if true { let a = 1; }
		if true { let b = 2; }
	`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	first := prog.Statements[0].(*ast.IfStmt).Then.Statements[0].(*ast.VarStmt)
	second := prog.Statements[1].(*ast.IfStmt).Then.Statements[0].(*ast.VarStmt)
	if first.LocalIndex != second.LocalIndex {
		t.Errorf("sibling block locals got indices %d and %d, want equal", first.LocalIndex, second.LocalIndex)
	}
}

func TestForLoopBindsVarAndCounter(t *testing.T) {
	prog, errs := Parse("for item, i in items { let doubled = i * 2; }")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	f := prog.Statements[0].(*ast.ForStmt)
	if f.VarName != "item" || f.CounterName != "i" {
		t.Fatalf("got VarName=%q CounterName=%q, want item/i", f.VarName, f.CounterName)
	}
	inner := f.Body.Statements[0].(*ast.VarStmt)
	mul := inner.Init.(*ast.BinaryExpr)
	counterRef := mul.Left.(*ast.Variable)
	if counterRef.Index != 1 {
		t.Errorf("counter resolved to index %d, want 1 (after item at 0)", counterRef.Index)
	}
}

func TestFunctionDeclRegistersByHash(t *testing.T) {
	prog, errs := Parse("fn add(a, b) { return a + b; }")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(prog.Statements) != 0 {
		t.Fatalf("got %d top-level statements, want 0 (fn goes to Functions)", len(prog.Statements))
	}
	fn := findFunctionByName(prog, "add")
	if fn == nil {
		t.Fatal("add not registered in Program.Functions")
	}
	if len(fn.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(fn.Params))
	}
	wantHash := fnHash("add", 2)
	if prog.Functions[wantHash] != fn {
		t.Errorf("add not stored under fnHash(\"add\", 2)")
	}
}

func TestNamedFunctionCannotSeeOuterLocals(t *testing.T) {
	// A Variable referencing an enclosing binding from inside a named fn
	// body must fail to resolve locally (Index == -1): named functions
	// never capture (spec §4.4).
	prog, errs := Parse("let outer = 1; fn f() { return outer; }")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn := findFunctionByName(prog, "f")
	ret := fn.Body.Statements[0].(*ast.ReturnStmt)
	v := ret.Value.(*ast.Variable)
	if v.Index != -1 {
		t.Errorf("outer resolved to index %d inside fn body, want -1 (name fallback)", v.Index)
	}
}

func TestClosureCapturesOuterLocal(t *testing.T) {
	prog, errs := Parse("let base = 10; let add = |x| x + base;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	v := prog.Statements[1].(*ast.VarStmt)
	fn, ok := v.Init.(*ast.FnExpr)
	if !ok {
		t.Fatalf("init is %T, want *ast.FnExpr", v.Init)
	}
	if len(fn.Captures) != 1 || fn.Captures[0] != "base" {
		t.Fatalf("got Captures=%v, want [base]", fn.Captures)
	}
	decl := findFunctionByName(prog, fn.Name)
	if decl == nil {
		t.Fatalf("closure %q not registered into Program.Functions", fn.Name)
	}
	ret := decl.Body.Statements[0].(*ast.ReturnStmt)
	add := ret.Value.(*ast.BinaryExpr)
	xRef := add.Left.(*ast.Variable)
	baseRef := add.Right.(*ast.Variable)
	if xRef.Index != 1 {
		t.Errorf("param x resolved to index %d, want 1 (param after the single capture)", xRef.Index)
	}
	if baseRef.Index != -1 {
		t.Errorf("captured base resolved to index %d, want -1 (resolved by name at run time)", baseRef.Index)
	}
}

func TestClosureParamIndexShiftsWithCaptureCount(t *testing.T) {
	prog, errs := Parse("let a = 1; let b = 2; let f = |x| a + b + x;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	v := prog.Statements[2].(*ast.VarStmt)
	fn := v.Init.(*ast.FnExpr)
	if len(fn.Captures) != 2 {
		t.Fatalf("got %d captures, want 2", len(fn.Captures))
	}
	decl := findFunctionByName(prog, fn.Name)
	ret := decl.Body.Statements[0].(*ast.ReturnStmt)
	outer := ret.Value.(*ast.BinaryExpr) // (a + b) + x
	xRef := outer.Right.(*ast.Variable)
	if xRef.Index != 2 {
		t.Errorf("param x resolved to index %d, want 2 (after 2 captures)", xRef.Index)
	}
}

func TestSwitchRangeUnrolling(t *testing.T) {
	prog, errs := Parse(`
		switch n {
			1, 2 : { let r = 1; }
			3..6 : { let r = 2; }
			_ : { let r = 0; }
		}
	`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	sw := prog.Statements[0].(*ast.SwitchStmt)
	if len(sw.Cases) != 2 {
		t.Fatalf("got %d cases, want 2", len(sw.Cases))
	}
	if len(sw.Cases[0].Values) != 2 {
		t.Errorf("first case got %d values, want 2", len(sw.Cases[0].Values))
	}
	rangeCase := sw.Cases[1]
	if len(rangeCase.Values) != 3 {
		t.Fatalf("3..6 should unroll to 3 values (3,4,5), got %d", len(rangeCase.Values))
	}
	if sw.Default == nil {
		t.Error("missing default case")
	}
}

func TestSwitchWithGuard(t *testing.T) {
	prog, errs := Parse(`
		switch n {
			1 if flag : { let r = 1; }
			_ : { let r = 0; }
		}
	`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	sw := prog.Statements[0].(*ast.SwitchStmt)
	if sw.Cases[0].Guard == nil {
		t.Fatal("expected a guard expression on the first case")
	}
}

func TestAssignToConstIsError(t *testing.T) {
	_, errs := Parse("const x = 1; x = 2;")
	if len(errs) == 0 {
		t.Fatal("expected a parse error assigning to a const")
	}
}

func TestTryCatchBindsErrorVariable(t *testing.T) {
	prog, errs := Parse("try { throw 1; } catch (e) { let msg = e; }")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	tc := prog.Statements[0].(*ast.TryCatchStmt)
	if tc.CatchVar != "e" {
		t.Fatalf("CatchVar = %q, want e", tc.CatchVar)
	}
	msg := tc.Catch.Statements[0].(*ast.VarStmt)
	ref := msg.Init.(*ast.Variable)
	if ref.Index != 0 {
		t.Errorf("e resolved to index %d, want 0", ref.Index)
	}
}

func TestImportExport(t *testing.T) {
	prog, errs := Parse(`import "math" as m; export pi as PI;`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	imp := prog.Statements[0].(*ast.ImportStmt)
	if imp.Alias != "m" {
		t.Errorf("import alias = %q, want m", imp.Alias)
	}
	exp := prog.Statements[1].(*ast.ExportStmt)
	if exp.Name != "pi" || exp.Alias != "PI" {
		t.Errorf("got Name=%q Alias=%q, want pi/PI", exp.Name, exp.Alias)
	}
}

func TestCustomSyntaxCapturesRawTokens(t *testing.T) {
	p := New(`describe foo bar (1, 2) baz;`)
	p.RegisterCustomSyntaxKeyword("describe")
	prog := p.ParseProgram()
	checkParserErrors(t, p)
	stmt := prog.Statements[0].(*ast.ExprStmt)
	cs, ok := stmt.X.(*ast.CustomSyntaxExpr)
	if !ok {
		t.Fatalf("expr is %T, want *ast.CustomSyntaxExpr", stmt.X)
	}
	if cs.Keyword != "describe" {
		t.Errorf("Keyword = %q, want describe", cs.Keyword)
	}
	if len(cs.Tokens) == 0 {
		t.Error("expected captured tokens, got none")
	}
}

func TestDuplicateParamIsError(t *testing.T) {
	_, errs := Parse("fn f(a, a) { return a; }")
	if len(errs) == 0 {
		t.Fatal("expected a duplicate-parameter error")
	}
}

func TestNestedFnDeclIsError(t *testing.T) {
	_, errs := Parse("fn outer() { fn inner() { return 1; } return 1; }")
	if len(errs) == 0 {
		t.Fatal("expected an error for a nested fn declaration")
	}
}

func findFunctionByName(prog *ast.Program, name string) *ast.FunctionDecl {
	for _, fn := range prog.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}
