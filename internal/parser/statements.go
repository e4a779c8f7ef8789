package parser

import (
	"github.com/weavelang/weave/internal/ast"
	"github.com/weavelang/weave/internal/token"
)

// parseStatement dispatches on the leading token to one of the statement
// productions (spec §3.3's statement list), falling back to an
// expression/assignment statement for anything that doesn't start with a
// reserved keyword.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.current().Kind {
	case token.SEMICOLON:
		tok := p.cur.advance()
		n := &ast.NoopStmt{}
		n.SetPos(tok.Pos)
		return n
	case token.LBRACE:
		return p.parseBlockStmtBody()
	case token.LET, token.CONST:
		return p.parseVarStmt(false)
	case token.IF:
		return p.parseIfStmt()
	case token.SWITCH:
		return p.parseSwitchStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.DO:
		return p.parseDoStmt()
	case token.LOOP:
		return p.parseLoopStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.THROW:
		return p.parseThrowStmt()
	case token.BREAK:
		tok := p.cur.advance()
		p.expectSemicolon()
		n := &ast.BreakStmt{}
		n.SetPos(tok.Pos)
		return n
	case token.CONTINUE:
		tok := p.cur.advance()
		p.expectSemicolon()
		n := &ast.ContinueStmt{}
		n.SetPos(tok.Pos)
		return n
	case token.TRY:
		return p.parseTryCatchStmt()
	case token.IMPORT:
		return p.parseImportStmt()
	case token.EXPORT:
		return p.parseExportOrVarStmt()
	case token.FN:
		tok := p.cur.current()
		p.errorf(tok.Pos, "nested function declarations are not allowed; use a closure literal instead")
		p.synchronize()
		n := &ast.NoopStmt{}
		n.SetPos(tok.Pos)
		return n
	default:
		return p.parseExpressionStatement()
	}
}

// parseBlockStmtBody parses `{ stmt* }`, mirroring the local-scope
// mark/rewind the evaluator performs on every block exit (internal/eval's
// evalBlock) so indices resolved inside stay valid across recursive calls.
func (p *Parser) parseBlockStmtBody() *ast.BlockStmt {
	start := p.expect(token.LBRACE)
	top := p.topFrame()
	mark := top.scope.mark()
	b := &ast.BlockStmt{}
	b.SetPos(start.Pos)
	for p.cur.current().Kind != token.RBRACE && !p.atEnd() {
		b.Statements = append(b.Statements, p.parseStatement())
	}
	p.expect(token.RBRACE)
	top.scope.rewind(mark)
	return b
}

// parseVarStmt parses `let name [= init];` or `const name = init;`.
// exported marks the declaration as also carrying VarFlagExported (the
// `export let ...` shorthand parsed by parseExportOrVarStmt).
func (p *Parser) parseVarStmt(exported bool) *ast.VarStmt {
	kwTok := p.cur.advance() // consume let/const
	isConst := kwTok.Kind == token.CONST
	nameTok := p.expect(token.IDENT)

	v := &ast.VarStmt{Name: nameTok.Literal}
	v.SetPos(kwTok.Pos)
	if isConst {
		v.Flags |= ast.VarFlagConst
	}
	if exported {
		v.Flags |= ast.VarFlagExported
	}
	if isConst && p.cur.current().Kind != token.ASSIGN {
		p.errorf(p.cur.current().Pos, "const %q must have an initializer", nameTok.Literal)
	}

	if p.cur.current().Kind == token.ASSIGN {
		p.cur.advance()
		v.Init = p.parseExpression(LOWEST)
	}
	p.expectSemicolon()

	v.LocalIndex = p.declareLocal(v.Name, isConst, v)
	return v
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	tok := p.cur.advance() // consume if
	cond := p.parseExpression(LOWEST)
	then := p.parseBlockStmtBody()
	n := &ast.IfStmt{Cond: cond, Then: then}
	n.SetPos(tok.Pos)
	if p.cur.current().Kind == token.ELSE {
		p.cur.advance()
		if p.cur.current().Kind == token.IF {
			n.Else = p.parseIfStmt()
		} else {
			n.Else = p.parseBlockStmtBody()
		}
	}
	return n
}

// parseSwitchStmt parses `switch subject { values[, values...] [if guard] : body ... _ : default }`.
// No grammar for this exists in another language's syntax this module
// imitates; colon-delimited arms and an `_` default were chosen to reuse
// tokens the lexer already produces (spec leaves concrete switch syntax
// unspecified, see DESIGN.md).
func (p *Parser) parseSwitchStmt() *ast.SwitchStmt {
	tok := p.cur.advance() // consume switch
	subject := p.parseExpression(LOWEST)
	p.expect(token.LBRACE)
	n := &ast.SwitchStmt{Subject: subject}
	n.SetPos(tok.Pos)

	for p.cur.current().Kind != token.RBRACE && !p.atEnd() {
		if p.cur.current().Kind == token.IDENT && p.cur.current().Literal == "_" {
			p.cur.advance()
			p.expect(token.COLON)
			n.Default = p.parseBlockStmtBody()
			continue
		}

		first := p.parseExpression(LOWEST)
		if rng, ok := first.(*ast.RangeExpr); ok {
			if values, unrolled := tryUnrollRange(rng); unrolled {
				n.Cases = append(n.Cases, p.finishSwitchArm(ast.SwitchCase{Values: values}))
			} else {
				to := rng.To
				if !rng.Inclusive {
					// switchCaseMatches compares both bounds inclusively,
					// so an exclusive range's upper bound is lowered by one.
					one := &ast.IntLiteral{Value: 1}
					one.SetPos(rng.Pos())
					dec := &ast.BinaryExpr{
						Op: token.MINUS, Left: rng.To, Right: one,
						ScriptHash: fnHash(token.MINUS.String(), 2),
						NativeHash: methodHash(token.MINUS.String(), 2),
					}
					dec.SetPos(rng.Pos())
					to = dec
				}
				n.Cases = append(n.Cases, p.finishSwitchArm(ast.SwitchCase{From: rng.From, To: to}))
			}
			continue
		}

		values := []ast.Expr{first}
		for p.cur.current().Kind == token.COMMA {
			p.cur.advance()
			values = append(values, p.parseExpression(LOWEST))
		}
		n.Cases = append(n.Cases, p.finishSwitchArm(ast.SwitchCase{Values: values}))
	}
	p.expect(token.RBRACE)
	return n
}

func (p *Parser) finishSwitchArm(c ast.SwitchCase) ast.SwitchCase {
	if p.cur.current().Kind == token.IF {
		p.cur.advance()
		c.Guard = p.parseExpression(LOWEST)
	}
	p.expect(token.COLON)
	c.Body = p.parseBlockStmtBody()
	return c
}

// tryUnrollRange expands a literal-bounded range of at most 16 elements
// into individual int-literal case values at parse time (spec §4.6.2); a
// non-literal bound or a span over 16 is left as a From/To range case,
// which switchCaseMatches still evaluates correctly, just without the
// compile-time unroll.
func tryUnrollRange(rng *ast.RangeExpr) ([]ast.Expr, bool) {
	from, fok := rng.From.(*ast.IntLiteral)
	to, tok := rng.To.(*ast.IntLiteral)
	if !fok || !tok {
		return nil, false
	}
	hi := to.Value
	if !rng.Inclusive {
		hi--
	}
	if hi < from.Value {
		return nil, true
	}
	if hi-from.Value+1 > 16 {
		return nil, false
	}
	values := make([]ast.Expr, 0, hi-from.Value+1)
	for v := from.Value; v <= hi; v++ {
		lit := &ast.IntLiteral{Value: v}
		lit.SetPos(rng.Pos())
		values = append(values, lit)
	}
	return values, true
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	tok := p.cur.advance() // consume while
	cond := p.parseExpression(LOWEST)
	body := p.parseBlockStmtBody()
	n := &ast.WhileStmt{Cond: cond, Body: body}
	n.SetPos(tok.Pos)
	return n
}

// parseDoStmt parses `do { body } while cond;` or `do { body } until cond;`.
func (p *Parser) parseDoStmt() *ast.DoStmt {
	tok := p.cur.advance() // consume do
	body := p.parseBlockStmtBody()
	isUntil := p.cur.current().Kind == token.UNTIL
	if !isUntil {
		p.expect(token.WHILE)
	} else {
		p.cur.advance()
	}
	cond := p.parseExpression(LOWEST)
	p.expectSemicolon()
	n := &ast.DoStmt{Body: body, Cond: cond, IsUntil: isUntil}
	n.SetPos(tok.Pos)
	return n
}

func (p *Parser) parseLoopStmt() *ast.LoopStmt {
	tok := p.cur.advance() // consume loop
	body := p.parseBlockStmtBody()
	n := &ast.LoopStmt{Body: body}
	n.SetPos(tok.Pos)
	return n
}

// parseForStmt parses `for name[, counter] in iterable { body }`. The
// loop variable(s) are declared directly into the local scope, mirroring
// evalForStmt's mark/Push(var[, counter])/evalBlock/Rewind sequence, so a
// Variable reference to either resolves to the exact relative slot the
// evaluator will place it in.
func (p *Parser) parseForStmt() *ast.ForStmt {
	tok := p.cur.advance() // consume for
	varTok := p.expect(token.IDENT)
	n := &ast.ForStmt{VarName: varTok.Literal}
	n.SetPos(tok.Pos)
	if p.cur.current().Kind == token.COMMA {
		p.cur.advance()
		n.CounterName = p.expect(token.IDENT).Literal
	}
	p.expect(token.IN)
	n.Iterable = p.parseExpression(LOWEST)

	top := p.topFrame()
	mark := top.scope.mark()
	top.scope.declare(n.VarName, false)
	if n.CounterName != "" {
		top.scope.declare(n.CounterName, false)
	}
	n.Body = p.parseBlockStmtBody()
	top.scope.rewind(mark)
	return n
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	tok := p.cur.advance() // consume return
	n := &ast.ReturnStmt{}
	n.SetPos(tok.Pos)
	if p.cur.current().Kind != token.SEMICOLON {
		n.Value = p.parseExpression(LOWEST)
	}
	p.expectSemicolon()
	return n
}

func (p *Parser) parseThrowStmt() *ast.ThrowStmt {
	tok := p.cur.advance() // consume throw
	n := &ast.ThrowStmt{}
	n.SetPos(tok.Pos)
	if p.cur.current().Kind != token.SEMICOLON {
		n.Value = p.parseExpression(LOWEST)
	}
	p.expectSemicolon()
	return n
}

// parseTryCatchStmt mirrors evalTryCatchStmt's scope handling: the catch
// variable (if bound) is pushed into a mark/rewind segment that encloses
// the catch block's own nested mark/rewind.
func (p *Parser) parseTryCatchStmt() *ast.TryCatchStmt {
	tok := p.cur.advance() // consume try
	tryBlock := p.parseBlockStmtBody()
	p.expect(token.CATCH)

	n := &ast.TryCatchStmt{Try: tryBlock}
	n.SetPos(tok.Pos)

	top := p.topFrame()
	mark := top.scope.mark()
	if p.cur.current().Kind == token.LPAREN {
		p.cur.advance()
		n.CatchVar = p.expect(token.IDENT).Literal
		p.expect(token.RPAREN)
		top.scope.declare(n.CatchVar, false)
	}
	n.Catch = p.parseBlockStmtBody()
	top.scope.rewind(mark)
	return n
}

// parseImportStmt parses `import path [as alias];`; path is any expression
// (typically a string literal) evaluated at run time by the host module
// resolver (spec §4.1).
func (p *Parser) parseImportStmt() *ast.ImportStmt {
	tok := p.cur.advance() // consume import
	n := &ast.ImportStmt{Path: p.parseExpression(LOWEST)}
	n.SetPos(tok.Pos)
	if p.cur.current().Kind == token.AS {
		p.cur.advance()
		n.Alias = p.expect(token.IDENT).Literal
	}
	p.expectSemicolon()
	return n
}

// parseExportOrVarStmt handles both `export name [as alias];` and the
// `export let|const name = init;` shorthand, which is just a VarStmt with
// VarFlagExported set rather than a separate ExportStmt.
func (p *Parser) parseExportOrVarStmt() ast.Stmt {
	tok := p.cur.current()
	if p.cur.peek(1).Kind == token.LET || p.cur.peek(1).Kind == token.CONST {
		p.cur.advance() // consume export
		return p.parseVarStmt(true)
	}
	p.cur.advance() // consume export
	nameTok := p.expect(token.IDENT)
	n := &ast.ExportStmt{Name: nameTok.Literal}
	n.SetPos(tok.Pos)
	if p.cur.current().Kind == token.AS {
		p.cur.advance()
		n.Alias = p.expect(token.IDENT).Literal
	}
	p.expectSemicolon()
	return n
}

// parseExpressionStatement parses a bare expression, promoting it to an
// AssignStmt if followed by an assignment operator (spec §3.3
// `Assignment(op, lhs, rhs)`); assignment is not a Pratt infix operator
// since its target must be validated as an lvalue and it is
// right-associative at statement granularity only.
func (p *Parser) parseExpressionStatement() ast.Stmt {
	start := p.cur.current()
	expr := p.parseExpression(LOWEST)

	if assignOps[p.cur.current().Kind] {
		opTok := p.cur.advance()
		if v, ok := expr.(*ast.Variable); ok && p.isConstVariable(v.Name) {
			p.errorf(opTok.Pos, "cannot assign to constant %q", v.Name)
		}
		if !isAssignable(expr) {
			p.errorf(opTok.Pos, "invalid assignment target")
		}
		rhs := p.parseExpression(LOWEST)
		p.expectSemicolon()
		n := &ast.AssignStmt{Op: opTok.Kind, LHS: expr, RHS: rhs}
		n.SetPos(start.Pos)
		return n
	}

	p.expectSemicolon()
	n := &ast.ExprStmt{X: expr}
	n.SetPos(start.Pos)
	return n
}

func isAssignable(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Variable, *ast.IndexExpr, *ast.PropertyExpr:
		return true
	default:
		return false
	}
}
