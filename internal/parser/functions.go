package parser

import (
	"github.com/weavelang/weave/internal/ast"
	"github.com/weavelang/weave/internal/token"
)

// parseFunctionDecl parses `fn name(params) { body }` at the top level.
// It runs the body under a brand new base frame (pushBaseFrame) rather
// than the enclosing one: a named function can never see its caller's
// locals, let alone capture them (spec §4.4), unlike a `|params| body`
// closure literal (parseClosureLiteral).
func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	tok := p.cur.advance() // consume fn
	nameTok := p.expect(token.IDENT)
	if token.IsReserved(nameTok.Literal) {
		p.errorf(nameTok.Pos, "function name %q is a reserved word", nameTok.Literal)
	}

	decl := &ast.FunctionDecl{Name: nameTok.Literal}
	decl.SetPos(tok.Pos)
	decl.Params = p.parseParamList()

	saved := p.pushBaseFrame()
	top := p.topFrame()
	for _, param := range decl.Params {
		top.scope.declare(param, false)
	}
	decl.Body = p.parseBlockStmtBody()
	p.popBaseFrame(saved)

	decl.Hash = fnHash(decl.Name, len(decl.Params))
	return decl
}

// parseParamList parses `(a, b, c)`, rejecting a duplicated parameter name
// (spec §4.1 error taxonomy: "duplicated parameter/property").
func (p *Parser) parseParamList() []string {
	p.expect(token.LPAREN)
	var params []string
	seen := map[string]bool{}
	for p.cur.current().Kind != token.RPAREN && !p.atEnd() {
		nameTok := p.expect(token.IDENT)
		if seen[nameTok.Literal] {
			p.errorf(nameTok.Pos, "duplicate parameter %q", nameTok.Literal)
		}
		seen[nameTok.Literal] = true
		params = append(params, nameTok.Literal)
		if p.cur.current().Kind == token.COMMA {
			p.cur.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return params
}

// parseClosureLiteral parses `|params| body` (spec §4.2 "Closures"). The
// body may be a block or a single trailing expression; either way it is
// wrapped into a synthesized *ast.FunctionDecl registered into the
// in-progress program's function table under a generated name, since
// callFnPtr resolves a function pointer value by name, not by carrying
// the AST node around at run time.
func (p *Parser) parseClosureLiteral() ast.Expr {
	start := p.cur.advance() // consume opening |
	var params []string
	seen := map[string]bool{}
	for p.cur.current().Kind != token.PIPE && !p.atEnd() {
		nameTok := p.expect(token.IDENT)
		if seen[nameTok.Literal] {
			p.errorf(nameTok.Pos, "duplicate parameter %q", nameTok.Literal)
		}
		seen[nameTok.Literal] = true
		params = append(params, nameTok.Literal)
		if p.cur.current().Kind == token.COMMA {
			p.cur.advance()
			continue
		}
		break
	}
	p.expect(token.PIPE)

	fn := &ast.FnExpr{Name: nextAnonName(p), Params: params}
	fn.SetPos(start.Pos)

	p.pushClosureFrame(fn)
	var body *ast.BlockStmt
	if p.cur.current().Kind == token.LBRACE {
		body = p.parseBlockStmtBody()
	} else {
		exprStart := p.cur.current()
		expr := p.parseExpression(LOWEST)
		ret := &ast.ReturnStmt{Value: expr}
		ret.SetPos(exprStart.Pos)
		body = &ast.BlockStmt{Statements: []ast.Stmt{ret}}
		body.SetPos(exprStart.Pos)
	}
	p.popClosureFrame()
	fn.Body = body

	decl := &ast.FunctionDecl{
		Name:   fn.Name,
		Params: fn.Params,
		Body:   body,
		Hash:   fnHash(fn.Name, len(fn.Params)),
	}
	decl.SetPos(start.Pos)
	p.registerClosure(decl)

	return fn
}
