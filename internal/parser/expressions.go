package parser

import (
	"strconv"

	"github.com/weavelang/weave/internal/ast"
	"github.com/weavelang/weave/internal/token"
)

// assignOps is the set of statement-level assignment operators; kept
// here (rather than statements.go) next to the token-kind tables it's a
// sibling of.
var assignOps = map[token.Kind]bool{
	token.ASSIGN: true, token.PLUS_ASSIGN: true, token.MINUS_ASSIGN: true,
	token.STAR_ASSIGN: true, token.SLASH_ASSIGN: true, token.PERCENT_ASSIGN: true,
}

func (p *Parser) registerExpressionFns() {
	p.prefixFns = map[token.Kind]func() ast.Expr{
		token.IDENT:               p.parseIdentifierOrCall,
		token.INT:                 p.parseIntLiteral,
		token.FLOAT:               p.parseFloatLiteral,
		token.DECIMAL:             p.parseDecimalLiteral,
		token.CHAR:                p.parseCharLiteral,
		token.STRING:              p.parseStringLiteral,
		token.INTERP_STRING_CHUNK: p.parseInterpolatedString,
		token.TRUE:                p.parseBoolLiteral,
		token.FALSE:               p.parseBoolLiteral,
		token.LPAREN:              p.parseGroupedOrUnit,
		token.LBRACKET:            p.parseArrayLiteral,
		token.HASH:                p.parseMapLiteral,
		token.LBRACE:              p.parseBlockExprPrefix,
		token.PIPE:                p.parseClosureLiteral,
		token.MINUS:               p.parseUnaryPrefix,
		token.PLUS:                p.parseUnaryPrefix,
		token.NOT:                 p.parseUnaryPrefix,
		token.BIT_NOT:             p.parseUnaryPrefix,
	}
	p.infixFns = map[token.Kind]func(ast.Expr) ast.Expr{
		token.PLUS: p.parseBinaryInfix, token.MINUS: p.parseBinaryInfix,
		token.STAR: p.parseBinaryInfix, token.SLASH: p.parseBinaryInfix,
		token.PERCENT: p.parseBinaryInfix, token.POW: p.parseBinaryInfix,
		token.EQ: p.parseBinaryInfix, token.NEQ: p.parseBinaryInfix,
		token.LT: p.parseBinaryInfix, token.LTE: p.parseBinaryInfix,
		token.GT: p.parseBinaryInfix, token.GTE: p.parseBinaryInfix,
		token.BIT_AND: p.parseBinaryInfix, token.BIT_OR: p.parseBinaryInfix,
		token.BIT_XOR: p.parseBinaryInfix, token.SHL: p.parseBinaryInfix,
		token.SHR: p.parseBinaryInfix,
		token.AND:      p.parseAndInfix,
		token.OR:       p.parseOrInfix,
		token.COALESCE: p.parseCoalesceInfix,
		token.IN:       p.parseInInfix,
		token.PIPE:     p.parseBitOrInfix,
		token.RANGE:      p.parseRangeInfix,
		token.RANGE_INCL: p.parseRangeInfix,
		token.LBRACKET:       p.parseIndexInfix,
		token.QUESTION_INDEX: p.parseIndexInfix,
		token.DOT:            p.parseMemberInfix,
		token.QUESTION_DOT:   p.parseMemberInfix,
	}
}

// parseExpression is the Pratt precedence-climbing loop (spec §4.1):
// parse one prefix term, then keep folding in infix operators whose
// precedence exceeds the caller's floor.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix, ok := p.prefixFns[p.cur.current().Kind]
	if !ok {
		tok := p.cur.current()
		p.errorf(tok.Pos, "unexpected token %s %q in expression", tok.Kind, tok.Literal)
		p.cur.advance()
		u := &ast.UnitLiteral{}
		u.SetPos(tok.Pos)
		return u
	}
	left := prefix()
	for p.cur.current().Kind != token.SEMICOLON && precedence < precedenceOf(p.cur.current().Kind) {
		infix, ok := p.infixFns[p.cur.current().Kind]
		if !ok {
			break
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIntLiteral() ast.Expr {
	tok := p.cur.advance()
	n, err := strconv.ParseInt(tok.Literal, 0, 64)
	if err != nil {
		p.errorf(tok.Pos, "invalid integer literal %q: %s", tok.Literal, err)
	}
	e := &ast.IntLiteral{Value: n}
	e.SetPos(tok.Pos)
	return e
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	tok := p.cur.advance()
	f, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.errorf(tok.Pos, "invalid float literal %q: %s", tok.Literal, err)
	}
	e := &ast.FloatLiteral{Value: f}
	e.SetPos(tok.Pos)
	return e
}

func (p *Parser) parseDecimalLiteral() ast.Expr {
	tok := p.cur.advance()
	f, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.errorf(tok.Pos, "invalid decimal literal %q: %s", tok.Literal, err)
	}
	e := &ast.DecimalLiteral{Value: f}
	e.SetPos(tok.Pos)
	return e
}

func (p *Parser) parseCharLiteral() ast.Expr {
	tok := p.cur.advance()
	r := rune(0)
	if rs := []rune(tok.Literal); len(rs) > 0 {
		r = rs[0]
	}
	e := &ast.CharLiteral{Value: r}
	e.SetPos(tok.Pos)
	return e
}

func (p *Parser) parseStringLiteral() ast.Expr {
	tok := p.cur.advance()
	e := &ast.StringLiteral{Value: tok.Literal}
	e.SetPos(tok.Pos)
	return e
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	tok := p.cur.advance()
	e := &ast.BoolLiteral{Value: tok.Kind == token.TRUE}
	e.SetPos(tok.Pos)
	return e
}

// parseInterpolatedString consumes the chunk/expr/chunk/.../chunk run the
// lexer produces for one backtick string: a chunk terminated by `${`
// (rather than the closing backtick) is always followed by an
// INTERP_EXPR_START, one embedded expression, and an INTERP_EXPR_END
// before the next chunk (spec §4.1).
func (p *Parser) parseInterpolatedString() ast.Expr {
	start := p.cur.current()
	e := &ast.InterpolatedStringExpr{}
	e.SetPos(start.Pos)
	chunk := p.expect(token.INTERP_STRING_CHUNK)
	e.Chunks = append(e.Chunks, chunk.Literal)
	for p.cur.current().Kind == token.INTERP_EXPR_START {
		p.cur.advance()
		e.Exprs = append(e.Exprs, p.parseExpression(LOWEST))
		p.expect(token.INTERP_EXPR_END)
		chunk = p.expect(token.INTERP_STRING_CHUNK)
		e.Chunks = append(e.Chunks, chunk.Literal)
	}
	return e
}

// parseCustomSyntax greedily captures raw token text for a host-registered
// custom syntax extension (spec §6 register_custom_syntax), stopping at
// the next statement-terminating `;` or block-closing `}` at the current
// nesting depth. The host's own parser callback — not modeled here, since
// it is supplied at embed time, not at this module's build time — decides
// what that text actually means; the evaluator looks it up by Keyword.
func (p *Parser) parseCustomSyntax() ast.Expr {
	kwTok := p.cur.advance()
	e := &ast.CustomSyntaxExpr{Keyword: kwTok.Literal}
	e.SetPos(kwTok.Pos)
	depth := 0
	for !p.atEnd() {
		cur := p.cur.current()
		if depth == 0 && (cur.Kind == token.SEMICOLON || cur.Kind == token.RBRACE) {
			break
		}
		switch cur.Kind {
		case token.LPAREN, token.LBRACE, token.LBRACKET:
			depth++
		case token.RPAREN, token.RBRACE, token.RBRACKET:
			depth--
		}
		e.Tokens = append(e.Tokens, cur.Literal)
		p.cur.advance()
	}
	return e
}

func (p *Parser) parseGroupedOrUnit() ast.Expr {
	start := p.cur.advance() // consume (
	if p.cur.current().Kind == token.RPAREN {
		p.cur.advance()
		u := &ast.UnitLiteral{}
		u.SetPos(start.Pos)
		return u
	}
	inner := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	return inner
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	start := p.cur.advance() // consume [
	e := &ast.ArrayLiteral{}
	e.SetPos(start.Pos)
	for p.cur.current().Kind != token.RBRACKET && !p.atEnd() {
		e.Elements = append(e.Elements, p.parseExpression(LOWEST))
		if p.cur.current().Kind == token.COMMA {
			p.cur.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return e
}

// parseMapLiteral parses `#{ key: value, ... }` (spec §4.1 map literal).
func (p *Parser) parseMapLiteral() ast.Expr {
	start := p.cur.advance() // consume #
	p.expect(token.LBRACE)
	e := &ast.MapLiteral{}
	e.SetPos(start.Pos)
	for p.cur.current().Kind != token.RBRACE && !p.atEnd() {
		keyTok := p.expect(token.IDENT)
		p.expect(token.COLON)
		val := p.parseExpression(LOWEST)
		e.Entries = append(e.Entries, ast.MapEntry{Key: keyTok.Literal, Value: val})
		if p.cur.current().Kind == token.COMMA {
			p.cur.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	return e
}

// parseBlockExprPrefix handles a `{ ... }` appearing where an expression
// is expected (spec §4.2 "statement-as-expression block"), e.g. the
// right-hand side of a `let`.
func (p *Parser) parseBlockExprPrefix() ast.Expr {
	start := p.cur.current()
	body := p.parseBlockStmtBody()
	e := &ast.BlockExpr{Body: body}
	e.SetPos(start.Pos)
	return e
}

func (p *Parser) parseUnaryPrefix() ast.Expr {
	tok := p.cur.advance()
	op := tok.Kind
	if op == token.MINUS {
		op = token.UNARY_MINUS
	} else if op == token.PLUS {
		op = token.UNARY_PLUS
	}
	operand := p.parseExpression(PREFIX)
	e := &ast.UnaryExpr{Op: op, Operand: operand}
	e.SetPos(tok.Pos)
	return e
}

func (p *Parser) parseBinaryInfix(left ast.Expr) ast.Expr {
	opTok := p.cur.advance()
	prec := precedenceOf(opTok.Kind)
	if opTok.Kind == token.POW {
		prec-- // ** is right-associative
	}
	right := p.parseExpression(prec)
	e := &ast.BinaryExpr{
		Op: opTok.Kind, Left: left, Right: right,
		ScriptHash: fnHash(opTok.Kind.String(), 2),
		NativeHash: methodHash(opTok.Kind.String(), 2),
	}
	e.SetPos(opTok.Pos)
	return e
}

func (p *Parser) parseAndInfix(left ast.Expr) ast.Expr {
	tok := p.cur.advance()
	right := p.parseExpression(AND)
	e := &ast.AndExpr{Left: left, Right: right}
	e.SetPos(tok.Pos)
	return e
}

func (p *Parser) parseOrInfix(left ast.Expr) ast.Expr {
	tok := p.cur.advance()
	right := p.parseExpression(OR)
	e := &ast.OrExpr{Left: left, Right: right}
	e.SetPos(tok.Pos)
	return e
}

func (p *Parser) parseCoalesceInfix(left ast.Expr) ast.Expr {
	tok := p.cur.advance()
	right := p.parseExpression(COALESCE)
	e := &ast.CoalesceExpr{Left: left, Right: right}
	e.SetPos(tok.Pos)
	return e
}

// parseInInfix resugars `needle in haystack` into `contains(haystack,
// needle)` (spec §3.3 "`in` (resugared into a `contains` call with
// swapped operands)").
func (p *Parser) parseInInfix(left ast.Expr) ast.Expr {
	tok := p.cur.advance() // consume in
	haystack := p.parseExpression(COMPARE)
	args := []ast.Expr{haystack, left}
	e := &ast.CallExpr{
		Name: "contains", Args: args,
		ScriptHash: fnHash("contains", len(args)),
		NativeHash: methodHash("contains", len(args)),
	}
	e.SetPos(tok.Pos)
	return e
}

// parseBitOrInfix handles `x | y`: the lexer emits a plain PIPE for a
// standalone "|" (it never distinguishes it from the closure-delimiter
// spelling), so the bitwise-or reading only exists in infix position,
// exactly like MINUS is unary in prefix position and binary in infix.
// The produced node's Op is normalized to token.BIT_OR so the evaluator's
// operator dispatch (which never sees a PIPE) doesn't need to know this
// lexical quirk exists.
func (p *Parser) parseBitOrInfix(left ast.Expr) ast.Expr {
	opTok := p.cur.advance()
	right := p.parseExpression(BITOR)
	e := &ast.BinaryExpr{
		Op: token.BIT_OR, Left: left, Right: right,
		ScriptHash: fnHash(token.BIT_OR.String(), 2),
		NativeHash: methodHash(token.BIT_OR.String(), 2),
	}
	e.SetPos(opTok.Pos)
	return e
}

func (p *Parser) parseRangeInfix(left ast.Expr) ast.Expr {
	tok := p.cur.advance()
	right := p.parseExpression(RANGE)
	e := &ast.RangeExpr{From: left, To: right, Inclusive: tok.Kind == token.RANGE_INCL}
	e.SetPos(tok.Pos)
	return e
}

func (p *Parser) parseIndexInfix(left ast.Expr) ast.Expr {
	tok := p.cur.advance() // consume [ or ?[
	key := p.parseExpression(LOWEST)
	p.expect(token.RBRACKET)
	e := &ast.IndexExpr{Target: left, Key: key, Optional: tok.Kind == token.QUESTION_INDEX}
	e.SetPos(tok.Pos)
	return e
}

// parseMemberInfix handles both `.name` (property) and `.name(args)`
// (method call), and their `?.` optional-chaining forms.
func (p *Parser) parseMemberInfix(left ast.Expr) ast.Expr {
	dotTok := p.cur.advance() // consume . or ?.
	optional := dotTok.Kind == token.QUESTION_DOT
	nameTok := p.expect(token.IDENT)
	if p.cur.current().Kind == token.LPAREN {
		args := p.parseArgList()
		e := &ast.MethodCallExpr{
			Target: left, Name: nameTok.Literal, Args: args, Optional: optional,
			ScriptHash: fnHash(nameTok.Literal, len(args)),
			NativeHash: methodHash(nameTok.Literal, len(args)),
		}
		e.SetPos(dotTok.Pos)
		return e
	}
	e := &ast.PropertyExpr{
		Target: left, Name: nameTok.Literal, Optional: optional,
		GetterHash: propHash(nameTok.Literal, false),
		SetterHash: propHash(nameTok.Literal, true),
	}
	e.SetPos(dotTok.Pos)
	return e
}

// parseArgList parses a parenthesized, comma-separated argument list,
// assuming the cursor is at the opening `(`.
func (p *Parser) parseArgList() []ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Expr
	for p.cur.current().Kind != token.RPAREN && !p.atEnd() {
		args = append(args, p.parseExpression(LOWEST))
		if p.cur.current().Kind == token.COMMA {
			p.cur.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return args
}

// parseIdentifierOrCall handles a bare identifier, a `ns::name` path, a
// free function call `name(args)`, and the variable/constant fallback
// that the evaluator's name search resolves at run time (spec §3.3).
func (p *Parser) parseIdentifierOrCall() ast.Expr {
	nameTok := p.cur.current()
	if p.customSyntax[nameTok.Literal] {
		return p.parseCustomSyntax()
	}
	p.cur.advance()
	name := nameTok.Literal
	var namespace []string
	for p.cur.current().Kind == token.COLON && p.cur.peek(1).Kind == token.COLON {
		p.cur.advance()
		p.cur.advance()
		namespace = append(namespace, name)
		name = p.expect(token.IDENT).Literal
	}

	if p.cur.current().Kind == token.LPAREN {
		args := p.parseArgList()
		e := &ast.CallExpr{
			Name: name, Args: args, Namespace: namespace,
			ScriptHash: fnHash(name, len(args)),
			NativeHash: methodHash(name, len(args)),
		}
		e.SetPos(nameTok.Pos)
		return e
	}

	v := &ast.Variable{Name: name, Namespace: namespace, Hash: fnHash(name, 0)}
	v.SetPos(nameTok.Pos)
	if len(namespace) == 0 {
		p.resolveVariable(v)
	} else {
		v.Index = -1
	}
	return v
}
