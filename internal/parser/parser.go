package parser

import (
	"github.com/weavelang/weave/internal/ast"
	"github.com/weavelang/weave/internal/callhash"
	"github.com/weavelang/weave/internal/token"
	"github.com/weavelang/weave/internal/werror"
)

// Parser turns a token stream into an *ast.Program in a single
// left-to-right pass, mostly with one token of lookahead (`ns::name`
// paths and `export` peek one token further), precomputing every
// call-site dispatch hash and local-variable index the evaluator needs
// to avoid a name search at run time (spec §4.5, §9).
//
// Grounded on the teacher's internal/parser.Parser: the same registered
// prefix/infix parse-function-table shape and precedence-climbing
// parseExpression loop, collapsed from the teacher's staggered
// cur/peek(n) token-pair convention to a single "cursor.current() is the
// next unconsumed token" convention, with cursor.peek(1) for the two
// places above.
type Parser struct {
	cur    *cursor
	errors []*werror.Error
	frames []*closureFrame
	prog   *ast.Program

	prefixFns map[token.Kind]func() ast.Expr
	infixFns  map[token.Kind]func(ast.Expr) ast.Expr

	anonSeq      int
	customSyntax map[string]bool
}

// RegisterCustomSyntaxKeyword tells the parser that ident begins a
// host-registered custom syntax extension (spec §6 register_custom_syntax):
// encountering it in expression-prefix position stops ordinary identifier
// parsing and instead captures the raw remaining tokens into a
// *ast.CustomSyntaxExpr, left for the host's evaluator callback to
// interpret at run time. Must be called before Parse/ParseProgram.
func (p *Parser) RegisterCustomSyntaxKeyword(ident string) {
	if p.customSyntax == nil {
		p.customSyntax = map[string]bool{}
	}
	p.customSyntax[ident] = true
}

// New creates a Parser over src.
func New(src string) *Parser {
	p := &Parser{cur: newCursor(src)}
	p.frames = []*closureFrame{{scope: newLocalScope()}}
	p.registerExpressionFns()
	return p
}

// Parse tokenizes and parses src into a *ast.Program, returning every
// collected error (spec §4.1 — parse errors are reported as a batch, not
// one-at-a-time).
func Parse(src string) (*ast.Program, []*werror.Error) {
	p := New(src)
	return p.ParseProgram(), p.Errors()
}

// ParseProgram consumes the whole token stream, routing top-level `fn`
// declarations into Program.Functions and everything else into
// Program.Statements (spec §3.3 "an AST consisting of a statement block
// plus a function library").
func (p *Parser) ParseProgram() *ast.Program {
	p.prog = &ast.Program{Functions: map[uint64]*ast.FunctionDecl{}}
	for !p.atEnd() {
		if p.cur.current().Kind == token.SEMICOLON {
			p.cur.advance()
			continue
		}
		if p.cur.current().Kind == token.FN {
			fn := p.parseFunctionDecl()
			if _, dup := p.prog.Functions[fn.Hash]; dup {
				p.errorf(fn.Pos(), "duplicate function %q with %d parameters", fn.Name, len(fn.Params))
			}
			p.prog.Functions[fn.Hash] = fn
			continue
		}
		p.prog.Statements = append(p.prog.Statements, p.parseStatement())
	}
	return p.prog
}

// registerClosure stores a synthesized FunctionDecl for a `|params| body`
// closure literal into the in-progress program's function table, keyed by
// its call-site hash exactly like a named `fn` (spec §3.3) — callFnPtr
// finds it by name via lookupFunctionByName at run time.
func (p *Parser) registerClosure(decl *ast.FunctionDecl) {
	p.prog.Functions[decl.Hash] = decl
}

func (p *Parser) atEnd() bool { return p.cur.current().Kind == token.EOF }

// expect consumes the current token if it has kind k, recording a parse
// error and leaving the cursor in place otherwise.
func (p *Parser) expect(k token.Kind) token.Token {
	tok := p.cur.current()
	if tok.Kind != k {
		p.errorf(tok.Pos, "expected %s, got %s %q", k, tok.Kind, tok.Literal)
		return tok
	}
	return p.cur.advance()
}

// expectSemicolon consumes a trailing `;`, reporting but not fatally
// failing on a missing one (spec §4.1 error recovery: one bad statement
// must not abort the whole parse).
func (p *Parser) expectSemicolon() {
	if p.cur.current().Kind == token.SEMICOLON {
		p.cur.advance()
		return
	}
	p.errorf(p.cur.current().Pos, "expected ; after statement, got %s", p.cur.current().Kind)
}

// synchronize skips tokens until it finds a plausible statement
// boundary, the teacher's panic-mode recovery (parser.go's
// synchronize()) cut down to Weave's much smaller statement-starter set.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.cur.current().Kind == token.SEMICOLON {
			p.cur.advance()
			return
		}
		switch p.cur.current().Kind {
		case token.LET, token.CONST, token.FN, token.IF, token.WHILE, token.LOOP,
			token.DO, token.FOR, token.SWITCH, token.RETURN, token.THROW, token.TRY,
			token.BREAK, token.CONTINUE, token.RBRACE:
			return
		}
		p.cur.advance()
	}
}

func nextAnonName(p *Parser) string {
	p.anonSeq++
	return "closure$" + itoa(p.anonSeq)
}

// itoa formats the closure sequence number; the package uses strconv
// only for numeric literal parsing, and this is kept separate so it reads
// as "name generation", not "number parsing".
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// fnHash/methodHash/propHash are thin call-through wrappers kept in
// this package so every call-site hash computation in the parser reads
// the same way, rather than importing callhash under different aliases
// across files.
func fnHash(name string, arity int) uint64      { return callhash.FnHash(name, arity) }
func methodHash(name string, arity int) uint64  { return callhash.MethodHash(name, arity) }
func propHash(name string, isSetter bool) uint64 { return callhash.PropertyHash(name, isSetter) }
