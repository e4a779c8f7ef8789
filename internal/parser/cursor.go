package parser

import (
	"github.com/weavelang/weave/internal/lexer"
	"github.com/weavelang/weave/internal/token"
)

// cursor is a materialized token buffer with lookahead and mark/reset
// backtracking. Grounded on the teacher's TokenCursor, rebuilt over one
// owned slice (tokenizing eagerly up front via lexer.New) rather than the
// teacher's lazy lexer-state-snapshot cursor, since Weave source files are
// small enough that eager tokenization is the simpler, sufficient choice.
type cursor struct {
	toks []token.Token
	pos  int
}

func newCursor(src string) *cursor {
	lx := lexer.New(src)
	var toks []token.Token
	for {
		t := lx.NextToken()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	return &cursor{toks: toks}
}

// current returns the token under the cursor.
func (c *cursor) current() token.Token { return c.toks[c.pos] }

// peek returns the token n positions ahead of the cursor (peek(0) ==
// current()), clamped to the final EOF token.
func (c *cursor) peek(n int) token.Token {
	i := c.pos + n
	if i >= len(c.toks) {
		i = len(c.toks) - 1
	}
	if i < 0 {
		i = 0
	}
	return c.toks[i]
}

// advance returns the current token and moves the cursor forward one
// position, unless already at EOF.
func (c *cursor) advance() token.Token {
	t := c.current()
	if c.pos < len(c.toks)-1 {
		c.pos++
	}
	return t
}

// mark/resetTo save and restore the cursor position. The parser does not
// call them: map literals open with `#{`, and a `|` is a closure in
// prefix position and bitwise or in infix position, so no grammar point
// backtracks.
func (c *cursor) mark() int         { return c.pos }
func (c *cursor) resetTo(mark int)  { c.pos = mark }
