package parser

import (
	"github.com/weavelang/weave/internal/token"
	"github.com/weavelang/weave/internal/werror"
)

// errorf records a non-fatal parse error at pos and returns it, mirroring
// the teacher's "collect every error, don't stop at the first" reporting
// style (parser.go's p.errors slice) rather than failing the whole parse
// on the first problem — built on werror.Error (KindParse) rather than a
// bespoke ParserError type, since every other package in this module
// already standardizes on the one structured error type.
func (p *Parser) errorf(pos token.Position, format string, args ...any) *werror.Error {
	e := werror.New(werror.KindParse, pos, format, args...)
	p.errors = append(p.errors, e)
	return e
}

// Errors returns every parse error collected so far.
func (p *Parser) Errors() []*werror.Error { return p.errors }
