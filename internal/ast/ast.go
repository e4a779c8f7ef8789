// Package ast defines the Abstract Syntax Tree produced by the parser
// (spec §3.3, component C5). Grounded on the teacher's pkg/ast package: the
// same Node/Stmt/Expr interface split and per-concern file layout, with the
// node set replaced to match the Weave grammar and enriched with the
// pre-resolved local-variable indices and call-site hashes spec.md requires.
package ast

import (
	"strings"

	"github.com/weavelang/weave/internal/token"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() token.Position
	String() string
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Program is the root of a compiled unit: a statement block plus the
// library of script-defined functions keyed by their call-site hash
// (spec §4.2 — "an AST consisting of a statement block plus a function
// library").
type Program struct {
	Statements []Stmt
	Functions  map[uint64]*FunctionDecl
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) == 0 {
		return token.None
	}
	return p.Statements[0].Pos()
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Statements {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// base carries the source position common to every node so concrete types
// only need to embed it.
type base struct {
	Position token.Position
}

func (b base) Pos() token.Position { return b.Position }

// SetPos stamps a node's source position after construction. Every
// concrete node embeds base by value, so external packages (notably
// internal/parser) cannot set Position through a composite literal —
// base itself is unexported — and go through this promoted method
// instead.
func (b *base) SetPos(p token.Position) { b.Position = p }
