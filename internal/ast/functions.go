package ast

import (
	"fmt"
	"strings"
)

// FunctionDecl is a script-defined `fn name(params) { body }`. Hash is the
// call-site hash under which it is stored in Program.Functions and by
// which the dispatch subsystem finds it (spec §4.5 "Overrides").
type FunctionDecl struct {
	base
	Name    string
	Params  []string
	Body    *BlockStmt
	Hash    uint64
	Private bool
	Doc     string
}

func (*FunctionDecl) stmtNode() {}
func (f *FunctionDecl) String() string {
	return fmt.Sprintf("fn %s(%s) %s", f.Name, strings.Join(f.Params, ", "), f.Body)
}
