// Package parser implements the CORE Pratt parser (spec §3.3, §4.1,
// component C5): a single left-to-right pass with one-token lookahead
// that turns a token stream into an *ast.Program whose call sites already
// carry precomputed dispatch hashes and whose local variable references
// already carry resolved frame-relative indices.
//
// Grounded on the teacher's internal/parser package: the same overall
// shape (a token cursor, registered prefix/infix parse functions keyed by
// token type, a precedence table driving parseExpression's climbing
// loop, a collected-errors-not-first-error reporting style) generalized
// from DWScript's large statement/declaration grammar down to the Weave
// grammar, with two pieces the teacher has no equivalent of: call-site
// hashing (internal/callhash) and local-scope/closure-capture resolution
// (localscope.go), both required by spec §4.5.
package parser
