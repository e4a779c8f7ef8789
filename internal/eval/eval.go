// Package eval implements the CORE tree-walking evaluator (spec §4.6,
// component C8): statement and expression semantics, scope discipline
// (rewind on every exit path), assignment-target resolution, and the
// depth/operation guards that bound a script's resource usage without a
// host OS stack or GC to lean on.
//
// Grounded on the teacher's internal/interp/evaluator package: the
// visitor_statements.go / visitor_expressions*.go split (here folded
// into stmt.go / expr.go since Weave's AST is far smaller than
// DWScript's), core_evaluator.go's single-Interpreter-struct-with-
// methods shape, and callstack.go (see callstack.go's doc comment).
package eval

import (
	"github.com/weavelang/weave/internal/ast"
	"github.com/weavelang/weave/internal/module"
	"github.com/weavelang/weave/internal/scope"
	"github.com/weavelang/weave/internal/token"
	"github.com/weavelang/weave/internal/value"
	"github.com/weavelang/weave/internal/werror"
)

// Limits bounds resource usage for one evaluation (spec §4.6, §7
// KindTooManyOps/KindTooManyVars/KindTooDeep).
type Limits struct {
	MaxOperations  uint64
	MaxCallDepth   int
	MaxExprDepth   int
	MaxArrayLen    int
	MaxStringLen   int
	MaxMapLen      int
	MaxLocalVars   int
	MaxModules     int
}

// DefaultLimits mirrors the defaults a freshly constructed Engine ships
// with (SPEC_FULL.md §1.3 "Configuration").
func DefaultLimits() Limits {
	return Limits{
		MaxOperations: 0, // 0 == unbounded
		MaxCallDepth:  DefaultMaxDepth,
		MaxExprDepth:  256,
		MaxArrayLen:   0,
		MaxStringLen:  0,
		MaxMapLen:     0,
		MaxLocalVars:  0,
		MaxModules:    0,
	}
}

// ProgressFn is polled roughly once per operation-counter tick, matching
// spec §6's `Engine.on_progress` embedding hook. Returning false asks
// the evaluator to abort with werror.KindTerminated.
type ProgressFn func(opsSoFar uint64) bool

// Interp is one evaluation's mutable state: the live scope stack, the
// function-resolution view (own functions + imported modules + global),
// the call stack, and the resource counters. A fresh Interp is created
// per top-level Eval/Run call by pkg/engine; nested calls reuse it.
type Interp struct {
	Scope     *scope.Scope
	Resolver  *module.Resolver
	Own       *module.Module // the compiled script's own top-level functions
	Program   *ast.Program
	CallStack *CallStack
	Limits    Limits
	Progress  ProgressFn

	// CallFnHook and EngineTag are threaded into every native call's
	// CallContext (spec §4.2 "NativeCallContext"), letting a registered
	// Go function call back into script code (e.g. a `sort` taking a
	// comparator FnPtr) and letting diagnostics attribute a call to the
	// Engine instance that owns this Interp. Both are set once by
	// pkg/engine when it constructs an Interp; nil/empty here means
	// "no host callback wired" rather than an error.
	CallFnHook func(name string, args []any) (any, error)
	EngineTag  string

	ops       uint64
	exprDepth int
}

func New(program *ast.Program, own, root *module.Module, limits Limits) *Interp {
	resolver := module.NewResolver(root)
	return &Interp{
		Scope:     scope.New(),
		Resolver:  resolver,
		Own:       own,
		Program:   program,
		CallStack: NewCallStack(limits.MaxCallDepth),
		Limits:    limits,
	}
}

// Import exposes an additional module to name/hash resolution, ahead of
// the global module (spec §4.2 "import ... as").
func (ip *Interp) Import(m *module.Module) { ip.Resolver.Import(m) }

// tick increments the operation counter and enforces MaxOperations /
// the progress callback (spec §6, §7 KindTooManyOps/KindTerminated).
func (ip *Interp) tick(pos token.Position) error {
	ip.ops++
	if ip.Limits.MaxOperations != 0 && ip.ops > ip.Limits.MaxOperations {
		return werror.New(werror.KindTooManyOps, pos, "operation limit (%d) exceeded", ip.Limits.MaxOperations)
	}
	if ip.Progress != nil && !ip.Progress(ip.ops) {
		return werror.New(werror.KindTerminated, pos, "evaluation terminated by host")
	}
	return nil
}

func (ip *Interp) enterExpr(pos token.Position) error {
	ip.exprDepth++
	if ip.Limits.MaxExprDepth != 0 && ip.exprDepth > ip.Limits.MaxExprDepth {
		return werror.New(werror.KindTooDeep, pos, "expression nesting exceeds limit (%d)", ip.Limits.MaxExprDepth)
	}
	return nil
}

func (ip *Interp) leaveExpr() { ip.exprDepth-- }

// Run evaluates every top-level statement of program in order, returning
// the value of the last top-level statement (unit when that statement
// kind yields no value, e.g. a trailing `let`; see evalStmt).
func (ip *Interp) Run(program *ast.Program) (value.Value, error) {
	var last value.Value = value.Unit
	for _, stmt := range program.Statements {
		v, err := ip.evalStmt(stmt)
		if err != nil {
			return value.Unit, err
		}
		last = v
	}
	return last, nil
}

// OpsExecuted reports the operation counter, for diagnostics/tests.
func (ip *Interp) OpsExecuted() uint64 { return ip.ops }

func unsupported(kind string, pos token.Position) error {
	return werror.New(werror.KindSystem, pos, "internal: unsupported %s node", kind)
}
