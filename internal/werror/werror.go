// Package werror implements the engine's single structured error type,
// used both for reporting host-visible failures (spec §7) and, internally,
// as the non-local control-flow carrier for return/break/continue/throw
// (spec §4.6.4, §9). It is grounded on the teacher's
// internal/interp/errors.InterpreterError, generalized with the three
// control-flow Kinds the teacher represents as distinct evaluator paths.
package werror

import (
	"fmt"

	"github.com/weavelang/weave/internal/token"
)

// Kind classifies an Error by both its taxonomy (§7) and, for the three
// control-flow kinds, by which construct it unwinds to.
type Kind string

const (
	KindParse            Kind = "Parse"
	KindTypeMismatch     Kind = "TypeMismatch"
	KindNotFound         Kind = "NotFound" // unknown variable/function/module/property
	KindArithmetic       Kind = "Arithmetic"
	KindIndexOutOfBounds Kind = "IndexOutOfBounds"
	KindAssignToConst    Kind = "AssignToConstant"
	KindInvalidLHS       Kind = "InvalidAssignmentTarget"
	KindDataRace         Kind = "DataRace"
	KindStackOverflow    Kind = "StackOverflow"
	KindTooDeep          Kind = "ExpressionTooDeep"
	KindTooManyOps       Kind = "TooManyOperations"
	KindTooManyVars      Kind = "TooManyVariables"
	KindTooManyModules   Kind = "TooManyModules"
	KindTooManyFunctions Kind = "TooManyFunctions"
	KindForbidden        Kind = "ForbiddenOperation"
	KindTerminated       Kind = "Terminated"
	KindSystem           Kind = "System"

	// Control-flow, never reported to a host unless it escapes its frame.
	KindReturn    Kind = "Return"
	KindLoopBreak Kind = "LoopBreak"
	KindThrow     Kind = "Throw"
)

// fatalKinds propagate past any try/catch (spec §4.6.4, §7).
var fatalKinds = map[Kind]bool{
	KindStackOverflow:  true,
	KindTooDeep:        true,
	KindTooManyOps:     true,
	KindTooManyVars:    true,
	KindTooManyModules: true,
	KindTooManyFunctions: true,
	KindTerminated:     true,
}

// Error is the engine's single error/result type.
type Error struct {
	Kind    Kind
	Pos     token.Position
	Message string
	Cause   error

	// Payload carries the Kind-specific value: the returned/thrown Dynamic
	// for KindReturn/KindThrow, or, for KindLoopBreak, a loopBreakPayload
	// holding the continue flag and the break value (nil if none).
	Payload any
}

func (e *Error) Error() string {
	if e.Pos.IsNone() {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s error at %s: %s", e.Kind, e.Pos, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// IsFatal reports whether e must propagate past try/catch.
func (e *Error) IsFatal() bool { return fatalKinds[e.Kind] }

// IsControlFlow reports whether e is return/break/continue/throw rather
// than a reportable failure.
func (e *Error) IsControlFlow() bool {
	switch e.Kind {
	case KindReturn, KindLoopBreak, KindThrow:
		return true
	default:
		return false
	}
}

// IsRecoverable reports whether e may be caught by try/catch (spec §7).
// Control-flow "errors" are handled by their own frames before reaching a
// try/catch boundary (return/break/continue are not catchable at all;
// throw is recoverable).
func (e *Error) IsRecoverable() bool {
	if e.Kind == KindThrow {
		return true
	}
	if e.IsControlFlow() || e.IsFatal() {
		return false
	}
	return true
}

func New(kind Kind, pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, pos token.Position, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Return builds the control-flow Error used to unwind a `return` statement.
func Return(pos token.Position, value any) *Error {
	return &Error{Kind: KindReturn, Pos: pos, Message: "return", Payload: value}
}

// LoopBreak builds the control-flow Error used to unwind `break`/`continue`.
// isContinue distinguishes the two; value is nil for continue and for a
// value-less break.
func LoopBreak(pos token.Position, isContinue bool, value any) *Error {
	msg := "break"
	if isContinue {
		msg = "continue"
	}
	return &Error{Kind: KindLoopBreak, Pos: pos, Message: msg, Payload: loopBreakPayload{isContinue, value}}
}

type loopBreakPayload struct {
	IsContinue bool
	Value      any
}

// IsContinue reports whether a KindLoopBreak error is a continue rather
// than a break.
func (e *Error) IsContinue() bool {
	if e.Kind != KindLoopBreak {
		return false
	}
	p, _ := e.Payload.(loopBreakPayload)
	return p.IsContinue
}

// Value returns the carried value of a KindLoopBreak/KindReturn/
// KindThrow error.
func (e *Error) Value() any {
	switch e.Kind {
	case KindLoopBreak:
		p, _ := e.Payload.(loopBreakPayload)
		return p.Value
	default:
		return e.Payload
	}
}

// Throw builds the control-flow Error used to unwind a `throw` statement.
func Throw(pos token.Position, value any) *Error {
	return &Error{Kind: KindThrow, Pos: pos, Message: "throw", Payload: value}
}
