package eval

import (
	"fmt"
	"strings"

	"github.com/weavelang/weave/internal/token"
)

// StackFrame records one active call for stack-overflow diagnostics and
// werror.KindTooDeep/KindStackOverflow payloads (spec §7).
//
// Grounded on the teacher's internal/errors/stack_trace.go StackFrame
// (superseded, not deleted — see DESIGN.md), re-homed here since Weave's
// error model (internal/werror) carries no stack-trace type of its own.
type StackFrame struct {
	FunctionName string
	Pos          token.Position
}

func (f StackFrame) String() string {
	return fmt.Sprintf("  at %s (%s)", f.FunctionName, f.Pos)
}

// CallStack manages the active function-call stack for one evaluation
// (spec §4.6 "Recursion is bounded by a configurable depth limit, not by
// the host OS stack").
//
// Grounded on the teacher's internal/interp/evaluator/callstack.go.
type CallStack struct {
	frames   []StackFrame
	maxDepth int
}

const DefaultMaxDepth = 1024

func NewCallStack(maxDepth int) *CallStack {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &CallStack{maxDepth: maxDepth}
}

// Push adds a new frame. Returns false if doing so would exceed
// maxDepth; the caller is responsible for raising werror.KindStackOverflow.
func (cs *CallStack) Push(functionName string, pos token.Position) bool {
	if len(cs.frames) >= cs.maxDepth {
		return false
	}
	cs.frames = append(cs.frames, StackFrame{FunctionName: functionName, Pos: pos})
	return true
}

func (cs *CallStack) Pop() {
	if len(cs.frames) > 0 {
		cs.frames = cs.frames[:len(cs.frames)-1]
	}
}

func (cs *CallStack) Depth() int { return len(cs.frames) }

func (cs *CallStack) WillOverflow() bool { return len(cs.frames) >= cs.maxDepth }

func (cs *CallStack) Current() (StackFrame, bool) {
	if len(cs.frames) == 0 {
		return StackFrame{}, false
	}
	return cs.frames[len(cs.frames)-1], true
}

// Frames returns a copy of all frames, oldest first.
func (cs *CallStack) Frames() []StackFrame {
	out := make([]StackFrame, len(cs.frames))
	copy(out, cs.frames)
	return out
}

func (cs *CallStack) String() string {
	if len(cs.frames) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := len(cs.frames) - 1; i >= 0; i-- {
		sb.WriteString(cs.frames[i].String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
