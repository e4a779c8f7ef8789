// Package stdlib provides the minimal built-in "global" module every
// Engine starts with (spec §4.2, SPEC_FULL §4 "Non-goals still exclude a
// general standard library; only the operators and handful of free
// functions a script cannot function without are built in").
//
// Grounded on the teacher's internal/interp/evaluator binary_ops.go/
// string_helpers.go/integer_helpers.go for which primitive operations
// get a native-style registration versus being inlined in the evaluator;
// here only the handful listed in SPEC_FULL.md §4 are
// registered as NativeFn entries (print, debug, type_of, len, contains, push),
// since +, -, ==, etc. are evaluated inline by internal/eval for speed
// and only fall back to a dispatched lookup when a host overload exists.
// `push` is the one array-mutation builtin: spec.md §8 scenario 3 (value
// semantics on assignment) is only observable through a method call that
// mutates an array in place, and a script otherwise has no way to grow
// one.
package stdlib

import (
	"fmt"
	"io"
	"os"

	"github.com/weavelang/weave/internal/module"
	"github.com/weavelang/weave/internal/value"
	"github.com/weavelang/weave/internal/werror"
)

// Options configures the global module (SPEC_FULL §1.1's embedding-API
// equivalent of `Engine.set_print`/`set_debug`/`register_fn`).
type Options struct {
	Stdout io.Writer
}

// New builds the root/global module pre-populated with print, debug,
// type_of, len, contains, and push. Host code registers everything else via
// pkg/engine.
func New(opts Options) *module.Module {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	m := module.New("")

	m.RegisterFn(&module.FuncEntry{
		Name: "print", Arity: 1, ScriptHash: hashOf("print", 1),
		Flags:  module.FlagVolatile,
		Native: printFn(opts.Stdout),
	})
	m.RegisterFn(&module.FuncEntry{
		Name: "debug", Arity: 1, ScriptHash: hashOf("debug", 1),
		Flags:  module.FlagVolatile,
		Native: debugFn(opts.Stdout),
	})
	m.RegisterFn(&module.FuncEntry{
		Name: "type_of", Arity: 1, ScriptHash: hashOf("type_of", 1),
		Flags:  module.FlagPure,
		Native: typeOfFn,
	})
	m.RegisterFn(&module.FuncEntry{
		Name: "len", Arity: 1, ScriptHash: hashOf("len", 1),
		Flags:  module.FlagPure,
		Native: lenFn,
	})
	m.RegisterFn(&module.FuncEntry{
		Name: "contains", Arity: 2, ScriptHash: hashOf("contains", 2),
		Flags:  module.FlagPure,
		Native: containsFn,
	})
	m.RegisterFn(&module.FuncEntry{
		Name: "push", Arity: 2, ScriptHash: hashOf("push", 2),
		Native: pushFn,
	})
	return m
}

func printFn(w io.Writer) module.NativeFn {
	return func(ctx *module.CallContext, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return value.Unit, werror.New(werror.KindTypeMismatch, ctx.Pos, "print expects 1 argument")
		}
		fmt.Fprintln(w, args[0].String())
		return value.Unit, nil
	}
}

func debugFn(w io.Writer) module.NativeFn {
	return func(ctx *module.CallContext, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return value.Unit, werror.New(werror.KindTypeMismatch, ctx.Pos, "debug expects 1 argument")
		}
		fmt.Fprintln(w, args[0].Debug())
		return value.Unit, nil
	}
}

func typeOfFn(ctx *module.CallContext, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Unit, werror.New(werror.KindTypeMismatch, ctx.Pos, "type_of expects 1 argument")
	}
	return value.StringFromGo(args[0].Kind().String()), nil
}

func lenFn(ctx *module.CallContext, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Unit, werror.New(werror.KindTypeMismatch, ctx.Pos, "len expects 1 argument")
	}
	v := args[0]
	switch v.Kind() {
	case value.KindArray:
		a, _ := v.AsArray()
		return value.Int(int64(a.Len())), nil
	case value.KindMap:
		m, _ := v.AsMap()
		return value.Int(int64(m.Len())), nil
	case value.KindString:
		s, _ := v.AsString()
		return value.Int(int64(len([]rune(s)))), nil
	case value.KindBlob:
		b, _ := v.AsBlob()
		return value.Int(int64(len(b))), nil
	default:
		return value.Unit, werror.New(werror.KindTypeMismatch, ctx.Pos, "len: %s has no length", v.Kind())
	}
}

func pushFn(ctx *module.CallContext, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Unit, werror.New(werror.KindTypeMismatch, ctx.Pos, "push expects 2 arguments")
	}
	a, ok := args[0].AsArray()
	if !ok {
		return value.Unit, werror.New(werror.KindTypeMismatch, ctx.Pos, "push: %s is not an array", args[0].Kind())
	}
	a.Push(args[1])
	return value.Unit, nil
}

func containsFn(ctx *module.CallContext, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Unit, werror.New(werror.KindTypeMismatch, ctx.Pos, "contains expects 2 arguments")
	}
	container, needle := args[0], args[1]
	switch container.Kind() {
	case value.KindArray:
		a, _ := container.AsArray()
		for _, e := range a.Each() {
			if equalForContains(e, needle) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case value.KindMap:
		m, _ := container.AsMap()
		k, ok := needle.AsString()
		if !ok {
			return value.Bool(false), nil
		}
		return value.Bool(m.Contains(k)), nil
	case value.KindString:
		s, _ := container.AsString()
		sub, ok := needle.AsString()
		if !ok {
			return value.Bool(false), nil
		}
		return value.Bool(stringContains(s, sub)), nil
	default:
		return value.Unit, werror.New(werror.KindTypeMismatch, ctx.Pos, "contains: %s is not a container", container.Kind())
	}
}
