package engine

import (
	"fmt"
	"reflect"

	"github.com/weavelang/weave/internal/callhash"
	"github.com/weavelang/weave/internal/module"
	"github.com/weavelang/weave/internal/value"
	"github.com/weavelang/weave/internal/werror"
)

// wrapGoFunc adapts an arbitrary Go function into a module.NativeFn (spec
// §6 register_fn), following the `func(args...) (T, error)` and
// `func(args...) T` and `func(args...) error` shapes the teacher's FFI
// tests exercise (ffi_methods_test.go, basic_ffi_test.go). Variadic
// functions are rejected: a script call site's arity is fixed by its
// call-site hash, which has no way to express "one or more".
func wrapGoFunc(name string, fn any) (module.NativeFn, int, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return nil, 0, fmt.Errorf("engine: %q is not a function (got %s)", name, rv.Kind())
	}
	t := rv.Type()
	if t.IsVariadic() {
		return nil, 0, fmt.Errorf("engine: %q: variadic Go functions are not supported", name)
	}

	returnsValue, returnsErr := false, false
	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) == errType {
			returnsErr = true
		} else {
			returnsValue = true
		}
	case 2:
		if t.Out(1) != errType {
			return nil, 0, fmt.Errorf("engine: %q: second return value must be error", name)
		}
		returnsValue, returnsErr = true, true
	default:
		return nil, 0, fmt.Errorf("engine: %q: at most two return values (T, error) are supported", name)
	}

	arity := t.NumIn()
	native := func(ctx *module.CallContext, args []value.Value) (value.Value, error) {
		if len(args) != arity {
			return value.Unit, werror.New(werror.KindTypeMismatch, ctx.Pos, "%s expects %d argument(s), got %d", name, arity, len(args))
		}
		in := make([]reflect.Value, arity)
		for i, a := range args {
			gv, err := valueToGo(a, t.In(i))
			if err != nil {
				return value.Unit, werror.New(werror.KindTypeMismatch, ctx.Pos, "%s: argument %d: %v", name, i+1, err)
			}
			in[i] = gv
		}
		out := rv.Call(in)
		if returnsErr {
			errOut := out[len(out)-1]
			if !errOut.IsNil() {
				return value.Unit, werror.Wrap(werror.KindSystem, ctx.Pos, errOut.Interface().(error), "%s: host function failed", name)
			}
		}
		if !returnsValue {
			return value.Unit, nil
		}
		return goToValue(out[0])
	}
	return native, arity, nil
}

// registerReflectFn registers fn into m under name, under both the
// "script" and "native method" call-site hashes (module.RegisterFn's dual
// index) so a host function is reachable whether the script calls it as
// `name(args)` or `receiver.name(args)` — spec §4.5's two hash forms are
// an evaluator-internal detail the host should not have to pick between.
func registerReflectFn(m *module.Module, name string, fn any, extra module.FuncFlags) error {
	native, arity, err := wrapGoFunc(name, fn)
	if err != nil {
		return err
	}
	m.RegisterFn(&module.FuncEntry{
		Name:       name,
		Arity:      arity,
		ScriptHash: callhash.FnHash(name, arity),
		NativeHash: callhash.MethodHash(name, arity),
		Flags:      module.FlagVolatile | extra,
		Native:     native,
	})
	return nil
}

// methodValue resolves receiver.methodName into a bound method value
// (the teacher's ffi_methods_test.go "Option 2" RegisterMethod API): the
// returned func has the method's own parameter list, with receiver
// already bound, so wrapGoFunc treats it exactly like any other Go
// function.
func methodValue(receiver any, methodName string) (any, error) {
	rv := reflect.ValueOf(receiver)
	mv := rv.MethodByName(methodName)
	if !mv.IsValid() {
		return nil, fmt.Errorf("no method %q on %T", methodName, receiver)
	}
	return mv.Interface(), nil
}
