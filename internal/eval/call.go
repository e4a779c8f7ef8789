package eval

import (
	"github.com/weavelang/weave/internal/ast"
	"github.com/weavelang/weave/internal/token"
	"github.com/weavelang/weave/internal/value"
	"github.com/weavelang/weave/internal/werror"
)

func (ip *Interp) evalCallExpr(n *ast.CallExpr) (value.Value, error) {
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := ip.evalExpr(a)
		if err != nil {
			return value.Unit, err
		}
		args[i] = v
	}

	if fn, ok := ip.Program.Functions[n.ScriptHash]; ok {
		return ip.callScriptFn(fn, args, n.Pos())
	}
	if entries, ok := ip.Resolver.Resolve(n.NativeHash); ok && len(entries) > 0 {
		return ip.callNative(entries[0], args, n.Pos())
	}
	if entries, ok := ip.Resolver.Resolve(n.ScriptHash); ok && len(entries) > 0 {
		return ip.callNative(entries[0], args, n.Pos())
	}
	if v, _, ok := ip.Scope.Get(n.Name); ok {
		if fp, ok := v.AsFnPtr(); ok {
			return ip.callFnPtr(fp, args, n.Pos())
		}
	}
	return value.Unit, werror.New(werror.KindNotFound, n.Pos(), "function %q not found", n.Name)
}

func (ip *Interp) evalMethodCallExpr(n *ast.MethodCallExpr) (value.Value, error) {
	target, err := ip.evalExpr(n.Target)
	if err != nil {
		return value.Unit, err
	}
	if n.Optional && target.IsUnit() {
		return value.Unit, nil
	}
	args := make([]value.Value, len(n.Args)+1)
	args[0] = target
	for i, a := range n.Args {
		v, err := ip.evalExpr(a)
		if err != nil {
			return value.Unit, err
		}
		args[i+1] = v
	}
	if entries, ok := ip.Resolver.Resolve(n.NativeHash); ok && len(entries) > 0 {
		return ip.callNative(entries[0], args, n.Pos())
	}
	if entries, ok := ip.Resolver.Resolve(n.ScriptHash); ok && len(entries) > 0 {
		return ip.callNative(entries[0], args, n.Pos())
	}
	if fn, ok := ip.Program.Functions[n.ScriptHash]; ok {
		return ip.callScriptFn(fn, args, n.Pos())
	}
	return value.Unit, werror.New(werror.KindNotFound, n.Pos(), "method %q not found on %s", n.Name, target.Kind())
}

// callScriptFn invokes a script-defined function under a fresh barrier
// frame: caller locals are hidden, params are bound by value, and a
// KindReturn control-flow error is unwrapped back into a normal value
// (spec §4.4, §4.6.4).
func (ip *Interp) callScriptFn(fn *ast.FunctionDecl, args []value.Value, pos token.Position) (value.Value, error) {
	if !ip.CallStack.Push(fn.Name, pos) {
		return value.Unit, werror.New(werror.KindStackOverflow, pos, "call stack depth exceeded calling %q", fn.Name)
	}
	defer ip.CallStack.Pop()

	if len(args) != len(fn.Params) {
		return value.Unit, werror.New(werror.KindTypeMismatch, pos, "function %q expects %d args, got %d", fn.Name, len(fn.Params), len(args))
	}

	mark := ip.Scope.Len()
	ip.Scope.PushBarrier()
	defer func() {
		ip.Scope.PopBarrier()
		ip.Scope.Rewind(mark)
	}()
	for i, p := range fn.Params {
		ip.Scope.Push(p, cloneForBinding(args[i]))
	}

	ip.Resolver.ResetFrame()

	_, err := ip.evalBlock(fn.Body)
	if err == nil {
		return value.Unit, nil
	}
	we, ok := err.(*werror.Error)
	if ok && we.Kind == werror.KindReturn {
		v, _ := we.Value().(value.Value)
		return v, nil
	}
	return value.Unit, err
}

// callFnPtr invokes a function pointer value, currying any stored
// arguments ahead of the call-site arguments and re-binding any captured
// variables into the callee's frame before running it (spec §4.4).
func (ip *Interp) callFnPtr(fp *value.FnPtr, args []value.Value, pos token.Position) (value.Value, error) {
	full := append(append([]value.Value{}, fp.Curry()...), args...)

	if fn, ok := ip.lookupFunctionByName(fp.Name()); ok {
		if !ip.CallStack.Push(fn.Name, pos) {
			return value.Unit, werror.New(werror.KindStackOverflow, pos, "call stack depth exceeded calling %q", fn.Name)
		}
		defer ip.CallStack.Pop()

		mark := ip.Scope.Len()
		ip.Scope.PushBarrier()
		defer func() {
			ip.Scope.PopBarrier()
			ip.Scope.Rewind(mark)
		}()
		for name, v := range fp.Captures() {
			ip.Scope.PushAlias(name, v)
		}
		if len(full) != len(fn.Params) {
			return value.Unit, werror.New(werror.KindTypeMismatch, pos, "function %q expects %d args, got %d", fn.Name, len(fn.Params), len(full))
		}
		for i, p := range fn.Params {
			ip.Scope.Push(p, cloneForBinding(full[i]))
		}
		ip.Resolver.ResetFrame()
		_, err := ip.evalBlock(fn.Body)
		if err == nil {
			return value.Unit, nil
		}
		we, ok := err.(*werror.Error)
		if ok && we.Kind == werror.KindReturn {
			v, _ := we.Value().(value.Value)
			return v, nil
		}
		return value.Unit, err
	}
	return value.Unit, werror.New(werror.KindNotFound, pos, "function pointer %q does not resolve to any known function", fp.Name())
}

func (ip *Interp) lookupFunctionByName(name string) (*ast.FunctionDecl, bool) {
	for _, fn := range ip.Program.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}
