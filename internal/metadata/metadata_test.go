package metadata

import (
	"testing"

	"github.com/tidwall/gjson"

	"github.com/weavelang/weave/internal/ast"
	"github.com/weavelang/weave/internal/module"
)

func TestEmitScriptFunctions(t *testing.T) {
	prog := &ast.Program{Functions: map[uint64]*ast.FunctionDecl{
		1: {Name: "add", Params: []string{"a", "b"}, Hash: 1, Doc: "adds two numbers"},
		2: {Name: "helper", Params: []string{"x"}, Hash: 2, Private: true},
	}}

	doc, err := Emit(prog, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := FunctionNames(doc)
	if len(names) != 2 {
		t.Fatalf("got %d function names, want 2: %v", len(names), names)
	}

	add, ok := FindFunction(doc, "add")
	if !ok {
		t.Fatal("add not found in metadata document")
	}
	if add.Get("type").String() != "script" {
		t.Errorf("add.type = %q, want script", add.Get("type").String())
	}
	if add.Get("numParams").Int() != 2 {
		t.Errorf("add.numParams = %d, want 2", add.Get("numParams").Int())
	}
	if add.Get("access").String() != "public" {
		t.Errorf("add.access = %q, want public", add.Get("access").String())
	}
	if got := add.Get("docComments.0").String(); got != "adds two numbers" {
		t.Errorf("add.docComments[0] = %q, want %q", got, "adds two numbers")
	}

	helper, ok := FindFunction(doc, "helper")
	if !ok {
		t.Fatal("helper not found in metadata document")
	}
	if helper.Get("access").String() != "private" {
		t.Errorf("helper.access = %q, want private", helper.Get("access").String())
	}
}

func TestEmitNativeModuleTree(t *testing.T) {
	root := module.New("")
	root.RegisterFn(&module.FuncEntry{Name: "len", ScriptHash: 10, NativeHash: 11, Arity: 1})

	mathMod := module.New("math")
	mathMod.RegisterFn(&module.FuncEntry{Name: "sqrt", ScriptHash: 20, NativeHash: 21, Arity: 1})
	mathMod.RegisterType(&module.TypeInfo{Name: "Complex", GoTypeName: "complex128"})
	root.AddSubModule("math", mathMod)

	doc, err := Emit(&ast.Program{}, nil, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if names := FunctionNames(doc); len(names) != 1 || names[0] != "len" {
		t.Errorf("top-level functions = %v, want [len]", names)
	}

	sqrtName := gjson.Get(doc, "modules.math.functions.0.name").String()
	if sqrtName != "sqrt" {
		t.Errorf("modules.math.functions.0.name = %q, want sqrt", sqrtName)
	}
	typeName := gjson.Get(doc, "modules.math.customTypes.0.name").String()
	if typeName != "Complex" {
		t.Errorf("modules.math.customTypes.0.name = %q, want Complex", typeName)
	}
}

func TestEmitImportedModules(t *testing.T) {
	stringsMod := module.New("strings")
	stringsMod.RegisterFn(&module.FuncEntry{Name: "upper", ScriptHash: 30, NativeHash: 31, Arity: 1})

	doc, err := Emit(&ast.Program{}, []*module.Module{stringsMod}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name := gjson.Get(doc, "modules.strings.functions.0.name").String()
	if name != "upper" {
		t.Errorf("modules.strings.functions.0.name = %q, want upper", name)
	}
}

func TestSplitDocHandlesEmpty(t *testing.T) {
	if got := splitDoc(""); len(got) != 0 {
		t.Errorf("splitDoc(\"\") = %v, want empty", got)
	}
}
