// Package metadata builds the optional host-facing JSON introspection
// document (spec §6: "An optional feature emits function/module metadata
// as a JSON document whose schema is a tree of { modules, customTypes,
// functions } with per-function name, baseHash, fullHash, namespace,
// access, type (script|native), numParams, params[{name,type}],
// returnType, signature, docComments").
//
// Grounded on the teacher's internal/jsonvalue philosophy (a dynamic JSON
// value built up without static Go structs or encoding/json struct
// tags) but built directly on gjson/sjson rather than reimplementing a
// parallel Value tree: sjson.Set assembles the document bottom-up,
// gjson.Get/ForEach lets a host query it back (e.g. "functions.#(name=sort).signature")
// without ever unmarshalling into a Go struct.
package metadata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/weavelang/weave/internal/ast"
	"github.com/weavelang/weave/internal/module"
)

// Emit builds the full metadata document for a compiled program's own
// function library plus the module tree it can see (imports + the
// global/root module), per spec §6's schema.
func Emit(prog *ast.Program, imports []*module.Module, root *module.Module) (string, error) {
	doc := "{}"
	var err error

	doc, err = setScriptFunctions(doc, prog)
	if err != nil {
		return "", err
	}

	seen := map[string]bool{}
	for _, m := range imports {
		if m == nil || seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		doc, err = addModule(doc, "modules."+jsonKey(m.Name), m, []string{m.Name})
		if err != nil {
			return "", err
		}
	}
	if root != nil {
		doc, err = mergeRootIntoDocument(doc, root)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

// jsonKey escapes a module name for use as an sjson path segment (paths
// use `.` as a separator, so a literal `.` in a name would otherwise be
// read back as a nesting boundary).
func jsonKey(name string) string {
	return strings.ReplaceAll(name, ".", "\\.")
}

func setScriptFunctions(doc string, prog *ast.Program) (string, error) {
	if prog == nil {
		return doc, nil
	}
	decls := make([]*ast.FunctionDecl, 0, len(prog.Functions))
	for _, fn := range prog.Functions {
		decls = append(decls, fn)
	}
	sort.Slice(decls, func(i, j int) bool {
		if decls[i].Name != decls[j].Name {
			return decls[i].Name < decls[j].Name
		}
		return decls[i].Hash < decls[j].Hash
	})

	var err error
	for _, fn := range decls {
		entry := scriptFunctionEntry(fn)
		doc, err = sjson.Set(doc, "functions.-1", entry)
		if err != nil {
			return "", fmt.Errorf("metadata: appending script function %q: %w", fn.Name, err)
		}
	}
	return doc, nil
}

func scriptFunctionEntry(fn *ast.FunctionDecl) map[string]any {
	params := make([]map[string]any, len(fn.Params))
	for i, name := range fn.Params {
		params[i] = map[string]any{"name": name, "type": "Dynamic"}
	}
	access := "public"
	if fn.Private {
		access = "private"
	}
	return map[string]any{
		"name":        fn.Name,
		"baseHash":    fn.Hash,
		"fullHash":    fn.Hash,
		"namespace":   []string{},
		"access":      access,
		"type":        "script",
		"numParams":   len(fn.Params),
		"params":      params,
		"returnType":  "Dynamic",
		"signature":   signature(fn.Name, fn.Params),
		"docComments": splitDoc(fn.Doc),
	}
}

func signature(name string, params []string) string {
	return fmt.Sprintf("%s(%s)", name, strings.Join(params, ", "))
}

func splitDoc(doc string) []string {
	if doc == "" {
		return []string{}
	}
	return strings.Split(strings.TrimRight(doc, "\n"), "\n")
}

// addModule writes one module's own functions/customTypes, plus its
// sub-modules nested at "<path>.modules.<name>", at the given sjson path
// inside doc.
func addModule(doc, path string, m *module.Module, namespace []string) (string, error) {
	var err error
	doc, err = sjson.Set(doc, path+".name", m.Name)
	if err != nil {
		return "", err
	}

	fns := m.Functions()
	sort.Slice(fns, func(i, j int) bool {
		if fns[i].Name != fns[j].Name {
			return fns[i].Name < fns[j].Name
		}
		return fns[i].Arity < fns[j].Arity
	})
	for _, e := range fns {
		entry := nativeFunctionEntry(e, namespace)
		doc, err = sjson.Set(doc, path+".functions.-1", entry)
		if err != nil {
			return "", fmt.Errorf("metadata: appending native function %q: %w", e.Name, err)
		}
	}

	types := m.Types()
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	for _, t := range types {
		doc, err = sjson.Set(doc, path+".customTypes.-1", map[string]any{
			"name":   t.Name,
			"goType": t.GoTypeName,
		})
		if err != nil {
			return "", fmt.Errorf("metadata: appending custom type %q: %w", t.Name, err)
		}
	}

	subNames := m.SubModuleNames()
	sort.Strings(subNames)
	for _, name := range subNames {
		sub, ok := m.SubModule(name)
		if !ok {
			continue
		}
		childNS := append(append([]string{}, namespace...), name)
		doc, err = addModule(doc, path+".modules."+jsonKey(name), sub, childNS)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

func nativeFunctionEntry(e *module.FuncEntry, namespace []string) map[string]any {
	access := "public"
	if e.Flags&module.FlagMethod != 0 {
		access = "method"
	}
	return map[string]any{
		"name":        e.Name,
		"baseHash":    e.ScriptHash,
		"fullHash":    e.NativeHash,
		"namespace":   namespace,
		"access":      access,
		"type":        "native",
		"numParams":   e.Arity,
		"params":      []map[string]any{},
		"returnType":  "Dynamic",
		"signature":   fmt.Sprintf("%s/%d", e.Name, e.Arity),
		"docComments": []string{},
	}
}

// mergeRootIntoDocument folds the global module's own functions/types
// into the document's top-level "functions"/"customTypes" arrays
// (rather than nesting it under "modules.<root-name>"), since the root
// module's members are callable unqualified, exactly like script
// functions are. The root's sub-modules are written under
// "modules.<name>", like imported modules.
func mergeRootIntoDocument(doc string, root *module.Module) (string, error) {
	var err error
	fns := root.Functions()
	sort.Slice(fns, func(i, j int) bool {
		if fns[i].Name != fns[j].Name {
			return fns[i].Name < fns[j].Name
		}
		return fns[i].Arity < fns[j].Arity
	})
	for _, e := range fns {
		doc, err = sjson.Set(doc, "functions.-1", nativeFunctionEntry(e, nil))
		if err != nil {
			return "", err
		}
	}
	types := root.Types()
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	for _, t := range types {
		doc, err = sjson.Set(doc, "customTypes.-1", map[string]any{
			"name":   t.Name,
			"goType": t.GoTypeName,
		})
		if err != nil {
			return "", err
		}
	}
	subNames := root.SubModuleNames()
	sort.Strings(subNames)
	for _, name := range subNames {
		sub, ok := root.SubModule(name)
		if !ok {
			continue
		}
		doc, err = addModule(doc, "modules."+jsonKey(name), sub, []string{name})
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

// FunctionNames returns every function name present in doc's top-level
// "functions" array, via gjson rather than a struct unmarshal — a small
// demonstration query used by this package's tests (cmd/weave's
// `describe` prints the whole document instead).
func FunctionNames(doc string) []string {
	result := gjson.Get(doc, "functions.#.name")
	if !result.IsArray() {
		return nil
	}
	names := make([]string, 0, len(result.Array()))
	for _, r := range result.Array() {
		names = append(names, r.String())
	}
	return names
}

// FindFunction looks up one top-level function entry by name, returning
// its raw gjson.Result (the caller can chain .Get("signature") etc.
// without ever decoding into a struct).
func FindFunction(doc, name string) (gjson.Result, bool) {
	query := fmt.Sprintf("functions.#(name=%q)", name)
	r := gjson.Get(doc, query)
	return r, r.Exists()
}
