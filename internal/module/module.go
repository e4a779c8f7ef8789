// Package module implements the CORE module and dispatch system (spec
// §3.3, §4.5, components C6 and C7): hash-keyed function tables, sub-modules, an
// iterator-factory registry, a custom-type registry, and the bloom-
// filter-gated per-frame resolution cache that gates lookups against the
// active call stack.
//
// Grounded on the teacher's internal/interp/runtime/method_registry.go
// (ID-keyed registry with a name index for introspection, RWMutex
// guarded) — generalized from a single flat per-session registry keyed
// by an auto-incrementing MethodID to a tree of Modules keyed by the
// parser's precomputed call-site hash (spec §4.5 "functions are found by
// hash, not by walking a name table").
package module

import (
	"sync"

	"github.com/weavelang/weave/internal/value"
)

// NativeFn is a host-registered function (spec §4.2). ctx carries the
// calling context (this-pointer flag, source position, function name,
// call-back hook, engine tag);
// args are already-evaluated, already-type-checked-by-hash arguments.
type NativeFn func(ctx *CallContext, args []value.Value) (value.Value, error)

// FuncFlags records purity/volatility metadata attached at registration
// time (spec §4.2 "pure" and "volatile" function flags), exposed through
// FuncEntry.IsPure/IsVolatile. The resolver and its cache do not read
// them; FlagMethod is reported in the metadata document.
type FuncFlags uint8

const (
	FlagPure FuncFlags = 1 << iota
	FlagVolatile
	FlagMethod // registered as obj.method(...) rather than a free function
)

// FuncEntry is one resolvable function, either native (Go-backed) or
// script-defined (an *ast.FunctionDecl, stored as `any` here to avoid an
// import cycle with internal/ast — internal/eval knows how to execute
// it).
type FuncEntry struct {
	Name       string
	ScriptHash uint64
	NativeHash uint64
	Arity      int
	Flags      FuncFlags
	Native     NativeFn
	Script     any // *ast.FunctionDecl, set for script-defined entries
}

func (e *FuncEntry) IsNative() bool { return e.Native != nil }
func (e *FuncEntry) IsPure() bool   { return e.Flags&FlagPure != 0 }
func (e *FuncEntry) IsVolatile() bool { return e.Flags&FlagVolatile != 0 }

// Module is a named bag of functions, constants, sub-modules, iterator
// factories and custom types (spec §4.2 "Modules"). The global/root
// module has an empty Name.
type Module struct {
	Name string

	mu        sync.RWMutex
	byHash    map[uint64][]*FuncEntry // script-hash or native-hash -> overload set
	constants map[string]value.Value
	subs      map[string]*Module
	iterators map[string]IteratorFactory
	types     map[string]*TypeInfo
}

// IteratorFactory produces a fresh iterator closure over a container
// value for `for x in container` (spec §4.1 "custom iterable types").
// Each call to the returned function yields the next element and false
// once exhausted.
type IteratorFactory func(container value.Value) func() (value.Value, bool)

// TypeInfo is what RegisterType attaches to a custom foreign type name
// (spec §4.2): a display name and the name of the Go type behind it.
type TypeInfo struct {
	Name       string
	GoTypeName string
}

func New(name string) *Module {
	return &Module{
		Name:      name,
		byHash:    make(map[uint64][]*FuncEntry),
		constants: make(map[string]value.Value),
		subs:      make(map[string]*Module),
		iterators: make(map[string]IteratorFactory),
		types:     make(map[string]*TypeInfo),
	}
}

// RegisterFn indexes e under both its script hash and its native hash
// (whatever the registering code computed; neither includes argument
// types), so a call site resolved either way finds it (spec §4.5 "dual
// hash").
func (m *Module) RegisterFn(e *FuncEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ScriptHash != 0 {
		m.byHash[e.ScriptHash] = append(m.byHash[e.ScriptHash], e)
	}
	if e.NativeHash != 0 && e.NativeHash != e.ScriptHash {
		m.byHash[e.NativeHash] = append(m.byHash[e.NativeHash], e)
	}
}

// Lookup finds the overload set for a hash in this module only (no
// sub-module or parent search — that tree walk is Resolver's job).
func (m *Module) Lookup(hash uint64) ([]*FuncEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries, ok := m.byHash[hash]
	return entries, ok
}

func (m *Module) SetConstant(name string, v value.Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.constants[name] = v.SetAccessMode(value.ReadOnly)
}

func (m *Module) Constant(name string) (value.Value, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.constants[name]
	return v, ok
}

func (m *Module) AddSubModule(name string, sub *Module) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[name] = sub
}

func (m *Module) SubModule(name string) (*Module, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sub, ok := m.subs[name]
	return sub, ok
}

func (m *Module) RegisterIterator(typeName string, f IteratorFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.iterators[typeName] = f
}

func (m *Module) Iterator(typeName string) (IteratorFactory, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.iterators[typeName]
	return f, ok
}

func (m *Module) RegisterType(info *TypeInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[info.Name] = info
}

func (m *Module) Type(name string) (*TypeInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.types[name]
	return info, ok
}

// Count returns the number of distinct hash buckets registered, for
// diagnostics and tests (mirrors the teacher's registry Stats()).
func (m *Module) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byHash)
}

// Functions returns every distinct registered FuncEntry, deduplicated
// across the script/native hash buckets a single entry may occupy
// (RegisterFn indexes under both) — for introspection (spec §6 metadata
// document), not for dispatch, which always goes through Lookup.
func (m *Module) Functions() []*FuncEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[*FuncEntry]bool)
	var out []*FuncEntry
	for _, bucket := range m.byHash {
		for _, e := range bucket {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out
}

// SubModuleNames returns the names of every direct sub-module, for metadata
// tree traversal.
func (m *Module) SubModuleNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.subs))
	for name := range m.subs {
		names = append(names, name)
	}
	return names
}

// Types returns every custom type registered directly on this module.
func (m *Module) Types() []*TypeInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*TypeInfo, 0, len(m.types))
	for _, t := range m.types {
		out = append(out, t)
	}
	return out
}
