package module

import (
	"testing"

	"github.com/weavelang/weave/internal/value"
)

func TestRegisterAndLookupFn(t *testing.T) {
	m := New("global")
	e := &FuncEntry{Name: "add", ScriptHash: 111, NativeHash: 222, Arity: 2}
	m.RegisterFn(e)

	if _, ok := m.Lookup(111); !ok {
		t.Fatal("expected script-hash lookup to find entry")
	}
	if _, ok := m.Lookup(222); !ok {
		t.Fatal("expected native-hash lookup to find entry")
	}
	if _, ok := m.Lookup(333); ok {
		t.Fatal("expected unregistered hash to miss")
	}
}

func TestOverloadSet(t *testing.T) {
	m := New("global")
	m.RegisterFn(&FuncEntry{Name: "add", ScriptHash: 1, NativeHash: 10, Arity: 2})
	m.RegisterFn(&FuncEntry{Name: "add", ScriptHash: 1, NativeHash: 11, Arity: 3})
	entries, ok := m.Lookup(1)
	if !ok || len(entries) != 2 {
		t.Fatalf("expected 2 overloads under script hash, got %d", len(entries))
	}
}

func TestConstants(t *testing.T) {
	m := New("math")
	m.SetConstant("PI", value.Float(3.14159))
	v, ok := m.Constant("PI")
	if !ok {
		t.Fatal("expected PI constant to be found")
	}
	if !v.IsReadOnly() {
		t.Fatal("expected module constant to be read-only")
	}
}

func TestSubModules(t *testing.T) {
	root := New("")
	math := New("math")
	root.AddSubModule("math", math)
	got, ok := root.SubModule("math")
	if !ok || got != math {
		t.Fatal("expected sub-module registration to round trip")
	}
}

func TestResolverImportOrderAndRoot(t *testing.T) {
	root := New("")
	root.RegisterFn(&FuncEntry{Name: "len", ScriptHash: 1})

	a := New("a")
	a.RegisterFn(&FuncEntry{Name: "shadow", ScriptHash: 2})
	b := New("b")
	b.RegisterFn(&FuncEntry{Name: "shadow", ScriptHash: 2, NativeHash: 2})

	r := NewResolver(root)
	r.Import(a)
	r.Import(b)

	if _, ok := r.Resolve(1); !ok {
		t.Fatal("expected root module function to resolve")
	}
	entries, ok := r.Resolve(2)
	if !ok {
		t.Fatal("expected imported module function to resolve")
	}
	if entries[0].Name != "shadow" {
		t.Fatalf("got %q", entries[0].Name)
	}
}

func TestResolverCacheDoesNotHideRealHits(t *testing.T) {
	root := New("")
	root.RegisterFn(&FuncEntry{Name: "f", ScriptHash: 42})
	r := NewResolver(root)

	if _, ok := r.Resolve(99); ok {
		t.Fatal("expected 99 to miss")
	}
	if _, ok := r.Resolve(42); !ok {
		t.Fatal("bloom filter false positive must never hide a real function")
	}
}

func TestResolverCachesOnlyFromSecondEncounter(t *testing.T) {
	root := New("")
	root.RegisterFn(&FuncEntry{Name: "f", ScriptHash: 42})
	r := NewResolver(root)

	r.Resolve(42)
	if _, _, cached := r.cache.get(42); cached {
		t.Fatal("a hash seen only once must not be cached yet (one-hit-wonders stay uncached)")
	}

	r.Resolve(42)
	entries, ok, cached := r.cache.get(42)
	if !cached {
		t.Fatal("a hash seen twice must be cached")
	}
	if !ok || entries[0].Name != "f" {
		t.Fatal("cached entry must be the real resolution")
	}
}

func TestResolverResetFrameClearsCache(t *testing.T) {
	root := New("")
	r := NewResolver(root)
	r.Resolve(7)
	r.Resolve(7)
	if _, _, cached := r.cache.get(7); !cached {
		t.Fatal("expected second encounter to populate the cache")
	}
	r.ResetFrame()
	if _, _, cached := r.cache.get(7); cached {
		t.Fatal("expected ResetFrame to clear the cache")
	}
}
