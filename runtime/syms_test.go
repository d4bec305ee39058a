package runtime

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestNewSymbol(t *testing.T) {
	symtab := NewSymbolTable()
	sym, _ := symtab.DefineTag("new-sym")
	if sym == nil {
		t.Fatal("no symbol created for table")
	}
	sym.Set(5)
	if sym.Value != 5 || sym.Typ != IntegerType {
		t.Errorf("expected integer value 5, have %v", sym)
	}
	sym.Set(2.5)
	if sym.Typ != FloatType {
		t.Errorf("expected float type, have %v", sym)
	}
}

func TestResolveOrDefineTag(t *testing.T) {
	symtab := NewSymbolTable()
	sym, _ := symtab.DefineTag("new-sym")
	if tag, found := symtab.ResolveOrDefineTag(sym.Name()); !found || tag != sym {
		t.Error("cannot find stored symbol in table")
	}
	if _, found := symtab.ResolveOrDefineTag("other"); found {
		t.Error("did not expect to find undefined symbol")
	}
	if symtab.Size() != 2 {
		t.Errorf("expected 2 symbols, have %d", symtab.Size())
	}
}

func TestDefineTagReplaces(t *testing.T) {
	symtab := NewSymbolTable()
	sym, _ := symtab.DefineTag("new-sym")
	if _, old := symtab.DefineTag("new-sym"); old != sym {
		t.Error("symbol should have been replaced")
	}
}

func TestScopeUpsearch(t *testing.T) {
	scopep := NewScope("parent", nil)
	scope := NewScope("current", scopep)
	scopep.DefineTag("new-sym")
	sym, sc := scope.ResolveTag("new-sym")
	if sym == nil || sc != scopep {
		t.Fatal("expected to find symbol in parent scope")
	}
	if sym, _ := scope.ResolveTag("none"); sym != nil {
		t.Error("did not expect to find undefined symbol")
	}
}

func TestRuntimeVariables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.runtime")
	defer teardown()
	//
	rt := NewRuntime()
	rt.Set("x", 3.0)
	rt.ScopeTree.PushNewScope("inner")
	rt.Set("y", 4.0)
	if v, err := rt.Get("x"); err != nil || v != 3.0 {
		t.Errorf("expected x = 3 from outer scope, have %v (%v)", v, err)
	}
	if _, err := rt.ScopeTree.PopScope(); err != nil {
		t.Fatal(err)
	}
	if _, err := rt.Get("y"); err == nil {
		t.Errorf("expected y to be undefined after popping its scope")
	}
	if _, err := rt.ScopeTree.PopScope(); err == nil {
		t.Errorf("expected popping the global scope to fail")
	}
	var names []string
	rt.Globals().Tags().Each(func(name string, _ *Tag) { names = append(names, name) })
	if len(names) != 1 || names[0] != "x" {
		t.Errorf("expected globals to hold x only, have %v", names)
	}
}
