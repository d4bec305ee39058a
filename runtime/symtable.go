package runtime

import (
	"fmt"
	"sort"
)

// Symbol table for variables. Symbol tables are attached to scopes.
// Scopes are organized in a tree.
//

// --- Tags -------------------------------------------------------

// Tag is the symbols type to be stored into symbol tables. It may be a
// little surprising this type is not called 'Symbol', but I prefer the
// name 'Tag' because it is less confusing when dealing with parser
// generators and grammars: Grammars consist of symbols (within rules), too.
// Thus, symbols are used in the scope of the grammar, tags are used during
// runtime (of the client program).
//
type Tag struct {
	name  string
	Typ   ValueType
	Value interface{}
}

// ValueType categorizes the value of a tag.
type ValueType int8

// Pre-defined tag types.
const (
	Undefined ValueType = iota
	IntegerType
	FloatType
	StringType
	BooleanType
	OtherType
)

// NewTag creates a new tag without a value.
func NewTag(nm string) *Tag {
	return &Tag{name: nm}
}

// Set sets the value of a tag and derives its type from it.
func (s *Tag) Set(value interface{}) *Tag {
	s.Value = value
	switch value.(type) {
	case nil:
		s.Typ = Undefined
	case int, int32, int64:
		s.Typ = IntegerType
	case float32, float64:
		s.Typ = FloatType
	case string:
		s.Typ = StringType
	case bool:
		s.Typ = BooleanType
	default:
		s.Typ = OtherType
	}
	return s
}

// String is a debug Stringer for tags.
func (s *Tag) String() string {
	return fmt.Sprintf("<tag '%s':%d=%v>", s.Name(), s.Typ, s.Value)
}

// Name gets the tag's name.
func (s *Tag) Name() string {
	return s.name
}

// === Symbol Tables =========================================================

// SymbolTable is a symbol table to store tags (map-like semantics).
type SymbolTable struct {
	table map[string]*Tag
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{table: make(map[string]*Tag)}
}

// ResolveTag checks for a tag in the symbol table.
// Returns a tag or nil.
func (t *SymbolTable) ResolveTag(tagname string) *Tag {
	return t.table[tagname]
}

// ResolveOrDefineTag finds a tag in the table, inserting a new one if not
// found. Returns the tag and a flag, signalling wether the tag has already
// been present.
func (t *SymbolTable) ResolveOrDefineTag(tagname string) (*Tag, bool) {
	if len(tagname) == 0 {
		return nil, false
	}
	if tag := t.ResolveTag(tagname); tag != nil {
		return tag, true
	}
	tag, _ := t.DefineTag(tagname)
	return tag, false
}

// DefineTag creates a new tag to store into the symbol table.
// The tag's name may not be empty.
// Overwrites existing tag with this name, if any.
// Returns the new tag and the previously stored tag (or nil).
func (t *SymbolTable) DefineTag(tagname string) (*Tag, *Tag) {
	if len(tagname) == 0 {
		return nil, nil
	}
	tag := NewTag(tagname)
	old := t.table[tagname]
	t.table[tagname] = tag
	return tag, old
}

// Size counts the tags in a symbol table.
func (t *SymbolTable) Size() int {
	return len(t.table)
}

// Each iterates over the tags in the table in order of their names,
// executing a mapper function.
func (t *SymbolTable) Each(mapper func(string, *Tag)) {
	names := make([]string, 0, len(t.table))
	for k := range t.table {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		mapper(k, t.table[k])
	}
}

// === Scopes ================================================================

// Scope is a named scope, which may contain symbol definitions. Scopes link back to a
// parent scope, forming a tree.
type Scope struct {
	Name   string
	Parent *Scope
	symtab *SymbolTable
}

// NewScope creates a new scope.
func NewScope(nm string, parent *Scope) *Scope {
	return &Scope{
		Name:   nm,
		Parent: parent,
		symtab: NewSymbolTable(),
	}
}

func (s *Scope) String() string {
	return fmt.Sprintf("<scope %s>", s.Name)
}

// Tags returns the symbol table of a scope.
func (s *Scope) Tags() *SymbolTable {
	return s.symtab
}

// DefineTag defines a tag in the scope. Returns the new tag and the previously
// stored tag under this key, if any.
func (s *Scope) DefineTag(tagname string) (*Tag, *Tag) {
	return s.symtab.DefineTag(tagname)
}

// ResolveTag finds a tag. Returns the tag (or nil) and the scope of the
// scope-tree-path the tag was found in.
func (s *Scope) ResolveTag(tagname string) (*Tag, *Scope) {
	for sc := s; sc != nil; sc = sc.Parent {
		if tag := sc.symtab.ResolveTag(tagname); tag != nil {
			return tag, sc
		}
	}
	return nil, nil
}

// ---------------------------------------------------------------------------

// ScopeTree can be treated as a stack during evaluation, thus
// building a tree from scopes which are pushed an popped to/from the stack.
type ScopeTree struct {
	ScopeBase *Scope
	ScopeTOS  *Scope
}

// Current gets the current scope of a stack (TOS).
func (scst *ScopeTree) Current() *Scope {
	if scst.ScopeTOS == nil {
		panic("attempt to access scope from empty stack")
	}
	return scst.ScopeTOS
}

// Globals gets the outermost scope, containing global symbols.
func (scst *ScopeTree) Globals() *Scope {
	if scst.ScopeBase == nil {
		panic("attempt to access global scope from empty stack")
	}
	return scst.ScopeBase
}

// PushNewScope pushes a new scope onto the stack of scopes.
func (scst *ScopeTree) PushNewScope(nm string) *Scope {
	newsc := NewScope(nm, scst.ScopeTOS)
	if scst.ScopeTOS == nil { // the new scope is the global scope
		scst.ScopeBase = newsc
	}
	scst.ScopeTOS = newsc
	tracer().P("scope", newsc.Name).Debugf("pushing new scope")
	return newsc
}

// PopScope pops the top-most (recent) scope. The global scope cannot be popped.
func (scst *ScopeTree) PopScope() (*Scope, error) {
	if scst.ScopeTOS == nil || scst.ScopeTOS == scst.ScopeBase {
		return nil, fmt.Errorf("attempt to pop global scope")
	}
	sc := scst.ScopeTOS
	tracer().Debugf("popping scope [%s]", sc.Name)
	scst.ScopeTOS = sc.Parent
	return sc, nil
}
