package runtime

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// --- Tags -------------------------------------------------------

// Tag is a variable of an interpreted program. The name 'Tag' is used instead
// of 'Symbol' to avoid confusion with the symbols of a grammar: symbols are
// used in the scope of the grammar, tags during runtime of the client program.
type Tag struct {
	name  string
	Typ   ValueType
	value interface{}
	UData interface{} // user data
}

// ValueType is the type of the value a tag holds.
type ValueType int8

// Value types of tags.
const (
	Undefined ValueType = iota
	IntegerType
	FloatType
	StringType
	BooleanType
	OtherType
)

func (vt ValueType) String() string {
	switch vt {
	case Undefined:
		return "undefined"
	case IntegerType:
		return "integer"
	case FloatType:
		return "float"
	case StringType:
		return "string"
	case BooleanType:
		return "boolean"
	}
	return "other"
}

// NewTag creates a new tag without a value.
func NewTag(nm string) *Tag {
	return &Tag{name: nm}
}

// Name gets the tag's name.
func (tag *Tag) Name() string {
	return tag.name
}

// Value returns the tag's value, or nil for an undefined tag.
func (tag *Tag) Value() interface{} {
	return tag.value
}

// SetValue stores a value and derives the tag's type from it.
func (tag *Tag) SetValue(v interface{}) *Tag {
	tag.value = v
	tag.Typ = typeOf(v)
	return tag
}

// Float returns the tag's value as a float. The second return value is false
// if the tag does not hold a number.
func (tag *Tag) Float() (float64, bool) {
	switch v := tag.value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// String is a debug Stringer for tags.
func (tag *Tag) String() string {
	if tag.Typ == Undefined {
		return fmt.Sprintf("<tag '%s'>", tag.name)
	}
	return fmt.Sprintf("<tag '%s':%s=%v>", tag.name, tag.Typ, tag.value)
}

func typeOf(v interface{}) ValueType {
	switch v.(type) {
	case nil:
		return Undefined
	case int, int32, int64:
		return IntegerType
	case float32, float64:
		return FloatType
	case string:
		return StringType
	case bool:
		return BooleanType
	}
	return OtherType
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

// ResolveOrDefineTag finds a tag in the table and inserts a new one if not
// found. Returns the tag and a flag, signalling whether the tag has already
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
// Overwrites an existing tag with this name, if any.
// Returns the new tag and the previously stored tag (or nil).
func (t *SymbolTable) DefineTag(tagname string) (*Tag, *Tag) {
	if len(tagname) == 0 {
		return nil, nil
	}
	tag := NewTag(tagname)
	old := t.InsertTag(tag)
	return tag, old
}

// InsertTag inserts a pre-created tag.
func (t *SymbolTable) InsertTag(tag *Tag) *Tag {
	old := t.table[tag.name]
	t.table[tag.name] = tag
	return old
}

// Size counts the tags in a symbol table.
func (t *SymbolTable) Size() int {
	return len(t.table)
}

// Names returns the names of all tags, sorted.
func (t *SymbolTable) Names() []string {
	names := make([]string, 0, len(t.table))
	for name := range t.table {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Each iterates over the tags in the table in order of their names.
func (t *SymbolTable) Each(mapper func(string, *Tag)) {
	for _, name := range t.Names() {
		mapper(name, t.table[name])
	}
}

// === Scopes ================================================================

// Scope is a named scope, which may contain tag definitions. Scopes link back
// to a parent scope, forming a tree.
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
	for ; s != nil; s = s.Parent {
		if tag := s.symtab.ResolveTag(tagname); tag != nil {
			return tag, s
		}
	}
	return nil, nil
}

// ---------------------------------------------------------------------------

// ScopeTree can be treated as a stack, thus building a tree from scopes which
// are pushed and popped to/from the stack.
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

// Globals gets the outermost scope, containing global tags.
func (scst *ScopeTree) Globals() *Scope {
	if scst.ScopeBase == nil {
		panic("attempt to access global scope from empty stack")
	}
	return scst.ScopeBase
}

// Depth returns the number of scopes on the stack.
func (scst *ScopeTree) Depth() int {
	n := 0
	for s := scst.ScopeTOS; s != nil; s = s.Parent {
		n++
	}
	return n
}

// PushNewScope pushes a scope onto the stack of scopes. A scope is
// constructed, including a symbol table for variable declarations.
func (scst *ScopeTree) PushNewScope(nm string) *Scope {
	scp := scst.ScopeTOS
	newsc := NewScope(nm, scp)
	if scp == nil { // the new scope is the global scope
		scst.ScopeBase = newsc
	}
	scst.ScopeTOS = newsc
	tracer().P("scope", newsc.Name).Debugf("pushing new scope")
	return newsc
}

// PopScope pops the top-most (recent) scope. The global scope is never
// popped; PopScope returns nil for it.
func (scst *ScopeTree) PopScope() *Scope {
	if scst.ScopeTOS == nil {
		panic("attempt to pop scope from empty stack")
	}
	if scst.ScopeTOS == scst.ScopeBase {
		return nil
	}
	sc := scst.ScopeTOS
	tracer().Debugf("popping scope [%s]", sc.Name)
	scst.ScopeTOS = sc.Parent
	return sc
}
