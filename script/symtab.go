package script

import "github.com/decorous-lang/decorous/diag"

// BindingKind classifies a top-level script binding.
type BindingKind int

const (
	BindingInert BindingKind = iota
	BindingReactive
	BindingFunction
)

func (k BindingKind) String() string {
	switch k {
	case BindingReactive:
		return "reactive"
	case BindingFunction:
		return "function"
	default:
		return "inert"
	}
}

// Binding is one top-level script identifier. Index is its stable
// context index once the analyzer has assigned one — every reactive
// binding gets exactly one context index in [0, N); -1 for non-reactive
// bindings.
type Binding struct {
	Name     string
	Kind     BindingKind
	Index    int
	DeclKind DeclKind
	Span     diag.Span
	// Init is the declarator's initializer expression, if any. Used by
	// FreeVars to fold a derived reactive binding's own dependencies into
	// an observer site's transitive dependency set.
	Init Node
}

// SymbolTable is the flat table of top-level script bindings that every
// other stage indexes into, never by direct AST reference.
type SymbolTable struct {
	bindings []*Binding
	byName   map[string]int
}

func newSymbolTable() *SymbolTable {
	return &SymbolTable{byName: map[string]int{}}
}

func (t *SymbolTable) add(b *Binding) {
	t.byName[b.Name] = len(t.bindings)
	t.bindings = append(t.bindings, b)
}

// Lookup resolves a top-level name to its Binding.
func (t *SymbolTable) Lookup(name string) (*Binding, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.bindings[i], true
}

// Bindings returns every top-level binding in source-declaration order.
func (t *SymbolTable) Bindings() []*Binding { return t.bindings }

// Reactive returns every reactive binding, in context-index order.
func (t *SymbolTable) Reactive() []*Binding {
	var out []*Binding
	for _, b := range t.bindings {
		if b.Kind == BindingReactive {
			out = append(out, b)
		}
	}
	return out
}

// Len is the number of tracked reactive bindings, N — the dirty mask
// is always ceil(N/8) bytes wide.
func (t *SymbolTable) Len() int {
	n := 0
	for _, b := range t.bindings {
		if b.Kind == BindingReactive {
			n++
		}
	}
	return n
}
