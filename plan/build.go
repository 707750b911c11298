package plan

import (
	"fmt"

	"github.com/decorous-lang/decorous/markup"
	"github.com/decorous-lang/decorous/script"
)

// Build computes the anchor trigger masks and handler write sets over an
// already-analyzed component. Context-index assignment itself already
// happened in script.Analyze, which is the natural owner of binding
// identity and order; Build consumes those indices rather than
// reassigning them.
func Build(table *script.SymbolTable, funcs map[string]*script.FuncDecl, sites []markup.AnchorSite, handlerExprs []script.Node) (*Plan, error) {
	n := table.Len()

	anchors := make([]Anchor, len(sites))
	for i, site := range sites {
		mask := NewBitset(n)
		for idx := range script.FreeVars(site.Expr, table, funcs) {
			mask.Set(idx)
		}
		if mask.IsZero() {
			return nil, fmt.Errorf("%w: anchor %d", ErrStaticAnchor, site.Index)
		}
		anchors[i] = Anchor{Index: site.Index, Kind: site.Kind, Expr: site.Expr, Trigger: mask}
	}

	handlers := make([]Handler, len(handlerExprs))
	for i, h := range handlerExprs {
		mask := NewBitset(n)
		for idx := range script.HandlerWrites(h, table, funcs) {
			mask.Set(idx)
		}
		handlers[i] = Handler{Expr: h, Writes: mask}
	}

	return &Plan{n: n, anchors: anchors, handlers: handlers}, nil
}
