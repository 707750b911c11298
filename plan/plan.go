package plan

import (
	"errors"

	"github.com/decorous-lang/decorous/markup"
	"github.com/decorous-lang/decorous/script"
)

// ErrStaticAnchor is returned when an anchor's trigger mask comes out
// all-zero: an anchor with no dependencies must not exist, since it
// would be emitted as static text instead.
var ErrStaticAnchor = errors.New("anchor has no reactive dependencies")

// Anchor pairs one markup.AnchorSite with the trigger mask the planner
// computed for it.
type Anchor struct {
	Index   int
	Kind    markup.AnchorKind
	Expr    script.Node
	Trigger Bitset
}

// Handler pairs one event-handler expression with the write set the
// planner computed for it.
type Handler struct {
	Expr   script.Node
	Writes Bitset
}

// Plan is the immutable output of the planner: context-index assignment
// (carried implicitly — bindings already hold their index, see
// script.SymbolTable), the anchor table with per-anchor trigger masks,
// and per-handler write sets. Only plan.Build may construct one.
type Plan struct {
	n        int
	anchors  []Anchor
	handlers []Handler
}

// N is the reactive-binding count.
func (p *Plan) N() int { return p.n }

// DirtyMaskSize is ⌈N/8⌉, the size in bytes of the runtime's dirty mask.
func (p *Plan) DirtyMaskSize() int { return (p.n + 7) / 8 }

// Anchors returns the anchor table in document order.
func (p *Plan) Anchors() []Anchor { return p.anchors }

// Handlers returns the per-handler write sets, in the same order they
// were passed to Build.
func (p *Plan) Handlers() []Handler { return p.handlers }
