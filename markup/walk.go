package markup

import "github.com/decorous-lang/decorous/script"

// AnchorKind distinguishes the three observer-site shapes the planner and
// code emitter need to treat differently.
type AnchorKind int

const (
	AnchorText  AnchorKind = iota // a `{expr}` interpolation in text position
	AnchorAttr                    // a `key={expr}` attribute binding
	AnchorBlock                   // an `#if`/`#for` block placeholder
)

// AnchorSite is one entry of the anchor table: its stable index (assigned
// during parsing, in document order), its kind, and the expression whose
// value the runtime must recompute the anchor from. Name is the attribute
// name for an AnchorAttr site, empty otherwise.
type AnchorSite struct {
	Index int
	Kind  AnchorKind
	Expr  script.Node
	Name  string
}

// Handlers returns every event-handler expression in the tree, in
// document order. The script analyzer's reachability walk (script.Analyze)
// starts from this set.
func Handlers(tree *Tree) []script.Node {
	var out []script.Node
	walkHandlers(tree.Root, &out)
	return out
}

func walkHandlers(nodes []Node, out *[]script.Node) {
	for _, n := range nodes {
		switch t := n.(type) {
		case *Element:
			for _, ev := range t.Events {
				*out = append(*out, ev.Handler)
			}
			walkHandlers(t.Children, out)
		case *If:
			walkHandlers(t.Then, out)
			walkHandlers(t.Else, out)
		case *For:
			walkHandlers(t.Body, out)
		}
	}
}

// EventSite is one `@event={handler}` binding paired with the stable
// index of the DOM element it listens on.
type EventSite struct {
	ElemIndex int
	Event     string
	Handler   script.Node
}

// EventSites walks only the static part of the tree — it stops at every
// `#if`/`#for` boundary without descending — and returns every event
// binding in document order together with the *Element -> stable-index
// map that assigns each event-bearing element its index. These indices
// back the flat, once-attached listener table the JS bootstrap builds
// for the document's static shell. An event binding inside a block body
// is not in this table at all: the block's own content builder attaches
// that listener itself, as a real closure, every time it builds the
// block's subtree, so it needs no stable index or static data-e marker
// of its own.
func EventSites(tree *Tree) ([]EventSite, map[*Element]int) {
	idx := 0
	elemIdx := map[*Element]int{}
	var out []EventSite
	walkEventSites(tree.Root, &idx, elemIdx, &out)
	return out, elemIdx
}

func walkEventSites(nodes []Node, idx *int, elemIdx map[*Element]int, out *[]EventSite) {
	for _, n := range nodes {
		el, ok := n.(*Element)
		if !ok {
			continue
		}
		if len(el.Events) > 0 {
			my := *idx
			*idx++
			elemIdx[el] = my
			for _, ev := range el.Events {
				*out = append(*out, EventSite{ElemIndex: my, Event: ev.Event, Handler: ev.Handler})
			}
		}
		walkEventSites(el.Children, idx, elemIdx, out)
	}
}

// Anchors returns the tree's full anchor table, ordered by Index (which is
// already document order, since the parser hands out indices as it goes).
func Anchors(tree *Tree) []AnchorSite {
	out := make([]AnchorSite, tree.AnchorCount)
	walkAnchors(tree.Root, out)
	return out
}

// TopLevelAnchors returns the indices of every anchor that is not nested
// inside an `#if`/`#for` body, in document order. A block anchor itself
// counts as top-level even though its body is not: codegen's __update
// only ever calls a block's own content builder directly for a
// top-level block, never for one nested inside another block's body —
// a nested block is rebuilt as part of its parent rebuilding, through a
// direct call from the parent's content builder.
func TopLevelAnchors(tree *Tree) []int {
	var out []int
	walkTopLevelAnchors(tree.Root, &out)
	return out
}

func walkTopLevelAnchors(nodes []Node, out *[]int) {
	for _, n := range nodes {
		switch t := n.(type) {
		case *Element:
			for _, a := range t.Attrs {
				if a.Kind == AttrExpr {
					*out = append(*out, a.Anchor)
				}
			}
			walkTopLevelAnchors(t.Children, out)
		case *Interpolation:
			*out = append(*out, t.Anchor)
		case *If:
			*out = append(*out, t.Anchor)
		case *For:
			*out = append(*out, t.Anchor)
		}
	}
}

// NestedAnchors returns every anchor index anywhere inside a block's
// body, at any depth. Codegen unions these into a block anchor's own
// trigger mask: a dependency read only by a nested anchor must still
// force the whole block to rebuild, since the block discards and
// rebuilds its entire body rather than updating nested anchors
// independently.
func NestedAnchors(body []Node) []int {
	var out []int
	walkAllAnchors(body, &out)
	return out
}

func walkAllAnchors(nodes []Node, out *[]int) {
	for _, n := range nodes {
		switch t := n.(type) {
		case *Element:
			for _, a := range t.Attrs {
				if a.Kind == AttrExpr {
					*out = append(*out, a.Anchor)
				}
			}
			walkAllAnchors(t.Children, out)
		case *Interpolation:
			*out = append(*out, t.Anchor)
		case *If:
			*out = append(*out, t.Anchor)
			walkAllAnchors(t.Then, out)
			walkAllAnchors(t.Else, out)
		case *For:
			*out = append(*out, t.Anchor)
			walkAllAnchors(t.Body, out)
		}
	}
}

func walkAnchors(nodes []Node, out []AnchorSite) {
	for _, n := range nodes {
		switch t := n.(type) {
		case *Element:
			for _, a := range t.Attrs {
				if a.Kind == AttrExpr {
					out[a.Anchor] = AnchorSite{Index: a.Anchor, Kind: AnchorAttr, Expr: a.Expr, Name: a.Name}
				}
			}
			walkAnchors(t.Children, out)
		case *Interpolation:
			out[t.Anchor] = AnchorSite{Index: t.Anchor, Kind: AnchorText, Expr: t.Expr}
		case *If:
			out[t.Anchor] = AnchorSite{Index: t.Anchor, Kind: AnchorBlock, Expr: t.Cond}
			walkAnchors(t.Then, out)
			walkAnchors(t.Else, out)
		case *For:
			out[t.Anchor] = AnchorSite{Index: t.Anchor, Kind: AnchorBlock, Expr: t.Iter}
			walkAnchors(t.Body, out)
		}
	}
}
