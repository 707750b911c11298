// Package style implements the Decorous CSS scoper: it tokenizes each
// `css` block with gorilla/css/scanner, parses the token stream into a
// flat list of rules (plus pass-through at-rules), and rewrites selectors
// to carry a component-unique scope token.
package style

import "github.com/decorous-lang/decorous/diag"

// Item is one top-level (or at-rule-nested) CSS construct.
type Item interface {
	isItem()
}

// Rule is a plain `selector-list { declarations }` rule.
type Rule struct {
	Selectors []string
	Body      string
	Span      diag.Span
}

func (Rule) isItem() {}

// AtRule is a pass-through at-rule (`@media`, `@supports`, `@font-face`,
// ...). Items is nil for a declaration-only at-rule (`@font-face { ... }`
// has no nested rules to recurse into, so its body is kept raw) or a
// block-less at-rule (`@import "x";`); non-nil Items means the scoper
// recurses into it — @media/@supports nest rules that get scoped the
// same as top-level rules, while @keyframes does not.
type AtRule struct {
	Name    string
	Prelude string
	Body    string // raw declarations, used when Items is nil and there is a block
	Items   []Item
	Span    diag.Span
}

func (AtRule) isItem() {}

// Keyframes is an `@keyframes name { ... }` block. Its body is never
// selector-scoped: the "selectors" inside it are percentage/from/to
// keywords, not element selectors.
type Keyframes struct {
	AtName  string // "keyframes", "-webkit-keyframes", ...
	Prelude string // the animation name
	Body    string
	Span    diag.Span
}

func (Keyframes) isItem() {}

// Sheet is the parsed form of one component's `css` block.
type Sheet struct {
	Items []Item
}
