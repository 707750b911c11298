package style

import (
	"fmt"
	"strings"
)

// Scope rewrites every selector in sheet to carry the component's scope
// token, so rules only ever match elements the component itself
// rendered. It recurses into @media/@supports (and other block at-rules
// that nest rules) but never into @keyframes, whose "selectors" are
// percentage/from/to keywords rather than element selectors.
func Scope(sheet *Sheet, token string) *Sheet {
	return &Sheet{Items: scopeItems(sheet.Items, token)}
}

func scopeItems(items []Item, token string) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		switch v := it.(type) {
		case Rule:
			sels := make([]string, len(v.Selectors))
			for j, s := range v.Selectors {
				sels[j] = scopeSelector(s, token)
			}
			v.Selectors = sels
			out[i] = v
		case AtRule:
			if v.Items != nil {
				v.Items = scopeItems(v.Items, token)
			}
			out[i] = v
		default:
			out[i] = it
		}
	}
	return out
}

// scopeSelector splices the scope attribute qualifier into the right-most
// simple selector of a complex selector (e.g. "div.card > .title"
// becomes "div.card > .title[data-scope=\"tok\"]"), matching how the rule
// must only match elements this component actually rendered at or below
// the right-most position. A trailing pseudo-element on that simple
// selector (".title::before") must stay last — CSS requires the
// pseudo-element to close the selector — so the qualifier is inserted
// just before it rather than after: ".title[data-scope=\"tok\"]::before".
func scopeSelector(selector, token string) string {
	boundary := rightmostSimpleSelectorStart(selector)
	splice := boundary + pseudoElementStart(selector[boundary:])
	qualifier := fmt.Sprintf(`[data-scope="%s"]`, token)
	return selector[:splice] + qualifier + selector[splice:]
}

// pseudoElementStart finds the byte offset within one simple selector
// where its trailing pseudo-element begins (either "::before" style or
// the legacy single-colon ":before"/":after"/":first-line"/":first-letter"
// forms), so the caller can splice a qualifier in before it. Returns
// len(simple) if the simple selector has no pseudo-element, so the
// qualifier is appended at the end as before.
func pseudoElementStart(simple string) int {
	legacy := []string{"before", "after", "first-line", "first-letter"}
	depth := 0
	for i := 0; i < len(simple); i++ {
		switch simple[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth != 0 {
				continue
			}
			if i+1 < len(simple) && simple[i+1] == ':' {
				return i
			}
			rest := simple[i+1:]
			for _, name := range legacy {
				if !strings.HasPrefix(rest, name) {
					continue
				}
				after := rest[len(name):]
				if after == "" || !isIdentChar(after[0]) {
					return i
				}
			}
		}
	}
	return len(simple)
}

func isIdentChar(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// rightmostSimpleSelectorStart finds the byte offset where the selector's
// last simple selector begins: after the last top-level (outside any
// []/() nesting) combinator or whitespace run.
func rightmostSimpleSelectorStart(selector string) int {
	depth := 0
	depths := make([]int, len(selector)+1)
	for i := 0; i < len(selector); i++ {
		switch selector[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		}
		depths[i+1] = depth
	}

	for i := len(selector); i > 0; i-- {
		if depths[i-1] != 0 {
			continue
		}
		switch selector[i-1] {
		case ' ', '\t', '\n', '>', '+', '~':
			return i
		}
	}
	return 0
}
