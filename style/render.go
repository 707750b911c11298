package style

import "strings"

// Render serializes a Sheet back into CSS text, for the code emitter's
// scoped-CSS artifact.
func Render(sheet *Sheet) string {
	var b strings.Builder
	renderItems(&b, sheet.Items)
	return strings.TrimSpace(b.String())
}

func renderItems(b *strings.Builder, items []Item) {
	for _, it := range items {
		switch v := it.(type) {
		case Rule:
			b.WriteString(strings.Join(v.Selectors, ","))
			b.WriteString("{")
			b.WriteString(v.Body)
			b.WriteString("}")
		case AtRule:
			b.WriteString("@")
			b.WriteString(v.Name)
			if v.Prelude != "" {
				b.WriteString(" ")
				b.WriteString(v.Prelude)
			}
			switch {
			case v.Items != nil:
				b.WriteString("{")
				renderItems(b, v.Items)
				b.WriteString("}")
			case v.Body != "":
				b.WriteString("{")
				b.WriteString(v.Body)
				b.WriteString("}")
			default:
				b.WriteString(";")
			}
		case Keyframes:
			b.WriteString("@")
			b.WriteString(v.AtName)
			b.WriteString(" ")
			b.WriteString(v.Prelude)
			b.WriteString("{")
			b.WriteString(v.Body)
			b.WriteString("}")
		}
	}
}
