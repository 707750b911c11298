package codegen

import (
	"fmt"

	"github.com/decorous-lang/decorous/markup"
	"github.com/decorous-lang/decorous/plan"
	"github.com/decorous-lang/decorous/script"
)

// Mode selects how a component's runtime boots: whether the initial DOM
// comes from a server-rendered fragment or is built entirely on the
// client, and whether that fragment is a bare page or a full standalone
// HTML document.
type Mode int

const (
	ModeDOM Mode = iota
	ModeCSR
	ModePrerender
)

// ParseMode maps a `-r` flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "dom":
		return ModeDOM, nil
	case "csr":
		return ModeCSR, nil
	case "prerender":
		return ModePrerender, nil
	default:
		return 0, fmt.Errorf("unknown render mode %q", s)
	}
}

// Output is the HTML/JS pair one Emit call produces. Scoped CSS is
// rendered separately (style.Render on the already-scoped sheet), since
// it never varies with render mode the way HTML/JS do.
type Output struct {
	HTML string
	JS   string
}

// EmitOptions controls the shape of the emitted JS: whether it is a
// standalone auto-run script or an ES module exporting an initialize
// function, and (for dom/prerender) whether the fragment is meant to be
// dropped into an existing page or wrapped as one.
type EmitOptions struct {
	Mode       Mode
	Modularize bool
	Title      string
	CSSHref    string
	JSSrc      string
}

// Emit produces the HTML/JS/CSS artifacts for one component under the
// given mode, per opts. ModeCSR is a genuinely separate emitter, not a
// late branch over dom/prerender's fragment and script: there is no
// server-rendered HTML for it to query elements out of, so RenderCSRJS
// builds the entire tree itself with document.createElement calls,
// wiring every event listener as a real closure at construction time
// instead of through a data-e-marked querySelector pass.
func Emit(tree *markup.Tree, prog *script.Program, table *script.SymbolTable, funcs map[string]*script.FuncDecl, pl *plan.Plan, scopeToken string, opts EmitOptions) Output {
	var out Output

	if opts.Mode == ModeCSR {
		mountTarget := "document.body"
		if opts.Modularize {
			mountTarget = "root"
		}
		body := RenderCSRJS(tree, prog, table, funcs, pl, scopeToken, mountTarget)
		if opts.Modularize {
			out.JS = fmt.Sprintf("export function initialize(root){\n%s}\n", body)
		} else {
			out.JS = body
		}
		out.HTML = ""
		return out
	}

	_, elemIdx := markup.EventSites(tree)
	fragment := RenderHTML(tree, table, scopeToken, elemIdx)

	root := "document"
	if opts.Modularize {
		root = "root"
	}
	body := RenderJS(tree, prog, table, funcs, pl, scopeToken, root)

	if opts.Modularize {
		out.JS = fmt.Sprintf("export function initialize(root){\n%s}\n", body)
	} else {
		out.JS = body
	}

	if opts.Mode == ModePrerender {
		out.HTML = RenderPrerenderPage(fragment, opts.Title, opts.CSSHref, opts.JSSrc)
	} else {
		out.HTML = fragment
	}

	return out
}
