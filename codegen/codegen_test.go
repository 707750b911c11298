package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/decorous-lang/decorous/markup"
	"github.com/decorous-lang/decorous/plan"
	"github.com/decorous-lang/decorous/script"
)

// compileFixture runs the parse/analyze/plan stages a real .decor file's
// markup and script blocks would go through, without touching source
// splitting or styling, since codegen only ever needs what survives
// those stages.
func compileFixture(t *testing.T, markupSrc, scriptSrc string) (*markup.Tree, *script.Program, *script.SymbolTable, map[string]*script.FuncDecl, *plan.Plan) {
	t.Helper()

	tree, errs := markup.Parse(markupSrc, 0)
	require.Empty(t, errs)

	prog, errs := script.Parse(scriptSrc)
	require.Empty(t, errs)

	handlers := markup.Handlers(tree)
	table, funcs, errs := script.Analyze(prog, handlers)
	require.Empty(t, errs)

	sites := markup.Anchors(tree)
	pl, err := plan.Build(table, funcs, sites, handlers)
	require.NoError(t, err)

	return tree, prog, table, funcs, pl
}

func TestRenderHTML_Counter(t *testing.T) {
	t.Parallel()
	tree, _, table, _, _ := compileFixture(t,
		`#button[@click={() => count = count + 1}] {count} /button`,
		`let count = 0;`,
	)

	_, elemIdx := markup.EventSites(tree)
	html := RenderHTML(tree, table, "scope1", elemIdx)

	require.Contains(t, html, `data-e="0"`)
	require.Contains(t, html, `data-scope="scope1"`)
	require.Contains(t, html, "<!--0-->")
}

func TestRenderJS_Counter(t *testing.T) {
	t.Parallel()
	tree, prog, table, funcs, pl := compileFixture(t,
		`#button[@click={() => count = count + 1}] {count} /button`,
		`let count = 0;`,
	)

	js := RenderJS(tree, prog, table, funcs, pl, "scope1", "document")

	require.Contains(t, js, "function __init_ctx")
	require.Contains(t, js, "return [count];")
	require.Contains(t, js, "document.querySelector('[data-e=\"0\"]').addEventListener('click'")
	require.Contains(t, js, "__schedule_update(0, (ctx[0] + 1))")
	require.Contains(t, js, "elems[0].data = __esc(ctx[0])")
}

func TestRenderJS_ForLoopBuildsBlockFunction(t *testing.T) {
	t.Parallel()
	tree, prog, table, funcs, pl := compileFixture(t,
		`#button[@click={() => items = [...items, items.length]}] /button {#for item in items} #li {item} /li {/for}`,
		`let items = [1, 2, 3];`,
	)

	js := RenderJS(tree, prog, table, funcs, pl, "scope1", "document")

	require.Contains(t, js, "function __build_block_0()")
	require.Contains(t, js, "for (const item of (ctx[0]))")
	require.Contains(t, js, "document.createElement('li')")
	require.Contains(t, js, "__mount_block(elems[0], __build_block_0());")
}

func TestEmit_PrerenderMode(t *testing.T) {
	t.Parallel()
	tree, prog, table, funcs, pl := compileFixture(t,
		`#button[@click={() => count = count + 1}] /button #span {count} /span`,
		`let count = 0;`,
	)

	out := Emit(tree, prog, table, funcs, pl, "scope1", EmitOptions{
		Mode:    ModePrerender,
		Title:   "fixture",
		CSSHref: "fixture.css",
		JSSrc:   "fixture.js",
	})

	require.Contains(t, out.HTML, "<html")
	require.Contains(t, out.HTML, "fixture.css")
	require.Contains(t, out.HTML, "fixture.js")
	require.Contains(t, out.JS, "elems[0].data")
}

func TestEmit_CSRModeBuildsTreeWithCreateElement(t *testing.T) {
	t.Parallel()
	tree, prog, table, funcs, pl := compileFixture(t,
		`#button[@click={() => count = count + 1}] /button #span {count} /span`,
		`let count = 0;`,
	)

	out := Emit(tree, prog, table, funcs, pl, "scope1", EmitOptions{Mode: ModeCSR})

	require.Empty(t, out.HTML)
	require.Contains(t, out.JS, "function __build_tree(elems)")
	require.Contains(t, out.JS, "document.createElement('span')")
	require.Contains(t, out.JS, "document.createElement('button')")
	require.Contains(t, out.JS, "addEventListener('click'")
	require.Contains(t, out.JS, "document.body.appendChild(__tree)")
	require.Contains(t, out.JS, "elems[0]=__a0")
	require.NotContains(t, out.JS, "innerHTML")
	require.NotContains(t, out.JS, "__find_comment")
}

func TestRenderCSRJS_ForLoopBuildsBlockFunctionAndAnchorComment(t *testing.T) {
	t.Parallel()
	tree, prog, table, funcs, pl := compileFixture(t,
		`#button[@click={() => items = [...items, items.length]}] /button {#for item in items} #li {item} /li {/for}`,
		`let items = [1, 2, 3];`,
	)

	js := RenderCSRJS(tree, prog, table, funcs, pl, "scope1", "document.body")

	require.Contains(t, js, "function __build_block_0()")
	require.Contains(t, js, "document.createComment(String(0))")
	require.Contains(t, js, "__mount_block(elems[0], __build_block_0());")
	require.NotContains(t, js, "innerHTML")
}

func TestPrintExpr_HandlerParamShadowsReactiveBindingOfSameName(t *testing.T) {
	t.Parallel()
	prog, errs := script.Parse(`let counter = 0; let other = 0;`)
	require.Empty(t, errs)

	h1, errs := script.ParseExpr(`() => counter = counter + 1`, 0)
	require.Empty(t, errs)
	h2, errs := script.ParseExpr(`(counter) => other = counter`, 0)
	require.Empty(t, errs)

	table, _, errs := script.Analyze(prog, []script.Node{h1, h2})
	require.Empty(t, errs)

	js := printExpr(h2, table, true)

	require.NotContains(t, js, "ctx[0]")
	require.Regexp(t, `__schedule_update\(\d+, counter\)`, js)
}

func TestEmit_ModularizeExportsInitialize(t *testing.T) {
	t.Parallel()
	tree, prog, table, funcs, pl := compileFixture(t,
		`#button[@click={() => count = count + 1}] /button #span {count} /span`,
		`let count = 0;`,
	)

	out := Emit(tree, prog, table, funcs, pl, "scope1", EmitOptions{
		Mode:       ModeDOM,
		Modularize: true,
	})

	require.Contains(t, out.JS, "export function initialize(root){")
	require.Contains(t, out.JS, "root.querySelector")
}
