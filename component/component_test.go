package component

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/decorous-lang/decorous/codegen"
)

const counterSource = `#!decorous render=prerender
---css
.wrap { color: blue; }
---
---js
let count = 0;
---
#div[class="wrap"]
  #button[@click={() => count = count + 1}] {count} /button
/div
`

func TestCompile_Counter(t *testing.T) {
	t.Parallel()

	comp, err := Compile(context.Background(), "counter.decor", counterSource, nil)
	require.NoError(t, err)

	require.Contains(t, comp.HTML, "<html")
	require.Contains(t, comp.HTML, `data-e="0"`)
	require.Contains(t, comp.HTML, "<!--0-->")
	require.Contains(t, comp.JS, "elems[0].data")
	require.Contains(t, comp.CSS, `.wrap[data-scope="`)
	require.Empty(t, comp.Wasm)
}

func TestCompile_ModeOptionOverridesPragma(t *testing.T) {
	t.Parallel()

	comp, err := Compile(context.Background(), "counter.decor", counterSource, nil,
		WithMode(codegen.ModeDOM))
	require.NoError(t, err)

	require.NotContains(t, comp.HTML, "<html")
	require.Contains(t, comp.HTML, `data-e="0"`)
}

func TestCompile_NoCSSBlockProducesEmptyCSS(t *testing.T) {
	t.Parallel()

	const src = `---js
let count = 0;
---
#span[@click={() => count = count + 1}] {count} /span
`
	comp, err := Compile(context.Background(), "nostyle.decor", src, nil)
	require.NoError(t, err)
	require.Empty(t, comp.CSS)
}

func TestCompile_SyntaxErrorReturnsDiagnostic(t *testing.T) {
	t.Parallel()

	const src = `#unterminated`
	_, err := Compile(context.Background(), "broken.decor", src, nil)
	require.Error(t, err)
}
