package markup

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/decorous-lang/decorous/diag"
)

func TestParse_IfElse(t *testing.T) {
	t.Parallel()
	tree, errs := Parse(`{#if ready} #span {a} /span {:else} #span {b} /span {/if}`, 0)
	require.Empty(t, errs)
	require.Len(t, tree.Root, 1)

	ifNode, ok := tree.Root[0].(*If)
	require.True(t, ok)
	require.Len(t, ifNode.Then, 1)
	require.Len(t, ifNode.Else, 1)

	thenSpan, ok := ifNode.Then[0].(*Element)
	require.True(t, ok)
	require.Equal(t, "span", thenSpan.Tag)
	require.Len(t, thenSpan.Children, 1)
	interp, ok := thenSpan.Children[0].(*Interpolation)
	require.True(t, ok)

	elseSpan, ok := ifNode.Else[0].(*Element)
	require.True(t, ok)
	elseInterp, ok := elseSpan.Children[0].(*Interpolation)
	require.True(t, ok)

	// Anchor indices are handed out in document order as the parser
	// descends: the then-branch's interpolation first, the
	// else-branch's second, and the #if block's own anchor last, once
	// both branches have been fully parsed.
	require.Equal(t, 0, interp.Anchor)
	require.Equal(t, 1, elseInterp.Anchor)
	require.Equal(t, 2, ifNode.Anchor)

	require.Equal(t, 3, tree.AnchorCount)
}

func TestParse_IfWithoutElse(t *testing.T) {
	t.Parallel()
	tree, errs := Parse(`{#if ready} #span {a} /span {/if}`, 0)
	require.Empty(t, errs)
	require.Len(t, tree.Root, 1)

	ifNode, ok := tree.Root[0].(*If)
	require.True(t, ok)
	require.Nil(t, ifNode.Else)
}

func TestParse_UnterminatedIfReportsError(t *testing.T) {
	t.Parallel()
	_, errs := Parse(`{#if ready} #span {a} /span`, 0)
	require.NotEmpty(t, errs)
	require.Equal(t, diag.UnterminatedBlock, errs[0].Kind)
}

func TestParse_ForLoop(t *testing.T) {
	t.Parallel()
	tree, errs := Parse(`{#for item in items} #li {item} /li {/for}`, 0)
	require.Empty(t, errs)
	require.Len(t, tree.Root, 1)

	forNode, ok := tree.Root[0].(*For)
	require.True(t, ok)
	require.Len(t, forNode.Body, 1)

	li, ok := forNode.Body[0].(*Element)
	require.True(t, ok)
	require.Equal(t, "li", li.Tag)
	bodyInterp, ok := li.Children[0].(*Interpolation)
	require.True(t, ok)

	// The body's interpolation is parsed, and so assigned its anchor
	// index, before the #for block's own anchor is handed out.
	require.Equal(t, 0, bodyInterp.Anchor)
	require.Equal(t, 1, forNode.Anchor)

	require.Equal(t, 2, tree.AnchorCount)
}

func TestParse_UnterminatedForReportsError(t *testing.T) {
	t.Parallel()
	_, errs := Parse(`{#for item in items} #li {item} /li`, 0)
	require.NotEmpty(t, errs)
	require.Equal(t, diag.UnterminatedBlock, errs[0].Kind)
}

func TestParse_VoidElementTakesNoChildren(t *testing.T) {
	t.Parallel()
	tree, errs := Parse(`#img[src="a.png"]`, 0)
	require.Empty(t, errs)
	require.Len(t, tree.Root, 1)

	img, ok := tree.Root[0].(*Element)
	require.True(t, ok)
	require.True(t, img.Void)
	require.Empty(t, img.Children)
	require.Len(t, img.Attrs, 1)
	require.Equal(t, "src", img.Attrs[0].Name)
}

func TestParse_VoidElementSwallowsRedundantClose(t *testing.T) {
	t.Parallel()
	tree, errs := Parse(`#br /br`, 0)
	require.Empty(t, errs)
	require.Len(t, tree.Root, 1)

	br, ok := tree.Root[0].(*Element)
	require.True(t, ok)
	require.True(t, br.Void)
	require.Empty(t, br.Children)
}

func TestParse_NonVoidElementWithoutCloseReportsError(t *testing.T) {
	t.Parallel()
	_, errs := Parse(`#div hello`, 0)
	require.NotEmpty(t, errs)
	require.Equal(t, diag.UnbalancedTag, errs[0].Kind)
}

func TestParse_ElseOutsideIf(t *testing.T) {
	t.Parallel()
	_, errs := Parse(`#span hi /span {:else}`, 0)
	require.NotEmpty(t, errs)
	require.Equal(t, diag.ElseOutsideIf, errs[0].Kind)
}
