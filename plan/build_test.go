package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/decorous-lang/decorous/markup"
	"github.com/decorous-lang/decorous/script"
)

func mustExpr(t *testing.T, src string) script.Node {
	n, errs := script.ParseExpr(src, 0)
	require.Empty(t, errs)
	return n
}

func TestBuild_CounterExample(t *testing.T) {
	t.Parallel()
	prog, errs := script.Parse("let counter = 0;")
	require.Empty(t, errs)
	handler := mustExpr(t, "() => counter = counter + 1")

	table, funcs, aerrs := script.Analyze(prog, []script.Node{handler})
	require.Empty(t, aerrs)

	sites := []markup.AnchorSite{
		{Index: 0, Kind: markup.AnchorText, Expr: mustExpr(t, "counter")},
	}

	p, err := Build(table, funcs, sites, []script.Node{handler})
	require.NoError(t, err)
	require.Equal(t, 1, p.N())
	require.Equal(t, 1, p.DirtyMaskSize())

	require.Len(t, p.Anchors(), 1)
	require.True(t, p.Anchors()[0].Trigger.Test(0))
	require.Equal(t, []byte{0b00000001}, p.Anchors()[0].Trigger.Bytes())

	require.Len(t, p.Handlers(), 1)
	require.True(t, p.Handlers()[0].Writes.Test(0))
}

func TestBuild_StaticAnchorRejected(t *testing.T) {
	t.Parallel()
	prog, errs := script.Parse("let counter = 0;\nconst label = \"hi\";")
	require.Empty(t, errs)
	handler := mustExpr(t, "() => counter = counter + 1")

	table, funcs, aerrs := script.Analyze(prog, []script.Node{handler})
	require.Empty(t, aerrs)

	sites := []markup.AnchorSite{
		// "label" is a const: it never becomes reactive, so this anchor's
		// trigger mask comes out all-zero.
		{Index: 0, Kind: markup.AnchorText, Expr: mustExpr(t, "label")},
	}

	_, err := Build(table, funcs, sites, nil)
	require.ErrorIs(t, err, ErrStaticAnchor)
}

func TestBitset_SizeIsCeilNOverEight(t *testing.T) {
	t.Parallel()
	require.Equal(t, 1, len(NewBitset(1)))
	require.Equal(t, 1, len(NewBitset(8)))
	require.Equal(t, 2, len(NewBitset(9)))
	require.Equal(t, 0, len(NewBitset(0)))
}

func TestBitset_SetAndTest(t *testing.T) {
	t.Parallel()
	b := NewBitset(10)
	require.True(t, b.IsZero())
	b.Set(9)
	require.False(t, b.IsZero())
	require.True(t, b.Test(9))
	require.False(t, b.Test(8))
}
