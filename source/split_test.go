package source

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_CounterExample(t *testing.T) {
	t.Parallel()
	src := "---js\nlet counter = 0;\n---\n#button[@click={() => counter = counter + 1}] {counter} /button"

	f, err := Split(src)
	require.NoError(t, err)
	require.Len(t, f.Blocks, 1)
	require.Equal(t, "js", f.Blocks[0].Lang)
	require.Equal(t, "let counter = 0;", f.Blocks[0].Body)
	require.Contains(t, f.Markup, "#button")
}

func TestSplit_MultipleJSBlocksConcatenate(t *testing.T) {
	t.Parallel()
	src := "---js\nlet a = 1;\n---\nmarkup\n---js\nlet b = 2;\n---\n"

	f, err := Split(src)
	require.NoError(t, err)
	require.Len(t, f.Blocks, 2)
	require.Equal(t, "let a = 1;\n\nlet b = 2;", f.Script)
}

func TestSplit_DuplicateForeignLangIsError(t *testing.T) {
	t.Parallel()
	src := "---rust\nfn a(){}\n---\n---rust\nfn b(){}\n---\n"

	_, err := Split(src)
	require.Error(t, err)
	require.Contains(t, err.Error(), "DuplicateLangBlock")
}

func TestSplit_UnknownFenceLang(t *testing.T) {
	t.Parallel()
	src := "---python\nprint(1)\n---\n"

	_, err := Split(src)
	require.Error(t, err)
	require.Contains(t, err.Error(), "UnknownFenceLang")
}

func TestSplit_UnterminatedFence(t *testing.T) {
	t.Parallel()
	src := "---js\nlet x = 1;\n"

	_, err := Split(src)
	require.Error(t, err)
	require.Contains(t, err.Error(), "UnterminatedFence")
}

func TestSplit_Pragma(t *testing.T) {
	t.Parallel()
	src := "#!decorous opt=2 strip=true\n---js\nlet x = 1;\n---\n"

	f, err := Split(src)
	require.NoError(t, err)
	v, ok := f.Pragma.Get("opt")
	require.True(t, ok)
	require.Equal(t, "2", v)
}

func TestSplit_UnknownPragmaKey(t *testing.T) {
	t.Parallel()
	src := "#!decorous bogus=1\n---js\nlet x = 1;\n---\n"

	_, err := Split(src)
	require.Error(t, err)
	require.Contains(t, err.Error(), "UnknownPragmaKey")
}
