package style

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_SimpleRule(t *testing.T) {
	t.Parallel()
	sheet, errs := Parse(`.card { color: red; }`, 0)
	require.Empty(t, errs)
	require.Len(t, sheet.Items, 1)

	rule, ok := sheet.Items[0].(Rule)
	require.True(t, ok)
	require.Equal(t, []string{".card"}, rule.Selectors)
}

func TestParse_MultipleSelectors(t *testing.T) {
	t.Parallel()
	sheet, errs := Parse(`h1, h2 { margin: 0; }`, 0)
	require.Empty(t, errs)
	rule := sheet.Items[0].(Rule)
	require.Equal(t, []string{"h1", "h2"}, rule.Selectors)
}

func TestParse_SelectorCommaInsidePseudoClassIsNotASplit(t *testing.T) {
	t.Parallel()
	sheet, errs := Parse(`:is(h1, h2) { margin: 0; }`, 0)
	require.Empty(t, errs)
	rule := sheet.Items[0].(Rule)
	require.Len(t, rule.Selectors, 1)
}

func TestParse_MediaQueryRecursesIntoNestedRules(t *testing.T) {
	t.Parallel()
	sheet, errs := Parse(`@media (min-width: 40em) { .card { color: blue; } }`, 0)
	require.Empty(t, errs)
	require.Len(t, sheet.Items, 1)

	at, ok := sheet.Items[0].(AtRule)
	require.True(t, ok)
	require.Equal(t, "media", at.Name)
	require.Len(t, at.Items, 1)
	require.Equal(t, []string{".card"}, at.Items[0].(Rule).Selectors)
}

func TestParse_FontFaceIsKeptAsARawBlock(t *testing.T) {
	t.Parallel()
	sheet, errs := Parse(`@font-face { font-family: "Foo"; src: url(foo.woff2); }`, 0)
	require.Empty(t, errs)
	at := sheet.Items[0].(AtRule)
	require.Equal(t, "font-face", at.Name)
	require.Nil(t, at.Items)
	require.Contains(t, at.Body, "font-family")
}

func TestParse_KeyframesBodyIsKeptRaw(t *testing.T) {
	t.Parallel()
	sheet, errs := Parse(`@keyframes spin { from { transform: rotate(0deg); } to { transform: rotate(360deg); } }`, 0)
	require.Empty(t, errs)
	kf, ok := sheet.Items[0].(Keyframes)
	require.True(t, ok)
	require.Equal(t, "spin", kf.Prelude)
	require.Contains(t, kf.Body, "from")
}

func TestParse_UnterminatedBlockReported(t *testing.T) {
	t.Parallel()
	_, errs := Parse(`.card { color: red;`, 0)
	require.NotEmpty(t, errs)
	require.Contains(t, errs.Error(), "UnterminatedBlock")
}

func TestParse_UnterminatedAtRuleReported(t *testing.T) {
	t.Parallel()
	_, errs := Parse(`@media (min-width: 40em) { .card { color: blue; }`, 0)
	require.NotEmpty(t, errs)
	require.Contains(t, errs.Error(), "UnterminatedAtRule")
}

func TestScope_AppendsAttributeToRightmostSimpleSelector(t *testing.T) {
	t.Parallel()
	sheet, errs := Parse(`.card > .title { color: red; }`, 0)
	require.Empty(t, errs)

	scoped := Scope(sheet, "abc123")
	rule := scoped.Items[0].(Rule)
	require.Equal(t, []string{`.card > .title[data-scope="abc123"]`}, rule.Selectors)
}

func TestScope_SplicesBeforeTrailingPseudoElement(t *testing.T) {
	t.Parallel()
	sheet, errs := Parse(`.title::before { content: ""; }`, 0)
	require.Empty(t, errs)

	scoped := Scope(sheet, "abc123")
	rule := scoped.Items[0].(Rule)
	require.Equal(t, []string{`.title[data-scope="abc123"]::before`}, rule.Selectors)
}

func TestScope_SplicesBeforeLegacyPseudoElement(t *testing.T) {
	t.Parallel()
	sheet, errs := Parse(`.card > .title:after { content: ""; }`, 0)
	require.Empty(t, errs)

	scoped := Scope(sheet, "abc123")
	rule := scoped.Items[0].(Rule)
	require.Equal(t, []string{`.card > .title[data-scope="abc123"]:after`}, rule.Selectors)
}

func TestScope_DoesNotDescendIntoKeyframes(t *testing.T) {
	t.Parallel()
	sheet, errs := Parse(`@keyframes spin { from { transform: rotate(0deg); } }`, 0)
	require.Empty(t, errs)

	scoped := Scope(sheet, "abc123")
	kf := scoped.Items[0].(Keyframes)
	require.NotContains(t, kf.Body, "data-scope")
}

func TestScope_RecursesIntoMediaQuery(t *testing.T) {
	t.Parallel()
	sheet, errs := Parse(`@media (min-width: 40em) { .card { color: blue; } }`, 0)
	require.Empty(t, errs)

	scoped := Scope(sheet, "abc123")
	at := scoped.Items[0].(AtRule)
	require.Equal(t, []string{`.card[data-scope="abc123"]`}, at.Items[0].(Rule).Selectors)
}

func TestRender_RoundTripsScopedSheet(t *testing.T) {
	t.Parallel()
	sheet, errs := Parse(`.card{color:red;}`, 0)
	require.Empty(t, errs)
	scoped := Scope(sheet, "abc123")
	out := Render(scoped)
	require.Contains(t, out, `.card[data-scope="abc123"]`)
	require.Contains(t, out, "color:red;")
}
