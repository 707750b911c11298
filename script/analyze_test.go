package script

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustExpr(t *testing.T, src string) Node {
	n, errs := ParseExpr(src, 0)
	require.Empty(t, errs)
	return n
}

func TestAnalyze_CounterExample(t *testing.T) {
	t.Parallel()
	prog, errs := Parse("let counter = 0;")
	require.Empty(t, errs)
	handler := mustExpr(t, "() => counter = counter + 1")

	table, _, aerrs := Analyze(prog, []Node{handler})
	require.Empty(t, aerrs)

	b, ok := table.Lookup("counter")
	require.True(t, ok)
	require.Equal(t, BindingReactive, b.Kind)
	require.Equal(t, 0, b.Index)
	require.Equal(t, 1, table.Len())
}

func TestAnalyze_MutationIsNotReassignment(t *testing.T) {
	t.Parallel()
	prog, errs := Parse("let stuff = [];")
	require.Empty(t, errs)
	handler := mustExpr(t, "(x) => stuff.push(x)")

	table, _, aerrs := Analyze(prog, []Node{handler})
	require.Empty(t, aerrs)

	b, ok := table.Lookup("stuff")
	require.True(t, ok)
	require.Equal(t, BindingInert, b.Kind)
}

func TestAnalyze_ReassignmentThroughSpreadIsReactive(t *testing.T) {
	t.Parallel()
	prog, errs := Parse("let stuff = [];")
	require.Empty(t, errs)
	handler := mustExpr(t, "(x) => stuff = [...stuff, x]")

	table, _, aerrs := Analyze(prog, []Node{handler})
	require.Empty(t, aerrs)

	b, ok := table.Lookup("stuff")
	require.True(t, ok)
	require.Equal(t, BindingReactive, b.Kind)
}

func TestAnalyze_ShadowedParamDoesNotPropagate(t *testing.T) {
	t.Parallel()
	prog, errs := Parse("let counter = 0;")
	require.Empty(t, errs)
	// "counter" here is a parameter shadowing the top-level binding, so
	// this handler must not mark the top-level binding reactive.
	handler := mustExpr(t, "(counter) => counter = counter + 1")

	table, _, aerrs := Analyze(prog, []Node{handler})
	require.Empty(t, aerrs)

	b, ok := table.Lookup("counter")
	require.True(t, ok)
	require.Equal(t, BindingInert, b.Kind)
}

func TestAnalyze_FunctionCalledFromHandlerPropagatesReactivity(t *testing.T) {
	t.Parallel()
	prog, errs := Parse("let counter = 0;\nfunction bump() { counter = counter + 1; }")
	require.Empty(t, errs)
	handler := mustExpr(t, "() => bump()")

	table, _, aerrs := Analyze(prog, []Node{handler})
	require.Empty(t, aerrs)

	b, ok := table.Lookup("counter")
	require.True(t, ok)
	require.Equal(t, BindingReactive, b.Kind)

	bump, ok := table.Lookup("bump")
	require.True(t, ok)
	require.Equal(t, BindingFunction, bump.Kind)
}

func TestAnalyze_ReactivityCycle(t *testing.T) {
	t.Parallel()
	prog, errs := Parse("let a = b + 1;\nlet b = a + 1;")
	require.Empty(t, errs)
	handler := mustExpr(t, "() => { a = b + 1; b = a + 1; }")

	_, _, aerrs := Analyze(prog, []Node{handler})
	require.NotEmpty(t, aerrs)
	require.Contains(t, aerrs.Error(), "ReactivityCycle")
}

func TestAnalyze_ReactivityCycleFromHandlerWritesAlone(t *testing.T) {
	t.Parallel()
	prog, errs := Parse("let x = 0;\nlet y = 0;")
	require.Empty(t, errs)
	h1 := mustExpr(t, "() => x = y + 1")
	h2 := mustExpr(t, "() => y = x + 1")

	_, _, aerrs := Analyze(prog, []Node{h1, h2})
	require.NotEmpty(t, aerrs)
	require.Contains(t, aerrs.Error(), "ReactivityCycle")
}

func TestAnalyze_HandlerThatReadsAndWritesSameBindingIsNotACycle(t *testing.T) {
	t.Parallel()
	prog, errs := Parse("let counter = 0;")
	require.Empty(t, errs)
	handler := mustExpr(t, "() => counter = counter + 1")

	_, _, aerrs := Analyze(prog, []Node{handler})
	require.Empty(t, aerrs)
}

func TestAnalyze_UndefinedAssignment(t *testing.T) {
	t.Parallel()
	prog, errs := Parse("let counter = 0;")
	require.Empty(t, errs)
	handler := mustExpr(t, "() => bogus = 1")

	_, _, aerrs := Analyze(prog, []Node{handler})
	require.NotEmpty(t, aerrs)
	require.Contains(t, aerrs.Error(), "UndefinedReactiveBinding")
}

func TestFreeVars_DerivedBindingIncludesOwnDependencies(t *testing.T) {
	t.Parallel()
	prog, errs := Parse("let a = 1;\nlet doubled = a * 2;")
	require.Empty(t, errs)
	handler := mustExpr(t, "() => { a = a + 1; doubled = a * 2; }")

	table, funcs, aerrs := Analyze(prog, []Node{handler})
	require.Empty(t, aerrs)

	aBind, _ := table.Lookup("a")
	doubledBind, _ := table.Lookup("doubled")

	deps := FreeVars(mustExpr(t, "doubled"), table, funcs)
	require.True(t, deps[doubledBind.Index])
	require.True(t, deps[aBind.Index])
}
