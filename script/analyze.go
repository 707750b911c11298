package script

import (
	"strings"

	"github.com/decorous-lang/decorous/diag"
)

var jsGlobals = map[string]bool{
	"console": true, "document": true, "window": true, "Math": true,
	"JSON": true, "Array": true, "Object": true, "String": true,
	"Number": true, "Boolean": true, "Promise": true, "Date": true,
	"parseInt": true, "parseFloat": true, "isNaN": true, "undefined": true,
}

// Analyze runs the two-pass reactivity analysis over a component's
// script Program. handlers is every event handler expression the
// markup parser discovered (markup.EventBinding.Handler nodes); pass
// 2's reachability walk starts from them.
func Analyze(prog *Program, handlers []Node) (*SymbolTable, map[string]*FuncDecl, diag.Errors) {
	table := newSymbolTable()
	var errs diag.Errors

	funcs := collectDeclarations(prog, table, &errs)

	written := reachableWrites(handlers, funcs)
	classify(table, written)
	assignContextIndices(table)

	errs = append(errs, checkUndefinedAssignments(handlers, funcs, table)...)

	for _, cyc := range DetectCycles(table, funcs, handlers) {
		errs = errs.Add(diag.New(diag.ReactivityCycle, prog.Span,
			"reactivity cycle among %s", strings.Join(cyc, " -> ")))
	}

	return table, funcs, errs
}

// collectDeclarations is analysis pass 1: it walks only the top-level
// statements of the program (never descending into function/arrow bodies)
// and records every let/var/const/destructured name and every function
// declaration into the flat symbol table, in source order.
func collectDeclarations(prog *Program, table *SymbolTable, errs *diag.Errors) map[string]*FuncDecl {
	funcs := map[string]*FuncDecl{}
	for _, stmt := range prog.Stmts {
		switch t := stmt.(type) {
		case *VarDecl:
			for _, d := range t.Decls {
				for _, name := range d.Target.Names() {
					if _, exists := table.Lookup(name); exists {
						*errs = errs.Add(diag.New(diag.ShadowedReactive, d.Span,
							"top-level binding %q is declared more than once", name))
						continue
					}
					table.add(&Binding{
						Name: name, Kind: BindingInert, Index: -1,
						DeclKind: t.Kind, Span: d.Span, Init: d.Init,
					})
				}
			}
		case *FuncDecl:
			if _, exists := table.Lookup(t.Name); exists {
				*errs = errs.Add(diag.New(diag.ShadowedReactive, t.Span,
					"top-level binding %q is declared more than once", t.Name))
				continue
			}
			table.add(&Binding{Name: t.Name, Kind: BindingFunction, Index: -1, Span: t.Span})
			funcs[t.Name] = t
		}
	}
	return funcs
}

// reachableWrites is analysis pass 2's core: the set of top-level names
// assigned by whole-binding assignment somewhere reachable from a DOM
// event handler, following calls into top-level functions.
func reachableWrites(handlers []Node, funcs map[string]*FuncDecl) map[string]bool {
	written := map[string]bool{}
	visitedFuncs := map[string]bool{}

	var v *visitor
	v = &visitor{
		onWrite: func(name string) { written[name] = true },
		onCall: func(name string) {
			if visitedFuncs[name] {
				return
			}
			if fn, ok := funcs[name]; ok {
				visitedFuncs[name] = true
				v.walkFunc(fn.Params, fn.Body)
			}
		},
	}
	for _, h := range handlers {
		v.walk(h)
	}
	return written
}

// classify assigns each non-function binding's Kind from the reachable
// write set computed by reachableWrites: a const is always inert; a
// let/var written somewhere reachable from a handler is reactive;
// anything else (assigned only in its own init statement) is inert.
func classify(table *SymbolTable, written map[string]bool) {
	for _, b := range table.bindings {
		if b.Kind == BindingFunction {
			continue
		}
		if b.DeclKind == DeclConst {
			b.Kind = BindingInert
			continue
		}
		if written[b.Name] {
			b.Kind = BindingReactive
		} else {
			b.Kind = BindingInert
		}
	}
}

// assignContextIndices gives every reactive binding a stable index in
// [0, N) in source-declaration order.
func assignContextIndices(table *SymbolTable) {
	idx := 0
	for _, b := range table.bindings {
		if b.Kind == BindingReactive {
			b.Index = idx
			idx++
		}
	}
}

// HandlerWrites returns, for one handler expression, the set of reactive
// context indices it (transitively, through calls to top-level functions)
// assigns.
func HandlerWrites(handler Node, table *SymbolTable, funcs map[string]*FuncDecl) map[int]bool {
	names := map[string]bool{}
	visitedFuncs := map[string]bool{}

	var v *visitor
	v = &visitor{
		onWrite: func(name string) { names[name] = true },
		onCall: func(name string) {
			if visitedFuncs[name] {
				return
			}
			if fn, ok := funcs[name]; ok {
				visitedFuncs[name] = true
				v.walkFunc(fn.Params, fn.Body)
			}
		},
	}
	v.walk(handler)

	out := map[int]bool{}
	for name := range names {
		if b, ok := table.Lookup(name); ok && b.Kind == BindingReactive {
			out[b.Index] = true
		}
	}
	return out
}

// FreeVars walks an observer-site expression (a template interpolation,
// attribute binding, block condition, or for-loop iterable) and returns
// the context indices in its transitive dependency set: every reactive
// identifier it reads directly, every one reachable by reading through a
// call to a top-level function, and — for a derived reactive binding read
// directly — that binding's own initializer's dependencies too, so an
// anchor depending on a derived value still re-fires when the values it
// is derived from change.
func FreeVars(expr Node, table *SymbolTable, funcs map[string]*FuncDecl) map[int]bool {
	deps := map[int]bool{}
	visitedFuncs := map[string]bool{}
	visitedBindings := map[string]bool{}

	var v *visitor
	var visit func(n Node)

	addRead := func(name string) {
		b, ok := table.Lookup(name)
		if !ok || b.Kind != BindingReactive {
			return
		}
		deps[b.Index] = true
		if visitedBindings[name] {
			return
		}
		visitedBindings[name] = true
		if b.Init != nil {
			visit(b.Init)
		}
	}

	v = &visitor{
		onRead: addRead,
		onCall: func(name string) {
			if visitedFuncs[name] {
				return
			}
			if fn, ok := funcs[name]; ok {
				visitedFuncs[name] = true
				v.walkFunc(fn.Params, fn.Body)
			}
		},
	}
	visit = func(n Node) { v.walk(n) }
	visit(expr)
	return deps
}

// checkUndefinedAssignments reports UnsupportedAssignment for a
// destructuring-assignment target name that never appears at top level,
// and UndefinedReactiveBinding for a plain assignment target that resolves to
// neither a top-level binding nor a known JS global. It walks every
// handler and every top-level function reachable from one, mirroring the
// reachability rule used to classify reactive bindings.
func checkUndefinedAssignments(handlers []Node, funcs map[string]*FuncDecl, table *SymbolTable) diag.Errors {
	var errs diag.Errors
	visitedFuncs := map[string]bool{}

	check := func(n Node) {
		t, ok := n.(*AssignExpr)
		if !ok {
			return
		}
		switch target := t.Target.(type) {
		case *Ident:
			if _, ok := table.Lookup(target.Name); ok || jsGlobals[target.Name] {
				return
			}
			errs = errs.Add(diag.New(diag.UndefinedReactiveBinding, t.SourceSpan(),
				"assignment to undeclared identifier %q", target.Name))
		case *ArrayLit, *ObjectLit:
			for _, name := range destructureTargets(target) {
				if _, ok := table.Lookup(name); ok {
					continue
				}
				errs = errs.Add(diag.New(diag.UnsupportedAssignment, t.SourceSpan(),
					"destructuring assignment targets %q, which is not a top-level binding", name))
			}
		}
	}

	var visitReachable func(n Node)
	visitReachable = func(n Node) {
		walkAssignExprs(n, check)
		for _, name := range calledFunctionNames(n) {
			if visitedFuncs[name] {
				continue
			}
			if fn, ok := funcs[name]; ok {
				visitedFuncs[name] = true
				visitReachable(fn.Body)
			}
		}
	}
	for _, h := range handlers {
		visitReachable(h)
	}
	return errs
}

// calledFunctionNames returns the name of every top-level function called
// anywhere within n.
func calledFunctionNames(n Node) []string {
	var names []string
	v := &visitor{onCall: func(name string) { names = append(names, name) }}
	v.walk(n)
	return names
}

// walkAssignExprs visits every AssignExpr node reachable from n through
// nested expressions (not through function calls — callers that need to
// follow calls do so themselves), invoking fn on each.
func walkAssignExprs(n Node, fn func(Node)) {
	switch t := n.(type) {
	case nil:
		return
	case *AssignExpr:
		fn(t)
		walkAssignExprs(t.Value, fn)
	case *BinaryExpr:
		walkAssignExprs(t.Left, fn)
		walkAssignExprs(t.Right, fn)
	case *UnaryExpr:
		walkAssignExprs(t.Operand, fn)
	case *CallExpr:
		walkAssignExprs(t.Callee, fn)
		for _, a := range t.Args {
			walkAssignExprs(a, fn)
		}
	case *MemberExpr:
		walkAssignExprs(t.Object, fn)
	case *IndexExpr:
		walkAssignExprs(t.Object, fn)
		walkAssignExprs(t.Index, fn)
	case *ConditionalExpr:
		walkAssignExprs(t.Test, fn)
		walkAssignExprs(t.Then, fn)
		walkAssignExprs(t.Else, fn)
	case *ArrayLit:
		for _, e := range t.Elements {
			walkAssignExprs(e, fn)
		}
	case *SpreadElement:
		walkAssignExprs(t.Expr, fn)
	case *ObjectLit:
		for _, p := range t.Props {
			walkAssignExprs(p.Value, fn)
		}
	case *ArrowFunc:
		walkAssignExprs(t.Body, fn)
	case *FuncDecl:
		walkAssignExprs(t.Body, fn)
	case *VarDecl:
		for _, d := range t.Decls {
			walkAssignExprs(d.Init, fn)
		}
	case *ExprStmt:
		walkAssignExprs(t.Expr, fn)
	case *ReturnStmt:
		walkAssignExprs(t.Value, fn)
	case *IfStmt:
		walkAssignExprs(t.Test, fn)
		walkAssignExprs(t.Then, fn)
		walkAssignExprs(t.Else, fn)
	case *Block:
		for _, s := range t.Stmts {
			walkAssignExprs(s, fn)
		}
	}
}
