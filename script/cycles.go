package script

// DetectCycles builds a dependency graph over reactive-binding context
// indices and finds cycles with a three-color DFS. It returns one slice
// of binding names per cycle found; the search from each DFS root stops
// at the first back-edge it meets, so a graph with several cycles through
// the same root reports only one of them.
//
// The graph has two edge sources: a derived reactive binding's own
// initializer (an edge to every reactive binding that initializer
// reads), and every handler's assignment right-hand sides (an edge from
// the assigned binding to every reactive binding that right-hand side
// reads, following calls into top-level functions the same way
// reachableWrites does). Only the second source catches a cycle like
// `() => x = y + 1` / `() => y = x + 1`: with no initializer dependency
// between x and y at all, the mutual derivation only shows up in what
// the handlers assign.
//
// A handler that both reads and writes the same binding (`counter =
// counter + 1`) is never a cycle under this graph: a self-edge is
// never recorded, from either source.
func DetectCycles(table *SymbolTable, funcs map[string]*FuncDecl, handlers []Node) [][]string {
	adj := map[int][]int{}
	addEdge := func(from, to int) {
		if from != to {
			adj[from] = append(adj[from], to)
		}
	}
	for _, b := range table.Reactive() {
		if b.Init == nil {
			continue
		}
		for dep := range FreeVars(b.Init, table, funcs) {
			addEdge(b.Index, dep)
		}
	}
	for from, deps := range handlerWriteEdges(handlers, funcs, table) {
		for to := range deps {
			addEdge(from, to)
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[int]int{}
	var stack []int
	var cycles [][]string

	var dfs func(n int) bool
	dfs = func(n int) bool {
		color[n] = gray
		stack = append(stack, n)
		for _, m := range adj[n] {
			switch color[m] {
			case white:
				if dfs(m) {
					return true
				}
			case gray:
				start := 0
				for i, s := range stack {
					if s == m {
						start = i
						break
					}
				}
				cyc := append([]int{}, stack[start:]...)
				cyc = append(cyc, m)
				cycles = append(cycles, namesOf(cyc, table))
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return false
	}

	for _, b := range table.Reactive() {
		if color[b.Index] == white {
			dfs(b.Index)
		}
	}
	return cycles
}

// handlerWriteEdges finds, for every whole-binding assignment reachable
// from a handler (through calls into top-level functions, mirroring
// reachableWrites/checkUndefinedAssignments), the assigned reactive
// binding's index and the context indices its right-hand side reads.
func handlerWriteEdges(handlers []Node, funcs map[string]*FuncDecl, table *SymbolTable) map[int]map[int]bool {
	edges := map[int]map[int]bool{}
	visitedFuncs := map[string]bool{}

	check := func(n Node) {
		t, ok := n.(*AssignExpr)
		if !ok {
			return
		}
		ident, ok := t.Target.(*Ident)
		if !ok {
			return
		}
		b, ok := table.Lookup(ident.Name)
		if !ok || b.Kind != BindingReactive {
			return
		}
		for dep := range FreeVars(t.Value, table, funcs) {
			if edges[b.Index] == nil {
				edges[b.Index] = map[int]bool{}
			}
			edges[b.Index][dep] = true
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
	return edges
}

func namesOf(indices []int, table *SymbolTable) []string {
	byIndex := map[int]string{}
	for _, b := range table.Reactive() {
		byIndex[b.Index] = b.Name
	}
	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = byIndex[idx]
	}
	return names
}
