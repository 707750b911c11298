package script

// visitor walks a script AST tracking lexical scope, so identifier
// resolution can tell a top-level binding from one shadowed by a function
// parameter or a nested `let`/`const`/`function` declared along the way
// — a shadowing inner declaration never propagates back up to a
// top-level binding of the same name.
type visitor struct {
	// onRead fires for every identifier read that isn't locally shadowed.
	onRead func(name string)
	// onWrite fires for every whole-binding assignment target that isn't
	// locally shadowed (a bare `x = ...`/`x += ...`, or a name extracted
	// from a destructuring assignment target).
	onWrite func(name string)
	// onCall fires for every `name(...)` call, shadowed or not, so a
	// reachability walk can decide whether to follow it.
	onCall func(name string)

	scopes []map[string]bool
}

func (v *visitor) shadowed(name string) bool {
	for i := len(v.scopes) - 1; i >= 0; i-- {
		if v.scopes[i][name] {
			return true
		}
	}
	return false
}

func (v *visitor) push(names []string) {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	v.scopes = append(v.scopes, m)
}

func (v *visitor) pop() {
	v.scopes = v.scopes[:len(v.scopes)-1]
}

func (v *visitor) declareInCurrent(name string) {
	if len(v.scopes) == 0 {
		return
	}
	v.scopes[len(v.scopes)-1][name] = true
}

// walkFunc walks a function-shaped body with its parameters pushed as a
// new shadowing scope.
func (v *visitor) walkFunc(params []Pattern, body Node) {
	var names []string
	for _, p := range params {
		names = append(names, p.Names()...)
	}
	v.push(names)
	v.walk(body)
	v.pop()
}

// destructureTargets extracts the flat list of identifier names assigned
// by a destructuring *assignment* target (`[a, b] = ...`, `{a, b} = ...`),
// as distinct from a destructuring *declaration* target (handled by
// Pattern.Names instead).
func destructureTargets(n Node) []string {
	switch t := n.(type) {
	case *Ident:
		return []string{t.Name}
	case *ArrayLit:
		var out []string
		for _, e := range t.Elements {
			out = append(out, destructureTargets(e)...)
		}
		return out
	case *ObjectLit:
		var out []string
		for _, p := range t.Props {
			out = append(out, destructureTargets(p.Value)...)
		}
		return out
	default:
		return nil
	}
}

func (v *visitor) walk(n Node) {
	switch t := n.(type) {
	case nil:
		return
	case *Ident:
		if v.onRead != nil && !v.shadowed(t.Name) {
			v.onRead(t.Name)
		}
	case *Literal:
		// leaf, nothing to do
	case *BinaryExpr:
		v.walk(t.Left)
		v.walk(t.Right)
	case *UnaryExpr:
		v.walk(t.Operand)
	case *AssignExpr:
		switch target := t.Target.(type) {
		case *Ident:
			if v.onWrite != nil && !v.shadowed(target.Name) {
				v.onWrite(target.Name)
			}
		case *ArrayLit, *ObjectLit:
			for _, name := range destructureTargets(target) {
				if v.onWrite != nil && !v.shadowed(name) {
					v.onWrite(name)
				}
			}
		default:
			v.walk(t.Target)
		}
		v.walk(t.Value)
	case *CallExpr:
		if id, ok := t.Callee.(*Ident); ok {
			if v.onCall != nil {
				v.onCall(id.Name)
			}
			if v.onRead != nil && !v.shadowed(id.Name) {
				v.onRead(id.Name)
			}
		} else {
			v.walk(t.Callee)
		}
		for _, a := range t.Args {
			v.walk(a)
		}
	case *MemberExpr:
		v.walk(t.Object)
	case *IndexExpr:
		v.walk(t.Object)
		v.walk(t.Index)
	case *ConditionalExpr:
		v.walk(t.Test)
		v.walk(t.Then)
		v.walk(t.Else)
	case *ArrayLit:
		for _, e := range t.Elements {
			v.walk(e)
		}
	case *SpreadElement:
		v.walk(t.Expr)
	case *ObjectLit:
		for _, p := range t.Props {
			v.walk(p.Value)
		}
	case *ArrowFunc:
		v.walkFunc(t.Params, t.Body)
	case *VarDecl:
		for _, d := range t.Decls {
			v.walk(d.Init)
			for _, name := range d.Target.Names() {
				v.declareInCurrent(name)
			}
		}
	case *FuncDecl:
		v.declareInCurrent(t.Name)
		v.walkFunc(t.Params, t.Body)
	case *ExprStmt:
		v.walk(t.Expr)
	case *ReturnStmt:
		v.walk(t.Value)
	case *IfStmt:
		v.walk(t.Test)
		v.walk(t.Then)
		v.walk(t.Else)
	case *Block:
		v.push(nil)
		for _, s := range t.Stmts {
			v.walk(s)
		}
		v.pop()
	case *RawStmt:
		// opaque: participates in neither reads nor writes.
	case *Program:
		for _, s := range t.Stmts {
			v.walk(s)
		}
	}
}
