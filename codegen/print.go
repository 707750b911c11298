package codegen

import (
	"fmt"
	"strings"

	"github.com/decorous-lang/decorous/script"
)

// printer renders a script AST back into JS source text. In rewrite
// mode (used for handler bodies and the functions they call) every
// read of a reactive binding becomes ctx[idx] and every whole-binding
// assignment to one becomes a call to __schedule_update(idx, val)
// instead of a plain read/assignment — reactive values live only in
// the runtime's ctx array, never as JS variables of their own.
type printer struct {
	table   *script.SymbolTable
	rewrite bool
	// scopes mirrors script/walk.go's visitor: a stack of shadowing sets
	// pushed for every function parameter list and block, so a name
	// bound locally (a handler parameter, an inner let) resolves to the
	// plain local identifier instead of the top-level reactive binding
	// of the same name it shadows.
	scopes []map[string]bool
}

func printExpr(n script.Node, table *script.SymbolTable, rewrite bool) string {
	return (&printer{table: table, rewrite: rewrite}).expr(n)
}

func printStmt(n script.Node, table *script.SymbolTable, rewrite bool) string {
	return (&printer{table: table, rewrite: rewrite}).stmt(n)
}

func printFuncDecl(fn *script.FuncDecl, table *script.SymbolTable, rewrite bool) string {
	return (&printer{table: table, rewrite: rewrite}).funcDecl(fn)
}

func (p *printer) shadowed(name string) bool {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if p.scopes[i][name] {
			return true
		}
	}
	return false
}

func (p *printer) push(names []string) {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	p.scopes = append(p.scopes, m)
}

func (p *printer) pop() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *printer) declareInCurrent(name string) {
	if len(p.scopes) == 0 {
		return
	}
	p.scopes[len(p.scopes)-1][name] = true
}

// reactiveBinding looks up a reactive binding by name, but only if it
// isn't locally shadowed — the same rule script.classify's reachability
// walk applies when deciding whether a write belongs to the top-level
// binding at all.
func (p *printer) reactiveBinding(name string) (*script.Binding, bool) {
	if p.shadowed(name) {
		return nil, false
	}
	b, ok := p.table.Lookup(name)
	if !ok || b.Kind != script.BindingReactive {
		return nil, false
	}
	return b, true
}

func (p *printer) expr(n script.Node) string {
	switch t := n.(type) {
	case nil:
		return ""
	case *script.Ident:
		if p.rewrite {
			if b, ok := p.reactiveBinding(t.Name); ok {
				return fmt.Sprintf("ctx[%d]", b.Index)
			}
		}
		return t.Name
	case *script.Literal:
		return t.Raw
	case *script.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", p.expr(t.Left), t.Op, p.expr(t.Right))
	case *script.UnaryExpr:
		if t.Prefix {
			return t.Op + p.expr(t.Operand)
		}
		return p.expr(t.Operand) + t.Op
	case *script.AssignExpr:
		return p.assign(t)
	case *script.CallExpr:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = p.expr(a)
		}
		return fmt.Sprintf("%s(%s)", p.expr(t.Callee), strings.Join(args, ", "))
	case *script.MemberExpr:
		return fmt.Sprintf("%s.%s", p.expr(t.Object), t.Property)
	case *script.IndexExpr:
		return fmt.Sprintf("%s[%s]", p.expr(t.Object), p.expr(t.Index))
	case *script.ConditionalExpr:
		return fmt.Sprintf("(%s ? %s : %s)", p.expr(t.Test), p.expr(t.Then), p.expr(t.Else))
	case *script.ArrayLit:
		elems := make([]string, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = p.expr(e)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case *script.SpreadElement:
		return "..." + p.expr(t.Expr)
	case *script.ObjectLit:
		props := make([]string, len(t.Props))
		for i, pr := range t.Props {
			props[i] = fmt.Sprintf("%s: %s", pr.Key, p.expr(pr.Value))
		}
		return "{" + strings.Join(props, ", ") + "}"
	case *script.ArrowFunc:
		params := make([]string, len(t.Params))
		var paramNames []string
		for i, pt := range t.Params {
			params[i] = printPattern(pt)
			paramNames = append(paramNames, pt.Names()...)
		}
		head := "(" + strings.Join(params, ", ") + ") => "
		p.push(paramNames)
		defer p.pop()
		if body, ok := t.Body.(*script.Block); ok {
			return head + p.stmt(body)
		}
		return head + p.expr(t.Body)
	default:
		return ""
	}
}

// assign handles whole-binding assignment rewriting for the common
// `x = expr` / `x += expr` shapes. Destructuring-target assignments are
// handled one level up, in stmt's ExprStmt case, since rewriting them
// needs to emit more than one schedule_update call as a statement block.
func (p *printer) assign(t *script.AssignExpr) string {
	if p.rewrite {
		if id, ok := t.Target.(*script.Ident); ok {
			if b, found := p.reactiveBinding(id.Name); found {
				val := p.expr(t.Value)
				if t.Op != "=" {
					val = fmt.Sprintf("(ctx[%d] %s %s)", b.Index, strings.TrimSuffix(t.Op, "="), p.expr(t.Value))
				}
				return fmt.Sprintf("__schedule_update(%d, %s)", b.Index, val)
			}
		}
	}
	return fmt.Sprintf("%s %s %s", p.expr(t.Target), t.Op, p.expr(t.Value))
}

func (p *printer) stmt(n script.Node) string {
	switch t := n.(type) {
	case nil:
		return ""
	case *script.Block:
		p.push(nil)
		defer p.pop()
		var b strings.Builder
		b.WriteString("{ ")
		for _, s := range t.Stmts {
			b.WriteString(p.stmt(s))
			b.WriteString(" ")
		}
		b.WriteString("}")
		return b.String()
	case *script.ExprStmt:
		if p.rewrite {
			if assign, ok := t.Expr.(*script.AssignExpr); ok {
				if out, handled := p.destructureRewrite(assign); handled {
					return out
				}
			}
		}
		return p.expr(t.Expr) + ";"
	case *script.VarDecl:
		out := p.varDecl(t) + ";"
		for _, d := range t.Decls {
			for _, name := range d.Target.Names() {
				p.declareInCurrent(name)
			}
		}
		return out
	case *script.ReturnStmt:
		if t.Value == nil {
			return "return;"
		}
		return "return " + p.expr(t.Value) + ";"
	case *script.IfStmt:
		s := fmt.Sprintf("if (%s) %s", p.expr(t.Test), p.stmt(t.Then))
		if t.Else != nil {
			s += " else " + p.stmt(t.Else)
		}
		return s
	case *script.RawStmt:
		return t.Text
	default:
		return p.expr(n) + ";"
	}
}

// destructureRewrite rewrites `[a, b] = expr;`/`{a, b} = expr;` into the
// same assignment followed by one __schedule_update per reactive name it
// extracts, since JS destructuring-assignment syntax already lets the
// target literal double as the pattern.
func (p *printer) destructureRewrite(assign *script.AssignExpr) (string, bool) {
	switch assign.Target.(type) {
	case *script.ArrayLit, *script.ObjectLit:
	default:
		return "", false
	}
	names := destructureNames(assign.Target)

	var b strings.Builder
	fmt.Fprintf(&b, "{ (%s = %s); ", p.expr(assign.Target), p.expr(assign.Value))
	for _, name := range names {
		if bnd, ok := p.reactiveBinding(name); ok {
			fmt.Fprintf(&b, "__schedule_update(%d, ctx[%d]); ", bnd.Index, bnd.Index)
		}
	}
	b.WriteString("}")
	return b.String(), true
}

func destructureNames(n script.Node) []string {
	switch t := n.(type) {
	case *script.ArrayLit:
		var out []string
		for _, e := range t.Elements {
			out = append(out, destructureNames(e)...)
		}
		return out
	case *script.ObjectLit:
		var out []string
		for _, pr := range t.Props {
			out = append(out, destructureNames(pr.Value)...)
		}
		return out
	case *script.Ident:
		return []string{t.Name}
	default:
		return nil
	}
}

func (p *printer) varDecl(t *script.VarDecl) string {
	kw := [...]string{"let", "var", "const"}[t.Kind]
	parts := make([]string, len(t.Decls))
	for i, d := range t.Decls {
		if d.Init != nil {
			parts[i] = fmt.Sprintf("%s = %s", printPattern(d.Target), p.expr(d.Init))
		} else {
			parts[i] = printPattern(d.Target)
		}
	}
	return kw + " " + strings.Join(parts, ", ")
}

func (p *printer) funcDecl(t *script.FuncDecl) string {
	params := make([]string, len(t.Params))
	var paramNames []string
	for i, pt := range t.Params {
		params[i] = printPattern(pt)
		paramNames = append(paramNames, pt.Names()...)
	}
	p.push(paramNames)
	defer p.pop()
	return fmt.Sprintf("function %s(%s) %s", t.Name, strings.Join(params, ", "), p.stmt(t.Body))
}

func printPattern(pt script.Pattern) string {
	switch t := pt.(type) {
	case script.IdentPattern:
		return t.Name
	case script.ArrayPattern:
		parts := make([]string, len(t.Elements))
		for i, e := range t.Elements {
			parts[i] = printPattern(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case script.ObjectPattern:
		return "{" + strings.Join(t.Keys, ", ") + "}"
	default:
		return ""
	}
}
