package codegen

import (
	"strconv"
	"strings"

	"github.com/decorous-lang/decorous/script"
)

// evalConst statically evaluates the small constant-foldable subset of
// script expressions the HTML emitter needs to pre-render an attribute
// binding's initial value from the component's initial context. It is
// not a general interpreter: it
// only ever walks literals, reads of a binding whose own initializer is
// itself evaluable, and the handful of operators simple reactive
// components actually use for their initial state. ok is false if n
// isn't foldable, in which case the caller falls back to an empty value.
func evalConst(n script.Node, table *script.SymbolTable) (any, bool) {
	switch t := n.(type) {
	case nil:
		return nil, false
	case *script.Literal:
		return literalValue(t), true
	case *script.Ident:
		b, ok := table.Lookup(t.Name)
		if !ok || b.Init == nil {
			return nil, false
		}
		return evalConst(b.Init, table)
	case *script.ArrayLit:
		vals := make([]any, 0, len(t.Elements))
		for _, e := range t.Elements {
			v, ok := evalConst(e, table)
			if !ok {
				return nil, false
			}
			vals = append(vals, v)
		}
		return vals, true
	case *script.UnaryExpr:
		v, ok := evalConst(t.Operand, table)
		if !ok {
			return nil, false
		}
		switch t.Op {
		case "!":
			return !truthy(v), true
		case "-":
			if f, ok := v.(float64); ok {
				return -f, true
			}
		}
		return nil, false
	case *script.BinaryExpr:
		l, ok := evalConst(t.Left, table)
		if !ok {
			return nil, false
		}
		r, ok := evalConst(t.Right, table)
		if !ok {
			return nil, false
		}
		return evalBinary(t.Op, l, r)
	case *script.ConditionalExpr:
		test, ok := evalConst(t.Test, table)
		if !ok {
			return nil, false
		}
		if truthy(test) {
			return evalConst(t.Then, table)
		}
		return evalConst(t.Else, table)
	default:
		return nil, false
	}
}

func literalValue(lit *script.Literal) any {
	switch lit.Kind {
	case script.LitNumber:
		f, _ := strconv.ParseFloat(lit.Raw, 64)
		return f
	case script.LitString:
		return strings.Trim(lit.Raw, `"'`)
	case script.LitBool:
		return lit.Raw == "true"
	case script.LitNull, script.LitUndefined:
		return nil
	default:
		return nil
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return true
	default:
		return true
	}
}

func evalBinary(op string, l, r any) (any, bool) {
	lf, lIsNum := l.(float64)
	rf, rIsNum := r.(float64)
	switch op {
	case "+":
		if lIsNum && rIsNum {
			return lf + rf, true
		}
		return jsToString(l) + jsToString(r), true
	case "-":
		if lIsNum && rIsNum {
			return lf - rf, true
		}
	case "*":
		if lIsNum && rIsNum {
			return lf * rf, true
		}
	case "/":
		if lIsNum && rIsNum {
			return lf / rf, true
		}
	case ">":
		if lIsNum && rIsNum {
			return lf > rf, true
		}
	case ">=":
		if lIsNum && rIsNum {
			return lf >= rf, true
		}
	case "<":
		if lIsNum && rIsNum {
			return lf < rf, true
		}
	case "<=":
		if lIsNum && rIsNum {
			return lf <= rf, true
		}
	case "===", "==":
		return l == r, true
	case "!==", "!=":
		return l != r, true
	case "&&":
		if !truthy(l) {
			return l, true
		}
		return r, true
	case "||":
		if truthy(l) {
			return l, true
		}
		return r, true
	}
	return nil, false
}

// jsToString mimics JS ToString for the value shapes evalConst produces.
func jsToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		return t
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = jsToString(e)
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}
