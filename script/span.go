package script

import "github.com/decorous-lang/decorous/diag"

func span(start, end int) diag.Span {
	return diag.Span{Start: start, End: end}
}
