// Package script implements the Decorous script analyzer: a lexer and
// Pratt parser for the embedded ECMAScript-like surface language, and
// its two-pass reactivity analysis.
package script

import "github.com/decorous-lang/decorous/diag"

// TokenType enumerates every lexical category the parser needs to
// recognize. Unrecognized characters become ILLEGAL so the lexer never
// panics on unexpected input; the parser turns those into diagnostics.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	SEMI
	COLON
	DOT
	QUESTION
	ARROW // =>
	SPREAD // ...

	// Operators
	ASSIGN   // =
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	EQ   // ==
	NEQ  // !=
	EQQ  // ===
	NEQQ // !==
	LT
	LTE
	GT
	GTE
	AND // &&
	OR  // ||
	NOT // !
	INC // ++
	DEC // --

	// Literals & identifiers
	IDENT
	NUMBER
	STRING
	TEMPLATE_STRING

	// Keywords
	LET
	VAR
	CONST
	FUNCTION
	RETURN
	IF
	ELSE
	TRUE
	FALSE
	NULL
	UNDEFINED
	NEW
	TYPEOF
	OF
	IN
)

var keywords = map[string]TokenType{
	"let": LET, "var": VAR, "const": CONST, "function": FUNCTION,
	"return": RETURN, "if": IF, "else": ELSE, "true": TRUE, "false": FALSE,
	"null": NULL, "undefined": UNDEFINED, "new": NEW, "typeof": TYPEOF,
	"of": OF, "in": IN,
}

// Token is a single lexical token with its source span.
type Token struct {
	Type    TokenType
	Literal string
	Span    diag.Span
}
