package diag

import (
	"fmt"
	"strings"
)

// Kind names one of the error kinds enumerated in the language contract:
// Syntax, Semantic, or External failures.
type Kind string

const (
	// Syntax errors, raised by the source splitter, markup parser, CSS
	// scoper, and script lexer/parser.
	UnterminatedFence   Kind = "UnterminatedFence"
	DuplicateLangBlock  Kind = "DuplicateLangBlock"
	UnknownFenceLang    Kind = "UnknownFenceLang"
	UnknownPragmaKey    Kind = "UnknownPragmaKey"
	UnbalancedTag       Kind = "UnbalancedTag"
	UnterminatedBlock   Kind = "UnterminatedBlock"
	MalformedAttribute  Kind = "MalformedAttribute"
	EmptyInterpolation  Kind = "EmptyInterpolation"
	ElseOutsideIf       Kind = "ElseOutsideIf"
	VoidElementChildren Kind = "VoidElementChildren"
	UnexpectedToken     Kind = "UnexpectedToken"
	UnterminatedString  Kind = "UnterminatedString"
	MalformedSelector   Kind = "MalformedSelector"
	UnterminatedAtRule  Kind = "UnterminatedAtRule"

	// Semantic errors, raised by the script analyzer and planner.
	UndefinedReactiveBinding Kind = "UndefinedReactiveBinding"
	ReactivityCycle          Kind = "ReactivityCycle"
	UnsupportedAssignment    Kind = "UnsupportedAssignment"
	ShadowedReactive         Kind = "ShadowedReactive"
	StaticAnchor             Kind = "StaticAnchor"

	// External errors, raised by the wasm orchestrator and artifact writer.
	ExternalBuildFailed Kind = "ExternalBuildFailed"
	WasmOptFailed       Kind = "WasmOptFailed"
	IoError              Kind = "IoError"
)

// Class groups a Kind into the three families used for exit-code mapping.
type Class int

const (
	ClassSyntax Class = iota
	ClassSemantic
	ClassExternal
)

func (k Kind) Class() Class {
	switch k {
	case ExternalBuildFailed, WasmOptFailed, IoError:
		return ClassExternal
	case UndefinedReactiveBinding, ReactivityCycle, UnsupportedAssignment, ShadowedReactive, StaticAnchor:
		return ClassSemantic
	default:
		return ClassSyntax
	}
}

// Error is a single diagnostic. A nil Span means the error has no precise
// source location (e.g. a driver failure).
type Error struct {
	Kind    Kind
	Span    *Span
	Message string
	// Stderr carries a failed external tool's stderr output, verbatim, for
	// External-class errors. Empty otherwise.
	Stderr string
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s\n%s", e.Kind, e.Message, e.Stderr)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds a located Error.
func New(kind Kind, span Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Span: &span, Message: fmt.Sprintf(format, args...)}
}

// NewUnlocated builds an Error with no source span (external failures).
func NewUnlocated(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Errors aggregates every diagnostic collected during a single phase
// (parser, analyzer, CSS scoper). It implements error so a phase can return
// a single value while still reporting everything it found, per the
// "collect multiple errors per phase" policy.
type Errors []*Error

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Add appends a diagnostic and returns the receiver, for fluent call sites.
func (e Errors) Add(err *Error) Errors {
	return append(e, err)
}

// OrNil returns nil if e is empty, so callers can `return errs.OrNil()`
// without an explicit len check at every return site.
func (e Errors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ExitCode maps an error (possibly an Errors aggregate) to the process exit
// code mandated for the CLI: 1 for syntax/semantic, 2 for external tool
// failures, 3 for I/O errors, 0 if err is nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var kinds []Kind
	switch v := err.(type) {
	case Errors:
		for _, e := range v {
			kinds = append(kinds, e.Kind)
		}
	case *Error:
		kinds = append(kinds, v.Kind)
	default:
		return 3
	}
	code := 1
	for _, k := range kinds {
		switch k.Class() {
		case ClassExternal:
			if k == IoError {
				return 3
			}
			code = 2
		}
	}
	return code
}
