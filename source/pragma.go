package source

import (
	"strings"

	"github.com/decorous-lang/decorous/diag"
)

// Pragma holds per-component build settings given on a leading
// "#!decorous key=value ..." line, e.g. "#!decorous opt=2 strip=true".
type Pragma struct {
	Values map[string]string
}

func (p Pragma) Get(key string) (string, bool) {
	if p.Values == nil {
		return "", false
	}
	v, ok := p.Values[key]
	return v, ok
}

var knownPragmaKeys = map[string]bool{
	"render": true,
	"opt":    true,
	"strip":  true,
	"modularize": true,
}

type pragmaResult struct {
	Pragma
	err *diag.Error
}

// extractPragma strips a leading "#!decorous ..." line, if present, and
// returns the parsed Pragma, the remaining text, and the byte offset at
// which that remaining text starts (so later spans stay correct relative
// to the original source).
func extractPragma(text string) (pragmaResult, string, int) {
	const prefix = "#!decorous"
	if !strings.HasPrefix(text, prefix) {
		return pragmaResult{}, text, 0
	}

	nl := strings.IndexByte(text, '\n')
	var line, rest string
	var offset int
	if nl < 0 {
		line, rest, offset = text, "", len(text)
	} else {
		line, rest, offset = text[:nl], text[nl+1:], nl+1
	}

	values := map[string]string{}
	var badKey string
	for _, tok := range strings.Fields(strings.TrimPrefix(line, prefix)) {
		k, v, ok := strings.Cut(tok, "=")
		if !ok {
			continue
		}
		if !knownPragmaKeys[k] {
			badKey = k
			continue
		}
		values[k] = v
	}

	res := pragmaResult{Pragma: Pragma{Values: values}}
	if badKey != "" {
		res.err = diag.New(diag.UnknownPragmaKey, diag.Span{Start: 0, End: len(line)},
			"unknown pragma key %q", badKey)
	}
	return res, rest, offset
}
