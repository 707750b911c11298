package component

import (
	"strconv"

	"github.com/decorous-lang/decorous/codegen"
	"github.com/decorous-lang/decorous/source"
)

// applyPragma folds a file's leading "#!decorous ..." line into cfg,
// before any caller-supplied Option runs. A malformed or unrecognized
// value is ignored rather than rejected: the pragma is advisory, and a
// caller's explicit Option always has the final say regardless.
func applyPragma(cfg *BuildConfig, pragma source.Pragma) {
	if v, ok := pragma.Get("render"); ok {
		if m, err := codegen.ParseMode(v); err == nil {
			cfg.mode = m
		}
	}
	if v, ok := pragma.Get("opt"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			WithOptLevel(n)(cfg)
		}
	}
	if v, ok := pragma.Get("strip"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.strip = b
		}
	}
	if v, ok := pragma.Get("modularize"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.modularize = b
		}
	}
}
