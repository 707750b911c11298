package component

import (
	"log/slog"

	"github.com/decorous-lang/decorous/codegen"
)

// BuildConfig collects every setting one component build can be tuned
// with: render mode, wasm optimization level, whether to strip debug
// info from compiled wasm, whether to emit an ES module instead of an
// auto-run script, and the logger every pipeline stage reports through.
// It is built once with DefaultBuildConfig and Option values, never
// constructed as a struct literal outside this package, so adding a new
// setting never breaks an existing call site.
type BuildConfig struct {
	mode       codegen.Mode
	optLevel   int
	strip      bool
	modularize bool
	logHandler slog.Handler
}

// Option modifies a BuildConfig.
type Option func(*BuildConfig)

// DefaultBuildConfig is dom-mode rendering at optimization level 2,
// unstripped, unmodularized, logging to stderr.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{mode: codegen.ModeDOM, optLevel: 2}
}

// WithMode sets the render mode.
func WithMode(m codegen.Mode) Option {
	return func(c *BuildConfig) { c.mode = m }
}

// WithOptLevel sets the wasm-opt level, clamped to [0, 4].
func WithOptLevel(level int) Option {
	return func(c *BuildConfig) {
		if level < 0 {
			level = 0
		}
		if level > 4 {
			level = 4
		}
		c.optLevel = level
	}
}

// WithStrip toggles stripping debug info from compiled wasm.
func WithStrip(strip bool) Option {
	return func(c *BuildConfig) { c.strip = strip }
}

// WithModularize toggles ES-module output over an auto-run script.
func WithModularize(modularize bool) Option {
	return func(c *BuildConfig) { c.modularize = modularize }
}

// WithLogger sets the handler every pipeline stage's logger writes
// through. A nil handler is ignored, leaving the previous value (the
// default: stderr) in place.
func WithLogger(handler slog.Handler) Option {
	return func(c *BuildConfig) {
		if handler != nil {
			c.logHandler = handler
		}
	}
}
