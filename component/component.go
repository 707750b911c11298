// Package component orchestrates the whole Decorous build: splitting a
// .decor file into its fenced blocks, running each pipeline stage over
// them, and assembling the resulting HTML/JS/CSS/wasm into a Component.
package component

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/decorous-lang/decorous/codegen"
	"github.com/decorous-lang/decorous/diag"
	"github.com/decorous-lang/decorous/internal/helpers"
	"github.com/decorous-lang/decorous/markup"
	"github.com/decorous-lang/decorous/plan"
	"github.com/decorous-lang/decorous/script"
	"github.com/decorous-lang/decorous/source"
	"github.com/decorous-lang/decorous/style"
	"github.com/decorous-lang/decorous/wasmbuild"
)

// Wasm is one compiled foreign-language block's output, keyed by its
// position among the file's foreign blocks in source order.
type Wasm struct {
	Lang     wasmbuild.Lang
	Bytes    []byte
	Manifest *wasmbuild.Manifest
}

// Component is the immutable result of compiling one .decor file: the
// generated markup, script, scoped stylesheet, and every compiled
// foreign-language block. Only Compile may construct one.
type Component struct {
	HTML string
	JS   string
	CSS  string
	Wasm []Wasm
}

// Compile runs the whole pipeline over src: split, parse, analyze,
// scope, build, plan, emit. filename labels the log output, seeds the
// component's CSS scope token, and names the prerender page's title and
// its CSS/JS links.
// cache memoizes foreign
// block builds across Compile calls that share it (pass nil to build a
// private one-shot cache); opts override pragma values which override
// BuildConfig defaults.
func Compile(ctx context.Context, filename, src string, cache *wasmbuild.Cache, opts ...Option) (*Component, error) {
	cfg := DefaultBuildConfig()

	file, err := source.Split(src)
	if err != nil {
		return nil, err
	}
	applyPragma(&cfg, file.Pragma)
	for _, o := range opts {
		o(&cfg)
	}

	_, logger := helpers.SetupLogger(cfg.logHandler, "component", filename)

	tree, errs := markup.Parse(file.Markup, file.MarkupSpan.Start)
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	prog, errs := script.Parse(file.Script)
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	handlerExprs := markup.Handlers(tree)
	table, funcs, errs := script.Analyze(prog, handlerExprs)
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	sites := markup.Anchors(tree)
	pl, err := plan.Build(table, funcs, sites, handlerExprs)
	if err != nil {
		return nil, diag.NewUnlocated(diag.StaticAnchor, "%v", err)
	}

	scopeToken := helpers.SHA256(filename + "\x00" + src)[:8]

	cssText, err := compileCSS(file, scopeToken)
	if err != nil {
		return nil, err
	}

	wasmResults, err := compileWasm(ctx, logger, cache, file, cfg)
	if err != nil {
		return nil, err
	}

	out := codegen.Emit(tree, prog, table, funcs, pl, scopeToken, codegen.EmitOptions{
		Mode:       cfg.mode,
		Modularize: cfg.modularize,
		Title:      filename,
		CSSHref:    filename + ".css",
		JSSrc:      filename + ".js",
	})

	return &Component{HTML: out.HTML, JS: out.JS, CSS: cssText, Wasm: wasmResults}, nil
}

// compileCSS scopes and renders the file's single optional css block, if
// present.
func compileCSS(file *source.File, scopeToken string) (string, error) {
	for _, blk := range file.Blocks {
		if blk.Lang != "css" {
			continue
		}
		sheet, errs := style.Parse(blk.Body, blk.Span.Start)
		if err := errs.OrNil(); err != nil {
			return "", err
		}
		scoped := style.Scope(sheet, scopeToken)
		return style.Render(scoped), nil
	}
	return "", nil
}

// compileWasm builds every foreign-language block in source order,
// optimizing each result per cfg, and returns them in that same order.
func compileWasm(ctx context.Context, logger *slog.Logger, cache *wasmbuild.Cache, file *source.File, cfg BuildConfig) ([]Wasm, error) {
	var langs []wasmbuild.Lang
	var reqs []wasmbuild.Request
	for _, blk := range file.Blocks {
		lang, ok := foreignLangs[blk.Lang]
		if !ok {
			continue
		}
		workDir, err := os.MkdirTemp("", "decorous-"+string(lang)+"-*")
		if err != nil {
			return nil, &diag.Error{Kind: diag.IoError, Message: fmt.Sprintf("creating scratch dir: %v", err)}
		}
		langs = append(langs, lang)
		reqs = append(reqs, wasmbuild.Request{Lang: lang, Source: blk.Body, WorkDir: workDir})
	}
	if len(reqs) == 0 {
		return nil, nil
	}

	if cache == nil {
		var err error
		cache, err = wasmbuild.NewCache(len(reqs))
		if err != nil {
			return nil, err
		}
	}

	results, err := wasmbuild.BuildAll(ctx, cache, reqs)
	if err != nil {
		return nil, err
	}

	out := make([]Wasm, len(results))
	for i, r := range results {
		path := filepath.Join(reqs[i].WorkDir, "optimize.wasm")
		if err := os.WriteFile(path, r.Wasm, 0o644); err != nil {
			return nil, &diag.Error{Kind: diag.IoError, Message: fmt.Sprintf("staging wasm for optimization: %v", err)}
		}
		if err := wasmbuild.Optimize(ctx, logger, path, cfg.optLevel, cfg.strip); err != nil {
			return nil, err
		}
		optimized, err := os.ReadFile(path)
		if err != nil {
			return nil, &diag.Error{Kind: diag.IoError, Message: fmt.Sprintf("reading optimized wasm: %v", err)}
		}
		out[i] = Wasm{Lang: langs[i], Bytes: optimized, Manifest: r.Manifest}
	}
	return out, nil
}

var foreignLangs = map[string]wasmbuild.Lang{
	"c": wasmbuild.LangC, "cpp": wasmbuild.LangCPP, "rust": wasmbuild.LangRust,
	"go": wasmbuild.LangGo, "tinygo": wasmbuild.LangTinyGo,
	"wat": wasmbuild.LangWAT, "zig": wasmbuild.LangZig,
}
