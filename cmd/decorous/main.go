// Command decorous compiles .decor component files into HTML/JS/CSS/wasm
// artifacts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/decorous-lang/decorous/codegen"
	"github.com/decorous-lang/decorous/component"
	"github.com/decorous-lang/decorous/diag"
	"github.com/decorous-lang/decorous/wasmbuild"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 || args[0] != "build" {
		fmt.Fprintln(os.Stderr, "usage: decorous build FILE... [-r dom|csr|prerender] [-O 0-4] [--strip] [--modularize] [-o DIR]")
		return 2
	}

	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	mode := fs.String("r", "dom", "render mode: dom, csr, or prerender")
	optLevel := fs.Int("O", 2, "wasm optimization level, 0-4")
	strip := fs.Bool("strip", false, "strip debug info from compiled wasm")
	modularize := fs.Bool("modularize", false, "emit an ES module exporting initialize(root) instead of an auto-run script")
	outDir := fs.String("o", ".", "output directory")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "decorous build: no input files")
		return 2
	}

	renderMode, err := codegen.ParseMode(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decorous build:", err)
		return 2
	}

	cache, err := wasmbuild.NewCache(32)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decorous build:", err)
		return 3
	}

	opts := []component.Option{
		component.WithMode(renderMode),
		component.WithOptLevel(*optLevel),
		component.WithStrip(*strip),
		component.WithModularize(*modularize),
	}

	ctx := context.Background()
	worst := 0
	for _, path := range files {
		if code := buildOne(ctx, path, *outDir, cache, opts); code != 0 {
			worst = code
		}
	}
	return worst
}

func buildOne(ctx context.Context, path, outDir string, cache *wasmbuild.Cache, opts []component.Option) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decorous build:", err)
		return diag.ExitCode(err)
	}

	comp, err := component.Compile(ctx, path, string(src), cache, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return diag.ExitCode(err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := writeArtifacts(outDir, base, comp); err != nil {
		fmt.Fprintln(os.Stderr, "decorous build:", err)
		return diag.ExitCode(err)
	}
	return 0
}

// writeArtifacts writes every non-empty artifact atomically: each is
// written to a sibling temp file first and renamed into place, so a
// build that fails partway through never leaves a truncated file at the
// final path.
func writeArtifacts(outDir, base string, comp *component.Component) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if comp.HTML != "" {
		if err := writeAtomic(filepath.Join(outDir, base+".html"), []byte(comp.HTML)); err != nil {
			return err
		}
	}
	if comp.JS != "" {
		if err := writeAtomic(filepath.Join(outDir, base+".js"), []byte(comp.JS)); err != nil {
			return err
		}
	}
	if comp.CSS != "" {
		if err := writeAtomic(filepath.Join(outDir, base+".css"), []byte(comp.CSS)); err != nil {
			return err
		}
	}
	for i, w := range comp.Wasm {
		name := fmt.Sprintf("%s.%d.wasm", base, i)
		if len(comp.Wasm) == 1 {
			name = base + ".wasm"
		}
		if err := writeAtomic(filepath.Join(outDir, name), w.Bytes); err != nil {
			return err
		}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
