package wasmbuild

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/decorous-lang/decorous/diag"
	"github.com/decorous-lang/decorous/internal/helpers"
)

// argsFunc builds the external toolchain's argv given the source file and
// the desired output .wasm path.
type argsFunc func(srcPath, outPath string) []string

// execDriver is the shared os/exec-backed Driver implementation; per
// language it differs in the toolchain name, its source file extension,
// its argv shape, and, for cargo and go, the postBuild step or extra
// environment described on those fields.
type execDriver struct {
	lang           Lang
	tool           string
	toolCandidates []string
	args           argsFunc
	// postBuild runs after the toolchain exits successfully and before
	// the .wasm is read back, for drivers (cargo) whose toolchain
	// chooses its own output path rather than accepting one.
	postBuild  func(workDir, outPath string) error
	logHandler slog.Handler
	// env lists extra "KEY=VALUE" entries appended to the invoked
	// toolchain's inherited environment, for toolchains (go) that
	// default to a native host build and need cross-compilation
	// variables set to target wasm instead.
	env []string
}

func (d *execDriver) srcFileName() string {
	ext := map[Lang]string{
		LangC: "c", LangCPP: "cpp", LangRust: "rs", LangGo: "go",
		LangTinyGo: "go", LangWAT: "wat", LangZig: "zig",
	}[d.lang]
	return "block." + ext
}

func (d *execDriver) Build(ctx context.Context, req Request) (*Result, error) {
	_, logger := helpers.SetupLogger(d.logHandler, "wasmbuild", string(d.lang))

	toolPath, err := helpers.FindToolchain(logger, d.tool, d.toolCandidates...)
	if err != nil {
		return nil, &diag.Error{Kind: diag.ExternalBuildFailed, Message: err.Error()}
	}

	srcPath := filepath.Join(req.WorkDir, d.srcFileName())
	if err := os.WriteFile(srcPath, []byte(req.Source), 0o644); err != nil {
		return nil, &diag.Error{Kind: diag.IoError, Message: fmt.Sprintf("writing %s source: %v", d.lang, err)}
	}

	outPath := filepath.Join(req.WorkDir, "block.wasm")
	argv := d.args(srcPath, outPath)

	logger.Debug("invoking toolchain", "tool", toolPath, "args", argv)
	cmd := exec.CommandContext(ctx, toolPath, argv...)
	cmd.Dir = req.WorkDir
	if len(d.env) > 0 {
		cmd.Env = append(os.Environ(), d.env...)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &diag.Error{
			Kind:    diag.ExternalBuildFailed,
			Message: fmt.Sprintf("%s build failed: %v", d.lang, err),
			Stderr:  stderr.String(),
		}
	}

	if d.postBuild != nil {
		if err := d.postBuild(req.WorkDir, outPath); err != nil {
			return nil, &diag.Error{Kind: diag.ExternalBuildFailed, Message: fmt.Sprintf("%s build post-processing: %v", d.lang, err)}
		}
	}

	wasmBytes, err := os.ReadFile(outPath)
	if err != nil {
		return nil, &diag.Error{Kind: diag.IoError, Message: fmt.Sprintf("reading %s output: %v", d.lang, err)}
	}

	manifest, err := Introspect(ctx, wasmBytes)
	if err != nil {
		return nil, &diag.Error{Kind: diag.ExternalBuildFailed, Message: fmt.Sprintf("introspecting %s output: %v", d.lang, err)}
	}

	return &Result{Wasm: wasmBytes, Manifest: manifest}, nil
}

func emccArgs(src, out string) []string {
	return []string{src, "-o", out, "--no-entry", "-O2"}
}

func cargoArgs(_, out string) []string {
	// cargo produces its artifact under target/; the wrapper driver's
	// WorkDir is a scratch crate root prepared before Build is called.
	return []string{"build", "--release", "--target=wasm32-unknown-unknown"}
}

func goArgs(src, out string) []string {
	return []string{"build", "-o", out, src}
}

func tinygoArgs(src, out string) []string {
	return []string{"build", "-o", out, "-target=wasm", "-no-debug", src}
}

func watArgs(src, out string) []string {
	return []string{src, "-o", out}
}

func zigArgs(src, out string) []string {
	return []string{"build-exe", src, "-target", "wasm32-freestanding", "-femit-bin=" + out}
}

// copyCargoArtifact locates the .wasm cargo produced under its own
// target/ directory (cargo always chooses that layout itself; there is
// no flag to redirect it to an arbitrary path) and copies it to outPath
// so the rest of the driver can read back a single, predictable file.
func copyCargoArtifact(workDir, outPath string) error {
	matches, err := filepath.Glob(filepath.Join(workDir, "target", "wasm32-unknown-unknown", "release", "*.wasm"))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no .wasm artifact found under %s/target/wasm32-unknown-unknown/release", workDir)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}
