package wasmbuild

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/decorous-lang/decorous/diag"
	"github.com/decorous-lang/decorous/internal/helpers"
)

// Optimize shells out to wasm-opt at -O<level> (no -O flag at level 0)
// and, if strip is set, appends --strip, rewriting path in place. The
// call is skipped entirely only when level is 0 and strip is unset.
func Optimize(ctx context.Context, logger *slog.Logger, path string, level int, strip bool) error {
	if level == 0 && !strip {
		return nil
	}

	toolPath, err := helpers.FindToolchain(logger, "wasm-opt")
	if err != nil {
		return &diag.Error{Kind: diag.WasmOptFailed, Message: err.Error()}
	}

	args := []string{path, "-o", path}
	if level > 0 {
		args = append(args, fmt.Sprintf("-O%d", level))
	}
	if strip {
		args = append(args, "--strip")
	}

	cmd := exec.CommandContext(ctx, toolPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &diag.Error{
			Kind:    diag.WasmOptFailed,
			Message: fmt.Sprintf("wasm-opt failed on %s: %v", path, err),
			Stderr:  stderr.String(),
		}
	}
	return nil
}
