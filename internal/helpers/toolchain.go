package helpers

import (
	"fmt"
	"log/slog"
	"os/exec"
)

// FindToolchain resolves the absolute path of an external build tool (emcc,
// cargo, tinygo, zig, a WAT assembler, wasm-opt, ...) on PATH. It exists so
// every wasmbuild driver reports the same, detailed error when a toolchain
// is missing, instead of each driver formatting its own os/exec error.
func FindToolchain(logger *slog.Logger, name string, candidates ...string) (string, error) {
	names := candidates
	if len(names) == 0 {
		names = []string{name}
	}

	checked := make([]string, 0, len(names))
	for _, n := range names {
		path, err := exec.LookPath(n)
		if err == nil {
			if logger != nil {
				logger.Debug("found toolchain", "name", name, "path", path)
			}
			return path, nil
		}
		checked = append(checked, n)
	}

	return "", fmt.Errorf(
		"%s toolchain not found on PATH (looked for: %v); install it or adjust PATH before building this component's wasm block",
		name, checked,
	)
}
