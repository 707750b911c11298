package helpers

import (
	"log/slog"
	"os"
)

// SetupLogger creates a properly configured logger for a pipeline stage.
// If the provided handler is nil, it creates a default handler that writes
// to stderr (stdout is reserved for piped artifact content).
//
// Parameters:
//   - handler: The slog.Handler to use, or nil for defaults
//   - stage: The pipeline stage name (e.g. "markup", "script", "wasmbuild")
//   - groupName: Optional additional group name within the stage
//
// Returns:
//   - The configured handler
//   - A logger created from the handler
func SetupLogger(handler slog.Handler, stage string, groupName string) (slog.Handler, *slog.Logger) {
	if handler == nil {
		defaultHandler := slog.NewTextHandler(os.Stderr, nil)
		handler = defaultHandler.WithGroup(stage)
	}

	var logger *slog.Logger
	if groupName != "" {
		logger = slog.New(handler.WithGroup(groupName))
	} else {
		logger = slog.New(handler)
	}

	return handler, logger
}
