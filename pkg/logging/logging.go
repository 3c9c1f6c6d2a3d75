// Package logging configures the process-wide slog logger from CLI flags.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Setup installs the default slog logger with the given level name, using
// a JSON handler when jsonOutput is set and a text handler otherwise.
// Logs go to stderr so rendered manifests on stdout stay clean.
func Setup(level string, jsonOutput bool) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))

	return nil
}

// ParseLevel maps a level name to a slog level. Both Go-style names and
// the DEBUG/INFO/WARNING/ERROR/CRITICAL set accepted by earlier releases
// are recognized, case-insensitively.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "CRITICAL":
		// No direct slog equivalent; treat as error severity.
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %q", level)
	}
}
