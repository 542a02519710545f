package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Component names attached to log records under the "component" key.
const (
	ComponentStartup = "startup"
	ComponentConfig  = "config"
	ComponentConvert = "convert"
	ComponentPalette = "palette"
)

// ParseLevel accepts debug, info, warn/warning and error, in any case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Setup installs a tint handler writing to w as the default slog logger
// and returns it.
func Setup(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}))
	slog.SetDefault(logger)
	return logger
}

func WithComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
}
