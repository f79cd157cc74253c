package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text handler for the process.
// debug widens the level so per-row scrape narration shows up.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
