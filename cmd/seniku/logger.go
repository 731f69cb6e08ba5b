package main

import (
	"log/slog"
	"os"
)

var logLevel *slog.LevelVar = new(slog.LevelVar)

// Logs go to stderr so that command output on stdout can be piped.
var jsonLogger *slog.Logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

func init() {
	logLevel.Set(slog.LevelWarn)
}
