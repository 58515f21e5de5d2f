// Package main is the advisor binary: HTTP API, terminal chat and operator
// commands.
package main

import (
	"log/slog"
	"os"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
