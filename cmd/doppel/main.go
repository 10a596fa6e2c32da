package main

import (
	"log/slog"
	"os"

	"github.com/doppelbot/doppel/internal/cli"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	root := cli.NewRoot(logger)
	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
