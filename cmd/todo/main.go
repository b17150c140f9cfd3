// Command todo is the client for the data API: subcommands and an interactive TUI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"go-sync-todo/internal/cli"
	"go-sync-todo/internal/config"
)

func main() {
	_ = config.LoadEnv()
	cfg := config.ClientFromEnv()

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, os.Args[1:], cli.Options{Config: cfg, Logger: logger})
	stop()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
