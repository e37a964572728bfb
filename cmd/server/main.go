package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ferdiebergado/tokenkit/internal/app"
)

func main() {
	os.Exit(run())
}

// run owns the signal context so its deferred stop executes before the process exits.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	slog.Info("Starting tokenkit...")
	if err := app.Run(ctx); err != nil {
		slog.Error("tokenkit stopped with an error.", "reason", err)
		return 1
	}

	slog.Info("tokenkit stopped.")
	return 0
}
