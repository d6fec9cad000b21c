package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardnew/veascript/cli"
	"github.com/ardnew/veascript/log"
)

func main() {
	// Interrupts cancel the command context; watch mode and the REPL return
	// cleanly instead of being killed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	if err != nil {
		log.Error("run failed", slog.Any("error", err)) // uses LogValue
		os.Exit(1)
	}
}
