package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/harmony/internal/shared"
	"github.com/desertthunder/harmony/internal/ui"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "harmony",
		Usage:    "Analyze the mood of Spotify playlists",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.Before,
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Debug("application error", "error", err)
		fmt.Fprintln(os.Stderr, ui.Error("Error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}
