package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"joke-bot/internal/bot"

	"github.com/joho/godotenv"
)

func main() {
	if err := loadDotenv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, bot.ErrInvalidCount) {
			fmt.Fprintln(os.Stderr, "Error: digest count must be a positive number")
		} else if errors.Is(err, errQueueDisabled) {
			fmt.Fprintln(os.Stderr, "Error: set nats.enabled (or JOKEBOT_NATS_ENABLED=true) to use the delivery queue")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// loadDotenv loads .env (or the given files) into the environment. A missing
// file is the normal case outside local development; a broken one is not.
func loadDotenv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}
