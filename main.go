package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spigell/rh-pro/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
