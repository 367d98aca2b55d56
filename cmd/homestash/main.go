package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"homestash/internal/app"
	"homestash/pkg/logger"
)

func main() {
	log := logger.NewFromEnv()
	log.Info("app: starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, log)
	if err != nil {
		log.Critical("app: init failed", "err", err)
		os.Exit(1)
	}

	<-ctx.Done()
	log.Info("app: shutdown signal received")

	if err := application.Close(); err != nil {
		log.Error("app: close failed", "err", err)
		os.Exit(1)
	}

	log.Info("app: stopped")
}
