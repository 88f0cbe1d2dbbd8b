package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"

	"emissions/internal/app"
	"emissions/internal/config"
)

func main() {
	// 1. Config: EMISSIONS_CONFIG names an optional YAML/JSON file
	cfg, err := config.Load(os.Getenv("EMISSIONS_CONFIG"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Serve; the dataset loads in the background
	if err := app.New(cfg).Serve(ctx); err != nil {
		log.Fatal(err)
	}
}
