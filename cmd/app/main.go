package main

import (
	"context"
	"flag"
	"log"
	"os"

	"FitPrice/internal/di"
	"FitPrice/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run the pricing pipeline once
	if err := app.Run(context.Background()); err != nil {
		log.Printf("run %s failed: %v", app.RunID(), err)
		os.Exit(1)
	}
}
