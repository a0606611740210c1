package main

import (
	"log"

	"github.com/OnRiseAI/content-automation/internal/cli"
	"github.com/OnRiseAI/content-automation/internal/config"
	"github.com/OnRiseAI/content-automation/internal/database"
)

func main() {
	// Load configuration; a missing required value aborts before any work
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	cli.Execute(db, cfg)
}
