package main

import (
	"log"

	"github.com/newcooks/backend/config"
	"github.com/newcooks/backend/internal/database"
)

// Standalone migration runner for deploys that separate schema changes
// from serving.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied")
}
