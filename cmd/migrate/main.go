package main

import (
	"flag"
	"log"

	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/config"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/database"
)

func main() {
	noQueryLog := flag.Bool("no-query-log", false, "Disable query logging during migration")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := database.InitializeWithOptions(&cfg.Database, *noQueryLog); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.CheckConnection(database.DB); err != nil {
		log.Fatalf("Database connection check failed: %v", err)
	}

	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration completed successfully")
}
