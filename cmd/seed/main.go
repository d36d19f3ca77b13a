package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/config"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/database"
)

func main() {
	// Define flags
	force := flag.Bool("force", false, "Force re-seed even if data exists")
	help := flag.Bool("help", false, "Show help message")
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	fmt.Println("🌱 Starting Database Seeding Tool")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	fmt.Printf("📊 Database: %s@%s:%s/%s\n\n", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Initialize database connection
	if err := database.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Check connection
	if err := database.CheckConnection(database.DB); err != nil {
		log.Fatal("Database connection check failed:", err)
	}

	if *force {
		fmt.Println("⚠️  Force flag enabled. Clearing existing data...")
		// Clear data in reverse dependency order
		tables := []string{
			"referrals",
			"redemption_requests",
			"ledger_events",
			"community_goals",
			"rewards",
			"accounts",
		}
		for _, table := range tables {
			if err := database.DB.Exec("DELETE FROM " + table).Error; err != nil {
				log.Printf("  ⚠ Could not clear %s: %v", table, err)
			}
		}
	}

	if err := database.SeedData(database.DB); err != nil {
		log.Fatal("Seeding failed:", err)
	}

	fmt.Println("✅ Seeding completed")
}

func showHelp() {
	fmt.Println(`
Database Seeding Tool

Usage:
  go run cmd/seed/main.go [options]

Options:
  -force  Clear existing data before seeding
  -help   Show this help message`)
}
