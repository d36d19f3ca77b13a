package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
	"gorm.io/gorm"
)

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	log.Println("Starting GORM AutoMigrate...")

	// Get all models in dependency order
	allModels := models.AllModels()

	// First pass: Create all tables WITHOUT foreign keys
	log.Println("Creating tables without foreign keys...")
	migrator := db.Migrator()

	for _, model := range allModels {
		tableName := migrator.CurrentDatabase()
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err == nil {
			tableName = stmt.Schema.Table
		}

		if !migrator.HasTable(model) {
			if err := migrator.CreateTable(model); err != nil {
				log.Printf("  ⚠ Warning: Could not create table %s: %v", tableName, err)
				continue
			}
			log.Printf("  ✓ Created table: %s", tableName)
		} else {
			log.Printf("  ✓ Table already exists: %s", tableName)
		}
	}

	// Second pass: Create foreign key constraints manually
	log.Println("Creating foreign key constraints...")
	if err := CreateForeignKeys(db); err != nil {
		log.Printf("Warning: Some foreign keys could not be created: %v", err)
	}

	// Add custom constraints that GORM doesn't handle
	log.Println("Adding custom constraints...")
	if err := AddCustomConstraints(db); err != nil {
		log.Printf("Warning: Some custom constraints could not be added: %v", err)
	}

	// Create indexes
	log.Println("Creating indexes...")
	if err := CreateIndexes(db); err != nil {
		log.Printf("Warning: Some indexes could not be created: %v", err)
	}

	log.Println("GORM AutoMigrate completed successfully")
	return nil
}

// CheckConnection verifies the database connection
func CheckConnection(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// Ping the database
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// CreateForeignKeys creates all foreign key constraints
func CreateForeignKeys(db *gorm.DB) error {
	foreignKeys := []struct {
		table     string
		name      string
		column    string
		refTable  string
		refColumn string
		onDelete  string
	}{
		// Ledger events belong to their account; the audit trail dies with it
		{"ledger_events", "fk_ledger_events_account", "account_id", "accounts", "account_id", "CASCADE"},

		// Redemption requests belong to their account, rewards are weak refs
		{"redemption_requests", "fk_redemption_requests_account", "account_id", "accounts", "account_id", "CASCADE"},
		{"redemption_requests", "fk_redemption_requests_reward", "reward_id", "rewards", "reward_id", ""},

		// Referrals reference two accounts
		{"referrals", "fk_referrals_referrer", "referrer_id", "accounts", "account_id", "CASCADE"},
		{"referrals", "fk_referrals_referee", "referee_id", "accounts", "account_id", "CASCADE"},
	}

	for _, fk := range foreignKeys {
		// Check if foreign key already exists
		var count int64
		db.Raw(`
			SELECT COUNT(*) FROM information_schema.table_constraints
			WHERE constraint_type = 'FOREIGN KEY'
			AND table_name = ?
			AND constraint_name = ?
		`, fk.table, fk.name).Scan(&count)

		if count > 0 {
			log.Printf("  ✓ Foreign key already exists: %s", fk.name)
			continue
		}

		query := fmt.Sprintf(
			"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
			fk.table, fk.name, fk.column, fk.refTable, fk.refColumn,
		)
		if fk.onDelete != "" {
			query += " ON DELETE " + fk.onDelete
		}

		if err := db.Exec(query).Error; err != nil {
			log.Printf("  ⚠ Failed to create foreign key %s: %v", fk.name, err)
		} else {
			log.Printf("  ✓ Created foreign key: %s", fk.name)
		}
	}

	return nil
}

// AddCustomConstraints adds database constraints that GORM doesn't handle automatically
func AddCustomConstraints(db *gorm.DB) error {
	constraints := []struct {
		name  string
		query string
	}{
		// The balance may never go negative, whatever the application does
		{"check_points_non_negative", "ALTER TABLE accounts ADD CONSTRAINT check_points_non_negative CHECK (current_points >= 0)"},

		// Redemption snapshots and reward costs are positive
		{"check_points_spent", "ALTER TABLE redemption_requests ADD CONSTRAINT check_points_spent CHECK (points_spent > 0)"},
		{"check_points_required", "ALTER TABLE rewards ADD CONSTRAINT check_points_required CHECK (points_required > 0)"},

		// Goal targets are positive, progress never negative
		{"check_goal_target", "ALTER TABLE community_goals ADD CONSTRAINT check_goal_target CHECK (target_points > 0)"},
		{"check_goal_progress", "ALTER TABLE community_goals ADD CONSTRAINT check_goal_progress CHECK (current_points >= 0)"},

		// One payout per referrer/referee pair
		{"unique_referral_pair", "ALTER TABLE referrals ADD CONSTRAINT unique_referral_pair UNIQUE (referrer_id, referee_id)"},
	}

	for _, c := range constraints {
		if err := db.Exec(c.query).Error; err != nil {
			// Check if constraint already exists (PostgreSQL error code 42710)
			if !strings.Contains(err.Error(), "already exists") && !strings.Contains(err.Error(), "42710") {
				log.Printf("  ⚠ Failed to add constraint %s: %v", c.name, err)
			}
		} else {
			log.Printf("  ✓ Added constraint: %s", c.name)
		}
	}

	return nil
}

// CreateIndexes creates performance indexes
func CreateIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// Ledger history is always read per account, newest first
		{"idx_ledger_events_account", "CREATE INDEX IF NOT EXISTS idx_ledger_events_account ON ledger_events(account_id, created_at)"},
		{"idx_ledger_events_kind", "CREATE INDEX IF NOT EXISTS idx_ledger_events_kind ON ledger_events(kind)"},

		// Settlement works off the pending queue
		{"idx_redemption_status", "CREATE INDEX IF NOT EXISTS idx_redemption_status ON redemption_requests(status)"},
		{"idx_redemption_account", "CREATE INDEX IF NOT EXISTS idx_redemption_account ON redemption_requests(account_id)"},
		{"idx_redemption_reward", "CREATE INDEX IF NOT EXISTS idx_redemption_reward ON redemption_requests(reward_id)"},

		// Catalog lookups
		{"idx_rewards_active", "CREATE INDEX IF NOT EXISTS idx_rewards_active ON rewards(active)"},
		{"idx_goals_active", "CREATE INDEX IF NOT EXISTS idx_goals_active ON community_goals(active)"},
	}

	successCount := 0
	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			log.Printf("  ⚠ Failed to create index %s: %v", idx.name, err)
		} else {
			log.Printf("  ✓ Created index: %s", idx.name)
			successCount++
		}
	}

	if successCount > 0 {
		log.Printf("Successfully created %d indexes", successCount)
	}

	return nil
}
