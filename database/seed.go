package database

import (
	"fmt"
	"log"
	"time"

	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
	"gorm.io/gorm"
)

// SeedData populates the database with sample loyalty data. Idempotent:
// it refuses to run when accounts already exist.
func SeedData(db *gorm.DB) error {
	var accountCount int64
	db.Model(&models.Account{}).Count(&accountCount)
	if accountCount > 0 {
		log.Println("Database already seeded, skipping")
		return nil
	}

	if err := seedRewards(db); err != nil {
		return fmt.Errorf("failed to seed rewards: %w", err)
	}
	if err := seedGoals(db); err != nil {
		return fmt.Errorf("failed to seed goals: %w", err)
	}
	if err := seedAccounts(db); err != nil {
		return fmt.Errorf("failed to seed accounts: %w", err)
	}

	log.Println("Seed data created successfully")
	return nil
}

func seedRewards(db *gorm.DB) error {
	silver := models.TierSilver
	gold := models.TierGold
	twenty := 20

	rewards := []models.Reward{
		{Name: "Free Espresso", Description: "A single shot on the house", PointsRequired: 50, Active: true},
		{Name: "Free Cappuccino", Description: "Any size, any milk", PointsRequired: 80, Active: true},
		{Name: "Pastry of the Day", Description: "Fresh from the morning bake", PointsRequired: 100, Active: true},
		{Name: "Bag of House Blend", Description: "250g whole beans", PointsRequired: 250, MembershipRequired: &silver, Active: true},
		{Name: "Private Cupping Session", Description: "One hour with the head roaster", PointsRequired: 500, MembershipRequired: &gold, Inventory: &twenty, Active: true},
		{Name: "Retired Mug", Description: "No longer available", PointsRequired: 150, Active: false},
	}

	for i := range rewards {
		if err := db.Create(&rewards[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("  ✓ Seeded %d rewards", len(rewards))
	return nil
}

func seedGoals(db *gorm.DB) error {
	nextMonth := time.Now().AddDate(0, 1, 0)

	goals := []models.CommunityGoal{
		{Name: "Neighborhood Mural", Description: "Fund the wall art outside the shop", TargetPoints: 5000, Active: true, ExpiresAt: &nextMonth},
		{Name: "Coffee for Shelters", Description: "Brew runs for the local shelters", TargetPoints: 2000, Active: true},
	}

	for i := range goals {
		if err := db.Create(&goals[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("  ✓ Seeded %d community goals", len(goals))
	return nil
}

func seedAccounts(db *gorm.DB) error {
	accounts := []models.Account{
		{FullName: "Maya Haddad", Email: "maya@example.com", CurrentPoints: 620, MembershipTier: models.TierGold, Visits: 87},
		{FullName: "Omar Khalil", Email: "omar@example.com", CurrentPoints: 340, MembershipTier: models.TierSilver, Visits: 42},
		{FullName: "Lina Farah", Email: "lina@example.com", CurrentPoints: 95, MembershipTier: models.TierBronze, Visits: 12},
		{FullName: "Sami Nasser", Email: "sami@example.com", CurrentPoints: 0, MembershipTier: models.TierBronze, Visits: 1},
	}

	for i := range accounts {
		if err := db.Create(&accounts[i]).Error; err != nil {
			return err
		}

		// Backfill a single adjustment so the ledger explains the
		// seeded balance and reconciliation holds from day one
		if accounts[i].CurrentPoints > 0 {
			event := models.LedgerEvent{
				EventCode: fmt.Sprintf("seed-%d", accounts[i].AccountID),
				AccountID: accounts[i].AccountID,
				Kind:      models.EventAdjustment,
				Points:    accounts[i].CurrentPoints,
				Note:      "opening balance",
			}
			if err := db.Create(&event).Error; err != nil {
				return err
			}
		}
	}

	log.Printf("  ✓ Seeded %d accounts", len(accounts))
	return nil
}
