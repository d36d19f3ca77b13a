package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/database"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
)

// HomePage returns the back-office dashboard numbers
func HomePage(c *fiber.Ctx) error {
	db := database.GetDB()

	var stats struct {
		Accounts           int64 `json:"accounts"`
		PointsOutstanding  int64 `json:"points_outstanding"`
		PendingRedemptions int64 `json:"pending_redemptions"`
		ActiveRewards      int64 `json:"active_rewards"`
		ActiveGoals        int64 `json:"active_goals"`
		LedgerEvents       int64 `json:"ledger_events"`
	}

	db.Model(&models.Account{}).Count(&stats.Accounts)
	db.Raw("SELECT COALESCE(SUM(current_points), 0) FROM accounts").Scan(&stats.PointsOutstanding)
	db.Model(&models.RedemptionRequest{}).Where("status = ?", models.RedemptionPending).Count(&stats.PendingRedemptions)
	db.Model(&models.Reward{}).Where("active = ?", true).Count(&stats.ActiveRewards)
	db.Model(&models.CommunityGoal{}).Where("active = ?", true).Count(&stats.ActiveGoals)
	db.Model(&models.LedgerEvent{}).Count(&stats.LedgerEvents)

	// Tier distribution for the dashboard chart
	var tiers []struct {
		MembershipTier string `json:"membership_tier"`
		Count          int64  `json:"count"`
	}
	db.Raw(`
		SELECT membership_tier, COUNT(*) as count
		FROM accounts
		GROUP BY membership_tier
		ORDER BY COUNT(*) DESC
	`).Scan(&tiers)

	return c.JSON(fiber.Map{
		"stats": stats,
		"tiers": tiers,
	})
}

// GetSQLLogs returns the recent SQL query log
func GetSQLLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	return c.JSON(fiber.Map{
		"queries": database.SQLLogger.GetRecentQueries(limit),
	})
}

// ClearSQLLogs empties the SQL query log
func ClearSQLLogs(c *fiber.Ctx) error {
	database.SQLLogger.Clear()
	return c.SendStatus(fiber.StatusOK)
}
