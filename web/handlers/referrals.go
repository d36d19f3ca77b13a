package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/database"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
)

// ReferralCreate completes a referral and pays both bonuses. The bonus
// defaults to the program setting when the caller leaves it out.
func ReferralCreate(c *fiber.Ctx) error {
	var body struct {
		ReferrerID  uint `json:"referrer_id"`
		RefereeID   uint `json:"referee_id"`
		BonusPoints int  `json:"bonus_points"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if body.ReferrerID == 0 || body.RefereeID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "referrer_id and referee_id are required",
		})
	}
	if body.BonusPoints == 0 {
		body.BonusPoints = loyCfg.ReferralBonus
	}

	referral, err := svc.CompleteReferral(body.ReferrerID, body.RefereeID, body.BonusPoints)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(referral)
}

// ReferralList lists completed referrals with both account names
func ReferralList(c *fiber.Ctx) error {
	db := database.GetDB()

	var referrals []struct {
		models.Referral
		ReferrerName string `json:"referrer_name"`
		RefereeName  string `json:"referee_name"`
	}

	err := db.Raw(`
		SELECT
			r.*,
			referrer.full_name as referrer_name,
			referee.full_name as referee_name
		FROM referrals r
		JOIN accounts referrer ON r.referrer_id = referrer.account_id
		JOIN accounts referee ON r.referee_id = referee.account_id
		ORDER BY r.created_at DESC
	`).Scan(&referrals).Error
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"referrals": referrals,
	})
}
