package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/database"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
)

// RewardList lists the reward catalog
func RewardList(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Model(&models.Reward{})
	if c.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}

	var rewards []models.Reward
	if err := query.Order("points_required").Find(&rewards).Error; err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"rewards": rewards,
	})
}

// RewardCreate adds a catalog entry
func RewardCreate(c *fiber.Ctx) error {
	var body struct {
		Name               string  `json:"name"`
		Description        string  `json:"description"`
		PointsRequired     int     `json:"points_required"`
		MembershipRequired *string `json:"membership_required"`
		Inventory          *int    `json:"inventory"`
		Active             *bool   `json:"active"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if body.Name == "" || body.PointsRequired <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name and a positive points_required are required",
		})
	}
	if body.MembershipRequired != nil && models.TierRank(*body.MembershipRequired) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "membership_required must be bronze, silver or gold",
		})
	}

	reward := models.Reward{
		Name:               body.Name,
		Description:        body.Description,
		PointsRequired:     body.PointsRequired,
		MembershipRequired: body.MembershipRequired,
		Inventory:          body.Inventory,
		Active:             true,
	}
	if body.Active != nil {
		reward.Active = *body.Active
	}

	if err := database.GetDB().Create(&reward).Error; err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(reward)
}

// RewardView returns one reward with its redemption counts
func RewardView(c *fiber.Ctx) error {
	rewardID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	db := database.GetDB()

	var reward models.Reward
	if err := db.First(&reward, "reward_id = ?", rewardID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "reward not found",
		})
	}

	var counts []struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	db.Raw(`
		SELECT status, COUNT(*) as count
		FROM redemption_requests
		WHERE reward_id = ?
		GROUP BY status
	`, rewardID).Scan(&counts)

	return c.JSON(fiber.Map{
		"reward":      reward,
		"redemptions": counts,
	})
}

// RewardUpdate edits a catalog entry. Point cost changes never touch
// already-created requests: those keep their snapshot.
func RewardUpdate(c *fiber.Ctx) error {
	rewardID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	db := database.GetDB()

	var reward models.Reward
	if err := db.First(&reward, "reward_id = ?", rewardID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "reward not found",
		})
	}

	var body struct {
		Name               *string `json:"name"`
		Description        *string `json:"description"`
		PointsRequired     *int    `json:"points_required"`
		MembershipRequired *string `json:"membership_required"`
		Inventory          *int    `json:"inventory"`
		Active             *bool   `json:"active"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if body.Name != nil {
		reward.Name = *body.Name
	}
	if body.Description != nil {
		reward.Description = *body.Description
	}
	if body.PointsRequired != nil {
		if *body.PointsRequired <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "points_required must be positive",
			})
		}
		reward.PointsRequired = *body.PointsRequired
	}
	if body.MembershipRequired != nil {
		if models.TierRank(*body.MembershipRequired) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "membership_required must be bronze, silver or gold",
			})
		}
		reward.MembershipRequired = body.MembershipRequired
	}
	if body.Inventory != nil {
		reward.Inventory = body.Inventory
	}
	if body.Active != nil {
		reward.Active = *body.Active
	}

	if err := db.Save(&reward).Error; err != nil {
		return fail(c, err)
	}

	return c.JSON(reward)
}

// RewardDelete removes a reward that was never redeemed; anything with
// history gets deactivated instead so the audit trail keeps its target
func RewardDelete(c *fiber.Ctx) error {
	rewardID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	db := database.GetDB()

	var count int64
	db.Model(&models.RedemptionRequest{}).Where("reward_id = ?", rewardID).Count(&count)

	if count > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "reward has redemption history; deactivate it instead",
		})
	}

	res := db.Exec("DELETE FROM rewards WHERE reward_id = ?", rewardID)
	if res.Error != nil {
		return fail(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "reward not found",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
