package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/database"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
)

// GoalList lists community goals with their progress
func GoalList(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Model(&models.CommunityGoal{})
	if c.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}

	var goals []models.CommunityGoal
	if err := query.Order("created_at DESC").Find(&goals).Error; err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"goals": goals,
	})
}

// GoalCreate adds a community goal
func GoalCreate(c *fiber.Ctx) error {
	var body struct {
		Name         string     `json:"name"`
		Description  string     `json:"description"`
		TargetPoints int        `json:"target_points"`
		ExpiresAt    *time.Time `json:"expires_at"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if body.Name == "" || body.TargetPoints <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name and a positive target_points are required",
		})
	}

	goal := models.CommunityGoal{
		Name:         body.Name,
		Description:  body.Description,
		TargetPoints: body.TargetPoints,
		ExpiresAt:    body.ExpiresAt,
		Active:       true,
	}

	if err := database.GetDB().Create(&goal).Error; err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(goal)
}

// GoalView returns one goal with progress and top contributors
func GoalView(c *fiber.Ctx) error {
	goalID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	db := database.GetDB()

	var goal models.CommunityGoal
	if err := db.First(&goal, "goal_id = ?", goalID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "goal not found",
		})
	}

	var contributors []struct {
		AccountID uint   `json:"account_id"`
		FullName  string `json:"full_name"`
		Points    int    `json:"points"`
	}
	db.Raw(`
		SELECT
			le.account_id,
			a.full_name,
			SUM(le.points) as points
		FROM ledger_events le
		JOIN accounts a ON le.account_id = a.account_id
		WHERE le.goal_id = ? AND le.kind = ?
		GROUP BY le.account_id, a.full_name
		ORDER BY SUM(le.points) DESC
		LIMIT 10
	`, goalID, models.EventRedeem).Scan(&contributors)

	progress := 0.0
	if goal.TargetPoints > 0 {
		progress = float64(goal.CurrentPoints) / float64(goal.TargetPoints) * 100
	}

	return c.JSON(fiber.Map{
		"goal":             goal,
		"progress_percent": progress,
		"top_contributors": contributors,
	})
}

// GoalUpdate edits a goal (activate/deactivate, retarget, extend)
func GoalUpdate(c *fiber.Ctx) error {
	goalID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	db := database.GetDB()

	var goal models.CommunityGoal
	if err := db.First(&goal, "goal_id = ?", goalID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "goal not found",
		})
	}

	var body struct {
		Name         *string    `json:"name"`
		Description  *string    `json:"description"`
		TargetPoints *int       `json:"target_points"`
		Active       *bool      `json:"active"`
		ExpiresAt    *time.Time `json:"expires_at"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if body.Name != nil {
		goal.Name = *body.Name
	}
	if body.Description != nil {
		goal.Description = *body.Description
	}
	if body.TargetPoints != nil {
		if *body.TargetPoints <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "target_points must be positive",
			})
		}
		goal.TargetPoints = *body.TargetPoints
	}
	if body.Active != nil {
		goal.Active = *body.Active
	}
	if body.ExpiresAt != nil {
		goal.ExpiresAt = body.ExpiresAt
	}

	if err := db.Save(&goal).Error; err != nil {
		return fail(c, err)
	}

	return c.JSON(goal)
}

// GoalContribute moves points from an account into the goal pool
func GoalContribute(c *fiber.Ctx) error {
	goalID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	var body struct {
		AccountID uint `json:"account_id"`
		Points    int  `json:"points"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if body.AccountID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "account_id is required",
		})
	}

	if err := svc.ContributeToGoal(body.AccountID, goalID, body.Points); err != nil {
		return fail(c, err)
	}

	var goal models.CommunityGoal
	if err := database.GetDB().First(&goal, "goal_id = ?", goalID).Error; err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"goal":    goal,
	})
}
