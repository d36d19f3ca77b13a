package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/database"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
)

// RedemptionCreate files a redemption request for a reward. Points stay
// untouched until an admin approves.
func RedemptionCreate(c *fiber.Ctx) error {
	var body struct {
		AccountID uint `json:"account_id"`
		RewardID  uint `json:"reward_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if body.AccountID == 0 || body.RewardID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "account_id and reward_id are required",
		})
	}

	request, err := svc.RequestRedemption(body.AccountID, body.RewardID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

// RedemptionList lists redemption requests, filterable by status and
// account, joined with account and reward names for the admin queue
func RedemptionList(c *fiber.Ctx) error {
	db := database.GetDB()

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	status := c.Query("status", "")
	accountID := c.Query("account_id", "")
	offset := (page - 1) * limit

	query := `
		SELECT
			rr.redemption_id,
			rr.account_id,
			rr.reward_id,
			rr.points_spent,
			rr.status,
			rr.created_at,
			rr.fulfilled_at,
			a.full_name as account_name,
			r.name as reward_name
		FROM redemption_requests rr
		JOIN accounts a ON rr.account_id = a.account_id
		JOIN rewards r ON rr.reward_id = r.reward_id
		WHERE 1=1
	`
	args := []interface{}{}

	if status != "" {
		query += " AND rr.status = ?"
		args = append(args, status)
	}
	if accountID != "" {
		query += " AND rr.account_id = ?"
		args = append(args, accountID)
	}

	query += " ORDER BY rr.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var requests []struct {
		models.RedemptionRequest
		AccountName string `json:"account_name"`
		RewardName  string `json:"reward_name"`
	}

	if err := db.Raw(query, args...).Scan(&requests).Error; err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"redemptions": requests,
	})
}

// RedemptionView returns one request
func RedemptionView(c *fiber.Ctx) error {
	redemptionID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	request, err := svc.GetRedemption(redemptionID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(request)
}

// RedemptionApprove settles a pending request: marks it redeemed and
// deducts the snapshotted points (admin only, authorized upstream)
func RedemptionApprove(c *fiber.Ctx) error {
	redemptionID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	if err := svc.Approve(redemptionID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"redemption_id": redemptionID,
		"status":        models.RedemptionRedeemed,
	})
}

// RedemptionReject expires a pending request without touching the ledger
func RedemptionReject(c *fiber.Ctx) error {
	redemptionID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	if err := svc.Reject(redemptionID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"redemption_id": redemptionID,
		"status":        models.RedemptionExpired,
	})
}
