package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/database"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/loyalty"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
)

// AccountList lists accounts with their balances and tiers
func AccountList(c *fiber.Ctx) error {
	db := database.GetDB()

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	search := c.Query("search", "")
	offset := (page - 1) * limit

	query := db.Model(&models.Account{})
	if search != "" {
		query = query.Where("full_name LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return fail(c, err)
	}

	var accounts []models.Account
	err := query.Order("account_id").Limit(limit).Offset(offset).Find(&accounts).Error
	if err != nil {
		return fail(c, err)
	}

	totalPages := (totalCount + int64(limit) - 1) / int64(limit)

	return c.JSON(fiber.Map{
		"accounts": accounts,
		"pagination": fiber.Map{
			"current_page": page,
			"total_pages":  totalPages,
			"total_count":  totalCount,
			"limit":        limit,
		},
	})
}

// AccountCreate registers a new account
func AccountCreate(c *fiber.Ctx) error {
	var body struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if body.FullName == "" || body.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "full_name and email are required",
		})
	}

	account := models.Account{
		FullName:       body.FullName,
		Email:          body.Email,
		MembershipTier: models.TierBronze,
	}

	if err := database.GetDB().Create(&account).Error; err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(account)
}

// AccountView returns one account with balance, tier, recent ledger
// history and pending redemptions
func AccountView(c *fiber.Ctx) error {
	accountID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	db := database.GetDB()

	var account models.Account
	if err := db.First(&account, "account_id = ?", accountID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "account not found",
		})
	}

	events, err := svc.GetLedger(accountID, 20)
	if err != nil {
		return fail(c, err)
	}

	var pending []models.RedemptionRequest
	db.Where("account_id = ? AND status = ?", accountID, models.RedemptionPending).
		Order("created_at DESC").
		Find(&pending)

	return c.JSON(fiber.Map{
		"account":             account,
		"ledger":              events,
		"pending_redemptions": pending,
	})
}

// AccountDelete removes an account; its ledger and redemption history
// cascade with it
func AccountDelete(c *fiber.Ctx) error {
	accountID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	db := database.GetDB()

	res := db.Exec("DELETE FROM accounts WHERE account_id = ?", accountID)
	if res.Error != nil {
		return fail(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "account not found",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// AccountLedger returns the account's ledger events, newest first
func AccountLedger(c *fiber.Ctx) error {
	accountID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	limit := c.QueryInt("limit", 50)
	events, err := svc.GetLedger(accountID, limit)
	if err != nil {
		return fail(c, err)
	}

	balance, err := svc.GetBalance(accountID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"balance": balance,
		"events":  events,
	})
}

// AccountEarn appends an earn or adjustment event (admin tool)
func AccountEarn(c *fiber.Ctx) error {
	accountID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	var body struct {
		Kind   string `json:"kind"`
		Points int    `json:"points"`
		Note   string `json:"note"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if body.Kind == "" {
		body.Kind = models.EventEarn
	}

	event, err := svc.AppendEvent(accountID, body.Kind, body.Points, loyalty.EventOptions{
		Note: body.Note,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(event)
}

// AccountVisit records a store visit and pays visit points
func AccountVisit(c *fiber.Ctx) error {
	accountID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	event, err := svc.RecordVisit(accountID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(event)
}

// AccountDowngradeCheck warns whether spending points would drop the tier
func AccountDowngradeCheck(c *fiber.Ctx) error {
	accountID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	points := c.QueryInt("points", 0)
	if points <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "points query parameter must be positive",
		})
	}

	balance, err := svc.GetBalance(accountID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(loyalty.WouldDowngrade(balance, points, svc.Thresholds()))
}

// AccountReconcile audits the balance against the event history
func AccountReconcile(c *fiber.Ctx) error {
	accountID, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}

	report, err := svc.ReconcileBalance(accountID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(report)
}

// paramID parses a numeric path parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// badParam answers 400 for an unparseable path parameter
func badParam(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid " + name + " parameter",
	})
}
