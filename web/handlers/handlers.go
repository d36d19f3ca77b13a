package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/config"
	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/loyalty"
)

var (
	svc    *loyalty.Service
	loyCfg config.LoyaltyConfig
)

// Setup wires the loyalty service into the handler package. Must be
// called before any route is served.
func Setup(service *loyalty.Service, cfg config.LoyaltyConfig) {
	svc = service
	loyCfg = cfg
}

// fail maps a loyalty error to an HTTP status and renders the standard
// error body. Admin authorization happened upstream; the only errors left
// here are domain ones.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, loyalty.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, loyalty.ErrAlreadyProcessed),
		errors.Is(err, loyalty.ErrDuplicateReferral),
		errors.Is(err, loyalty.ErrDuplicateRequest),
		errors.Is(err, loyalty.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, loyalty.ErrInvalidAmount):
		status = fiber.StatusBadRequest
	case errors.Is(err, loyalty.ErrInsufficientBalance),
		errors.Is(err, loyalty.ErrTierGateNotMet),
		errors.Is(err, loyalty.ErrRewardInactive),
		errors.Is(err, loyalty.ErrGoalExpiredOrInactive):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, loyalty.ErrPartialFailure):
		// Distinct so the UI can show "contact support" instead of a
		// retry button
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "partial_failure",
		})
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
