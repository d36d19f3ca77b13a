package loyalty

import "github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"

// Thresholds holds the point totals at which the silver and gold tiers
// begin. Both bounds are inclusive: exactly at a threshold, the higher
// tier applies.
type Thresholds struct {
	SilverAt int
	GoldAt   int
}

// DefaultThresholds returns the stock program configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{SilverAt: 200, GoldAt: 550}
}

// TierOf maps a point total to a membership tier.
func TierOf(points int, t Thresholds) string {
	switch {
	case points >= t.GoldAt:
		return models.TierGold
	case points >= t.SilverAt:
		return models.TierSilver
	default:
		return models.TierBronze
	}
}

// DowngradeCheck reports whether spending points would drop the account
// into a lower tier.
type DowngradeCheck struct {
	WouldDowngrade bool   `json:"would_downgrade"`
	CurrentTier    string `json:"current_tier"`
	NewTier        string `json:"new_tier"`
}

// WouldDowngrade computes the tier before and after redeeming the given
// points. Advisory only: it is used to warn the customer before a
// redemption and never blocks one.
func WouldDowngrade(currentPoints, pointsToRedeem int, t Thresholds) DowngradeCheck {
	remaining := currentPoints - pointsToRedeem
	if remaining < 0 {
		remaining = 0
	}

	current := TierOf(currentPoints, t)
	next := TierOf(remaining, t)

	return DowngradeCheck{
		WouldDowngrade: current != next,
		CurrentTier:    current,
		NewTier:        next,
	}
}
