package models

import "time"

// Redemption request statuses. Pending is the only non-terminal state:
// exactly one transition to redeemed or expired is ever allowed.
const (
	RedemptionPending  = "pending"
	RedemptionRedeemed = "redeemed"
	RedemptionExpired  = "expired"
)

// RedemptionRequest represents redemption_requests table. PointsSpent is a
// snapshot of the reward cost at request time and is never recalculated,
// even if the reward's cost changes later.
type RedemptionRequest struct {
	RedemptionID uint       `gorm:"primaryKey;column:redemption_id" json:"redemption_id"`
	AccountID    uint       `gorm:"not null;index" json:"account_id"`
	RewardID     uint       `gorm:"not null;index" json:"reward_id"`
	PointsSpent  int        `gorm:"not null" json:"points_spent"`
	Status       string     `gorm:"type:varchar(10);not null;default:'pending'" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	FulfilledAt  *time.Time `json:"fulfilled_at,omitempty"`
}

// TableName specifies the table name for RedemptionRequest
func (RedemptionRequest) TableName() string {
	return "redemption_requests"
}
