package models

import "time"

// Referral statuses
const (
	ReferralCompleted = "completed"
)

// Referral represents referrals table. The (referrer_id, referee_id) pair
// is unique so a referral can only ever pay out once.
type Referral struct {
	ReferralID   uint      `gorm:"primaryKey;column:referral_id" json:"referral_id"`
	ReferralCode string    `gorm:"type:varchar(36);not null;unique" json:"referral_code"`
	ReferrerID   uint      `gorm:"not null;uniqueIndex:idx_referral_pair" json:"referrer_id"`
	RefereeID    uint      `gorm:"not null;uniqueIndex:idx_referral_pair" json:"referee_id"`
	BonusPoints  int       `gorm:"not null" json:"bonus_points"`
	Status       string    `gorm:"type:varchar(10);not null;default:'completed'" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for Referral
func (Referral) TableName() string {
	return "referrals"
}
