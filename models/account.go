package models

import "time"

// Membership tiers, ordered bronze < silver < gold.
const (
	TierBronze = "bronze"
	TierSilver = "silver"
	TierGold   = "gold"
)

// TierRank returns the ordering rank of a tier name. Unknown tiers rank
// below bronze so a corrupted value never satisfies a tier gate.
func TierRank(tier string) int {
	switch tier {
	case TierBronze:
		return 1
	case TierSilver:
		return 2
	case TierGold:
		return 3
	default:
		return 0
	}
}

// Account represents accounts table
type Account struct {
	AccountID      uint      `gorm:"primaryKey;column:account_id" json:"account_id"`
	FullName       string    `gorm:"type:varchar(100);not null" json:"full_name"`
	Email          string    `gorm:"type:varchar(100);not null;unique" json:"email"`
	CurrentPoints  int       `gorm:"not null;default:0" json:"current_points"`
	MembershipTier string    `gorm:"type:varchar(10);not null;default:'bronze'" json:"membership_tier"`
	Visits         int       `gorm:"not null;default:0" json:"visits"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relationships - loaded on demand, never during migration
	LedgerEvents       []LedgerEvent       `gorm:"foreignKey:AccountID" json:"ledger_events,omitempty"`
	RedemptionRequests []RedemptionRequest `gorm:"foreignKey:AccountID" json:"redemption_requests,omitempty"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
