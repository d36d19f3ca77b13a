package models

import "time"

// Reward represents rewards table
type Reward struct {
	RewardID           uint      `gorm:"primaryKey;column:reward_id" json:"reward_id"`
	Name               string    `gorm:"type:varchar(100);not null" json:"name"`
	Description        string    `gorm:"type:text" json:"description"`
	PointsRequired     int       `gorm:"not null" json:"points_required"`
	MembershipRequired *string   `gorm:"type:varchar(10)" json:"membership_required,omitempty"`
	Inventory          *int      `json:"inventory,omitempty"` // nil = unlimited
	Active             bool      `gorm:"default:true" json:"active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName specifies the table name for Reward
func (Reward) TableName() string {
	return "rewards"
}
