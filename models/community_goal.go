package models

import "time"

// CommunityGoal represents community_goals table. CurrentPoints is the
// aggregate of contributions, maintained by atomic increments.
type CommunityGoal struct {
	GoalID        uint       `gorm:"primaryKey;column:goal_id" json:"goal_id"`
	Name          string     `gorm:"type:varchar(100);not null" json:"name"`
	Description   string     `gorm:"type:text" json:"description"`
	TargetPoints  int        `gorm:"not null" json:"target_points"`
	CurrentPoints int        `gorm:"not null;default:0" json:"current_points"`
	Active        bool       `gorm:"default:true" json:"active"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for CommunityGoal
func (CommunityGoal) TableName() string {
	return "community_goals"
}

// Open reports whether the goal accepts contributions at the given time.
func (g *CommunityGoal) Open(now time.Time) bool {
	if !g.Active {
		return false
	}
	if g.ExpiresAt != nil && !now.Before(*g.ExpiresAt) {
		return false
	}
	return true
}
