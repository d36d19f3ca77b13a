package models

import "time"

// Ledger event kinds. Earn and adjustment add their signed points to the
// balance; redeem subtracts its positive magnitude.
const (
	EventEarn       = "earn"
	EventRedeem     = "redeem"
	EventAdjustment = "adjustment"
)

// LedgerEvent represents ledger_events table. Rows are append-only: they
// are never updated or deleted, corrections are compensating adjustment
// events. The full set of an account's events is its audit trail.
type LedgerEvent struct {
	EventID   uint      `gorm:"primaryKey;column:event_id" json:"event_id"`
	EventCode string    `gorm:"type:varchar(36);not null;unique" json:"event_code"`
	AccountID uint      `gorm:"not null;index" json:"account_id"`
	Kind      string    `gorm:"type:varchar(10);not null" json:"kind"`
	Points    int       `gorm:"not null" json:"points"`
	RewardID  *uint     `json:"reward_id,omitempty"`
	GoalID    *uint     `json:"goal_id,omitempty"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for LedgerEvent
func (LedgerEvent) TableName() string {
	return "ledger_events"
}

// SignedPoints returns the balance delta this event applied.
func (e *LedgerEvent) SignedPoints() int {
	if e.Kind == EventRedeem {
		return -e.Points
	}
	return e.Points
}
