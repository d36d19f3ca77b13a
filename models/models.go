package models

// AllModels returns all model structs for auto-migration
// IMPORTANT: Order matters! Parent tables must be created before child tables
func AllModels() []interface{} {
	return []interface{}{
		// 1. Independent tables (no foreign keys)
		&Account{},
		&Reward{},
		&CommunityGoal{},

		// 2. Tables referencing the above
		&LedgerEvent{},       // depends on: Account (Reward/CommunityGoal are weak refs)
		&RedemptionRequest{}, // depends on: Account, Reward
		&Referral{},          // depends on: Account (twice)
	}
}
