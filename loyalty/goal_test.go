package loyalty

import (
	"testing"
	"time"

	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContributeToGoalMovesPoints(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Goal Test", 100)
	goal := createGoal(t, svc, "Community Cold Brew", 500)

	require.NoError(t, svc.ContributeToGoal(account.AccountID, goal.GoalID, 30))

	assert.Equal(t, 70, balanceOf(t, svc, account.AccountID))

	var reloaded models.CommunityGoal
	require.NoError(t, svc.db.First(&reloaded, "goal_id = ?", goal.GoalID).Error)
	assert.Equal(t, 30, reloaded.CurrentPoints)

	// The contribution is a redeem event attributed to the goal
	events, err := svc.GetLedger(account.AccountID, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventRedeem, events[0].Kind)
	require.NotNil(t, events[0].GoalID)
	assert.Equal(t, goal.GoalID, *events[0].GoalID)

	report, err := svc.ReconcileBalance(account.AccountID)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
}

func TestContributeToGoalAccumulates(t *testing.T) {
	svc := newTestService(t)
	first := createAccount(t, svc, "Goal Donor One", 100)
	second := createAccount(t, svc, "Goal Donor Two", 100)
	goal := createGoal(t, svc, "New Espresso Machine", 500)

	require.NoError(t, svc.ContributeToGoal(first.AccountID, goal.GoalID, 40))
	require.NoError(t, svc.ContributeToGoal(second.AccountID, goal.GoalID, 25))
	require.NoError(t, svc.ContributeToGoal(first.AccountID, goal.GoalID, 10))

	var reloaded models.CommunityGoal
	require.NoError(t, svc.db.First(&reloaded, "goal_id = ?", goal.GoalID).Error)
	assert.Equal(t, 75, reloaded.CurrentPoints)
}

func TestContributeToGoalInsufficientBalance(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Goal Broke", 10)
	goal := createGoal(t, svc, "Community Cold Brew", 500)

	err := svc.ContributeToGoal(account.AccountID, goal.GoalID, 11)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// Neither side moved
	assert.Equal(t, 10, balanceOf(t, svc, account.AccountID))

	var reloaded models.CommunityGoal
	require.NoError(t, svc.db.First(&reloaded, "goal_id = ?", goal.GoalID).Error)
	assert.Equal(t, 0, reloaded.CurrentPoints)
}

func TestContributeToGoalRejectsNonPositive(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Goal Zero", 100)
	goal := createGoal(t, svc, "Community Cold Brew", 500)

	assert.ErrorIs(t, svc.ContributeToGoal(account.AccountID, goal.GoalID, 0), ErrInvalidAmount)
	assert.ErrorIs(t, svc.ContributeToGoal(account.AccountID, goal.GoalID, -10), ErrInvalidAmount)
	assert.Equal(t, 100, balanceOf(t, svc, account.AccountID))
}

func TestContributeToGoalUnknownGoal(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Goal Lost", 100)

	err := svc.ContributeToGoal(account.AccountID, 9999, 10)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 100, balanceOf(t, svc, account.AccountID))
}

func TestContributeToGoalInactive(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Goal Closed", 100)
	goal := createGoal(t, svc, "Retired Goal", 500)

	require.NoError(t, svc.db.Model(&models.CommunityGoal{}).
		Where("goal_id = ?", goal.GoalID).
		Update("active", false).Error)

	err := svc.ContributeToGoal(account.AccountID, goal.GoalID, 10)
	assert.ErrorIs(t, err, ErrGoalExpiredOrInactive)
	assert.Equal(t, 100, balanceOf(t, svc, account.AccountID))
}

func TestContributeToGoalExpired(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Goal Late", 100)
	goal := createGoal(t, svc, "Expired Goal", 500)

	yesterday := time.Now().Add(-24 * time.Hour)
	require.NoError(t, svc.db.Model(&models.CommunityGoal{}).
		Where("goal_id = ?", goal.GoalID).
		Update("expires_at", &yesterday).Error)

	err := svc.ContributeToGoal(account.AccountID, goal.GoalID, 10)
	assert.ErrorIs(t, err, ErrGoalExpiredOrInactive)

	// No deduction without a matching increment
	assert.Equal(t, 100, balanceOf(t, svc, account.AccountID))
	events, err := svc.GetLedger(account.AccountID, 0)
	require.NoError(t, err)
	assert.Len(t, events, 1) // the funding event only
}

func TestGoalOpen(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	open := models.CommunityGoal{Active: true}
	assert.True(t, open.Open(now))

	withDeadline := models.CommunityGoal{Active: true, ExpiresAt: &future}
	assert.True(t, withDeadline.Open(now))

	expired := models.CommunityGoal{Active: true, ExpiresAt: &past}
	assert.False(t, expired.Open(now))

	// Exactly at the deadline counts as expired
	atDeadline := models.CommunityGoal{Active: true, ExpiresAt: &now}
	assert.False(t, atDeadline.Open(now))

	inactive := models.CommunityGoal{Active: false, ExpiresAt: &future}
	assert.False(t, inactive.Open(now))
}
