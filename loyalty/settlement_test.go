package loyalty

import (
	"errors"
	"sync"
	"testing"

	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveDeductsAndSettles(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Approve Test", 100)
	reward := createReward(t, svc, "Free Latte", 80)

	request, err := svc.RequestRedemption(account.AccountID, reward.RewardID)
	require.NoError(t, err)

	require.NoError(t, svc.Approve(request.RedemptionID))

	settled, err := svc.GetRedemption(request.RedemptionID)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionRedeemed, settled.Status)
	assert.NotNil(t, settled.FulfilledAt)

	assert.Equal(t, 20, balanceOf(t, svc, account.AccountID))
	assert.EqualValues(t, 1, redeemEventCount(t, svc, account.AccountID))

	report, err := svc.ReconcileBalance(account.AccountID)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
}

func TestApproveIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Idempotent Test", 100)
	reward := createReward(t, svc, "Free Latte", 80)

	request, err := svc.RequestRedemption(account.AccountID, reward.RewardID)
	require.NoError(t, err)

	require.NoError(t, svc.Approve(request.RedemptionID))

	err = svc.Approve(request.RedemptionID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	var processed *AlreadyProcessedError
	require.True(t, errors.As(err, &processed))
	assert.Equal(t, models.RedemptionRedeemed, processed.Status)

	// Exactly one deduction, no matter how often approval is retried
	assert.Equal(t, 20, balanceOf(t, svc, account.AccountID))
	assert.EqualValues(t, 1, redeemEventCount(t, svc, account.AccountID))
}

func TestApproveRollsBackWhenBalanceMoved(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Rollback Test", 100)
	reward := createReward(t, svc, "Free Latte", 80)

	request, err := svc.RequestRedemption(account.AccountID, reward.RewardID)
	require.NoError(t, err)

	// The balance drops below the snapshot between request and approval
	_, err = svc.AppendEvent(account.AccountID, models.EventRedeem, 40, EventOptions{Note: "spent elsewhere"})
	require.NoError(t, err)

	err = svc.Approve(request.RedemptionID)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// The failed settlement left no trace: still pending, nothing deducted
	reloaded, err := svc.GetRedemption(request.RedemptionID)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionPending, reloaded.Status)
	assert.Nil(t, reloaded.FulfilledAt)
	assert.Equal(t, 60, balanceOf(t, svc, account.AccountID))

	// Topping the balance back up makes the same request approvable
	_, err = svc.AppendEvent(account.AccountID, models.EventEarn, 40, EventOptions{})
	require.NoError(t, err)
	require.NoError(t, svc.Approve(request.RedemptionID))
	assert.Equal(t, 20, balanceOf(t, svc, account.AccountID))
}

func TestApproveConcurrentDoubleSpend(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Double Spend Test", 100)
	rewardA := createReward(t, svc, "Free Latte", 80)
	rewardB := createReward(t, svc, "Free Flat White", 80)

	requestA, err := svc.RequestRedemption(account.AccountID, rewardA.RewardID)
	require.NoError(t, err)
	requestB, err := svc.RequestRedemption(account.AccountID, rewardB.RewardID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, id := range []uint{requestA.RedemptionID, requestB.RedemptionID} {
		wg.Add(1)
		go func(redemptionID uint) {
			defer wg.Done()
			results <- svc.Approve(redemptionID)
		}(id)
	}
	wg.Wait()
	close(results)

	var approved, insufficient int
	for err := range results {
		switch {
		case err == nil:
			approved++
		case errors.Is(err, ErrInsufficientBalance):
			insufficient++
		default:
			t.Fatalf("unexpected settlement error: %v", err)
		}
	}

	// 100 points cannot fund two 80-point redemptions
	assert.Equal(t, 1, approved)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 20, balanceOf(t, svc, account.AccountID))
	assert.EqualValues(t, 1, redeemEventCount(t, svc, account.AccountID))

	report, err := svc.ReconcileBalance(account.AccountID)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
}

func TestApproveDecrementsInventory(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Inventory Test", 100)
	reward := createReward(t, svc, "Limited Tumbler", 50)

	one := 1
	require.NoError(t, svc.db.Model(&models.Reward{}).
		Where("reward_id = ?", reward.RewardID).
		Update("inventory", &one).Error)

	request, err := svc.RequestRedemption(account.AccountID, reward.RewardID)
	require.NoError(t, err)
	require.NoError(t, svc.Approve(request.RedemptionID))

	var reloaded models.Reward
	require.NoError(t, svc.db.First(&reloaded, "reward_id = ?", reward.RewardID).Error)
	require.NotNil(t, reloaded.Inventory)
	assert.Equal(t, 0, *reloaded.Inventory)

	// The last unit is gone: the next request bounces at the door
	other := createAccount(t, svc, "Too Late", 100)
	_, err = svc.RequestRedemption(other.AccountID, reward.RewardID)
	assert.ErrorIs(t, err, ErrRewardInactive)
}

func TestApproveWritesAuditNote(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Audit Test", 100)
	reward := createReward(t, svc, "Free Latte", 80)

	request, err := svc.RequestRedemption(account.AccountID, reward.RewardID)
	require.NoError(t, err)
	require.NoError(t, svc.Approve(request.RedemptionID))

	var notes int64
	require.NoError(t, svc.db.Model(&models.LedgerEvent{}).
		Where("account_id = ? AND kind = ? AND points = 0", account.AccountID, models.EventAdjustment).
		Count(&notes).Error)
	assert.EqualValues(t, 1, notes)

	// The zero-point note does not disturb reconciliation
	report, err := svc.ReconcileBalance(account.AccountID)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
}

func TestApproveUnknownRedemption(t *testing.T) {
	svc := newTestService(t)

	assert.ErrorIs(t, svc.Approve(9999), ErrNotFound)
}

func TestRejectLeavesLedgerAlone(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Reject Test", 100)
	reward := createReward(t, svc, "Free Latte", 80)

	request, err := svc.RequestRedemption(account.AccountID, reward.RewardID)
	require.NoError(t, err)

	require.NoError(t, svc.Reject(request.RedemptionID))

	settled, err := svc.GetRedemption(request.RedemptionID)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionExpired, settled.Status)
	assert.Nil(t, settled.FulfilledAt) // an expired request was never fulfilled

	// Nothing was held, so nothing is refunded
	assert.Equal(t, 100, balanceOf(t, svc, account.AccountID))
	assert.EqualValues(t, 0, redeemEventCount(t, svc, account.AccountID))
}

func TestRejectThenApproveReportsTerminalStatus(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Terminal Test", 100)
	reward := createReward(t, svc, "Free Latte", 80)

	request, err := svc.RequestRedemption(account.AccountID, reward.RewardID)
	require.NoError(t, err)
	require.NoError(t, svc.Reject(request.RedemptionID))

	err = svc.Approve(request.RedemptionID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	var processed *AlreadyProcessedError
	require.True(t, errors.As(err, &processed))
	assert.Equal(t, models.RedemptionExpired, processed.Status)

	assert.Equal(t, 100, balanceOf(t, svc, account.AccountID))
}

func TestWelcomeThroughSettlementScenario(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Scenario Test", 0)
	reward := createReward(t, svc, "Sticker Pack", 10)

	// Welcome bonus funds the account
	_, err := svc.AppendEvent(account.AccountID, models.EventEarn, 10, EventOptions{Note: "welcome bonus"})
	require.NoError(t, err)
	assert.Equal(t, 10, balanceOf(t, svc, account.AccountID))

	request, err := svc.RequestRedemption(account.AccountID, reward.RewardID)
	require.NoError(t, err)

	require.NoError(t, svc.Approve(request.RedemptionID))
	assert.Equal(t, 0, balanceOf(t, svc, account.AccountID))

	// A replayed approval changes nothing
	assert.ErrorIs(t, svc.Approve(request.RedemptionID), ErrAlreadyProcessed)
	assert.Equal(t, 0, balanceOf(t, svc, account.AccountID))

	report, err := svc.ReconcileBalance(account.AccountID)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
}
