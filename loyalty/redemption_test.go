package loyalty

import (
	"testing"

	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestRedemptionCreatesPending(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Request Test", 100)
	reward := createReward(t, svc, "Free Latte", 80)

	request, err := svc.RequestRedemption(account.AccountID, reward.RewardID)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionPending, request.Status)
	assert.Equal(t, 80, request.PointsSpent)
	assert.Nil(t, request.FulfilledAt)

	// Requesting holds nothing: the balance only moves at approval
	assert.Equal(t, 100, balanceOf(t, svc, account.AccountID))
}

func TestRequestRedemptionSnapshotsCost(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Snapshot Test", 100)
	reward := createReward(t, svc, "Free Latte", 80)

	request, err := svc.RequestRedemption(account.AccountID, reward.RewardID)
	require.NoError(t, err)

	// A catalog price change after the request does not touch the snapshot
	require.NoError(t, svc.db.Model(&models.Reward{}).
		Where("reward_id = ?", reward.RewardID).
		Update("points_required", 999).Error)

	require.NoError(t, svc.Approve(request.RedemptionID))
	assert.Equal(t, 20, balanceOf(t, svc, account.AccountID))
}

func TestRequestRedemptionUnknownReward(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "No Reward Test", 100)

	_, err := svc.RequestRedemption(account.AccountID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequestRedemptionUnknownAccount(t *testing.T) {
	svc := newTestService(t)
	reward := createReward(t, svc, "Free Latte", 80)

	_, err := svc.RequestRedemption(9999, reward.RewardID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequestRedemptionInactiveReward(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Inactive Test", 100)
	reward := createReward(t, svc, "Retired Mug", 50)

	require.NoError(t, svc.db.Model(&models.Reward{}).
		Where("reward_id = ?", reward.RewardID).
		Update("active", false).Error)

	_, err := svc.RequestRedemption(account.AccountID, reward.RewardID)
	assert.ErrorIs(t, err, ErrRewardInactive)
}

func TestRequestRedemptionSoldOut(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Sold Out Test", 100)
	reward := createReward(t, svc, "Limited Tumbler", 50)

	none := 0
	require.NoError(t, svc.db.Model(&models.Reward{}).
		Where("reward_id = ?", reward.RewardID).
		Update("inventory", &none).Error)

	_, err := svc.RequestRedemption(account.AccountID, reward.RewardID)
	assert.ErrorIs(t, err, ErrRewardInactive)
}

func TestRequestRedemptionTierGate(t *testing.T) {
	svc := newTestService(t)
	silverAccount := createAccount(t, svc, "Silver Member", 300)
	goldAccount := createAccount(t, svc, "Gold Member", 600)

	gold := models.TierGold
	reward := createReward(t, svc, "Gold Exclusive", 50)
	require.NoError(t, svc.db.Model(&models.Reward{}).
		Where("reward_id = ?", reward.RewardID).
		Update("membership_required", &gold).Error)

	_, err := svc.RequestRedemption(silverAccount.AccountID, reward.RewardID)
	assert.ErrorIs(t, err, ErrTierGateNotMet)

	_, err = svc.RequestRedemption(goldAccount.AccountID, reward.RewardID)
	assert.NoError(t, err)
}

func TestRequestRedemptionInsufficientBalance(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Poor Test", 79)
	reward := createReward(t, svc, "Free Latte", 80)

	_, err := svc.RequestRedemption(account.AccountID, reward.RewardID)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestRequestRedemptionDuplicatePending(t *testing.T) {
	svc := newTestService(t)
	account := createAccount(t, svc, "Duplicate Test", 200)
	reward := createReward(t, svc, "Free Latte", 80)

	first, err := svc.RequestRedemption(account.AccountID, reward.RewardID)
	require.NoError(t, err)

	_, err = svc.RequestRedemption(account.AccountID, reward.RewardID)
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	// Once the first request settles, a new one is welcome again
	require.NoError(t, svc.Approve(first.RedemptionID))
	_, err = svc.RequestRedemption(account.AccountID, reward.RewardID)
	assert.NoError(t, err)
}

func TestGetRedemptionNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetRedemption(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
