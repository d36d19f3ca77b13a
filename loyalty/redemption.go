package loyalty

import (
	"errors"
	"fmt"

	"github.com/kurdim12/savvy-loyalty-system-blueprint-sub000/models"
	"gorm.io/gorm"
)

// RequestRedemption creates a pending redemption request for a reward.
//
// Points are NOT deducted here. The customer's balance is only touched
// when an admin approves the request, so a rejected request never needs a
// refund. The reward cost is snapshotted into the request and stays fixed
// even if the catalog price changes before settlement.
func (s *Service) RequestRedemption(accountID, rewardID uint) (*models.RedemptionRequest, error) {
	var reward models.Reward
	if err := s.db.First(&reward, "reward_id = ?", rewardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reward %d: %w", rewardID, ErrNotFound)
		}
		return nil, err
	}

	if !reward.Active {
		return nil, fmt.Errorf("reward %d is disabled: %w", rewardID, ErrRewardInactive)
	}
	if reward.Inventory != nil && *reward.Inventory <= 0 {
		return nil, fmt.Errorf("reward %d is sold out: %w", rewardID, ErrRewardInactive)
	}

	var account models.Account
	if err := s.db.First(&account, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("account %d: %w", accountID, ErrNotFound)
		}
		return nil, err
	}

	if reward.MembershipRequired != nil {
		tier := TierOf(account.CurrentPoints, s.thresholds)
		if models.TierRank(tier) < models.TierRank(*reward.MembershipRequired) {
			return nil, fmt.Errorf("reward requires %s, account is %s: %w",
				*reward.MembershipRequired, tier, ErrTierGateNotMet)
		}
	}

	// One pending request per account and reward; settlement is the place
	// where competing requests get resolved, not the queue.
	var pending int64
	err := s.db.Model(&models.RedemptionRequest{}).
		Where("account_id = ? AND reward_id = ? AND status = ?", accountID, rewardID, models.RedemptionPending).
		Count(&pending).Error
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, ErrDuplicateRequest
	}

	if account.CurrentPoints < reward.PointsRequired {
		return nil, fmt.Errorf("balance %d, reward costs %d: %w",
			account.CurrentPoints, reward.PointsRequired, ErrInsufficientBalance)
	}

	request := models.RedemptionRequest{
		AccountID:   accountID,
		RewardID:    rewardID,
		PointsSpent: reward.PointsRequired,
		Status:      models.RedemptionPending,
	}

	if err := s.db.Create(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to create redemption request: %w", err)
	}

	s.notify(accountID, fmt.Sprintf("Your redemption of %q is waiting for approval.", reward.Name))

	return &request, nil
}

// GetRedemption loads a redemption request by id.
func (s *Service) GetRedemption(redemptionID uint) (*models.RedemptionRequest, error) {
	var request models.RedemptionRequest
	if err := s.db.First(&request, "redemption_id = ?", redemptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("redemption %d: %w", redemptionID, ErrNotFound)
		}
		return nil, err
	}
	return &request, nil
}
